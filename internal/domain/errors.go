package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Las capas inferiores los envuelven con fmt.Errorf("%w: ...: %w", ErrX, err);
// los handlers los clasifican con errors.Is.
var (
	ErrInvalidInput = errors.New("entrada inválida")
	ErrNotReady     = errors.New("no hay un store activo")
	ErrWrite        = errors.New("error de escritura en el store")
	ErrQuery        = errors.New("error de consulta en el store")
	ErrProvisioning = errors.New("error al aprovisionar el store")
	ErrTeardown     = errors.New("error al eliminar el store")
)
