package store

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/visit-audit-api/internal/domain"
)

func TestRegistry_VacioNoEstaListo(t *testing.T) {
	r := NewRegistry(zerolog.Nop())

	h, err := r.Current()
	assert.Nil(t, h)
	assert.ErrorIs(t, err, domain.ErrNotReady)
	assert.Empty(t, r.Name())
}

func TestRegistry_PublishCierraElAnterior(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	first := &fakeHandle{name: "terminal_1"}
	second := &fakeHandle{name: "terminal_2"}

	r.Publish(first)
	r.Publish(second)

	assert.Equal(t, int32(1), first.closed.Load(), "el handle reemplazado debe cerrarse")
	assert.Equal(t, int32(0), second.closed.Load())

	h, err := r.Current()
	require.NoError(t, err)
	assert.Equal(t, "terminal_2", h.Name())
}

func TestRegistry_RepublicarElMismoNoLoCierra(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	h := &fakeHandle{name: "terminal_1"}

	r.Publish(h)
	r.Publish(h)

	assert.Equal(t, int32(0), h.closed.Load())
}

type panickyHandle struct{ fakeHandle }

func (h *panickyHandle) Close() { panic("boom") }

func TestRegistry_PanicAlCerrarSeIgnora(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	r.Publish(&panickyHandle{fakeHandle{name: "terminal_1"}})

	assert.NotPanics(t, func() { r.Publish(&fakeHandle{name: "terminal_2"}) })
	assert.Equal(t, "terminal_2", r.Name())
}

func TestRegistry_TakeDejaNotReady(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	h := &fakeHandle{name: "terminal_1"}
	r.Publish(h)

	taken := r.Take()
	assert.Same(t, h, taken)
	assert.Equal(t, int32(0), h.closed.Load(), "Take no cierra: el teardown lo hace")

	_, err := r.Current()
	assert.ErrorIs(t, err, domain.ErrNotReady)
	assert.Nil(t, r.Take())
}
