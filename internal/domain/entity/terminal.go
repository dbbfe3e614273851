package entity

// Terminal asocia un código de cliente con su territorio (片区) y región (大区).
// CustomerCode es único dentro de un store; el primer registro gana.
type Terminal struct {
	CustomerCode *string
	Territory    *string
	Region       *string
}
