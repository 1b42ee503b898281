package models

import (
	"time"
)

// Instrument tunings: the named transposition interval of the instrument.
const (
	TuningBb   = "Bb"
	TuningEb   = "Eb"
	TuningF    = "F"
	TuningC    = "C"
	TuningG    = "G"
	TuningD    = "D"
	TuningA    = "A"
	TuningE    = "E"
	TuningNone = "NONE"
)

// Instrument families
const (
	FamilyVientoMadera = "VIENTO_MADERA" // woodwinds
	FamilyVientoMetal  = "VIENTO_METAL"  // brass
	FamilyPercussion   = "PERCUSION"
)

// Instrument describes a band instrument and the tuning used to compute the
// written key of its parts.
type Instrument struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	Name   string `gorm:"not null;index" json:"name"`
	Family string `gorm:"type:varchar(20)" json:"family"`
	Tuning string `gorm:"type:varchar(10);default:'NONE'" json:"tuning"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
