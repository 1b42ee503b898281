package utils_test

import (
	"testing"

	"jamdevientos-api/models"
	"jamdevientos-api/utils"

	"github.com/stretchr/testify/assert"
)

func TestClefForInstrument(t *testing.T) {
	cases := []struct {
		name   string
		family string
		want   string
	}{
		{"Trompeta", models.FamilyVientoMetal, models.ClefSol},
		{"Saxo alto", models.FamilyVientoMadera, models.ClefSol},
		{"Tuba", models.FamilyVientoMetal, models.ClefFa},
		{"Trombón tenor", models.FamilyVientoMetal, models.ClefFa}, // accent folded
		{"TROMBONE", models.FamilyVientoMetal, models.ClefFa},
		{"Fagot", models.FamilyVientoMadera, models.ClefFa},
		{"Contrabajo", models.FamilyVientoMadera, models.ClefFa},
		{"Bombardino", models.FamilyVientoMetal, models.ClefFa},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, utils.ClefForInstrument(tc.name, tc.family), tc.name)
	}
}

func TestClefForPercussionIsAlwaysTreble(t *testing.T) {
	// Even a "bass drum" reads treble here
	assert.Equal(t, models.ClefSol, utils.ClefForInstrument("Bombo bass drum", models.FamilyPercussion))
}
