package utils

import (
	"strings"

	"github.com/gosimple/unidecode"

	"jamdevientos-api/models"
)

// Instruments that read bass clef, in both Spanish and English. Matching is
// by substring after accent folding, so "Trombón tenor" matches "trombon".
var bassClefInstruments = []string{
	"tuba",
	"fagot",
	"trombon",
	"bombardino",
	"contrabajo",
	"trombone",
	"bassoon",
	"euphonium",
	"bass",
}

// ClefForInstrument suggests the clef for an instrument's parts. Percussion
// reads treble by convention here; low brass and low woodwinds read bass.
func ClefForInstrument(name, family string) string {
	if family == models.FamilyPercussion {
		return models.ClefSol
	}

	folded := strings.ToLower(unidecode.Unidecode(name))
	for _, bass := range bassClefInstruments {
		if strings.Contains(folded, bass) {
			return models.ClefFa
		}
	}
	return models.ClefSol
}
