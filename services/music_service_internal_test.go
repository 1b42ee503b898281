package services

import (
	"testing"

	"jamdevientos-api/models"

	"github.com/stretchr/testify/assert"
)

func TestDuetoTuning(t *testing.T) {
	cases := []struct {
		name   string
		family string
		tuning string
		want   string
	}{
		{"Trompeta", models.FamilyVientoMetal, models.TuningBb, models.TuningBb},
		{"Saxo alto", models.FamilyVientoMadera, models.TuningEb, models.TuningEb},
		{"Trompa", models.FamilyVientoMetal, models.TuningF, models.TuningF},
		{"Flauta", models.FamilyVientoMadera, models.TuningC, models.TuningC},
		// Unusual tunings read the concert part
		{"Corno", models.FamilyVientoMetal, models.TuningD, models.TuningC},
		// Bass clef instruments always get the bass part
		{"Tuba", models.FamilyVientoMetal, models.TuningC, models.TuningCBass},
		{"Trombón", models.FamilyVientoMetal, models.TuningC, models.TuningCBass},
	}
	for _, tc := range cases {
		instrument := &models.Instrument{Name: tc.name, Family: tc.family, Tuning: tc.tuning}
		assert.Equal(t, tc.want, duetoTuning(instrument), tc.name)
	}
}

func TestPickFileForInstrument(t *testing.T) {
	tubaID := "tuba-id"
	standard := models.VersionFile{ID: "std", FileType: models.FileStandardScore}
	duetoBb := models.VersionFile{ID: "bb", FileType: models.FileDuetoTransposition, Tuning: models.TuningBb}
	duetoBass := models.VersionFile{ID: "bass", FileType: models.FileDuetoTransposition, Tuning: models.TuningCBass}
	ensambleTuba := models.VersionFile{ID: "ens", FileType: models.FileEnsambleInstrument, InstrumentID: &tubaID}

	trumpet := &models.Instrument{Name: "Trompeta", Family: models.FamilyVientoMetal, Tuning: models.TuningBb}
	tuba := &models.Instrument{ID: tubaID, Name: "Tuba", Family: models.FamilyVientoMetal, Tuning: models.TuningC}

	dueto := &models.Version{
		Type:         models.VersionDueto,
		VersionFiles: []models.VersionFile{standard, duetoBb, duetoBass},
	}
	assert.Equal(t, "bb", pickFileForInstrument(dueto, trumpet).ID)
	assert.Equal(t, "bass", pickFileForInstrument(dueto, tuba).ID)

	ensamble := &models.Version{
		Type:         models.VersionEnsamble,
		VersionFiles: []models.VersionFile{standard, ensambleTuba},
	}
	assert.Equal(t, "ens", pickFileForInstrument(ensamble, tuba).ID)
	// No dedicated part: fall back to the standard score
	assert.Equal(t, "std", pickFileForInstrument(ensamble, trumpet).ID)

	plain := &models.Version{
		Type:         models.VersionStandard,
		VersionFiles: []models.VersionFile{standard},
	}
	assert.Equal(t, "std", pickFileForInstrument(plain, trumpet).ID)

	empty := &models.Version{Type: models.VersionDueto}
	assert.Nil(t, pickFileForInstrument(empty, trumpet))
}
