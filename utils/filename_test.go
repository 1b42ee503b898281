package utils_test

import (
	"strings"
	"testing"
	"time"

	"jamdevientos-api/utils"

	"github.com/stretchr/testify/assert"
)

func TestThemeBasedFilename(t *testing.T) {
	got := utils.ThemeBasedFilename("La Murga del Sur", "DUETO", "Trompeta Bb", "scan final.PDF")

	date := time.Now().Format("20060102")
	assert.Equal(t, "la_murga_del_sur_dueto_trompeta_bb_"+date+".pdf", got)
	assert.False(t, strings.ContainsAny(got, " áéíóúñ"))
}

func TestThemeBasedFilenameSkipsEmptyParts(t *testing.T) {
	got := utils.ThemeBasedFilename("Año Nuevo", "", "", "audio.mp3")
	date := time.Now().Format("20060102")
	assert.Equal(t, "ano_nuevo_"+date+".mp3", got)
}
