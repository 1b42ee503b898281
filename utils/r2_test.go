package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestR2KeyFromURL(t *testing.T) {
	orig := cdnBaseURL
	cdnBaseURL = "https://cdn.jamdevientos.com"
	t.Cleanup(func() { cdnBaseURL = orig })

	assert.Equal(t, "sheets/la_murga_dueto_tuba_20260504.pdf",
		R2KeyFromURL("https://cdn.jamdevientos.com/sheets/la_murga_dueto_tuba_20260504.pdf"))

	// Foreign or relative URLs are not ours to delete
	assert.Equal(t, "", R2KeyFromURL("https://elsewhere.example.com/sheets/x.pdf"))
	assert.Equal(t, "", R2KeyFromURL("/uploads/mus/local.mscz"))
	assert.Equal(t, "", R2KeyFromURL(""))
}

func TestR2KeyFromURLUnconfigured(t *testing.T) {
	orig := cdnBaseURL
	cdnBaseURL = ""
	t.Cleanup(func() { cdnBaseURL = orig })

	assert.Equal(t, "", R2KeyFromURL("https://cdn.jamdevientos.com/sheets/x.pdf"))
}
