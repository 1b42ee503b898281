package utils

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/gosimple/slug"
)

// ThemeBasedFilename builds a stable object name for an uploaded asset:
// {theme}_{versionType}_{sheetType}_{YYYYMMDD}{ext}. Empty parts are
// skipped; everything is slugified so keys stay URL- and filesystem-safe.
func ThemeBasedFilename(themeTitle, versionType, sheetType, originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))

	var parts []string
	for _, p := range []string{themeTitle, versionType, sheetType} {
		if p != "" {
			parts = append(parts, slug.Make(p))
		}
	}
	parts = append(parts, time.Now().Format("20060102"))

	return strings.ReplaceAll(strings.Join(parts, "_"), "-", "_") + ext
}
