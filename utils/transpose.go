package utils

// Semitone position of each of the 24 keys relative to C. Minor keys share
// the pitch class of their tonic (Am = 9, same as A).
var keySemitones = map[string]int{
	"C": 0, "C#": 1, "D": 2, "D#": 3, "E": 4, "F": 5,
	"F#": 6, "G": 7, "G#": 8, "A": 9, "A#": 10, "B": 11,
	"Cm": 0, "C#m": 1, "Dm": 2, "D#m": 3, "Em": 4, "Fm": 5,
	"F#m": 6, "Gm": 7, "G#m": 8, "Am": 9, "A#m": 10, "Bm": 11,
}

// Semitones to ADD to the concert pitch to get the written pitch for each
// named tuning. A Bb instrument reading a C-major theme plays a written D.
var tuningOffsets = map[string]int{
	"C":    0,  // concert pitch
	"Bb":   2,  // major 2nd up (C -> D)
	"Eb":   9,  // major 6th up (C -> A)
	"F":    7,  // perfect 5th up (C -> G)
	"G":    5,  // perfect 4th up (some horn parts)
	"D":    10, // major 7th up (rare)
	"A":    3,  // minor 3rd up (rare)
	"E":    8,  // minor 6th up (rare)
	"NONE": 0,
}

var semitoneKeys = [12][2]string{
	{"C", "Cm"}, {"C#", "C#m"}, {"D", "Dm"}, {"D#", "D#m"},
	{"E", "Em"}, {"F", "Fm"}, {"F#", "F#m"}, {"G", "Gm"},
	{"G#", "G#m"}, {"A", "Am"}, {"A#", "A#m"}, {"B", "Bm"},
}

// TransposeKey returns the written key for an instrument of the given tuning
// playing a theme in the given concert-pitch key. Major/minor quality is
// preserved. Unknown keys or tunings fall back to the input unchanged; a
// no-op result is never an error.
func TransposeKey(themeKey, tuning string) string {
	if themeKey == "" || tuning == "" {
		return themeKey
	}

	semitones, knownKey := keySemitones[themeKey]
	offset, knownTuning := tuningOffsets[tuning]
	if !knownKey || !knownTuning {
		return themeKey
	}

	written := (semitones + offset) % 12
	if isMinorKey(themeKey) {
		return semitoneKeys[written][1]
	}
	return semitoneKeys[written][0]
}

// KnownKey reports whether k is one of the 24 supported major/minor keys.
func KnownKey(k string) bool {
	_, ok := keySemitones[k]
	return ok
}

func isMinorKey(k string) bool {
	return len(k) > 1 && k[len(k)-1] == 'm'
}
