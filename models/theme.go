package models

// Version types
const (
	VersionStandard      = "STANDARD"
	VersionEnsamble      = "ENSAMBLE"
	VersionDueto         = "DUETO"
	VersionGrupoReducido = "GRUPO_REDUCIDO"
)

// Sheet music part types
const (
	PartMelodiaPrincipal  = "MELODIA_PRINCIPAL"
	PartMelodiaSecundaria = "MELODIA_SECUNDARIA"
	PartArmonia           = "ARMONIA"
	PartBajo              = "BAJO"
)

// Clefs
const (
	ClefSol = "SOL" // treble
	ClefFa  = "FA"  // bass
)

// Version file types
const (
	FileStandardScore      = "STANDARD_SCORE"
	FileDuetoTransposition = "DUETO_TRANSPOSITION"
	FileEnsambleInstrument = "ENSAMBLE_INSTRUMENT"
)

// Theme is a song in the band's catalog, carrying its concert-pitch key.
type Theme struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Title       string `gorm:"not null;index" json:"title"`
	Artist      string `json:"artist"`
	Tonality    string `gorm:"type:varchar(10)" json:"tonality"` // one of the 24 keys, e.g. "C", "Am", "F#m"
	Description string `json:"description"`

	ImageURL string `json:"image_url"`
	AudioURL string `json:"audio_url"`

	Versions []Version `gorm:"foreignKey:ThemeID" json:"versions,omitempty"`

	Timestamps
}

// Version is one arrangement of a theme.
type Version struct {
	ID      string `gorm:"primaryKey;type:uuid" json:"id"`
	ThemeID string `gorm:"index;not null" json:"theme_id"`

	Title string `json:"title"`
	Type  string `gorm:"type:varchar(20);default:'STANDARD'" json:"type"`

	ImageURL    string `json:"image_url"`
	AudioURL    string `json:"audio_url"`
	MusFileURL  string `json:"mus_file_url"` // MuseScore source (.mscz/.mscx)
	Notes       string `json:"notes"`

	Theme        Theme         `gorm:"foreignKey:ThemeID" json:"-"`
	SheetMusic   []SheetMusic  `gorm:"foreignKey:VersionID" json:"sheet_music,omitempty"`
	VersionFiles []VersionFile `gorm:"foreignKey:VersionID" json:"version_files,omitempty"`

	Timestamps
}

// SheetMusic is one written part of a version for a specific instrument.
// RelativeTonality and Clef are computed at creation from the theme key and
// the instrument's tuning and name.
type SheetMusic struct {
	ID           string `gorm:"primaryKey;type:uuid" json:"id"`
	VersionID    string `gorm:"index:idx_sheet_version_instrument_type,unique;not null" json:"version_id"`
	InstrumentID string `gorm:"index:idx_sheet_version_instrument_type,unique;not null" json:"instrument_id"`
	Type         string `gorm:"index:idx_sheet_version_instrument_type,unique;type:varchar(20);default:'MELODIA_PRINCIPAL'" json:"type"`

	Clef             string `gorm:"type:varchar(10);default:'SOL'" json:"clef"`
	RelativeTonality string `gorm:"type:varchar(10)" json:"relative_tonality"` // written key for the instrument's part

	FileURL string `gorm:"not null" json:"file_url"`

	Version    Version    `gorm:"foreignKey:VersionID" json:"-"`
	Instrument Instrument `gorm:"foreignKey:InstrumentID" json:"-"`

	Timestamps
}

// VersionFile is a downloadable rendition of a version: the full standard
// score, a per-tuning dueto transposition, or a per-instrument ensamble part.
type VersionFile struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	VersionID string `gorm:"index;not null" json:"version_id"`

	FileType string `gorm:"type:varchar(30);not null" json:"file_type"`

	// Tuning applies to DUETO_TRANSPOSITION files: Bb, Eb, F, C or C_BASS
	// (C concert pitch in bass clef).
	Tuning string `gorm:"type:varchar(10)" json:"tuning,omitempty"`

	// InstrumentID applies to ENSAMBLE_INSTRUMENT files.
	InstrumentID *string `gorm:"index" json:"instrument_id,omitempty"`

	FileURL  string `gorm:"not null" json:"file_url"`
	AudioURL string `json:"audio_url,omitempty"`

	Version Version `gorm:"foreignKey:VersionID" json:"-"`

	Timestamps
}

// TuningCBass marks a concert-pitch part written in bass clef.
const TuningCBass = "C_BASS"
