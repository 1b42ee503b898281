package services

import (
	"log"
	"path/filepath"
	"sort"

	"jamdevientos-api/models"
	"jamdevientos-api/utils"
	"jamdevientos-api/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// MusicService exposes the catalog: themes, instruments, versions, sheet
// music and downloadable version files. Methods are Fiber handlers.
type MusicService struct {
	DB       *gorm.DB
	Webhooks *workers.WebhookDispatcher
}

func NewMusicService(db *gorm.DB, webhooks *workers.WebhookDispatcher) *MusicService {
	return &MusicService{DB: db, Webhooks: webhooks}
}

// spanishCollator orders titles the way a Spanish-speaking band expects
// ("Ñandú" after "Nube", accents ignored for ranking).
var spanishCollator = collate.New(language.Spanish, collate.IgnoreCase)

// ===== Themes =====

// CreateTheme creates a theme from multipart form data. Image and audio go
// to R2; tonality must be one of the 24 supported keys.
func (s *MusicService) CreateTheme(c *fiber.Ctx) error {
	title := c.FormValue("title")
	if title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title is required"})
	}

	tonality := c.FormValue("tonality")
	if tonality != "" && !utils.KnownKey(tonality) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unknown tonality",
			"cause": tonality,
		})
	}

	theme := &models.Theme{
		ID:          uuid.NewString(),
		Title:       title,
		Artist:      c.FormValue("artist"),
		Tonality:    tonality,
		Description: c.FormValue("description"),
	}

	if imageFile, err := c.FormFile("image"); err == nil && imageFile.Size > 0 {
		key := "themes/" + utils.ThemeBasedFilename(title, "", "cover", imageFile.Filename)
		url, err := utils.UploadFileToR2(imageFile, key)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to upload theme image",
				"cause": err.Error(),
			})
		}
		theme.ImageURL = url
	}
	if audioFile, err := c.FormFile("audio"); err == nil && audioFile.Size > 0 {
		key := "themes/" + utils.ThemeBasedFilename(title, "", "audio", audioFile.Filename)
		url, err := utils.UploadFileToR2(audioFile, key)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to upload theme audio",
				"cause": err.Error(),
			})
		}
		theme.AudioURL = url
	}

	if err := s.DB.Create(theme).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	s.Webhooks.Publish("Theme", theme.ID, map[string]interface{}{
		"title":    theme.Title,
		"artist":   theme.Artist,
		"tonality": theme.Tonality,
	})

	log.Printf("🎼 Theme created: %s (%s)", theme.Title, theme.Tonality)
	return c.Status(fiber.StatusCreated).JSON(theme)
}

// ListThemes returns all themes ordered with Spanish collation.
func (s *MusicService) ListThemes(c *fiber.Ctx) error {
	var themes []models.Theme
	if err := s.DB.Find(&themes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	sort.SliceStable(themes, func(i, j int) bool {
		return spanishCollator.CompareString(themes[i].Title, themes[j].Title) < 0
	})

	return c.JSON(themes)
}

// GetTheme returns one theme with its versions and their files.
func (s *MusicService) GetTheme(c *fiber.Ctx) error {
	var theme models.Theme
	err := s.DB.
		Preload("Versions").
		Preload("Versions.SheetMusic").
		Preload("Versions.VersionFiles").
		First(&theme, "id = ?", c.Params("id")).Error
	if err == gorm.ErrRecordNotFound {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "theme not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(theme)
}

// UpdateTheme patches theme metadata from a JSON body.
func (s *MusicService) UpdateTheme(c *fiber.Ctx) error {
	var theme models.Theme
	if err := s.DB.First(&theme, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "theme not found"})
	}

	var body struct {
		Title       *string `json:"title"`
		Artist      *string `json:"artist"`
		Tonality    *string `json:"tonality"`
		Description *string `json:"description"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	if body.Tonality != nil && *body.Tonality != "" && !utils.KnownKey(*body.Tonality) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unknown tonality",
			"cause": *body.Tonality,
		})
	}

	if body.Title != nil {
		theme.Title = *body.Title
	}
	if body.Artist != nil {
		theme.Artist = *body.Artist
	}
	if body.Tonality != nil {
		theme.Tonality = *body.Tonality
	}
	if body.Description != nil {
		theme.Description = *body.Description
	}

	if err := s.DB.Save(&theme).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(theme)
}

// DeleteTheme soft-deletes a theme.
func (s *MusicService) DeleteTheme(c *fiber.Ctx) error {
	result := s.DB.Delete(&models.Theme{}, "id = ?", c.Params("id"))
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": result.Error.Error()})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "theme not found"})
	}
	return c.JSON(fiber.Map{"message": "theme deleted"})
}

// ===== Instruments =====

// CreateInstrument registers an instrument with its transposition tuning.
func (s *MusicService) CreateInstrument(c *fiber.Ctx) error {
	var body struct {
		Name   string `json:"name"`
		Family string `json:"family"`
		Tuning string `json:"tuning"`
	}
	if err := c.BodyParser(&body); err != nil || body.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}
	if body.Tuning == "" {
		body.Tuning = models.TuningNone
	}

	instrument := &models.Instrument{
		ID:     uuid.NewString(),
		Name:   body.Name,
		Family: body.Family,
		Tuning: body.Tuning,
	}
	if err := s.DB.Create(instrument).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	s.Webhooks.Publish("Instrument", instrument.ID, map[string]interface{}{
		"name":   instrument.Name,
		"tuning": instrument.Tuning,
	})

	return c.Status(fiber.StatusCreated).JSON(instrument)
}

// ListInstruments returns all instruments ordered by name.
func (s *MusicService) ListInstruments(c *fiber.Ctx) error {
	var instruments []models.Instrument
	if err := s.DB.Order("name ASC").Find(&instruments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(instruments)
}

// DeleteInstrument removes an instrument.
func (s *MusicService) DeleteInstrument(c *fiber.Ctx) error {
	result := s.DB.Delete(&models.Instrument{}, "id = ?", c.Params("id"))
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": result.Error.Error()})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "instrument not found"})
	}
	return c.JSON(fiber.Map{"message": "instrument deleted"})
}

// ===== Versions =====

// CreateVersion adds an arrangement to a theme. The MuseScore source stays
// local (not a public asset); image and audio go to R2.
func (s *MusicService) CreateVersion(c *fiber.Ctx) error {
	var theme models.Theme
	if err := s.DB.First(&theme, "id = ?", c.Params("themeId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "theme not found"})
	}

	versionType := c.FormValue("type")
	if versionType == "" {
		versionType = models.VersionStandard
	}
	switch versionType {
	case models.VersionStandard, models.VersionEnsamble, models.VersionDueto, models.VersionGrupoReducido:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unknown version type",
			"cause": versionType,
		})
	}

	version := &models.Version{
		ID:      uuid.NewString(),
		ThemeID: theme.ID,
		Title:   c.FormValue("title"),
		Type:    versionType,
		Notes:   c.FormValue("notes"),
	}

	if musFile, err := c.FormFile("mus_file"); err == nil && musFile.Size > 0 {
		ext := filepath.Ext(musFile.Filename)
		localPath := utils.GetUploadPath("mus/" + uuid.NewString() + ext)
		if err := utils.SaveFile(musFile, localPath); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to save MuseScore file",
				"cause": err.Error(),
			})
		}
		version.MusFileURL = "/" + localPath
	}
	if imageFile, err := c.FormFile("image"); err == nil && imageFile.Size > 0 {
		key := "versions/" + utils.ThemeBasedFilename(theme.Title, versionType, "cover", imageFile.Filename)
		url, err := utils.UploadFileToR2(imageFile, key)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to upload version image",
				"cause": err.Error(),
			})
		}
		version.ImageURL = url
	}
	if audioFile, err := c.FormFile("audio"); err == nil && audioFile.Size > 0 {
		key := "versions/" + utils.ThemeBasedFilename(theme.Title, versionType, "audio", audioFile.Filename)
		url, err := utils.UploadFileToR2(audioFile, key)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to upload version audio",
				"cause": err.Error(),
			})
		}
		version.AudioURL = url
	}

	if err := s.DB.Create(version).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	s.Webhooks.Publish("Version", version.ID, map[string]interface{}{
		"theme_id": theme.ID,
		"theme":    theme.Title,
		"type":     version.Type,
	})

	log.Printf("🎺 Version created for %s: %s", theme.Title, version.Type)
	return c.Status(fiber.StatusCreated).JSON(version)
}

// GetVersion returns a version with its sheet music and files.
func (s *MusicService) GetVersion(c *fiber.Ctx) error {
	var version models.Version
	err := s.DB.
		Preload("SheetMusic").
		Preload("VersionFiles").
		First(&version, "id = ?", c.Params("id")).Error
	if err == gorm.ErrRecordNotFound {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "version not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(version)
}

// DeleteVersion removes a version and its dependent rows.
func (s *MusicService) DeleteVersion(c *fiber.Ctx) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		id := c.Params("id")
		if err := tx.Where("version_id = ?", id).Delete(&models.SheetMusic{}).Error; err != nil {
			return err
		}
		if err := tx.Where("version_id = ?", id).Delete(&models.VersionFile{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Version{}, "id = ?", id).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "version deleted"})
}

// ===== Sheet Music =====

// CreateSheetMusic uploads a written part for an instrument. Clef and the
// written (relative) tonality are stamped here from the instrument and the
// theme's concert-pitch key.
func (s *MusicService) CreateSheetMusic(c *fiber.Ctx) error {
	var version models.Version
	if err := s.DB.Preload("Theme").First(&version, "id = ?", c.Params("versionId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "version not found"})
	}

	var instrument models.Instrument
	if err := s.DB.First(&instrument, "id = ?", c.FormValue("instrument_id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "instrument not found"})
	}

	partType := c.FormValue("type")
	if partType == "" {
		partType = models.PartMelodiaPrincipal
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}

	key := "sheets/" + utils.ThemeBasedFilename(version.Theme.Title, version.Type, instrument.Name, file.Filename)
	fileURL, err := utils.UploadFileToR2(file, key)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to upload sheet music",
			"cause": err.Error(),
		})
	}

	sheet := &models.SheetMusic{
		ID:               uuid.NewString(),
		VersionID:        version.ID,
		InstrumentID:     instrument.ID,
		Type:             partType,
		Clef:             utils.ClefForInstrument(instrument.Name, instrument.Family),
		RelativeTonality: utils.TransposeKey(version.Theme.Tonality, instrument.Tuning),
		FileURL:          fileURL,
	}

	if err := s.DB.Create(sheet).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	log.Printf("🎵 Sheet music for %s (%s): %s in %s clef",
		version.Theme.Title, instrument.Name, sheet.RelativeTonality, sheet.Clef)
	return c.Status(fiber.StatusCreated).JSON(sheet)
}

// DeleteSheetMusic removes a written part and its uploaded file. A failed
// object deletion only logs; the row removal is what matters.
func (s *MusicService) DeleteSheetMusic(c *fiber.Ctx) error {
	var sheet models.SheetMusic
	if err := s.DB.First(&sheet, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "sheet music not found"})
	}

	if key := utils.R2KeyFromURL(sheet.FileURL); key != "" {
		if err := utils.DeleteFromR2(key); err != nil {
			log.Printf("⚠️  Failed to delete sheet music object %s: %v", key, err)
		}
	}

	if err := s.DB.Delete(&sheet).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "sheet music deleted"})
}

// ===== Version Files =====

// CreateVersionFile uploads a downloadable rendition of a version: the full
// score, a per-tuning dueto part, or a per-instrument ensamble part.
func (s *MusicService) CreateVersionFile(c *fiber.Ctx) error {
	var version models.Version
	if err := s.DB.Preload("Theme").First(&version, "id = ?", c.Params("versionId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "version not found"})
	}

	fileType := c.FormValue("file_type")
	switch fileType {
	case models.FileStandardScore, models.FileDuetoTransposition, models.FileEnsambleInstrument:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unknown file type",
			"cause": fileType,
		})
	}

	vf := &models.VersionFile{
		ID:        uuid.NewString(),
		VersionID: version.ID,
		FileType:  fileType,
		Tuning:    c.FormValue("tuning"),
	}
	if instrumentID := c.FormValue("instrument_id"); instrumentID != "" {
		vf.InstrumentID = &instrumentID
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}
	key := "files/" + utils.ThemeBasedFilename(version.Theme.Title, version.Type, fileType, file.Filename)
	fileURL, err := utils.UploadFileToR2(file, key)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to upload version file",
			"cause": err.Error(),
		})
	}
	vf.FileURL = fileURL

	if audioFile, err := c.FormFile("audio"); err == nil && audioFile.Size > 0 {
		audioKey := "files/" + utils.ThemeBasedFilename(version.Theme.Title, version.Type, fileType+"_audio", audioFile.Filename)
		audioURL, err := utils.UploadFileToR2(audioFile, audioKey)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to upload version file audio",
				"cause": err.Error(),
			})
		}
		vf.AudioURL = audioURL
	}

	if err := s.DB.Create(vf).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(vf)
}

// FileForInstrument picks the right downloadable file of a version for an
// instrument. Dueto versions match by mapped tuning (bass-clef instruments
// get the C_BASS part), ensamble versions match by instrument, everything
// else falls back to the standard score.
func (s *MusicService) FileForInstrument(c *fiber.Ctx) error {
	var version models.Version
	err := s.DB.Preload("VersionFiles").First(&version, "id = ?", c.Params("id")).Error
	if err == gorm.ErrRecordNotFound {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "version not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	var instrument models.Instrument
	if err := s.DB.First(&instrument, "id = ?", c.Query("instrument_id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "instrument not found"})
	}

	file := pickFileForInstrument(&version, &instrument)
	if file == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no file available for this instrument",
		})
	}
	return c.JSON(file)
}

// duetoTuning maps an instrument to the tuning of the dueto part it reads.
// Bass-clef instruments read the C_BASS part regardless of their tuning.
func duetoTuning(instrument *models.Instrument) string {
	if utils.ClefForInstrument(instrument.Name, instrument.Family) == models.ClefFa {
		return models.TuningCBass
	}
	switch instrument.Tuning {
	case models.TuningBb, models.TuningEb, models.TuningF:
		return instrument.Tuning
	default:
		return models.TuningC
	}
}

func pickFileForInstrument(version *models.Version, instrument *models.Instrument) *models.VersionFile {
	switch version.Type {
	case models.VersionDueto:
		wanted := duetoTuning(instrument)
		for i := range version.VersionFiles {
			vf := &version.VersionFiles[i]
			if vf.FileType == models.FileDuetoTransposition && vf.Tuning == wanted {
				return vf
			}
		}
	case models.VersionEnsamble:
		for i := range version.VersionFiles {
			vf := &version.VersionFiles[i]
			if vf.FileType == models.FileEnsambleInstrument &&
				vf.InstrumentID != nil && *vf.InstrumentID == instrument.ID {
				return vf
			}
		}
	}

	for i := range version.VersionFiles {
		if version.VersionFiles[i].FileType == models.FileStandardScore {
			return &version.VersionFiles[i]
		}
	}
	return nil
}
