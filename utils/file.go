package utils

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

const uploadsRoot = "uploads"

// EnsureUploadDir creates the local uploads directory if it doesn't exist.
// Large files (MuseScore sources) stay local; public assets go to R2.
func EnsureUploadDir() error {
	return os.MkdirAll(uploadsRoot, os.ModePerm)
}

// SaveFile writes the uploaded file to destPath, creating parent dirs.
func SaveFile(fileHeader *multipart.FileHeader, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), os.ModePerm); err != nil {
		return err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, file)
	return err
}

// GetUploadPath returns the path of a file inside the uploads directory.
func GetUploadPath(filename string) string {
	return filepath.Join(uploadsRoot, filename)
}
