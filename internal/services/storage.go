package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// StorageService stores uploaded listing photos on local disk under
// {uploadDir}/annonce/user/{annonceCode}/ and returns relative paths served
// under the public /uploads prefix.
type StorageService struct {
	UploadDir string
}

const (
	annonceRelativePrefix = "annonce/user/"
	maxFileSize           = 5 * 1024 * 1024
)

var allowedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true,
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

func NewStorageService() *StorageService {
	dir := os.Getenv("UPLOAD_DIR")
	if dir == "" {
		dir = "uploads/images"
	}
	return &StorageService{UploadDir: dir}
}

// StoreAnnoncePhotos writes the acceptable files and returns their relative
// paths. Oversized files and disallowed extensions are skipped, not errors.
func (s *StorageService) StoreAnnoncePhotos(annonceCode string, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	base := filepath.Join(s.UploadDir, "annonce", "user", annonceCode)
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	var paths []string
	for _, file := range files {
		if file == nil || file.Size == 0 || file.Filename == "" {
			continue
		}
		ext := strings.ToLower(filepath.Ext(file.Filename))
		if !allowedExtensions[ext] {
			continue
		}
		if file.Size > maxFileSize {
			continue
		}

		safeName := uuid.NewString()[:8] + "_" + unsafeFileChars.ReplaceAllString(file.Filename, "_")
		if err := s.saveFile(file, filepath.Join(base, safeName)); err != nil {
			return nil, err
		}
		paths = append(paths, annonceRelativePrefix+annonceCode+"/"+safeName)
	}
	return paths, nil
}

func (s *StorageService) saveFile(file *multipart.FileHeader, target string) error {
	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
