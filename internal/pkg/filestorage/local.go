package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/emskillz/instructpoint/internal/pkg/logger"
)

// LocalStorage stores uploaded files on the local filesystem under a base
// directory, one subdirectory per file kind.
type LocalStorage struct {
	basePath string
	baseURL  string // Prepended to returned paths when set
}

// NewLocalStorage creates a new LocalStorage instance rooted at basePath.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &LocalStorage{basePath: basePath, baseURL: baseURL}, nil
}

// SaveFile saves an uploaded file under the given subdirectory with a
// collision-free generated name and returns its accessible path.
func (ls *LocalStorage) SaveFile(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	dirPath := filepath.Join(ls.basePath, subPath)
	if err := os.MkdirAll(dirPath, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	uniqueFilename := uuid.New().String() + filepath.Ext(fileHeader.Filename)
	dstPath := filepath.Join(dirPath, uniqueFilename)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	accessiblePath := filepath.ToSlash(filepath.Join("uploads", subPath, uniqueFilename))
	if ls.baseURL != "" {
		accessiblePath = strings.TrimRight(ls.baseURL, "/") + "/" + subPath + "/" + uniqueFilename
	}

	logger.Info().Str("filename", fileHeader.Filename).Str("savedAs", uniqueFilename).Msg("File saved")
	return accessiblePath, nil
}

// DeleteFile removes a stored file given its accessible path. Missing files
// are treated as already deleted.
func (ls *LocalStorage) DeleteFile(filePath string) error {
	if filePath == "" {
		return nil
	}

	parts := strings.Split(filepath.ToSlash(filePath), "/")
	filename := parts[len(parts)-1]
	if filename == "" || filename == "." {
		return fmt.Errorf("invalid file path: %s", filePath)
	}
	subPath := ""
	if len(parts) >= 2 {
		subPath = parts[len(parts)-2]
	}

	physicalPath := filepath.Join(ls.basePath, subPath, filename)
	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
		return nil
	}
	if err := os.Remove(physicalPath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
