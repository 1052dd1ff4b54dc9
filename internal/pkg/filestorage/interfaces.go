package filestorage

import "mime/multipart"

// Subdirectories used by the application
const (
	SubPathDocuments     = "documents"
	SubPathProfilePhotos = "profile-photos"
)

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// SaveFile saves a file into a subdirectory and returns its accessible path
	SaveFile(fileHeader *multipart.FileHeader, subPath string) (string, error)

	// DeleteFile removes a previously stored file. Deleting a missing file
	// is not an error.
	DeleteFile(filePath string) error
}
