package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"neurosurg/learning-app/internal/storage"
)

// --- Error Definitions ---
var (
	ErrUnsupportedMediaType = errors.New("only image and video uploads are supported")
	ErrUploadURLError       = errors.New("failed to generate upload URL")
)

// UploadURLResponse is returned to a client that asked to upload a
// media file. The client PUTs the file to UploadURL and then stores
// ObjectKey (or the resulting public URL) on the step or procedure.
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// MediaService hands out presigned URLs for step media and procedure
// thumbnails.
type MediaService interface {
	RequestUploadURL(ctx context.Context, userID int, contentType string) (*UploadURLResponse, error)
	DownloadURL(ctx context.Context, objectKey string) (string, error)
	DeleteMedia(ctx context.Context, objectKey string) error
}

type mediaService struct {
	fileStorage storage.FileStorage
}

// NewMediaService creates a new instance of mediaService.
func NewMediaService(fileStorage storage.FileStorage) MediaService {
	return &mediaService{fileStorage: fileStorage}
}

// RequestUploadURL validates the content type and returns a presigned
// PUT URL under a key namespaced to the uploading user.
func (s *mediaService) RequestUploadURL(ctx context.Context, userID int, contentType string) (*UploadURLResponse, error) {
	if !strings.HasPrefix(contentType, "image/") && !strings.HasPrefix(contentType, "video/") {
		return nil, ErrUnsupportedMediaType
	}

	fileExtension := ""
	if parts := strings.Split(contentType, "/"); len(parts) == 2 {
		fileExtension = parts[1]
	}
	objectKey := path.Join("media", strconv.Itoa(userID),
		fmt.Sprintf("%s.%s", uuid.NewString(), fileExtension))

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrUploadURLError
	}

	return &UploadURLResponse{
		UploadURL: uploadURL,
		ObjectKey: objectKey,
	}, nil
}

func (s *mediaService) DownloadURL(ctx context.Context, objectKey string) (string, error) {
	if objectKey == "" {
		return "", errors.New("object key is required")
	}
	return s.fileStorage.GeneratePresignedDownloadURL(ctx, objectKey, storage.DefaultPresignedURLExpiry)
}

func (s *mediaService) DeleteMedia(ctx context.Context, objectKey string) error {
	if objectKey == "" {
		return errors.New("object key is required")
	}
	return s.fileStorage.DeleteObject(ctx, objectKey)
}
