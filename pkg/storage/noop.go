package storage

import (
	"context"
	"errors"
)

// ErrNotConfigured nenhum backend de armazenamento configurado.
var ErrNotConfigured = errors.New("storage: uploader não configurado")

// NoopUploader recusa todo upload.
type NoopUploader struct{}

// Upload sempre retorna ErrNotConfigured.
func (NoopUploader) Upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	return nil, ErrNotConfigured
}
