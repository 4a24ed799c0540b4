package storage

import (
	"context"
	"fmt"
	"net/url"

	"acompanhamento-obras/config"
)

// UploadInput objeto a gravar
type UploadInput struct {
	Key          string
	Body         []byte
	ContentType  string
	CacheControl string
}

// UploadResult referência do objeto gravado
type UploadResult struct {
	URL  string
	ETag string
}

// Uploader armazena blobs (fotos de conclusão).
type Uploader interface {
	Upload(ctx context.Context, input UploadInput) (*UploadResult, error)
}

// New escolhe o backend conforme storage.driver.
func New(ctx context.Context, cfg *config.StorageConfig) (Uploader, error) {
	switch cfg.Driver {
	case config.StorageLocal:
		return NewLocalUploader(cfg.LocalDir, cfg.PublicBaseURL)
	case config.StorageS3:
		return NewS3Uploader(ctx, S3Config{
			Endpoint:  cfg.Endpoint,
			Region:    cfg.Region,
			Bucket:    cfg.Bucket,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			PublicURL: cfg.PublicBaseURL,
		})
	case config.StorageNone, "":
		return NoopUploader{}, nil
	default:
		return nil, fmt.Errorf("storage: driver desconhecido %q", cfg.Driver)
	}
}

// PublicOrigin origem (esquema://host) de onde o navegador carrega as fotos.
// Vazio quando elas saem do próprio servidor ou quando não há armazenamento.
func PublicOrigin(cfg *config.StorageConfig) string {
	base := cfg.PublicBaseURL
	switch cfg.Driver {
	case config.StorageS3:
		if base == "" && cfg.Endpoint != "" {
			base = cfg.Endpoint
		}
		if base == "" {
			return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	case config.StorageLocal:
	default:
		return ""
	}

	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
