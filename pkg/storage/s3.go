package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config bucket compatível com S3 (AWS, R2, MinIO)
type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	PublicURL string
}

// S3Uploader envia objetos via aws-sdk-go-v2.
type S3Uploader struct {
	client *s3.Client
	cfg    S3Config
}

// NewS3Uploader monta o cliente. Sem chaves, usa a cadeia padrão de credenciais.
func NewS3Uploader(ctx context.Context, cfg S3Config) (*S3Uploader, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("storage: bucket do S3 ausente")
	}
	if strings.TrimSpace(cfg.Region) == "" {
		return nil, errors.New("storage: região do S3 ausente")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: falha ao carregar configuração AWS: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Uploader{client: client, cfg: cfg}, nil
}

// Upload grava o objeto e devolve a URL pública.
func (u *S3Uploader) Upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	key := strings.TrimLeft(input.Key, "/")
	if key == "" {
		return nil, errors.New("storage: chave do objeto obrigatória")
	}
	if len(input.Body) == 0 {
		return nil, errors.New("storage: corpo vazio")
	}
	contentType := strings.TrimSpace(input.ContentType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	put := &s3.PutObjectInput{
		Bucket:      aws.String(u.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(input.Body),
		ContentType: aws.String(contentType),
	}
	if input.CacheControl != "" {
		put.CacheControl = aws.String(input.CacheControl)
	}

	out, err := u.client.PutObject(ctx, put)
	if err != nil {
		return nil, fmt.Errorf("storage: upload falhou: %w", err)
	}

	return &UploadResult{URL: u.publicURL(key), ETag: strings.Trim(aws.ToString(out.ETag), "\"")}, nil
}

func (u *S3Uploader) publicURL(key string) string {
	if u.cfg.PublicURL != "" {
		return strings.TrimRight(u.cfg.PublicURL, "/") + "/" + key
	}
	if u.cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(u.cfg.Endpoint, "/"), u.cfg.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.cfg.Bucket, u.cfg.Region, key)
}
