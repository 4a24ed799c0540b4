package storage

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalUploader grava os arquivos num diretório servido como estático.
type LocalUploader struct {
	root    string
	baseURL string
}

// NewLocalUploader garante que o diretório raiz existe.
func NewLocalUploader(root, baseURL string) (*LocalUploader, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("storage: diretório local ausente")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: falha ao criar %s: %w", root, err)
	}
	return &LocalUploader{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Upload grava Body em root/Key.
func (u *LocalUploader) Upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := filepath.ToSlash(filepath.Clean("/" + input.Key))
	key = strings.TrimPrefix(key, "/")
	if key == "" || key == "." {
		return nil, errors.New("storage: chave do objeto obrigatória")
	}
	if len(input.Body) == 0 {
		return nil, errors.New("storage: corpo vazio")
	}

	dst := filepath.Join(u.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(dst, input.Body, 0o644); err != nil {
		return nil, err
	}

	sum := md5.Sum(input.Body)
	url := key
	if u.baseURL != "" {
		url = u.baseURL + "/" + key
	}
	return &UploadResult{URL: url, ETag: hex.EncodeToString(sum[:])}, nil
}
