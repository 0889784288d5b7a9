// Package storage cliente de Supabase Storage para los archivos de media.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/jhoicas/pms-api/internal/application/ports"
)

// Config acceso al proyecto Supabase.
type Config struct {
	URL        string
	ServiceKey string
	HTTPClient *http.Client
}

// SupabaseStorage sube, borra y resuelve URLs públicas de objetos.
type SupabaseStorage struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

var _ ports.FileStorage = (*SupabaseStorage)(nil)

// NewSupabaseStorage construye el cliente. URL y ServiceKey son obligatorios.
func NewSupabaseStorage(cfg Config) (*SupabaseStorage, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("storage: URL requerida")
	}
	if cfg.ServiceKey == "" {
		return nil, fmt.Errorf("storage: service key requerida")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &SupabaseStorage{
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		serviceKey: cfg.ServiceKey,
		httpClient: httpClient,
	}, nil
}

// Upload sube data a bucket/path. No sobrescribe objetos existentes.
func (s *SupabaseStorage) Upload(ctx context.Context, bucket, path string, data []byte, contentType string) error {
	reqURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, url.PathEscape(bucket), escapePath(path))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("storage: crear request: %w", err)
	}
	s.setHeaders(req)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cache-Control", "max-age=3600")
	req.Header.Set("x-upsert", "false")

	status, body, err := s.do(req)
	if err != nil {
		return err
	}
	if status >= 400 {
		return fmt.Errorf("storage: upload %s/%s: %s", bucket, path, errorMessage(status, body))
	}
	return nil
}

// Remove borra los objetos indicados del bucket.
func (s *SupabaseStorage) Remove(ctx context.Context, bucket string, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	reqURL := fmt.Sprintf("%s/storage/v1/object/%s", s.baseURL, url.PathEscape(bucket))
	payload, err := json.Marshal(map[string][]string{"prefixes": paths})
	if err != nil {
		return fmt.Errorf("storage: serializar rutas: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, reqURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("storage: crear request: %w", err)
	}
	s.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	status, body, err := s.do(req)
	if err != nil {
		return err
	}
	if status >= 400 {
		return fmt.Errorf("storage: remove %s: %s", bucket, errorMessage(status, body))
	}
	return nil
}

// PublicURL URL pública del objeto (el bucket debe ser público).
func (s *SupabaseStorage) PublicURL(bucket, path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, bucket, path)
}

func (s *SupabaseStorage) setHeaders(req *http.Request) {
	req.Header.Set("apikey", s.serviceKey)
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("Accept", "application/json")
}

func (s *SupabaseStorage) do(req *http.Request) (int, []byte, error) {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("storage: http request: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("storage: leer respuesta: %w", err)
	}
	return resp.StatusCode, body, nil
}

// errorMessage extrae el mensaje de error de Supabase (message, error o statusCode).
func errorMessage(status int, body []byte) string {
	if gjson.ValidBytes(body) {
		res := gjson.GetManyBytes(body, "message", "error")
		for _, r := range res {
			if r.String() != "" {
				return r.String()
			}
		}
	}
	return fmt.Sprintf("status %d", status)
}

// escapePath escapa cada segmento conservando las barras.
func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
