package ports

import "context"

// FileStorage define el puerto de salida para el almacenamiento de objetos (Supabase Storage).
type FileStorage interface {
	Upload(ctx context.Context, bucket, path string, data []byte, contentType string) error
	Remove(ctx context.Context, bucket string, paths []string) error
	PublicURL(bucket, path string) string
}
