package media

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
)

const mb = 1024 * 1024

// Tamaños de miniatura (lado máximo en píxeles).
var ThumbnailSizes = []int{150, 300, 600, 1200}

// Límites de la copia optimizada.
const (
	OptimizedMaxWidth  = 1920
	OptimizedMaxHeight = 1080
)

// UsageConfig reglas de almacenamiento por uso.
// Bucket vacío usa el bucket por defecto.
type UsageConfig struct {
	Bucket             string
	MaxFileSize        int64
	AllowedMimeTypes   []string // admite comodines tipo "image/*"
	GenerateThumbnails bool
	OptimizeImages     bool
}

var configs = map[string]UsageConfig{
	entity.UsageProductPrimary: {
		MaxFileSize:        5 * mb,
		AllowedMimeTypes:   []string{"image/jpeg", "image/png", "image/webp"},
		GenerateThumbnails: true,
		OptimizeImages:     true,
	},
	entity.UsageProductGallery: {
		MaxFileSize:        10 * mb,
		AllowedMimeTypes:   []string{"image/jpeg", "image/png", "image/webp", "image/gif"},
		GenerateThumbnails: true,
		OptimizeImages:     true,
	},
	entity.UsageProductDocument: {
		Bucket:           "documents",
		MaxFileSize:      50 * mb,
		AllowedMimeTypes: []string{"application/pdf", "application/msword", "text/plain"},
	},
	entity.UsageCategoryBanner: {
		MaxFileSize:        5 * mb,
		AllowedMimeTypes:   []string{"image/jpeg", "image/png", "image/webp"},
		GenerateThumbnails: true,
		OptimizeImages:     true,
	},
	entity.UsageUserAvatar: {
		MaxFileSize:        2 * mb,
		AllowedMimeTypes:   []string{"image/jpeg", "image/png", "image/webp"},
		GenerateThumbnails: true,
		OptimizeImages:     true,
	},
	entity.UsageGeneral: {
		MaxFileSize:      20 * mb,
		AllowedMimeTypes: []string{"image/*", "application/pdf", "text/*"},
	},
}

// ConfigFor devuelve la configuración del uso; desconocido = general.
func ConfigFor(usage string) UsageConfig {
	if c, ok := configs[usage]; ok {
		return c
	}
	return configs[entity.UsageGeneral]
}

// ValidUsage indica si el uso está configurado.
func ValidUsage(usage string) bool {
	_, ok := configs[usage]
	return ok
}

// Validate verifica tamaño y tipo MIME del archivo.
func (c UsageConfig) Validate(size int64, mimeType string) error {
	if size <= 0 {
		return domain.Invalid("el archivo está vacío")
	}
	if size > c.MaxFileSize {
		return domain.Invalid(fmt.Sprintf("el archivo excede el tamaño máximo de %dMB", c.MaxFileSize/mb))
	}
	if !c.allows(mimeType) {
		return domain.Invalid(fmt.Sprintf("tipo de archivo %q no permitido; permitidos: %s", mimeType, strings.Join(c.AllowedMimeTypes, ", ")))
	}
	return nil
}

func (c UsageConfig) allows(mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	for _, a := range c.AllowedMimeTypes {
		if a == mimeType {
			return true
		}
		if strings.HasSuffix(a, "/*") && strings.HasPrefix(mimeType, strings.TrimSuffix(a, "*")) {
			return true
		}
	}
	return false
}

// BucketOr bucket del uso o el bucket por defecto.
func (c UsageConfig) BucketOr(def string) string {
	if c.Bucket != "" {
		return c.Bucket
	}
	return def
}

// TypeFromMime clasifica el archivo por su MIME.
func TypeFromMime(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return entity.MediaImage
	case strings.HasPrefix(mimeType, "video/"):
		return entity.MediaVideo
	case strings.HasPrefix(mimeType, "audio/"):
		return entity.MediaAudio
	case mimeType == "application/pdf", mimeType == "application/msword", strings.HasPrefix(mimeType, "text/"):
		return entity.MediaDocument
	}
	return entity.MediaOther
}

// Extension extensión en minúsculas sin punto.
func Extension(fileName string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(fileName), "."))
}

// ObjectPath construye la ruta del objeto: {prefix}/{usage}/{unix ms}_{rand}.{ext}.
func ObjectPath(prefix, usage, ext string, now time.Time, random string) string {
	name := fmt.Sprintf("%d_%s", now.UnixMilli(), random)
	if ext != "" {
		name += "." + ext
	}
	return path.Join(prefix, usage, name)
}

// ThumbnailPath ruta de la miniatura junto al original: base_150.ext.
func ThumbnailPath(original string, size int, ext string) string {
	base := strings.TrimSuffix(original, path.Ext(original))
	return fmt.Sprintf("%s_%d.%s", base, size, ext)
}
