package entity

import "time"

// Tipos de media.
const (
	MediaImage    = "image"
	MediaVideo    = "video"
	MediaDocument = "document"
	MediaAudio    = "audio"
	MediaOther    = "other"
)

// Usos de media (determinan límites y bucket).
const (
	UsageProductPrimary  = "product_primary"
	UsageProductGallery  = "product_gallery"
	UsageProductDocument = "product_document"
	UsageCategoryBanner  = "category_banner"
	UsageUserAvatar      = "user_avatar"
	UsageGeneral         = "general"
)

// Visibilidad.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// Media archivo almacenado en Supabase Storage y su metadata.
// Thumbnails mapea tamaño ("150", "300"...) a la ruta del objeto.
type Media struct {
	ID            string
	FileName      string
	FilePath      string
	BucketName    string
	FileSize      int64
	MimeType      string
	FileExtension string
	Width         *int
	Height        *int
	ProductID     *string
	CategoryID    *string
	MediaType     string
	UsageType     string
	IsPrimary     bool
	DisplayOrder  int
	AltText       string
	Caption       string
	Description   string
	Tags          []string
	Visibility    string
	IsActive      bool
	IsFeatured    bool
	Thumbnails    map[string]string
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ValidMediaType indica si t es un tipo de media conocido.
func ValidMediaType(t string) bool {
	switch t {
	case MediaImage, MediaVideo, MediaDocument, MediaAudio, MediaOther:
		return true
	}
	return false
}

// ObjectPaths rutas de todos los objetos del media (original y miniaturas).
func (m *Media) ObjectPaths() []string {
	paths := []string{m.FilePath}
	for _, p := range m.Thumbnails {
		if p != "" && p != m.FilePath {
			paths = append(paths, p)
		}
	}
	return paths
}
