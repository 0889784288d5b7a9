package dto

import "time"

// UploadMediaInput archivo subido por multipart más sus campos de formulario.
type UploadMediaInput struct {
	FileName   string
	MimeType   string
	Data       []byte
	ProductID  string
	CategoryID string
	MediaType  string
	UsageType  string
	AltText    string
	Caption    string
	IsPrimary  bool
	CreatedBy  string
}

// UpdateMediaRequest cambios parciales de PUT /api/media/:id.
type UpdateMediaRequest struct {
	AltText      *string   `json:"alt_text"`
	Caption      *string   `json:"caption"`
	Description  *string   `json:"description"`
	IsPrimary    *bool     `json:"is_primary"`
	DisplayOrder *int      `json:"display_order"`
	IsActive     *bool     `json:"is_active"`
	IsFeatured   *bool     `json:"is_featured"`
	Visibility   *string   `json:"visibility"`
	Tags         *[]string `json:"tags"`
}

// ReorderMediaRequest body de PUT /api/products/:id/media/order.
type ReorderMediaRequest struct {
	MediaIDs []string `json:"mediaIds"`
}

// MediaListQuery filtros de GET /api/media.
type MediaListQuery struct {
	ProductID  string
	CategoryID string
	MediaType  string
	UsageType  string
	Limit      int
	Offset     int
}

// MediaResponse salida de un media con sus URLs públicas.
type MediaResponse struct {
	ID            string            `json:"id"`
	FileName      string            `json:"file_name"`
	FilePath      string            `json:"file_path"`
	BucketName    string            `json:"bucket_name"`
	URL           string            `json:"url"`
	FileSize      int64             `json:"file_size"`
	MimeType      string            `json:"mime_type"`
	FileExtension string            `json:"file_extension"`
	Width         *int              `json:"width"`
	Height        *int              `json:"height"`
	ProductID     *string           `json:"product_id"`
	CategoryID    *string           `json:"category_id"`
	MediaType     string            `json:"media_type"`
	UsageType     string            `json:"usage_type"`
	IsPrimary     bool              `json:"is_primary"`
	DisplayOrder  int               `json:"display_order"`
	AltText       string            `json:"alt_text"`
	Caption       string            `json:"caption"`
	Description   string            `json:"description"`
	Tags          []string          `json:"tags"`
	Visibility    string            `json:"visibility"`
	IsActive      bool              `json:"is_active"`
	IsFeatured    bool              `json:"is_featured"`
	Thumbnails    map[string]string `json:"thumbnails"`
	CreatedBy     string            `json:"created_by"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// MediaListResponse salida paginada de media.
type MediaListResponse struct {
	Data  []MediaResponse `json:"data"`
	Total int             `json:"total"`
}
