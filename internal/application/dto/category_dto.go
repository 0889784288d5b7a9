package dto

import "time"

// CreateCategoryRequest entrada para crear una categoría.
type CreateCategoryRequest struct {
	Name           string  `json:"name" validate:"required,min=1,max=200"`
	Slug           string  `json:"slug"`
	Description    string  `json:"description"`
	ParentID       *string `json:"parent_id"`
	ImageURL       string  `json:"image_url"`
	Icon           string  `json:"icon"`
	Color          string  `json:"color"`
	SortOrder      int     `json:"sort_order"`
	IsActive       *bool   `json:"is_active"`
	IsFeatured     bool    `json:"is_featured"`
	SEOTitle       string  `json:"seo_title"`
	SEODescription string  `json:"seo_description"`
	MetaKeywords   string  `json:"meta_keywords"`
}

// UpdateCategoryRequest cambios parciales. ParentID "" mueve la categoría a la raíz.
type UpdateCategoryRequest struct {
	Name           *string `json:"name"`
	Slug           *string `json:"slug"`
	Description    *string `json:"description"`
	ParentID       *string `json:"parent_id"`
	ImageURL       *string `json:"image_url"`
	Icon           *string `json:"icon"`
	Color          *string `json:"color"`
	SortOrder      *int    `json:"sort_order"`
	IsActive       *bool   `json:"is_active"`
	IsFeatured     *bool   `json:"is_featured"`
	SEOTitle       *string `json:"seo_title"`
	SEODescription *string `json:"seo_description"`
	MetaKeywords   *string `json:"meta_keywords"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID             string    `json:"id"`
	ParentID       *string   `json:"parent_id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	Description    string    `json:"description"`
	Level          int       `json:"level"`
	Path           string    `json:"path"`
	ImageURL       string    `json:"image_url"`
	Icon           string    `json:"icon"`
	Color          string    `json:"color"`
	SortOrder      int       `json:"sort_order"`
	IsActive       bool      `json:"is_active"`
	IsFeatured     bool      `json:"is_featured"`
	SEOTitle       string    `json:"seo_title"`
	SEODescription string    `json:"seo_description"`
	MetaKeywords   string    `json:"meta_keywords"`
	ProductCount   int       `json:"product_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CategoryTreeNode nodo del árbol de categorías.
type CategoryTreeNode struct {
	CategoryResponse
	Children []CategoryTreeNode `json:"children"`
}

// CategoryListQuery filtros de GET /api/categories.
type CategoryListQuery struct {
	Search     string
	ParentID   string // "root" o vacío = nivel superior
	AllLevels  bool   // sin filtro de padre (cuando se filtra por level o search)
	IsActive   *bool
	IsFeatured *bool
	Level      *int
	SortBy     string
	SortOrder  string
	Page       int
	Limit      int
}

// CategoryListResponse lista paginada de categorías.
type CategoryListResponse struct {
	Items      []CategoryResponse `json:"items"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}

// CategoryStatsResponse agregados de categorías.
type CategoryStatsResponse struct {
	Total                  int     `json:"total"`
	Active                 int     `json:"active"`
	Featured               int     `json:"featured"`
	WithProducts           int     `json:"with_products"`
	AvgProductsPerCategory float64 `json:"avg_products_per_category"`
	MaxDepth               int     `json:"max_depth"`
	Recent                 int     `json:"recent"`
}
