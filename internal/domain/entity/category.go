package entity

import "time"

// Category representa una categoría de productos (jerárquica).
// Path es la cadena de slugs desde la raíz, separados por "/".
type Category struct {
	ID             string
	ParentID       *string // nil si es raíz
	Name           string
	Slug           string
	Description    string
	Level          int
	Path           string
	ImageURL       string
	Icon           string
	Color          string
	SortOrder      int
	IsActive       bool
	IsFeatured     bool
	SEOTitle       string
	SEODescription string
	MetaKeywords   string
	ProductCount   int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CategoryNode nodo del árbol de categorías.
type CategoryNode struct {
	Category
	Children []*CategoryNode
}

// CategoryStats agregados globales de categorías.
type CategoryStats struct {
	Total                  int
	Active                 int
	Featured               int
	WithProducts           int
	AvgProductsPerCategory float64
	MaxDepth               int
	Recent                 int
}
