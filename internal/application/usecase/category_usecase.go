package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pms-api/internal/application/dto"
	"github.com/jhoicas/pms-api/internal/application/ports"
	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/catalog"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/repository"
	"github.com/jhoicas/pms-api/pkg/logger"
	"github.com/jhoicas/pms-api/pkg/slug"
)

// Claves de caché de categorías.
const (
	cacheKeyCategoryTree  = "categories:tree"
	cacheKeyCategoryStats = "categories:stats"
)

// CategoryUseCase CRUD de categorías, árbol y estadísticas (con caché).
type CategoryUseCase struct {
	repo  repository.CategoryRepository
	cache ports.Cache
	ttl   time.Duration
	log   *logger.Logger
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository, cache ports.Cache, ttl time.Duration, log *logger.Logger) *CategoryUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &CategoryUseCase{repo: repo, cache: cache, ttl: ttl, log: log.Named("categories")}
}

// Create crea una categoría; level y path se derivan del padre.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name es requerido")
	}
	s := strings.TrimSpace(in.Slug)
	if s == "" {
		s = slug.Make(name)
	}
	if err := uc.ensureSlugFree(ctx, s, ""); err != nil {
		return nil, err
	}
	parentID := emptyToNil(in.ParentID)
	parent, err := uc.parent(ctx, parentID)
	if err != nil {
		return nil, err
	}
	level, path := catalog.Placement(parent, s)
	now := time.Now()
	c := &entity.Category{
		ID:             uuid.New().String(),
		ParentID:       parentID,
		Name:           name,
		Slug:           s,
		Description:    in.Description,
		Level:          level,
		Path:           path,
		ImageURL:       in.ImageURL,
		Icon:           in.Icon,
		Color:          in.Color,
		SortOrder:      in.SortOrder,
		IsActive:       boolOr(in.IsActive, true),
		IsFeatured:     in.IsFeatured,
		SEOTitle:       in.SEOTitle,
		SEODescription: in.SEODescription,
		MetaKeywords:   in.MetaKeywords,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	uc.invalidate(ctx)
	return toCategoryResponse(c), nil
}

// GetByID obtiene una categoría por ID.
func (uc *CategoryUseCase) GetByID(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return toCategoryResponse(c), nil
}

// Update aplica cambios parciales. Cambiar slug o padre recalcula level/path de la rama.
func (uc *CategoryUseCase) Update(ctx context.Context, id string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	moved := false
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Invalid("name no puede estar vacío")
		}
		c.Name = name
	}
	if in.Slug != nil {
		s := strings.TrimSpace(*in.Slug)
		if s == "" {
			s = slug.Make(c.Name)
		}
		if s != c.Slug {
			if err := uc.ensureSlugFree(ctx, s, c.ID); err != nil {
				return nil, err
			}
			c.Slug = s
			moved = true
		}
	}
	var all []*entity.Category
	if in.ParentID != nil {
		newParent := emptyToNil(in.ParentID)
		if !sameParent(c.ParentID, newParent) {
			if newParent != nil {
				all, err = uc.repo.ListAll(ctx)
				if err != nil {
					return nil, err
				}
				if catalog.IsSelfOrDescendant(all, c.ID, *newParent) {
					return nil, domain.Invalid("una categoría no puede ser su propio padre ni colgar de una subcategoría suya")
				}
			}
			c.ParentID = newParent
			moved = true
		}
	}
	setString(&c.Description, in.Description)
	setString(&c.ImageURL, in.ImageURL)
	setString(&c.Icon, in.Icon)
	setString(&c.Color, in.Color)
	setInt(&c.SortOrder, in.SortOrder)
	setBool(&c.IsActive, in.IsActive)
	setBool(&c.IsFeatured, in.IsFeatured)
	setString(&c.SEOTitle, in.SEOTitle)
	setString(&c.SEODescription, in.SEODescription)
	setString(&c.MetaKeywords, in.MetaKeywords)

	if moved {
		parent, err := uc.parent(ctx, c.ParentID)
		if err != nil {
			return nil, err
		}
		c.Level, c.Path = catalog.Placement(parent, c.Slug)
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	if moved {
		uc.replaceDescendants(ctx, c, all)
	}
	uc.invalidate(ctx)
	return toCategoryResponse(c), nil
}

// replaceDescendants recalcula level/path de las subcategorías; los fallos solo se registran.
func (uc *CategoryUseCase) replaceDescendants(ctx context.Context, root *entity.Category, all []*entity.Category) {
	if all == nil {
		var err error
		if all, err = uc.repo.ListAll(ctx); err != nil {
			uc.log.Warn().Err(err).Str("category_id", root.ID).Msg("no se pudieron recalcular rutas de subcategorías")
			return
		}
	}
	children := map[string][]*entity.Category{}
	for _, c := range all {
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c)
		}
	}
	var walk func(parent *entity.Category)
	walk = func(parent *entity.Category) {
		for _, ch := range children[parent.ID] {
			ch.Level, ch.Path = catalog.Placement(parent, ch.Slug)
			ch.UpdatedAt = root.UpdatedAt
			if err := uc.repo.Update(ctx, ch); err != nil {
				uc.log.Warn().Err(err).Str("category_id", ch.ID).Msg("no se pudo actualizar la ruta de la subcategoría")
			}
			walk(ch)
		}
	}
	walk(root)
}

// Delete elimina una categoría sin subcategorías ni productos.
func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	children, err := uc.repo.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return domain.Invalid("no se puede eliminar una categoría con subcategorías")
	}
	products, err := uc.repo.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if products > 0 {
		return domain.Conflict("no se puede eliminar una categoría con productos asignados")
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.invalidate(ctx)
	return nil
}

// List lista categorías con filtros; sin parent_id devuelve el nivel superior.
func (uc *CategoryUseCase) List(ctx context.Context, q dto.CategoryListQuery) (*dto.CategoryListResponse, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = 20
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	f := repository.CategoryFilter{
		Search:     strings.TrimSpace(q.Search),
		IsActive:   q.IsActive,
		IsFeatured: q.IsFeatured,
		Level:      q.Level,
		SortBy:     q.SortBy,
		SortDesc:   strings.EqualFold(q.SortOrder, "desc"),
		Limit:      q.Limit,
		Offset:     (q.Page - 1) * q.Limit,
	}
	switch {
	case q.ParentID != "" && q.ParentID != "root":
		f.ParentID = q.ParentID
	case !q.AllLevels && q.Level == nil:
		f.RootOnly = true
	}
	list, total, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCategoryResponse(c))
	}
	pages := 0
	if q.Limit > 0 {
		pages = (total + q.Limit - 1) / q.Limit
	}
	return &dto.CategoryListResponse{Items: items, Total: total, Page: q.Page, Limit: q.Limit, TotalPages: pages}, nil
}

// Tree árbol completo de categorías (cacheado).
func (uc *CategoryUseCase) Tree(ctx context.Context) ([]dto.CategoryTreeNode, error) {
	var cached []dto.CategoryTreeNode
	if found, err := uc.cache.Get(ctx, cacheKeyCategoryTree, &cached); err != nil {
		uc.log.Warn().Err(err).Msg("caché de árbol no disponible")
	} else if found {
		return cached, nil
	}
	all, err := uc.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := toTreeNodes(catalog.BuildTree(all))
	if err := uc.cache.Set(ctx, cacheKeyCategoryTree, out, uc.ttl); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo cachear el árbol de categorías")
	}
	return out, nil
}

// Stats agregados de categorías (cacheado).
func (uc *CategoryUseCase) Stats(ctx context.Context) (*dto.CategoryStatsResponse, error) {
	var cached dto.CategoryStatsResponse
	if found, err := uc.cache.Get(ctx, cacheKeyCategoryStats, &cached); err == nil && found {
		return &cached, nil
	}
	s, err := uc.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	out := &dto.CategoryStatsResponse{
		Total:                  s.Total,
		Active:                 s.Active,
		Featured:               s.Featured,
		WithProducts:           s.WithProducts,
		AvgProductsPerCategory: float64(int(s.AvgProductsPerCategory*100+0.5)) / 100,
		MaxDepth:               s.MaxDepth,
		Recent:                 s.Recent,
	}
	if err := uc.cache.Set(ctx, cacheKeyCategoryStats, out, uc.ttl); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudieron cachear las estadísticas de categorías")
	}
	return out, nil
}

func (uc *CategoryUseCase) invalidate(ctx context.Context) {
	if err := uc.cache.Delete(ctx, cacheKeyCategoryTree, cacheKeyCategoryStats); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo invalidar la caché de categorías")
	}
}

func (uc *CategoryUseCase) ensureSlugFree(ctx context.Context, s, selfID string) error {
	existing, err := uc.repo.GetBySlug(ctx, s)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return domain.ErrDuplicateSlug
	}
	return nil
}

func (uc *CategoryUseCase) parent(ctx context.Context, id *string) (*entity.Category, error) {
	if id == nil {
		return nil, nil
	}
	p, err := uc.repo.GetByID(ctx, *id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.Invalid("la categoría padre no existe")
	}
	return p, nil
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func toTreeNodes(ns []*entity.CategoryNode) []dto.CategoryTreeNode {
	out := make([]dto.CategoryTreeNode, 0, len(ns))
	for _, n := range ns {
		c := n.Category
		out = append(out, dto.CategoryTreeNode{
			CategoryResponse: *toCategoryResponse(&c),
			Children:         toTreeNodes(n.Children),
		})
	}
	return out
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:             c.ID,
		ParentID:       c.ParentID,
		Name:           c.Name,
		Slug:           c.Slug,
		Description:    c.Description,
		Level:          c.Level,
		Path:           c.Path,
		ImageURL:       c.ImageURL,
		Icon:           c.Icon,
		Color:          c.Color,
		SortOrder:      c.SortOrder,
		IsActive:       c.IsActive,
		IsFeatured:     c.IsFeatured,
		SEOTitle:       c.SEOTitle,
		SEODescription: c.SEODescription,
		MetaKeywords:   c.MetaKeywords,
		ProductCount:   c.ProductCount,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
