package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pms-api/internal/application/dto"
	"github.com/jhoicas/pms-api/internal/application/ports"
	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/repository"
	"github.com/jhoicas/pms-api/pkg/logger"
	"github.com/jhoicas/pms-api/pkg/slug"
)

const (
	productSearchMinLen = 2
	productSearchLimit  = 10
)

// ProductUseCase casos de uso del catálogo de productos.
type ProductUseCase struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
	media      repository.MediaRepository
	storage    ports.FileStorage // nil = sin limpieza de objetos
	log        *logger.Logger
}

// NewProductUseCase construye el caso de uso. storage puede ser nil.
func NewProductUseCase(
	repo repository.ProductRepository,
	categories repository.CategoryRepository,
	media repository.MediaRepository,
	storage ports.FileStorage,
	log *logger.Logger,
) *ProductUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ProductUseCase{repo: repo, categories: categories, media: media, storage: storage, log: log.Named("products")}
}

// Create crea un producto. El slug se genera del nombre si no viene.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	var msgs []string
	if name == "" {
		msgs = append(msgs, "name es requerido")
	}
	if in.CategoryID == "" {
		msgs = append(msgs, "category_id es requerido")
	}
	if in.BasePrice == nil {
		msgs = append(msgs, "base_price es requerido")
	} else if in.BasePrice.IsNegative() {
		msgs = append(msgs, "base_price no puede ser negativo")
	}
	if in.SellingPrice == nil {
		msgs = append(msgs, "selling_price es requerido")
	} else if in.SellingPrice.IsNegative() {
		msgs = append(msgs, "selling_price no puede ser negativo")
	}
	if in.Status != "" && !entity.ValidProductStatus(in.Status) {
		msgs = append(msgs, "status inválido")
	}
	if err := domain.NewValidationError(msgs); err != nil {
		return nil, err
	}
	if err := uc.ensureCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	now := time.Now()
	p := &entity.Product{
		ID:                 uuid.New().String(),
		Name:               name,
		Slug:               strings.TrimSpace(in.Slug),
		Description:        in.Description,
		ShortDescription:   in.ShortDescription,
		SKU:                strings.TrimSpace(in.SKU),
		Barcode:            in.Barcode,
		Brand:              in.Brand,
		CategoryID:         in.CategoryID,
		SupplierID:         emptyToNil(in.SupplierID),
		BasePrice:          *in.BasePrice,
		SellingPrice:       *in.SellingPrice,
		CostPrice:          in.CostPrice,
		DiscountPercentage: in.DiscountPercentage,
		TaxRate:            in.TaxRate,
		StockQuantity:      in.StockQuantity,
		MinStockLevel:      in.MinStockLevel,
		MaxStockLevel:      in.MaxStockLevel,
		TrackInventory:     boolOr(in.TrackInventory, true),
		RequiresShipping:   boolOr(in.RequiresShipping, true),
		IsDigital:          in.IsDigital,
		Weight:             in.Weight,
		Dimensions:         in.Dimensions,
		Tags:               in.Tags,
		Status:             in.Status,
		IsActive:           boolOr(in.IsActive, true),
		IsFeatured:         in.IsFeatured,
		FeaturedImageURL:   in.FeaturedImageURL,
		Attributes:         in.Attributes,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if p.Slug == "" {
		p.Slug = slug.Make(name)
	}
	if p.Status == "" {
		p.Status = entity.ProductStatusDraft
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return ToProductResponse(p), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return ToProductResponse(p), nil
}

// Update aplica cambios parciales. Si cambia el nombre sin slug explícito, regenera el slug.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Invalid("name no puede estar vacío")
		}
		if name != p.Name && in.Slug == nil {
			p.Slug = slug.Make(name)
		}
		p.Name = name
	}
	if in.Slug != nil && strings.TrimSpace(*in.Slug) != "" {
		p.Slug = strings.TrimSpace(*in.Slug)
	}
	if in.CategoryID != nil && *in.CategoryID != p.CategoryID {
		if err := uc.ensureCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		p.CategoryID = *in.CategoryID
	}
	if in.Status != nil {
		if !entity.ValidProductStatus(*in.Status) {
			return nil, domain.Invalid("status inválido")
		}
		p.Status = *in.Status
	}
	setString(&p.Description, in.Description)
	setString(&p.ShortDescription, in.ShortDescription)
	setString(&p.SKU, in.SKU)
	setString(&p.Barcode, in.Barcode)
	setString(&p.Brand, in.Brand)
	setString(&p.Dimensions, in.Dimensions)
	setString(&p.FeaturedImageURL, in.FeaturedImageURL)
	if in.SupplierID != nil {
		p.SupplierID = emptyToNil(in.SupplierID)
	}
	setDecimal(&p.BasePrice, in.BasePrice)
	setDecimal(&p.SellingPrice, in.SellingPrice)
	setDecimal(&p.CostPrice, in.CostPrice)
	setDecimal(&p.DiscountPercentage, in.DiscountPercentage)
	setDecimal(&p.TaxRate, in.TaxRate)
	if in.Weight != nil {
		p.Weight = in.Weight
	}
	setInt(&p.StockQuantity, in.StockQuantity)
	setInt(&p.MinStockLevel, in.MinStockLevel)
	if in.MaxStockLevel != nil {
		p.MaxStockLevel = in.MaxStockLevel
	}
	setBool(&p.TrackInventory, in.TrackInventory)
	setBool(&p.RequiresShipping, in.RequiresShipping)
	setBool(&p.IsDigital, in.IsDigital)
	setBool(&p.IsActive, in.IsActive)
	setBool(&p.IsFeatured, in.IsFeatured)
	if in.Tags != nil {
		p.Tags = in.Tags
	}
	if len(in.Attributes) > 0 {
		p.Attributes = in.Attributes
	}
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return ToProductResponse(p), nil
}

// List lista productos con filtros y paginación.
func (uc *ProductUseCase) List(ctx context.Context, q dto.ProductListQuery) (*dto.ProductListResponse, error) {
	f := repository.ProductFilter{
		Search:     strings.TrimSpace(q.Search),
		CategoryID: q.CategoryID,
		Status:     q.Status,
		IsActive:   q.IsActive,
		IsFeatured: q.IsFeatured,
		MinPrice:   q.MinPrice,
		MaxPrice:   q.MaxPrice,
		InStock:    q.InStock,
		SortBy:     q.SortBy,
		SortDesc:   strings.EqualFold(q.SortOrder, "desc"),
		Limit:      q.Limit,
		Offset:     q.Offset,
	}
	list, total, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// Search búsqueda rápida; consultas de menos de 2 caracteres devuelven lista vacía.
func (uc *ProductUseCase) Search(ctx context.Context, q string) ([]dto.ProductSearchResult, error) {
	q = strings.TrimSpace(q)
	out := make([]dto.ProductSearchResult, 0)
	if len([]rune(q)) < productSearchMinLen {
		return out, nil
	}
	list, err := uc.repo.Search(ctx, q, productSearchLimit)
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		out = append(out, dto.ProductSearchResult{
			ID:          p.ID,
			Name:        p.Name,
			SKU:         p.SKU,
			Price:       p.EffectivePrice(),
			Stock:       p.StockQuantity,
			Description: p.Description,
			Image:       p.FeaturedImageURL,
		})
	}
	return out, nil
}

// Delete elimina el producto. Los objetos de media se borran del storage sin bloquear la operación.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	uc.removeProductObjects(ctx, id)
	return uc.repo.Delete(ctx, id)
}

func (uc *ProductUseCase) removeProductObjects(ctx context.Context, productID string) {
	if uc.storage == nil || uc.media == nil {
		return
	}
	list, _, err := uc.media.List(ctx, repository.MediaFilter{ProductID: productID})
	if err != nil {
		uc.log.Warn().Err(err).Str("product_id", productID).Msg("no se pudo listar media del producto")
		return
	}
	removeMediaObjects(ctx, uc.storage, uc.log, list)
}

func (uc *ProductUseCase) ensureCategory(ctx context.Context, id string) error {
	c, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.Invalid("la categoría no existe")
	}
	return nil
}

// removeMediaObjects agrupa rutas por bucket y las borra; los fallos solo se registran.
func removeMediaObjects(ctx context.Context, storage ports.FileStorage, log *logger.Logger, list []*entity.Media) {
	byBucket := map[string][]string{}
	for _, m := range list {
		byBucket[m.BucketName] = append(byBucket[m.BucketName], m.ObjectPaths()...)
	}
	for bucket, paths := range byBucket {
		if err := storage.Remove(ctx, bucket, paths); err != nil {
			log.Warn().Err(err).Str("bucket", bucket).Int("objects", len(paths)).Msg("no se pudieron borrar objetos del storage")
		}
	}
}

// ToProductResponse convierte la entidad a su DTO.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return &dto.ProductResponse{
		ID:                 p.ID,
		Name:               p.Name,
		Slug:               p.Slug,
		Description:        p.Description,
		ShortDescription:   p.ShortDescription,
		SKU:                p.SKU,
		Barcode:            p.Barcode,
		Brand:              p.Brand,
		CategoryID:         p.CategoryID,
		CategoryName:       p.CategoryName,
		SupplierID:         p.SupplierID,
		BasePrice:          p.BasePrice,
		SellingPrice:       p.SellingPrice,
		CostPrice:          p.CostPrice,
		DiscountPercentage: p.DiscountPercentage,
		TaxRate:            p.TaxRate,
		StockQuantity:      p.StockQuantity,
		MinStockLevel:      p.MinStockLevel,
		MaxStockLevel:      p.MaxStockLevel,
		TrackInventory:     p.TrackInventory,
		RequiresShipping:   p.RequiresShipping,
		IsDigital:          p.IsDigital,
		Weight:             p.Weight,
		Dimensions:         p.Dimensions,
		Tags:               tags,
		Status:             p.Status,
		IsActive:           p.IsActive,
		IsFeatured:         p.IsFeatured,
		FeaturedImageURL:   p.FeaturedImageURL,
		Attributes:         p.Attributes,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

// ── helpers de actualización parcial ──────────────────────────────────────────

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setDecimal(dst *decimal.Decimal, v *decimal.Decimal) {
	if v != nil {
		*dst = *v
	}
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
