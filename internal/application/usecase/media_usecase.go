package usecase

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pms-api/internal/application/dto"
	"github.com/jhoicas/pms-api/internal/application/ports"
	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/media"
	"github.com/jhoicas/pms-api/internal/domain/repository"
	"github.com/jhoicas/pms-api/pkg/logger"
)

// DefaultMediaBucket bucket usado cuando el uso no define uno.
const DefaultMediaBucket = "media-files"

// MediaUseCase carga y administración de archivos de productos y categorías.
type MediaUseCase struct {
	repo       repository.MediaRepository
	products   repository.ProductRepository
	categories repository.CategoryRepository
	storage    ports.FileStorage // nil = carga deshabilitada
	images     ports.ImageProcessor
	bucket     string
	log        *logger.Logger
	now        func() time.Time
}

// NewMediaUseCase construye el caso de uso. storage puede ser nil: las cargas responden ErrStorageUnavailable.
func NewMediaUseCase(
	repo repository.MediaRepository,
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	storage ports.FileStorage,
	images ports.ImageProcessor,
	bucket string,
	log *logger.Logger,
) *MediaUseCase {
	if bucket == "" {
		bucket = DefaultMediaBucket
	}
	if log == nil {
		log = logger.Nop()
	}
	return &MediaUseCase{
		repo:       repo,
		products:   products,
		categories: categories,
		storage:    storage,
		images:     images,
		bucket:     bucket,
		log:        log.Named("media"),
		now:        time.Now,
	}
}

// StorageEnabled indica si hay almacenamiento configurado.
func (uc *MediaUseCase) StorageEnabled() bool { return uc.storage != nil }

// Upload valida y guarda el archivo; para imágenes genera copia optimizada y miniaturas.
// Si falla la inserción borra los objetos ya subidos.
func (uc *MediaUseCase) Upload(ctx context.Context, in dto.UploadMediaInput) (*dto.MediaResponse, error) {
	if uc.storage == nil {
		return nil, domain.ErrStorageUnavailable
	}
	usage := in.UsageType
	if usage == "" {
		switch {
		case in.ProductID != "":
			usage = entity.UsageProductGallery
		case in.CategoryID != "":
			usage = entity.UsageCategoryBanner
		default:
			usage = entity.UsageGeneral
		}
	}
	if !media.ValidUsage(usage) {
		return nil, domain.Invalid("usage_type inválido: " + usage)
	}
	cfg := media.ConfigFor(usage)
	if err := cfg.Validate(int64(len(in.Data)), in.MimeType); err != nil {
		return nil, err
	}
	mediaType := in.MediaType
	if mediaType == "" {
		mediaType = media.TypeFromMime(in.MimeType)
	}
	if !entity.ValidMediaType(mediaType) {
		return nil, domain.Invalid("media_type inválido: " + mediaType)
	}

	prefix := "general"
	if in.ProductID != "" {
		p, err := uc.products.GetByID(ctx, in.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.ErrNotFound
		}
		prefix = "products/" + p.ID
	} else if in.CategoryID != "" {
		c, err := uc.categories.GetByID(ctx, in.CategoryID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, domain.ErrNotFound
		}
		prefix = "categories/" + c.ID
	}

	now := uc.now()
	ext := media.Extension(in.FileName)
	bucket := cfg.BucketOr(uc.bucket)
	objectPath := media.ObjectPath(prefix, usage, ext, now, strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	m := &entity.Media{
		ID:            uuid.New().String(),
		FileName:      in.FileName,
		FilePath:      objectPath,
		BucketName:    bucket,
		FileSize:      int64(len(in.Data)),
		MimeType:      in.MimeType,
		FileExtension: ext,
		MediaType:     mediaType,
		UsageType:     usage,
		IsPrimary:     in.IsPrimary && in.ProductID != "",
		AltText:       strings.TrimSpace(in.AltText),
		Caption:       strings.TrimSpace(in.Caption),
		Tags:          []string{},
		Visibility:    entity.VisibilityPublic,
		IsActive:      true,
		Thumbnails:    map[string]string{},
		CreatedBy:     in.CreatedBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if in.ProductID != "" {
		m.ProductID = &in.ProductID
	}
	if in.CategoryID != "" {
		m.CategoryID = &in.CategoryID
	}

	if err := uc.storage.Upload(ctx, bucket, objectPath, in.Data, in.MimeType); err != nil {
		return nil, fmt.Errorf("subir archivo: %w", err)
	}
	if mediaType == entity.MediaImage && (cfg.OptimizeImages || cfg.GenerateThumbnails) {
		uc.uploadVariants(ctx, m, in.Data, cfg)
	}

	if m.ProductID != nil {
		if _, total, err := uc.repo.List(ctx, repository.MediaFilter{ProductID: *m.ProductID, Limit: 1}); err == nil {
			m.DisplayOrder = total
		}
	}
	if err := uc.repo.Create(ctx, m); err != nil {
		removeMediaObjects(ctx, uc.storage, uc.log, []*entity.Media{m})
		return nil, err
	}
	if m.IsPrimary {
		if err := uc.makePrimary(ctx, m); err != nil {
			return nil, err
		}
	}
	uc.log.Info().Str("media_id", m.ID).Str("bucket", bucket).Str("path", objectPath).Int64("size", m.FileSize).Msg("archivo subido")
	return uc.toResponse(m), nil
}

// uploadVariants sube la copia optimizada y las miniaturas. Un fallo deja el media sin variantes.
func (uc *MediaUseCase) uploadVariants(ctx context.Context, m *entity.Media, data []byte, cfg media.UsageConfig) {
	if uc.images == nil {
		return
	}
	opts := ports.ImageOptions{}
	if cfg.OptimizeImages {
		opts.MaxWidth, opts.MaxHeight = media.OptimizedMaxWidth, media.OptimizedMaxHeight
	}
	if cfg.GenerateThumbnails {
		opts.ThumbnailSizes = media.ThumbnailSizes
	}
	img, err := uc.images.Process(data, opts)
	if err != nil {
		uc.log.Warn().Err(err).Str("path", m.FilePath).Msg("imagen sin procesar")
		return
	}
	w, h := img.Width, img.Height
	m.Width, m.Height = &w, &h

	if v := img.Optimized; v != nil {
		p := strings.TrimSuffix(m.FilePath, path.Ext(m.FilePath)) + "_optimized." + v.Ext
		if err := uc.storage.Upload(ctx, m.BucketName, p, v.Data, v.MimeType); err != nil {
			uc.log.Warn().Err(err).Str("path", p).Msg("no se pudo subir la copia optimizada")
		} else {
			m.Thumbnails["optimized"] = p
		}
	}
	for _, size := range media.ThumbnailSizes {
		v, ok := img.Thumbnails[size]
		if !ok || v == nil {
			continue
		}
		p := media.ThumbnailPath(m.FilePath, size, v.Ext)
		if err := uc.storage.Upload(ctx, m.BucketName, p, v.Data, v.MimeType); err != nil {
			uc.log.Warn().Err(err).Str("path", p).Msg("no se pudo subir la miniatura")
			continue
		}
		m.Thumbnails[strconv.Itoa(size)] = p
	}
}

// makePrimary deja m como única imagen principal del producto y actualiza featured_image_url.
func (uc *MediaUseCase) makePrimary(ctx context.Context, m *entity.Media) error {
	if m.ProductID == nil {
		return domain.Invalid("solo los media de producto pueden ser principales")
	}
	if err := uc.repo.UnsetPrimary(ctx, *m.ProductID, m.ID); err != nil {
		return err
	}
	url := ""
	if uc.storage != nil {
		url = uc.storage.PublicURL(m.BucketName, m.FilePath)
	}
	return uc.products.UpdateFeaturedImage(ctx, *m.ProductID, url)
}

// GetByID obtiene un media.
func (uc *MediaUseCase) GetByID(ctx context.Context, id string) (*dto.MediaResponse, error) {
	m, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(m), nil
}

// List media filtrados, ordenados por display_order.
func (uc *MediaUseCase) List(ctx context.Context, q dto.MediaListQuery) (*dto.MediaListResponse, error) {
	if q.MediaType != "" && !entity.ValidMediaType(q.MediaType) {
		return nil, domain.Invalid("media_type inválido: " + q.MediaType)
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 50
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	list, total, err := uc.repo.List(ctx, repository.MediaFilter{
		ProductID:  q.ProductID,
		CategoryID: q.CategoryID,
		MediaType:  q.MediaType,
		UsageType:  q.UsageType,
		Limit:      q.Limit,
		Offset:     q.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.MediaResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *uc.toResponse(m))
	}
	return &dto.MediaListResponse{Data: out, Total: total}, nil
}

// ListByProduct media de un producto, opcionalmente por uso.
func (uc *MediaUseCase) ListByProduct(ctx context.Context, productID, usage string) (*dto.MediaListResponse, error) {
	if err := uc.ensureProduct(ctx, productID); err != nil {
		return nil, err
	}
	return uc.List(ctx, dto.MediaListQuery{ProductID: productID, UsageType: usage, Limit: 100})
}

// Update cambia metadata del media.
func (uc *MediaUseCase) Update(ctx context.Context, id string, in dto.UpdateMediaRequest) (*dto.MediaResponse, error) {
	m, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Visibility != nil && *in.Visibility != entity.VisibilityPublic && *in.Visibility != entity.VisibilityPrivate {
		return nil, domain.Invalid("visibility debe ser public o private")
	}
	if in.DisplayOrder != nil && *in.DisplayOrder < 0 {
		return nil, domain.Invalid("display_order no puede ser negativo")
	}
	setString(&m.AltText, in.AltText)
	setString(&m.Caption, in.Caption)
	setString(&m.Description, in.Description)
	setString(&m.Visibility, in.Visibility)
	setInt(&m.DisplayOrder, in.DisplayOrder)
	setBool(&m.IsActive, in.IsActive)
	setBool(&m.IsFeatured, in.IsFeatured)
	if in.Tags != nil {
		m.Tags = *in.Tags
	}
	becomesPrimary := in.IsPrimary != nil && *in.IsPrimary && !m.IsPrimary
	setBool(&m.IsPrimary, in.IsPrimary)
	m.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	if becomesPrimary {
		if err := uc.makePrimary(ctx, m); err != nil {
			return nil, err
		}
	}
	return uc.toResponse(m), nil
}

// SetPrimary marca un media del producto como principal.
func (uc *MediaUseCase) SetPrimary(ctx context.Context, productID, mediaID string) (*dto.MediaResponse, error) {
	m, err := uc.get(ctx, mediaID)
	if err != nil {
		return nil, err
	}
	if m.ProductID == nil || *m.ProductID != productID {
		return nil, domain.ErrNotFound
	}
	m.IsPrimary = true
	m.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	if err := uc.makePrimary(ctx, m); err != nil {
		return nil, err
	}
	return uc.toResponse(m), nil
}

// Reorder fija display_order según la posición en mediaIDs.
func (uc *MediaUseCase) Reorder(ctx context.Context, productID string, in dto.ReorderMediaRequest) error {
	if len(in.MediaIDs) == 0 {
		return domain.Invalid("mediaIds es requerido")
	}
	if err := uc.ensureProduct(ctx, productID); err != nil {
		return err
	}
	for i, id := range in.MediaIDs {
		if err := uc.repo.SetDisplayOrder(ctx, productID, id, i); err != nil {
			return err
		}
	}
	return nil
}

// Delete borra el objeto del storage (best effort) y luego la fila.
func (uc *MediaUseCase) Delete(ctx context.Context, id string) error {
	m, err := uc.get(ctx, id)
	if err != nil {
		return err
	}
	if uc.storage != nil {
		removeMediaObjects(ctx, uc.storage, uc.log, []*entity.Media{m})
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	if m.IsPrimary && m.ProductID != nil {
		if err := uc.products.UpdateFeaturedImage(ctx, *m.ProductID, ""); err != nil {
			uc.log.Warn().Err(err).Str("product_id", *m.ProductID).Msg("no se pudo limpiar la imagen destacada")
		}
	}
	return nil
}

// DeleteByProduct elimina todos los media del producto.
func (uc *MediaUseCase) DeleteByProduct(ctx context.Context, productID string) (int, error) {
	if err := uc.ensureProduct(ctx, productID); err != nil {
		return 0, err
	}
	list, _, err := uc.repo.List(ctx, repository.MediaFilter{ProductID: productID, Limit: 1000})
	if err != nil {
		return 0, err
	}
	if uc.storage != nil && len(list) > 0 {
		removeMediaObjects(ctx, uc.storage, uc.log, list)
	}
	if err := uc.repo.DeleteByProduct(ctx, productID); err != nil {
		return 0, err
	}
	if err := uc.products.UpdateFeaturedImage(ctx, productID, ""); err != nil {
		uc.log.Warn().Err(err).Str("product_id", productID).Msg("no se pudo limpiar la imagen destacada")
	}
	return len(list), nil
}

func (uc *MediaUseCase) ensureProduct(ctx context.Context, id string) error {
	p, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	return nil
}

func (uc *MediaUseCase) get(ctx context.Context, id string) (*entity.Media, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

func (uc *MediaUseCase) toResponse(m *entity.Media) *dto.MediaResponse {
	url := ""
	if uc.storage != nil {
		url = uc.storage.PublicURL(m.BucketName, m.FilePath)
	}
	tags := m.Tags
	if tags == nil {
		tags = []string{}
	}
	thumbs := m.Thumbnails
	if thumbs == nil {
		thumbs = map[string]string{}
	}
	return &dto.MediaResponse{
		ID:            m.ID,
		FileName:      m.FileName,
		FilePath:      m.FilePath,
		BucketName:    m.BucketName,
		URL:           url,
		FileSize:      m.FileSize,
		MimeType:      m.MimeType,
		FileExtension: m.FileExtension,
		Width:         m.Width,
		Height:        m.Height,
		ProductID:     m.ProductID,
		CategoryID:    m.CategoryID,
		MediaType:     m.MediaType,
		UsageType:     m.UsageType,
		IsPrimary:     m.IsPrimary,
		DisplayOrder:  m.DisplayOrder,
		AltText:       m.AltText,
		Caption:       m.Caption,
		Description:   m.Description,
		Tags:          tags,
		Visibility:    m.Visibility,
		IsActive:      m.IsActive,
		IsFeatured:    m.IsFeatured,
		Thumbnails:    thumbs,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
