package usecase

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pms-api/internal/application/dto"
	"github.com/jhoicas/pms-api/internal/application/ports"
	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/repository"
)

var mediaNow = time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)

type fakeMedia struct {
	repository.MediaRepository
	byID       map[string]*entity.Media
	createErr  error
	unsetCalls [][2]string // productID, exceptID
}

func newFakeMedia(list ...*entity.Media) *fakeMedia {
	f := &fakeMedia{byID: map[string]*entity.Media{}}
	for _, m := range list {
		f.byID[m.ID] = m
	}
	return f
}

func (f *fakeMedia) Create(_ context.Context, m *entity.Media) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.byID[m.ID] = m
	return nil
}

func (f *fakeMedia) GetByID(_ context.Context, id string) (*entity.Media, error) {
	return f.byID[id], nil
}

func (f *fakeMedia) Update(_ context.Context, m *entity.Media) error {
	f.byID[m.ID] = m
	return nil
}

func (f *fakeMedia) List(_ context.Context, flt repository.MediaFilter) ([]*entity.Media, int, error) {
	var out []*entity.Media
	for _, m := range f.byID {
		if flt.ProductID != "" && (m.ProductID == nil || *m.ProductID != flt.ProductID) {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, len(out), nil
}

func (f *fakeMedia) UnsetPrimary(_ context.Context, productID, exceptID string) error {
	f.unsetCalls = append(f.unsetCalls, [2]string{productID, exceptID})
	for _, m := range f.byID {
		if m.ProductID != nil && *m.ProductID == productID && m.ID != exceptID {
			m.IsPrimary = false
		}
	}
	return nil
}

type fakeStorage struct {
	uploaded  map[string][]string // bucket -> rutas
	removed   map[string][]string
	removeErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploaded: map[string][]string{}, removed: map[string][]string{}}
}

func (s *fakeStorage) Upload(_ context.Context, bucket, path string, _ []byte, _ string) error {
	s.uploaded[bucket] = append(s.uploaded[bucket], path)
	return nil
}

func (s *fakeStorage) Remove(_ context.Context, bucket string, paths []string) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	s.removed[bucket] = append(s.removed[bucket], paths...)
	return nil
}

func (s *fakeStorage) PublicURL(bucket, path string) string {
	return "https://cdn.test/" + bucket + "/" + path
}

// fakeImages devuelve una copia optimizada y todas las miniaturas pedidas.
type fakeImages struct{}

func (fakeImages) Process(_ []byte, opts ports.ImageOptions) (*ports.ProcessedImage, error) {
	img := &ports.ProcessedImage{Width: 2400, Height: 1600, Format: "jpeg", Thumbnails: map[int]*ports.ImageVariant{}}
	if opts.MaxWidth > 0 {
		img.Optimized = &ports.ImageVariant{Data: []byte("opt"), MimeType: "image/webp", Ext: "webp"}
	}
	for _, size := range opts.ThumbnailSizes {
		img.Thumbnails[size] = &ports.ImageVariant{Data: []byte("th"), MimeType: "image/webp", Ext: "webp"}
	}
	return img, nil
}

func newMediaUC(gallery *fakeMedia, products *fakeProducts, storage ports.FileStorage) *MediaUseCase {
	uc := NewMediaUseCase(gallery, products, categoryTree(), storage, fakeImages{}, "", nil)
	uc.now = func() time.Time { return mediaNow }
	return uc
}

func galleryUpload(productID string, primary bool) dto.UploadMediaInput {
	return dto.UploadMediaInput{
		FileName:  "frente.jpg",
		MimeType:  "image/jpeg",
		Data:      []byte("jpeg"),
		ProductID: productID,
		IsPrimary: primary,
		CreatedBy: "u1",
	}
}

func TestMediaUpload_GeneraVariantes(t *testing.T) {
	gallery := newFakeMedia()
	storage := newFakeStorage()
	uc := newMediaUC(gallery, newFakeProducts(&entity.Product{ID: "p1"}), storage)

	res, err := uc.Upload(context.Background(), galleryUpload("p1", false))
	require.NoError(t, err)
	assert.Equal(t, entity.UsageProductGallery, res.UsageType)
	assert.Equal(t, entity.MediaImage, res.MediaType)
	assert.Equal(t, DefaultMediaBucket, res.BucketName)
	assert.Equal(t, "https://cdn.test/media-files/"+res.FilePath, res.URL)
	require.NotNil(t, res.Width)
	assert.Equal(t, 2400, *res.Width)
	// original + optimizada + 4 miniaturas
	assert.Len(t, storage.uploaded[DefaultMediaBucket], 6)
	assert.Contains(t, res.Thumbnails, "optimized")
	for _, size := range []string{"150", "300", "600", "1200"} {
		assert.Contains(t, res.Thumbnails, size)
	}
	assert.Contains(t, gallery.byID, res.ID)
}

func TestMediaUpload_FalloDeInsercionBorraLosObjetosSubidos(t *testing.T) {
	gallery := newFakeMedia()
	gallery.createErr = errors.New("insert falló")
	storage := newFakeStorage()
	products := newFakeProducts(&entity.Product{ID: "p1"})
	uc := newMediaUC(gallery, products, storage)

	_, err := uc.Upload(context.Background(), galleryUpload("p1", true))
	require.Error(t, err)

	uploaded := storage.uploaded[DefaultMediaBucket]
	require.Len(t, uploaded, 6)
	assert.ElementsMatch(t, uploaded, storage.removed[DefaultMediaBucket])
	assert.Empty(t, gallery.byID)
	assert.Empty(t, gallery.unsetCalls)
	assert.NotContains(t, products.featured, "p1")
}

func TestMediaUpload_Validacion(t *testing.T) {
	tests := []struct {
		name    string
		in      dto.UploadMediaInput
		wantErr error
	}{
		{"mime no permitido", dto.UploadMediaInput{FileName: "a.exe", MimeType: "application/x-msdownload", Data: []byte("x"), ProductID: "p1"}, domain.ErrInvalidInput},
		{"vacío", dto.UploadMediaInput{FileName: "a.jpg", MimeType: "image/jpeg", ProductID: "p1"}, domain.ErrInvalidInput},
		{"uso desconocido", dto.UploadMediaInput{FileName: "a.jpg", MimeType: "image/jpeg", Data: []byte("x"), UsageType: "banner_raro"}, domain.ErrInvalidInput},
		{"producto inexistente", galleryUpload("nope", false), domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := newFakeStorage()
			uc := newMediaUC(newFakeMedia(), newFakeProducts(&entity.Product{ID: "p1"}), storage)

			_, err := uc.Upload(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, storage.uploaded)
		})
	}
}

func TestMediaUpload_SinStorage(t *testing.T) {
	uc := NewMediaUseCase(newFakeMedia(), newFakeProducts(), categoryTree(), nil, nil, "", nil)
	assert.False(t, uc.StorageEnabled())

	_, err := uc.Upload(context.Background(), galleryUpload("p1", false))
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestMediaUpload_PrincipalReemplazaLaAnterior(t *testing.T) {
	old := &entity.Media{ID: "m0", ProductID: str("p1"), BucketName: DefaultMediaBucket, FilePath: "products/p1/viejo.jpg", IsPrimary: true}
	gallery := newFakeMedia(old)
	products := newFakeProducts(&entity.Product{ID: "p1"})
	uc := newMediaUC(gallery, products, newFakeStorage())

	res, err := uc.Upload(context.Background(), galleryUpload("p1", true))
	require.NoError(t, err)
	assert.True(t, res.IsPrimary)
	assert.Equal(t, 1, res.DisplayOrder)
	assert.False(t, old.IsPrimary)
	assert.Equal(t, [][2]string{{"p1", res.ID}}, gallery.unsetCalls)
	assert.Equal(t, res.URL, products.featured["p1"])
}

func TestMediaSetPrimary(t *testing.T) {
	gallery := newFakeMedia(
		&entity.Media{ID: "m1", ProductID: str("p1"), BucketName: DefaultMediaBucket, FilePath: "products/p1/a.jpg", IsPrimary: true},
		&entity.Media{ID: "m2", ProductID: str("p1"), BucketName: DefaultMediaBucket, FilePath: "products/p1/b.jpg"},
		&entity.Media{ID: "m3", ProductID: str("p2"), BucketName: DefaultMediaBucket, FilePath: "products/p2/c.jpg"},
	)
	products := newFakeProducts(&entity.Product{ID: "p1"}, &entity.Product{ID: "p2"})
	uc := newMediaUC(gallery, products, newFakeStorage())
	ctx := context.Background()

	res, err := uc.SetPrimary(ctx, "p1", "m2")
	require.NoError(t, err)
	assert.True(t, res.IsPrimary)
	assert.Equal(t, mediaNow, res.UpdatedAt)
	assert.True(t, gallery.byID["m2"].IsPrimary)
	assert.False(t, gallery.byID["m1"].IsPrimary)
	assert.Equal(t, "https://cdn.test/media-files/products/p1/b.jpg", products.featured["p1"])

	// media de otro producto
	_, err = uc.SetPrimary(ctx, "p1", "m3")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, gallery.byID["m3"].IsPrimary)

	_, err = uc.SetPrimary(ctx, "p1", "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMediaUpdate_MarcarPrincipal(t *testing.T) {
	gallery := newFakeMedia(
		&entity.Media{ID: "m1", ProductID: str("p1"), BucketName: DefaultMediaBucket, FilePath: "products/p1/a.jpg", IsPrimary: true},
		&entity.Media{ID: "m2", ProductID: str("p1"), BucketName: DefaultMediaBucket, FilePath: "products/p1/b.jpg"},
	)
	products := newFakeProducts(&entity.Product{ID: "p1"})
	uc := newMediaUC(gallery, products, newFakeStorage())
	yes := true

	_, err := uc.Update(context.Background(), "m2", dto.UpdateMediaRequest{IsPrimary: &yes})
	require.NoError(t, err)
	assert.False(t, gallery.byID["m1"].IsPrimary)
	assert.Equal(t, "https://cdn.test/media-files/products/p1/b.jpg", products.featured["p1"])

	// ya era principal: no vuelve a desmarcar
	_, err = uc.Update(context.Background(), "m2", dto.UpdateMediaRequest{IsPrimary: &yes})
	require.NoError(t, err)
	assert.Len(t, gallery.unsetCalls, 1)
}
