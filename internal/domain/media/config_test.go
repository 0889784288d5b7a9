package media_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/media"
)

func TestConfigFor(t *testing.T) {
	doc := media.ConfigFor(entity.UsageProductDocument)
	assert.Equal(t, "documents", doc.BucketOr("media-files"))
	assert.False(t, doc.GenerateThumbnails)

	gal := media.ConfigFor(entity.UsageProductGallery)
	assert.Equal(t, "media-files", gal.BucketOr("media-files"))
	assert.Equal(t, int64(10*1024*1024), gal.MaxFileSize)

	// uso desconocido cae en general
	assert.Equal(t, media.ConfigFor(entity.UsageGeneral), media.ConfigFor("banner_raro"))
	assert.False(t, media.ValidUsage("banner_raro"))
}

func TestValidate(t *testing.T) {
	avatar := media.ConfigFor(entity.UsageUserAvatar)
	assert.NoError(t, avatar.Validate(1024, "image/png"))
	assert.NoError(t, avatar.Validate(1024, "image/jpeg; charset=binary"))

	err := avatar.Validate(3*1024*1024, "image/png")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	err = avatar.Validate(1024, "image/gif")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	assert.Error(t, avatar.Validate(0, "image/png"))

	general := media.ConfigFor(entity.UsageGeneral)
	assert.NoError(t, general.Validate(10, "image/svg+xml"))
	assert.NoError(t, general.Validate(10, "text/csv"))
	assert.Error(t, general.Validate(10, "application/zip"))
}

func TestTypeFromMime(t *testing.T) {
	assert.Equal(t, entity.MediaImage, media.TypeFromMime("image/webp"))
	assert.Equal(t, entity.MediaVideo, media.TypeFromMime("video/mp4"))
	assert.Equal(t, entity.MediaDocument, media.TypeFromMime("application/pdf"))
	assert.Equal(t, entity.MediaOther, media.TypeFromMime("application/zip"))
}

func TestPaths(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	p := media.ObjectPath("products/p1", entity.UsageProductGallery, media.Extension("Foto.JPG"), now, "ab12cd")
	assert.Equal(t, "products/p1/product_gallery/1700000000000_ab12cd.jpg", p)
	assert.Equal(t, "products/p1/product_gallery/1700000000000_ab12cd_300.jpg", media.ThumbnailPath(p, 300, "jpg"))
}
