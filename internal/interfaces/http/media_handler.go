package http

import (
	"io"
	"mime/multipart"
	nethttp "net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pms-api/internal/application/dto"
	"github.com/jhoicas/pms-api/internal/application/usecase"
)

// MediaHandler archivos de productos, categorías y generales.
type MediaHandler struct {
	uc *usecase.MediaUseCase
}

// NewMediaHandler construye el handler.
func NewMediaHandler(uc *usecase.MediaUseCase) *MediaHandler {
	return &MediaHandler{uc: uc}
}

// readUpload lee el campo "file" y los campos comunes del formulario.
func readUpload(c *fiber.Ctx) (dto.UploadMediaInput, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return dto.UploadMediaInput{}, err
	}
	data, err := readFormFile(fh)
	if err != nil {
		return dto.UploadMediaInput{}, err
	}
	mimeType := fh.Header.Get(fiber.HeaderContentType)
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = nethttp.DetectContentType(data)
	}
	isPrimary, _ := strconv.ParseBool(c.FormValue("is_primary"))
	return dto.UploadMediaInput{
		FileName:   fh.Filename,
		MimeType:   mimeType,
		Data:       data,
		MediaType:  c.FormValue("media_type"),
		UsageType:  c.FormValue("usage_type"),
		AltText:    c.FormValue("alt_text"),
		Caption:    c.FormValue("caption"),
		ProductID:  c.FormValue("product_id"),
		CategoryID: c.FormValue("category_id"),
		IsPrimary:  isPrimary,
		CreatedBy:  GetUserID(c),
	}, nil
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// UploadProductMedia godoc
// @Summary      Subir archivo de producto
// @Description  Para imágenes genera copia optimizada (máx 1920x1080) y miniaturas 150/300/600/1200.
// @Tags         media
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        id          path      string  true   "ID del producto"
// @Param        file        formData  file    true   "Archivo"
// @Param        media_type  formData  string  false  "image | video | document | audio | other"
// @Param        usage_type  formData  string  false  "product_gallery por defecto"
// @Param        alt_text    formData  string  false  "Texto alternativo"
// @Param        is_primary  formData  bool    false  "Imagen principal"
// @Success      201  {object}  dto.MediaResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/media [post]
func (h *MediaHandler) UploadProductMedia(c *fiber.Ctx) error {
	in, err := readUpload(c)
	if err != nil {
		return badQuery(c, "file es requerido")
	}
	in.ProductID = c.Params("id")
	in.CategoryID = ""
	out, err := h.uc.Upload(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListProductMedia godoc
// @Summary      Archivos de un producto
// @Tags         media
// @Security     Bearer
// @Produce      json
// @Param        id          path   string  true   "ID del producto"
// @Param        usage_type  query  string  false  "Uso"
// @Success      200  {object}  dto.MediaListResponse
// @Router       /api/products/{id}/media [get]
func (h *MediaHandler) ListProductMedia(c *fiber.Ctx) error {
	out, err := h.uc.ListByProduct(c.UserContext(), c.Params("id"), c.Query("usage_type"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ReorderProductMedia godoc
// @Summary      Reordenar archivos del producto
// @Tags         media
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del producto"
// @Param        body  body  dto.ReorderMediaRequest  true  "mediaIds en el nuevo orden"
// @Success      200   {object}  dto.MessageResponse
// @Router       /api/products/{id}/media/order [put]
func (h *MediaHandler) ReorderProductMedia(c *fiber.Ctx) error {
	var in dto.ReorderMediaRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.Reorder(c.UserContext(), c.Params("id"), in); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Media order updated"})
}

// SetPrimary godoc
// @Summary      Marcar imagen principal
// @Tags         media
// @Security     Bearer
// @Produce      json
// @Param        id       path  string  true  "ID del producto"
// @Param        mediaId  path  string  true  "ID del archivo"
// @Success      200  {object}  dto.MediaResponse
// @Router       /api/products/{id}/media/{mediaId}/primary [put]
func (h *MediaHandler) SetPrimary(c *fiber.Ctx) error {
	out, err := h.uc.SetPrimary(c.UserContext(), c.Params("id"), c.Params("mediaId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteProductMedia godoc
// @Summary      Eliminar todos los archivos del producto
// @Tags         media
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/products/{id}/media [delete]
func (h *MediaHandler) DeleteProductMedia(c *fiber.Ctx) error {
	n, err := h.uc.DeleteByProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "deleted": n})
}

// Upload godoc
// @Summary      Subir archivo general o de categoría
// @Tags         media
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file         formData  file    true   "Archivo"
// @Param        category_id  formData  string  false  "Categoría"
// @Param        product_id   formData  string  false  "Producto"
// @Param        usage_type   formData  string  false  "Uso"
// @Param        alt_text     formData  string  false  "Texto alternativo"
// @Success      201  {object}  dto.MediaResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/media [post]
func (h *MediaHandler) Upload(c *fiber.Ctx) error {
	in, err := readUpload(c)
	if err != nil {
		return badQuery(c, "file es requerido")
	}
	out, err := h.uc.Upload(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar archivos
// @Tags         media
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  false  "Producto"
// @Param        category_id  query  string  false  "Categoría"
// @Param        media_type   query  string  false  "Tipo"
// @Param        usage_type   query  string  false  "Uso"
// @Param        limit        query  int     false  "Límite"  default(50)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MediaListResponse
// @Router       /api/media [get]
func (h *MediaHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), dto.MediaListQuery{
		ProductID:  c.Query("product_id"),
		CategoryID: c.Query("category_id"),
		MediaType:  c.Query("media_type"),
		UsageType:  c.Query("usage_type"),
		Limit:      c.QueryInt("limit", 50),
		Offset:     c.QueryInt("offset", 0),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener archivo
// @Tags         media
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.MediaResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/media/{id} [get]
func (h *MediaHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar metadata del archivo
// @Tags         media
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID"
// @Param        body  body  dto.UpdateMediaRequest  true  "Cambios"
// @Success      200   {object}  dto.MediaResponse
// @Router       /api/media/{id} [put]
func (h *MediaHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateMediaRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar archivo
// @Tags         media
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.MessageResponse
// @Router       /api/media/{id} [delete]
func (h *MediaHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Media deleted successfully"})
}
