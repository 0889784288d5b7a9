package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pms-api/internal/application/dto"
	"github.com/jhoicas/pms-api/internal/application/usecase"
	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/repository"
	apphttp "github.com/jhoicas/pms-api/internal/interfaces/http"
)

type importProducts struct {
	repository.ProductRepository
	dupSKU  string
	created int
}

func (f *importProducts) Create(_ context.Context, p *entity.Product) error {
	if p.SKU == f.dupSKU {
		return fmt.Errorf("%w: sku", domain.ErrDuplicate)
	}
	f.created++
	return nil
}

type importCategories struct {
	repository.CategoryRepository
}

func (importCategories) GetByName(_ context.Context, name string) (*entity.Category, error) {
	if name == "Ropa" {
		return &entity.Category{ID: "ropa", Name: "Ropa"}, nil
	}
	return nil, nil
}

func importApp(products *importProducts) *fiber.App {
	transfer := usecase.NewProductTransferUseCase(products, importCategories{}, nil, nil)
	h := apphttp.NewProductHandler(nil, transfer)
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	app.Post("/api/products/import", h.Import)
	return app
}

func importRequest(t *testing.T, csv string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "productos.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/products/import", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestProductImport_CodigosDeEstado(t *testing.T) {
	const header = "Name*,Description*,SKU,Category*,Base Price*,Selling Price*,Stock Quantity*\n"
	cases := []struct {
		name        string
		csv         string
		dupSKU      string
		status      int
		wantCreated int
		wantErrors  int
	}{
		{
			name:       "todas inválidas",
			csv:        header + ",x,,Ropa,1,1,1\nB,x,,Nada,1,1,1\n",
			status:     http.StatusBadRequest,
			wantErrors: 2,
		},
		{
			name:        "éxito parcial",
			csv:         header + "A,x,A-1,Ropa,1,2,1\nB,x,B-1,Ropa,1,2,1\n",
			dupSKU:      "B-1",
			status:      http.StatusMultiStatus,
			wantCreated: 1,
			wantErrors:  1,
		},
		{
			name:        "todas importadas",
			csv:         header + "A,x,A-1,Ropa,1,2,1\nB,x,,Ropa,1,2,1\n",
			status:      http.StatusOK,
			wantCreated: 2,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			products := &importProducts{dupSKU: tc.dupSKU}
			resp, err := importApp(products).Test(importRequest(t, tc.csv), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			var res dto.ImportResult
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
			assert.Equal(t, tc.wantErrors, res.ErrorCount)
			assert.Len(t, res.Errors, tc.wantErrors)
			assert.Equal(t, tc.wantCreated, products.created)
			assert.Equal(t, tc.status == http.StatusOK, res.Success)
		})
	}
}

func TestProductImport_SinArchivo(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/products/import", nil)
	resp, err := importApp(&importProducts{}).Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
