package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
)

const importHeader = "Name*,Description*,SKU,Category*,Base Price*,Selling Price*,Stock Quantity*,Min Stock Level,Status,Is Active,Tags\n"

func newTransferUC(products *fakeProducts) *ProductTransferUseCase {
	uc := NewProductTransferUseCase(products, categoryTree(), nil, nil)
	uc.now = func() time.Time { return supplierNow }
	return uc
}

func TestProductImport_TodasLasFilasInvalidas(t *testing.T) {
	products := newFakeProducts()
	uc := newTransferUC(products)
	csv := importHeader +
		",sin nombre,,Ropa,10,12,1,,,,\n" +
		"Camisa,Algodón,,Zapatos,abc,-1,x,,,,\n"

	res, err := uc.Import(context.Background(), "productos.csv", strings.NewReader(csv))
	require.ErrorIs(t, err, ErrImportValidation)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	require.NotNil(t, res)
	assert.False(t, res.Success)
	assert.Equal(t, "Validation failed", res.Message)
	assert.Equal(t, 5, res.ErrorCount)

	fields := make([]string, 0, len(res.Errors))
	for _, e := range res.Errors {
		fields = append(fields, fmt.Sprintf("%d:%s", e.Row, e.Field))
	}
	assert.Equal(t, []string{"2:name", "3:category", "3:base_price", "3:selling_price", "3:stock_quantity"}, fields)
	assert.Empty(t, products.created)
}

func TestProductImport_UnaFilaInvalidaRechazaTodo(t *testing.T) {
	products := newFakeProducts()
	uc := newTransferUC(products)
	csv := importHeader +
		"Camisa,Algodón,CAM-1,Camisas,10,15,3,,,,\n" +
		"Pantalón,Lino,PAN-1,Camisas,20,0,3,,,,\n"

	res, err := uc.Import(context.Background(), "productos.csv", strings.NewReader(csv))
	require.ErrorIs(t, err, ErrImportValidation)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 3, res.Errors[0].Row)
	assert.Equal(t, "selling_price", res.Errors[0].Field)
	assert.Empty(t, products.created)
}

func TestProductImport_ExitoParcial(t *testing.T) {
	products := newFakeProducts()
	products.failCreate["CAM-1"] = fmt.Errorf("%w: sku", domain.ErrDuplicate)
	uc := newTransferUC(products)
	csv := importHeader +
		"Camisa,Algodón,CAM-1,camisas,10,15,3,,,,\n" +
		"Pantalón,Lino,PAN-1,CAMISAS,20,30,5,2,published,false,verano; lino ;\n"

	res, err := uc.Import(context.Background(), "Productos.CSV", strings.NewReader(csv))
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, 2, res.TotalRows)
	assert.Equal(t, 1, res.SuccessCount)
	assert.Equal(t, 1, res.ErrorCount)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 2, res.Errors[0].Row)
	assert.Equal(t, "Database error: duplicate SKU or slug", res.Errors[0].Message)
	assert.Equal(t, "Import completed: 1 successful, 1 failed", res.Message)

	require.Len(t, products.created, 1)
	p := products.created[0]
	assert.Equal(t, "camisas", p.CategoryID)
	assert.Equal(t, entity.ProductStatusPublished, p.Status)
	assert.Equal(t, 2, p.MinStockLevel)
	assert.False(t, p.IsActive)
	assert.True(t, p.TrackInventory)
	assert.Equal(t, []string{"verano", "lino"}, p.Tags)
	assert.True(t, strings.HasPrefix(p.Slug, "pantalon-"), p.Slug)
	assert.Equal(t, supplierNow, p.CreatedAt)
}

func TestProductImport_TodasImportadas(t *testing.T) {
	products := newFakeProducts()
	uc := newTransferUC(products)
	csv := importHeader +
		"Camisa,Algodón,CAM-1,Camisas,10,15,3,,estado-raro,,\n" +
		",,,,,,,,,,\n" +
		"Bufanda,Lana,BUF-1,Hogar,5,8,0,,,,\n"

	res, err := uc.Import(context.Background(), "productos.csv", strings.NewReader(csv))
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 2, res.TotalRows)
	assert.Equal(t, 2, res.SuccessCount)
	assert.Zero(t, res.ErrorCount)
	assert.Empty(t, res.Errors)
	require.Len(t, products.created, 2)
	assert.Equal(t, entity.ProductStatusDraft, products.created[0].Status)
	assert.Equal(t, "hogar", products.created[1].CategoryID)
}

func TestProductImport_GeneraSKU(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
	}{
		{"Camisa Oxford", "CAMISA-"},
		{"Té verde 500g", "TVERDE-"},
		{"A-1", "A1-"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products := newFakeProducts()
			uc := newTransferUC(products)
			csv := importHeader + fmt.Sprintf("%s,desc,,Ropa,10,12,1,,,,\n", tt.name)

			_, err := uc.Import(context.Background(), "p.csv", strings.NewReader(csv))
			require.NoError(t, err)
			require.Len(t, products.created, 1)
			sku := products.created[0].SKU
			assert.Regexp(t, "^"+tt.prefix+"[0-9A-F]{3}$", sku)
		})
	}
}

func TestProductImport_ArchivoInvalido(t *testing.T) {
	uc := newTransferUC(newFakeProducts())
	ctx := context.Background()

	_, err := uc.Import(ctx, "productos.xlsx", strings.NewReader(importHeader))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NotErrorIs(t, err, ErrImportValidation)

	_, err = uc.Import(ctx, "productos.csv", strings.NewReader(importHeader))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
