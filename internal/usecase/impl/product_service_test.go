package impl

import (
	"context"
	"strings"
	"testing"

	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/infra/storage"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
)

func newProductTestService(t *testing.T, factory *fakeRepoFactory) usecase.ProductUsecase {
	t.Helper()

	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = bucket.Close() })

	return NewProductService(ProductServiceParams{
		ProductRepo: factory.products,
		ImageStore:  storage.NewBlobImageStoreWithBucket(bucket, newDiscardLogger()),
		Logger:      newDiscardLogger(),
	})
}

func TestProductService_CreateProduct(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newProductTestService(t, factory)

	product, err := svc.CreateProduct(context.Background(), usecase.CreateProductInput{
		Name:               "Trail Runner",
		SKU:                "SHOE-001",
		ProductType:        "shoes",
		Price:              "129.90",
		DiscountPercentage: 10,
		IsFeatured:         true,
		IsActive:           true,
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, product.ID)
	assert.Equal(t, "116.91", product.DiscountedPrice().StringFixed(2))
}

func TestProductService_CreateProduct_Validation(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newProductTestService(t, factory)
	ctx := context.Background()

	cases := []struct {
		name  string
		input usecase.CreateProductInput
	}{
		{"missing name", usecase.CreateProductInput{SKU: "SKU-1", ProductType: "shoes", Price: "1.00", IsActive: true}},
		{"missing sku", usecase.CreateProductInput{Name: "X", ProductType: "shoes", Price: "1.00", IsActive: true}},
		{"unknown type", usecase.CreateProductInput{Name: "X", SKU: "SKU-1", ProductType: "grocery", Price: "1.00", IsActive: true}},
		{"bad price", usecase.CreateProductInput{Name: "X", SKU: "SKU-1", ProductType: "shoes", Price: "abc", IsActive: true}},
		{"negative price", usecase.CreateProductInput{Name: "X", SKU: "SKU-1", ProductType: "shoes", Price: "-1.00", IsActive: true}},
		{"discount over 100", usecase.CreateProductInput{Name: "X", SKU: "SKU-1", ProductType: "shoes", Price: "1.00", DiscountPercentage: 101, IsActive: true}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateProduct(ctx, tc.input)
			assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
		})
	}
}

func TestProductService_CreateProduct_SKUConflict(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newProductTestService(t, factory)
	seedProduct(t, factory, "SHOE-001", "10.00", 0, true)

	_, err := svc.CreateProduct(context.Background(), usecase.CreateProductInput{
		Name:        "Another",
		SKU:         "SHOE-001",
		ProductType: "shoes",
		Price:       "20.00",
		IsActive:    true,
	})

	assert.ErrorIs(t, err, domainerrors.ErrProductSKUConflict)
}

func TestProductService_GetProduct(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newProductTestService(t, factory)
	active := seedProduct(t, factory, "sku-1", "10.00", 0, true)
	inactive := seedProduct(t, factory, "sku-2", "10.00", 0, false)

	product, err := svc.GetProduct(context.Background(), active.ID)
	require.NoError(t, err)
	assert.Equal(t, active.ID, product.ID)

	// Inactive products are invisible to the public catalog.
	_, err = svc.GetProduct(context.Background(), inactive.ID)
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
}

func TestProductService_ListProducts(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newProductTestService(t, factory)
	ctx := context.Background()

	shoes := seedProduct(t, factory, "sku-1", "10.00", 0, true)
	shoes.IsFeatured = true
	seedProduct(t, factory, "sku-2", "20.00", 0, true)
	seedProduct(t, factory, "sku-3", "30.00", 0, false)

	all, err := svc.ListProducts(ctx, usecase.ListProductsInput{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	featured, err := svc.ListProducts(ctx, usecase.ListProductsInput{FeaturedOnly: true})
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, shoes.ID, featured[0].ID)

	_, err = svc.ListProducts(ctx, usecase.ListProductsInput{ProductType: "grocery"})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestProductService_UpdateProduct_PreservesImageKey(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newProductTestService(t, factory)
	product := seedProduct(t, factory, "sku-1", "10.00", 0, true)
	product.ImageKey = "products/existing.png"

	updated, err := svc.UpdateProduct(context.Background(), usecase.UpdateProductInput{
		ID:          product.ID,
		Name:        "Renamed",
		SKU:         "sku-1",
		ProductType: "shoes",
		Price:       "12.00",
		IsActive:    true,
	})

	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "products/existing.png", updated.ImageKey)
}

func TestProductService_UpdateProduct_NotFound(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newProductTestService(t, factory)

	_, err := svc.UpdateProduct(context.Background(), usecase.UpdateProductInput{
		ID:          uuid.New(),
		Name:        "X",
		SKU:         "sku-x",
		ProductType: "shoes",
		Price:       "1.00",
	})

	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
}

func TestProductService_UploadProductImage(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newProductTestService(t, factory)
	product := seedProduct(t, factory, "sku-1", "10.00", 0, true)

	key, err := svc.UploadProductImage(context.Background(), usecase.UploadProductImageInput{
		ProductID:   product.ID,
		ContentType: "image/png",
		Body:        strings.NewReader("png bytes"),
	})

	require.NoError(t, err)
	assert.Equal(t, "products/"+product.ID.String()+".png", key)

	stored, err := factory.products.FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, key, stored.ImageKey)
}

func TestProductService_UploadProductImage_UnsupportedType(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newProductTestService(t, factory)
	product := seedProduct(t, factory, "sku-1", "10.00", 0, true)

	_, err := svc.UploadProductImage(context.Background(), usecase.UploadProductImageInput{
		ProductID:   product.ID,
		ContentType: "image/gif",
		Body:        strings.NewReader("gif bytes"),
	})

	assert.ErrorIs(t, err, domainerrors.ErrProductImageInvalid)
}
