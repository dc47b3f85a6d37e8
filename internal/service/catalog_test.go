package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/online_shopping/internal/models"
	"github.com/Skotchmaster/online_shopping/internal/repo"
	"github.com/Skotchmaster/online_shopping/internal/testutil"
	"github.com/Skotchmaster/online_shopping/internal/transport"
)

type fakeIndex struct {
	docs      map[uint]models.Product
	searchErr error
	indexErr  error
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{docs: map[uint]models.Product{}}
}

func (f *fakeIndex) Index(_ context.Context, prod *models.Product) error {
	if f.indexErr != nil {
		return f.indexErr
	}
	f.docs[prod.ID] = *prod
	return nil
}

func (f *fakeIndex) Remove(_ context.Context, id uint) error {
	delete(f.docs, id)
	return nil
}

func (f *fakeIndex) Search(_ context.Context, _ string, _, _ int) (int64, []models.Product, error) {
	if f.searchErr != nil {
		return 0, nil, f.searchErr
	}
	items := []models.Product{}
	for _, d := range f.docs {
		items = append(items, d)
	}
	return int64(len(items)), items, nil
}

func newCatalogFixture(t *testing.T) *CatalogService {
	t.Helper()
	return &CatalogService{Repo: &repo.ProductRepo{DB: testutil.NewDB(t)}}
}

func productReq(name, category string) transport.ProductRequest {
	return transport.ProductRequest{
		Name:          name,
		Description:   name + " description",
		Price:         decimal.RequireFromString("9.99"),
		Category:      category,
		StockQuantity: 3,
	}
}

func TestCatalogService_CreateAndList(t *testing.T) {
	svc := newCatalogFixture(t)
	ctx := context.Background()

	for _, r := range []transport.ProductRequest{
		productReq("Red Shirt", "clothes"),
		productReq("Blue Shirt", "clothes"),
		productReq("Coffee Mug", "kitchen"),
	} {
		_, err := svc.Create(ctx, r)
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	clothes, err := svc.List(ctx, "clothes", "mug")
	require.NoError(t, err)
	assert.Len(t, clothes, 2, "category wins over name")

	shirts, err := svc.List(ctx, "", "SHIRT")
	require.NoError(t, err)
	assert.Len(t, shirts, 2)
}

func TestCatalogService_Create_Validation(t *testing.T) {
	svc := newCatalogFixture(t)

	bad := []transport.ProductRequest{
		{Name: ""},
		{Name: "x", Price: decimal.NewFromInt(-1)},
		{Name: "x", StockQuantity: -1},
	}
	for _, r := range bad {
		_, err := svc.Create(context.Background(), r)
		assert.ErrorIs(t, err, ErrValidation)
	}
}

func TestCatalogService_UpdateAndDelete(t *testing.T) {
	svc := newCatalogFixture(t)
	idx := newFakeIndex()
	svc.Index = idx
	ctx := context.Background()

	prod, err := svc.Create(ctx, productReq("Lamp", "home"))
	require.NoError(t, err)
	assert.Contains(t, idx.docs, prod.ID)

	req := productReq("Desk Lamp", "home")
	req.Price = decimal.RequireFromString("19.50")
	updated, err := svc.Update(ctx, prod.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Desk Lamp", updated.Name)
	assert.Equal(t, "Desk Lamp", idx.docs[prod.ID].Name)

	got, err := svc.Get(ctx, prod.ID)
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("19.50")))

	_, err = svc.Update(ctx, 999, req)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Delete(ctx, prod.ID))
	assert.NotContains(t, idx.docs, prod.ID)
	assert.ErrorIs(t, svc.Delete(ctx, prod.ID), ErrNotFound)
}

func TestCatalogService_IndexFailureDoesNotFailWrite(t *testing.T) {
	svc := newCatalogFixture(t)
	svc.Index = &fakeIndex{docs: map[uint]models.Product{}, indexErr: errors.New("es down")}

	prod, err := svc.Create(context.Background(), productReq("Chair", "home"))
	require.NoError(t, err)
	assert.NotZero(t, prod.ID)
}

func TestCatalogService_Search(t *testing.T) {
	svc := newCatalogFixture(t)
	ctx := context.Background()
	for _, name := range []string{"Green Tea", "Black Tea", "Teapot", "Spoon"} {
		_, err := svc.Create(ctx, productReq(name, "kitchen"))
		require.NoError(t, err)
	}

	t.Run("database fallback pages results", func(t *testing.T) {
		res, err := svc.Search(ctx, "tea", 2, 2)
		require.NoError(t, err)
		assert.EqualValues(t, 3, res.Total)
		assert.Equal(t, 2, res.Page)
		require.Len(t, res.Items, 1)
		assert.Equal(t, "Teapot", res.Items[0].Name)
	})

	t.Run("empty query", func(t *testing.T) {
		_, err := svc.Search(ctx, "  ", 1, 10)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("index used when present", func(t *testing.T) {
		idx := newFakeIndex()
		idx.docs[77] = models.Product{ID: 77, Name: "Indexed"}
		s := &CatalogService{Repo: svc.Repo, Index: idx}
		res, err := s.Search(ctx, "anything", 1, 10)
		require.NoError(t, err)
		require.Len(t, res.Items, 1)
		assert.Equal(t, "Indexed", res.Items[0].Name)
	})

	t.Run("failing index falls back", func(t *testing.T) {
		s := &CatalogService{Repo: svc.Repo, Index: &fakeIndex{searchErr: errors.New("timeout")}}
		res, err := s.Search(ctx, "spoon", 1, 10)
		require.NoError(t, err)
		assert.EqualValues(t, 1, res.Total)
	})
}
