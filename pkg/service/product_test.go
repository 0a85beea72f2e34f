package service

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/example/primepulse/pkg/models"
	"github.com/example/primepulse/pkg/repository"
)

type productStoreFake struct {
	products map[primitive.ObjectID]*models.Product
}

func newProductStoreFake() *productStoreFake {
	return &productStoreFake{products: make(map[primitive.ObjectID]*models.Product)}
}

func (f *productStoreFake) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	product.ID = primitive.NewObjectID()
	f.products[product.ID] = product
	return product, nil
}

func (f *productStoreFake) FindProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return product, nil
}

func (f *productStoreFake) FindActiveProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	product, ok := f.products[id]
	if !ok || product.Status != models.StatusActive {
		return nil, repository.ErrNotFound
	}
	return product, nil
}

func (f *productStoreFake) FindProductsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if product, ok := f.products[id]; ok {
			out = append(out, *product)
		}
	}
	return out, nil
}

func (f *productStoreFake) ListActiveProducts(ctx context.Context, q repository.PageQuery) ([]models.Product, int64, error) {
	var out []models.Product
	for _, product := range f.products {
		if product.Status == models.StatusActive {
			out = append(out, *product)
		}
	}
	return out, int64(len(out)), nil
}

func (f *productStoreFake) ListProductsByCategory(ctx context.Context, categoryID primitive.ObjectID, q repository.PageQuery) ([]models.Product, int64, error) {
	var out []models.Product
	for _, product := range f.products {
		if product.Status == models.StatusActive && product.CategoryID == categoryID {
			out = append(out, *product)
		}
	}
	return out, int64(len(out)), nil
}

func (f *productStoreFake) ListProductsBySubCategory(ctx context.Context, subCategoryID primitive.ObjectID, q repository.PageQuery) ([]models.Product, int64, error) {
	var out []models.Product
	for _, product := range f.products {
		if product.Status == models.StatusActive && product.SubCategoryID == subCategoryID {
			out = append(out, *product)
		}
	}
	return out, int64(len(out)), nil
}

func (f *productStoreFake) UpdateOwnedProduct(ctx context.Context, id, ownerID primitive.ObjectID, update bson.M) (*models.Product, error) {
	product, ok := f.products[id]
	if !ok || product.Owner != ownerID || product.Status == models.StatusDeleted {
		return nil, repository.ErrNotFound
	}
	if name, ok := update["name"].(string); ok {
		product.Name = name
	}
	if price, ok := update["price"].(float64); ok {
		product.Price = price
	}
	if quantity, ok := update["quantity"].(int64); ok {
		product.Quantity = quantity
	}
	return product, nil
}

func (f *productStoreFake) DeleteOwnedProduct(ctx context.Context, id, ownerID primitive.ObjectID) error {
	product, ok := f.products[id]
	if !ok || product.Owner != ownerID || product.Status == models.StatusDeleted {
		return repository.ErrNotFound
	}
	product.Status = models.StatusDeleted
	return nil
}

type productCategoryFake struct {
	categories    map[primitive.ObjectID]*models.Category
	subCategories map[primitive.ObjectID]*models.SubCategory
}

func (f *productCategoryFake) FindCategoryByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	category, ok := f.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return category, nil
}

func (f *productCategoryFake) FindSubCategoryByID(ctx context.Context, id primitive.ObjectID) (*models.SubCategory, error) {
	sub, ok := f.subCategories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return sub, nil
}

type productCacheFake struct {
	entries map[string]*models.Product
}

func newProductCacheFake() *productCacheFake {
	return &productCacheFake{entries: make(map[string]*models.Product)}
}

func (f *productCacheFake) CacheProduct(ctx context.Context, product *models.Product) error {
	f.entries[product.ID.Hex()] = product
	return nil
}

func (f *productCacheFake) GetCachedProduct(ctx context.Context, id string) (*models.Product, error) {
	product, ok := f.entries[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return product, nil
}

func (f *productCacheFake) InvalidateProduct(ctx context.Context, id string) error {
	delete(f.entries, id)
	return nil
}

type productFixture struct {
	svc   *ProductService
	store *productStoreFake
	cache *productCacheFake

	ownerID       primitive.ObjectID
	categoryID    primitive.ObjectID
	subCategoryID primitive.ObjectID
}

func newProductFixture() *productFixture {
	f := &productFixture{
		store:         newProductStoreFake(),
		cache:         newProductCacheFake(),
		ownerID:       primitive.NewObjectID(),
		categoryID:    primitive.NewObjectID(),
		subCategoryID: primitive.NewObjectID(),
	}
	categories := &productCategoryFake{
		categories:    map[primitive.ObjectID]*models.Category{},
		subCategories: map[primitive.ObjectID]*models.SubCategory{},
	}
	categories.categories[f.categoryID] = &models.Category{ID: f.categoryID, Name: "tools", Status: models.StatusActive}
	categories.subCategories[f.subCategoryID] = &models.SubCategory{
		ID: f.subCategoryID, CategoryID: f.categoryID, Name: "hand tools", Status: models.StatusActive,
	}
	f.svc = NewProductService(f.store, categories, f.cache, zap.NewNop())
	return f
}

func (f *productFixture) createProduct(t *testing.T) *models.Product {
	t.Helper()
	product, err := f.svc.Create(context.Background(), f.ownerID, ProductInput{
		Name:          "hammer",
		Price:         15,
		Quantity:      10,
		CategoryID:    f.categoryID,
		SubCategoryID: f.subCategoryID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return product
}

func TestProductGetCachesOnMiss(t *testing.T) {
	f := newProductFixture()
	product := f.createProduct(t)

	got, err := f.svc.Get(context.Background(), product.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != product.ID {
		t.Errorf("got product %v, want %v", got.ID, product.ID)
	}
	if _, ok := f.cache.entries[product.ID.Hex()]; !ok {
		t.Error("miss did not populate the cache")
	}

	// A second read is served from the cache even if the store row is
	// gone.
	delete(f.store.products, product.ID)
	if _, err := f.svc.Get(context.Background(), product.ID); err != nil {
		t.Fatalf("cached Get: %v", err)
	}
}

func TestProductUpdateInvalidatesCache(t *testing.T) {
	f := newProductFixture()
	product := f.createProduct(t)
	if _, err := f.svc.Get(context.Background(), product.ID); err != nil {
		t.Fatalf("Get: %v", err)
	}

	updated, err := f.svc.Update(context.Background(), f.ownerID, product.ID, ProductInput{Price: 18})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Price != 18 {
		t.Errorf("price = %v, want 18", updated.Price)
	}
	if _, ok := f.cache.entries[product.ID.Hex()]; ok {
		t.Error("update left a stale cache entry")
	}

	got, err := f.svc.Get(context.Background(), product.ID)
	if err != nil {
		t.Fatalf("Get after update: %v", err)
	}
	if got.Price != 18 {
		t.Errorf("re-read price = %v, want the updated 18", got.Price)
	}
}

func TestProductDeleteInvalidatesCache(t *testing.T) {
	f := newProductFixture()
	product := f.createProduct(t)
	if _, err := f.svc.Get(context.Background(), product.ID); err != nil {
		t.Fatalf("Get: %v", err)
	}

	if err := f.svc.Delete(context.Background(), f.ownerID, product.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := f.cache.entries[product.ID.Hex()]; ok {
		t.Error("delete left a stale cache entry")
	}

	_, err := f.svc.Get(context.Background(), product.ID)
	if KindOf(err) != KindNotFound {
		t.Fatalf("deleted product Get kind = %v, want not found", KindOf(err))
	}
}

func TestProductUpdateByNonOwner(t *testing.T) {
	f := newProductFixture()
	product := f.createProduct(t)

	_, err := f.svc.Update(context.Background(), primitive.NewObjectID(), product.ID, ProductInput{Price: 1})
	if KindOf(err) != KindNotFound {
		t.Fatalf("kind = %v, want not found", KindOf(err))
	}
	if f.store.products[product.ID].Price != 15 {
		t.Error("non-owner update mutated the product")
	}
}

func TestProductCreateChecksRefs(t *testing.T) {
	f := newProductFixture()

	_, err := f.svc.Create(context.Background(), f.ownerID, ProductInput{
		Name:          "hammer",
		Price:         15,
		Quantity:      10,
		CategoryID:    primitive.NewObjectID(),
		SubCategoryID: f.subCategoryID,
	})
	if KindOf(err) != KindNotFound {
		t.Errorf("unknown category kind = %v, want not found", KindOf(err))
	}

	otherSub := primitive.NewObjectID()
	categories := &productCategoryFake{
		categories: map[primitive.ObjectID]*models.Category{
			f.categoryID: {ID: f.categoryID, Status: models.StatusActive},
		},
		subCategories: map[primitive.ObjectID]*models.SubCategory{
			otherSub: {ID: otherSub, CategoryID: primitive.NewObjectID(), Status: models.StatusActive},
		},
	}
	svc := NewProductService(f.store, categories, f.cache, zap.NewNop())
	_, err = svc.Create(context.Background(), f.ownerID, ProductInput{
		Name:          "hammer",
		Price:         15,
		Quantity:      10,
		CategoryID:    f.categoryID,
		SubCategoryID: otherSub,
	})
	if KindOf(err) != KindInvalidState {
		t.Errorf("mismatched subcategory kind = %v, want invalid state", KindOf(err))
	}
}
