package services

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrijs2005/farmdash/internal/client/models"
)

// fakeGateway implements client.Gateway for unit tests of the services. It
// keeps server-side state so re-fetches observe earlier writes.
type fakeGateway struct {
	mu sync.Mutex

	Token    string
	LoginErr error

	Categories    []models.RawCategory
	ListCatErr    error
	GetCategories map[string]*models.RawCategory
	CreateCatRet  *models.RawCategory
	WriteCatErr   error

	Products      []models.RawProduct
	ListProdErr   error
	CreateProdRet *models.RawProduct
	CreateProdErr error
	UpdateProdErr error
	DeleteProdErr error

	// WriteGate, when set, holds product updates and deletes until closed.
	WriteGate chan struct{}

	Farmers         []models.RawFarmer
	DeleteFarmerErr error

	Calls map[string]int

	LastLoginMobile string
	LastFarmerLimit int
	LastFarmerOff   int
	LastStatus      *bool
	LastCatPatch    models.CategoryPatch
	LastProdPatch   models.ProductPatch
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{Calls: map[string]int{}}
}

func (f *fakeGateway) called(name string) {
	f.mu.Lock()
	f.Calls[name]++
	f.mu.Unlock()
}

func (f *fakeGateway) CallCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Calls[name]
}

func (f *fakeGateway) Login(ctx context.Context, mobile, password string) (string, error) {
	f.called("Login")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastLoginMobile = mobile
	return f.Token, f.LoginErr
}

func (f *fakeGateway) ListCategories(ctx context.Context) ([]models.RawCategory, error) {
	f.called("ListCategories")
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.Categories), f.ListCatErr
}

func (f *fakeGateway) GetCategory(ctx context.Context, id string) (*models.RawCategory, error) {
	f.called("GetCategory")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.GetCategories[id], nil
}

func (f *fakeGateway) CreateCategory(ctx context.Context, in models.CategoryInput) (*models.RawCategory, error) {
	f.called("CreateCategory")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.WriteCatErr != nil {
		return nil, f.WriteCatErr
	}
	return f.CreateCatRet, nil
}

func (f *fakeGateway) UpdateCategory(ctx context.Context, id string, patch models.CategoryPatch) error {
	f.called("UpdateCategory")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastCatPatch = patch
	return f.WriteCatErr
}

func (f *fakeGateway) UpdateCategoryStatus(ctx context.Context, id string, active bool) error {
	f.called("UpdateCategoryStatus")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastStatus = &active
	if f.WriteCatErr != nil {
		return f.WriteCatErr
	}
	for i := range f.Categories {
		if f.Categories[i].ID.String() == id {
			v := active
			f.Categories[i].IsActive = &v
		}
	}
	return nil
}

func (f *fakeGateway) DeleteCategory(ctx context.Context, id string) error {
	f.called("DeleteCategory")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.WriteCatErr != nil {
		return f.WriteCatErr
	}
	f.Categories = slices.DeleteFunc(f.Categories, func(c models.RawCategory) bool { return c.ID.String() == id })
	return nil
}

func (f *fakeGateway) ListProducts(ctx context.Context) ([]models.RawProduct, error) {
	f.called("ListProducts")
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.Products), f.ListProdErr
}

func (f *fakeGateway) GetProduct(ctx context.Context, id string) (*models.RawProduct, error) {
	f.called("GetProduct")
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.Products {
		if p.ID.String() == id {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeGateway) CreateProduct(ctx context.Context, in models.ProductInput) (*models.RawProduct, error) {
	f.called("CreateProduct")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateProdErr != nil {
		return nil, f.CreateProdErr
	}
	if f.CreateProdRet != nil {
		f.Products = append(f.Products, *f.CreateProdRet)
	}
	return f.CreateProdRet, nil
}

func (f *fakeGateway) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) error {
	f.called("UpdateProduct")
	if f.WriteGate != nil {
		<-f.WriteGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastProdPatch = patch
	if f.UpdateProdErr != nil {
		return f.UpdateProdErr
	}
	for i := range f.Products {
		if f.Products[i].ID.String() == id && patch.Price != nil {
			f.Products[i].Price = *patch.Price
		}
	}
	return nil
}

func (f *fakeGateway) DeleteProduct(ctx context.Context, id string) error {
	f.called("DeleteProduct")
	if f.WriteGate != nil {
		<-f.WriteGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteProdErr != nil {
		return f.DeleteProdErr
	}
	f.Products = slices.DeleteFunc(f.Products, func(p models.RawProduct) bool { return p.ID.String() == id })
	return nil
}

func (f *fakeGateway) ListFarmers(ctx context.Context, limit, offset int) ([]models.RawFarmer, error) {
	f.called("ListFarmers")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastFarmerLimit, f.LastFarmerOff = limit, offset
	return slices.Clone(f.Farmers), nil
}

func (f *fakeGateway) DeleteFarmer(ctx context.Context, id string) error {
	f.called("DeleteFarmer")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteFarmerErr != nil {
		return f.DeleteFarmerErr
	}
	f.Farmers = slices.DeleteFunc(f.Farmers, func(x models.RawFarmer) bool { return x.ID.String() == id })
	return nil
}

func boolPtr(b bool) *bool { return &b }
