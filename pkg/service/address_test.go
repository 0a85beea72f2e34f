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

type addressStoreFake struct {
	addresses map[primitive.ObjectID]*models.Address
	updateErr error
}

func newAddressStoreFake() *addressStoreFake {
	return &addressStoreFake{addresses: make(map[primitive.ObjectID]*models.Address)}
}

func (f *addressStoreFake) CreateAddress(ctx context.Context, address *models.Address) (*models.Address, error) {
	address.ID = primitive.NewObjectID()
	f.addresses[address.ID] = address
	return address, nil
}

func (f *addressStoreFake) FindOwnedAddress(ctx context.Context, id, userID primitive.ObjectID) (*models.Address, error) {
	address, ok := f.addresses[id]
	if !ok || address.UserID != userID || address.Status == models.StatusDeleted {
		return nil, repository.ErrNotFound
	}
	return address, nil
}

func (f *addressStoreFake) FindAddressByText(ctx context.Context, userID primitive.ObjectID, addressText string) (*models.Address, error) {
	for _, address := range f.addresses {
		if address.UserID == userID && address.Address == addressText && address.Status != models.StatusDeleted {
			return address, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *addressStoreFake) ListActiveAddresses(ctx context.Context, userID primitive.ObjectID, q repository.PageQuery) ([]models.Address, int64, error) {
	var out []models.Address
	for _, address := range f.addresses {
		if address.UserID == userID && address.Status == models.StatusActive {
			out = append(out, *address)
		}
	}
	return out, int64(len(out)), nil
}

func (f *addressStoreFake) UpdateAddress(ctx context.Context, id, userID primitive.ObjectID, update bson.M) (*models.Address, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	address, ok := f.addresses[id]
	if !ok || address.UserID != userID {
		return nil, repository.ErrNotFound
	}
	if text, ok := update["address"].(string); ok {
		address.Address = text
	}
	if city, ok := update["city"].(string); ok {
		address.City = city
	}
	return address, nil
}

func (f *addressStoreFake) DeleteAddress(ctx context.Context, id, userID primitive.ObjectID) error {
	address, ok := f.addresses[id]
	if !ok || address.UserID != userID || address.Status == models.StatusDeleted {
		return repository.ErrNotFound
	}
	address.Status = models.StatusDeleted
	return nil
}

func newAddressFixture() (*AddressService, *addressStoreFake, primitive.ObjectID) {
	store := newAddressStoreFake()
	return NewAddressService(store, zap.NewNop()), store, primitive.NewObjectID()
}

func TestAddressCreateLowercasesAndConflicts(t *testing.T) {
	svc, _, userID := newAddressFixture()

	address, err := svc.Create(context.Background(), userID, AddressInput{
		Address: "12 Main Street", City: "Lagos", State: "LA", Country: "NG", ZipCode: "100001",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if address.Address != "12 main street" {
		t.Errorf("address = %q, want lowercased", address.Address)
	}

	_, err = svc.Create(context.Background(), userID, AddressInput{
		Address: "12 MAIN STREET", City: "Lagos", State: "LA", Country: "NG", ZipCode: "100001",
	})
	if KindOf(err) != KindConflict {
		t.Fatalf("duplicate kind = %v, want conflict", KindOf(err))
	}
}

func TestAddressUpdateVanishedAddress(t *testing.T) {
	svc, store, userID := newAddressFixture()
	address, err := svc.Create(context.Background(), userID, AddressInput{
		Address: "12 Main Street", City: "Lagos", State: "LA", Country: "NG", ZipCode: "100001",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// The row disappears between the owned-check and the write; the
	// caller gets a not-found, not an internal error.
	store.updateErr = repository.ErrNotFound
	_, err = svc.Update(context.Background(), userID, address.ID, AddressInput{
		Address: "34 Side Street", City: "Lagos", State: "LA", Country: "NG", ZipCode: "100001",
	})
	if KindOf(err) != KindNotFound {
		t.Fatalf("kind = %v, want not found", KindOf(err))
	}
	if MessageOf(err) != "Address not found" {
		t.Errorf("message = %q", MessageOf(err))
	}
}

func TestAddressUpdateRejectsDuplicateText(t *testing.T) {
	svc, _, userID := newAddressFixture()
	first, err := svc.Create(context.Background(), userID, AddressInput{
		Address: "12 Main Street", City: "Lagos", State: "LA", Country: "NG", ZipCode: "100001",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := svc.Create(context.Background(), userID, AddressInput{
		Address: "34 Side Street", City: "Lagos", State: "LA", Country: "NG", ZipCode: "100001",
	})
	if err != nil {
		t.Fatalf("Create second: %v", err)
	}

	_, err = svc.Update(context.Background(), userID, second.ID, AddressInput{
		Address: "12 Main Street", City: "Lagos", State: "LA", Country: "NG", ZipCode: "100001",
	})
	if KindOf(err) != KindConflict {
		t.Fatalf("kind = %v, want conflict", KindOf(err))
	}

	// Re-saving the same text on its own row is fine.
	if _, err := svc.Update(context.Background(), userID, first.ID, AddressInput{
		Address: "12 Main Street", City: "Ikeja", State: "LA", Country: "NG", ZipCode: "100001",
	}); err != nil {
		t.Fatalf("self update: %v", err)
	}
}

func TestAddressDeleteHidesFromList(t *testing.T) {
	svc, _, userID := newAddressFixture()
	address, err := svc.Create(context.Background(), userID, AddressInput{
		Address: "12 Main Street", City: "Lagos", State: "LA", Country: "NG", ZipCode: "100001",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(context.Background(), userID, address.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	addresses, total, err := svc.List(context.Background(), userID, repository.PageQuery{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 0 || len(addresses) != 0 {
		t.Errorf("deleted address still listed: %d (total %d)", len(addresses), total)
	}

	_, err = svc.Get(context.Background(), userID, address.ID)
	if KindOf(err) != KindNotFound {
		t.Errorf("deleted address Get kind = %v, want not found", KindOf(err))
	}
}
