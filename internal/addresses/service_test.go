package addresses

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maisonlumiere/boutique-backend/pkg/db/models"
	pkgerrors "github.com/maisonlumiere/boutique-backend/pkg/errors"
)

type stubAddressRepo struct {
	rows map[uuid.UUID]*models.Address
}

func newStubAddressRepo() *stubAddressRepo {
	return &stubAddressRepo{rows: map[uuid.UUID]*models.Address{}}
}

func (s *stubAddressRepo) WithTx(tx *gorm.DB) AddressRepository { return s }

func (s *stubAddressRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	var out []models.Address
	for _, row := range s.rows {
		if row.UserID == userID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (s *stubAddressRepo) FindByID(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	row, ok := s.rows[addressID]
	if !ok || row.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (s *stubAddressRepo) Create(ctx context.Context, address *models.Address) (*models.Address, error) {
	if address.ID == uuid.Nil {
		address.ID = uuid.New()
	}
	s.rows[address.ID] = address
	return address, nil
}

func (s *stubAddressRepo) Update(ctx context.Context, address *models.Address) error {
	s.rows[address.ID] = address
	return nil
}

func (s *stubAddressRepo) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	row, ok := s.rows[addressID]
	if ok && row.UserID == userID {
		delete(s.rows, addressID)
	}
	return nil
}

func (s *stubAddressRepo) ClearDefault(ctx context.Context, userID uuid.UUID) error {
	for _, row := range s.rows {
		if row.UserID == userID {
			row.IsDefault = false
		}
	}
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

func (s *stubAddressRepo) defaultCount(userID uuid.UUID) int {
	count := 0
	for _, row := range s.rows {
		if row.UserID == userID && row.IsDefault {
			count++
		}
	}
	return count
}

func newAddressFixture(t *testing.T) (Service, *stubAddressRepo) {
	t.Helper()
	repo := newStubAddressRepo()
	svc, err := NewService(repo, stubTxRunner{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func TestCreateDefaultsCountryToFrance(t *testing.T) {
	t.Parallel()

	svc, _ := newAddressFixture(t)

	dto, err := svc.Create(context.Background(), uuid.New(), AddressInput{
		Line1:      "12 rue de la Paix",
		City:       "Paris",
		PostalCode: "75002",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Country != "FR" {
		t.Fatalf("expected FR default, got %q", dto.Country)
	}
}

func TestCreateRejectsMissingFields(t *testing.T) {
	t.Parallel()

	svc, _ := newAddressFixture(t)

	_, err := svc.Create(context.Background(), uuid.New(), AddressInput{Line1: "12 rue de la Paix"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestNewDefaultClearsPreviousDefault(t *testing.T) {
	t.Parallel()

	svc, repo := newAddressFixture(t)
	userID := uuid.New()
	ctx := context.Background()

	first, err := svc.Create(ctx, userID, AddressInput{
		Line1:      "12 rue de la Paix",
		City:       "Paris",
		PostalCode: "75002",
		IsDefault:  true,
	})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}

	_, err = svc.Create(ctx, userID, AddressInput{
		Line1:      "3 quai Voltaire",
		City:       "Paris",
		PostalCode: "75007",
		IsDefault:  true,
	})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	if got := repo.defaultCount(userID); got != 1 {
		t.Fatalf("expected exactly one default, got %d", got)
	}
	if repo.rows[first.ID].IsDefault {
		t.Fatal("first address should have lost the default flag")
	}
}

func TestSetDefaultMovesFlag(t *testing.T) {
	t.Parallel()

	svc, repo := newAddressFixture(t)
	userID := uuid.New()
	ctx := context.Background()

	first, err := svc.Create(ctx, userID, AddressInput{
		Line1: "12 rue de la Paix", City: "Paris", PostalCode: "75002", IsDefault: true,
	})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := svc.Create(ctx, userID, AddressInput{
		Line1: "3 quai Voltaire", City: "Paris", PostalCode: "75007",
	})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	if err := svc.SetDefault(ctx, userID, second.ID); err != nil {
		t.Fatalf("set default: %v", err)
	}
	if repo.rows[first.ID].IsDefault || !repo.rows[second.ID].IsDefault {
		t.Fatal("default flag should have moved to the second address")
	}
	if got := repo.defaultCount(userID); got != 1 {
		t.Fatalf("expected exactly one default, got %d", got)
	}
}

func TestDeleteUnknownAddress(t *testing.T) {
	t.Parallel()

	svc, _ := newAddressFixture(t)

	err := svc.Delete(context.Background(), uuid.New(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestUpdateScopedToOwner(t *testing.T) {
	t.Parallel()

	svc, _ := newAddressFixture(t)
	owner := uuid.New()
	ctx := context.Background()

	created, err := svc.Create(ctx, owner, AddressInput{
		Line1: "12 rue de la Paix", City: "Paris", PostalCode: "75002",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Update(ctx, uuid.New(), created.ID, AddressInput{
		Line1: "1 rue du Bac", City: "Paris", PostalCode: "75007",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("another user's address must be invisible, got %v", err)
	}
}
