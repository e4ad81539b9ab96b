package content

import (
	"context"
	"encoding/json"
	"sort"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maisonlumiere/boutique-backend/pkg/db/models"
	pkgerrors "github.com/maisonlumiere/boutique-backend/pkg/errors"
)

type stubContentRepo struct {
	rows map[uuid.UUID]*models.HomeModule
}

func newStubContentRepo() *stubContentRepo {
	return &stubContentRepo{rows: map[uuid.UUID]*models.HomeModule{}}
}

func (s *stubContentRepo) WithTx(tx *gorm.DB) ContentRepository { return s }

func (s *stubContentRepo) sorted(visibleOnly bool) []models.HomeModule {
	var out []models.HomeModule
	for _, row := range s.rows {
		if visibleOnly && !row.IsVisible {
			continue
		}
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out
}

func (s *stubContentRepo) ListVisible(ctx context.Context) ([]models.HomeModule, error) {
	return s.sorted(true), nil
}

func (s *stubContentRepo) ListAll(ctx context.Context) ([]models.HomeModule, error) {
	return s.sorted(false), nil
}

func (s *stubContentRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.HomeModule, error) {
	row, ok := s.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (s *stubContentRepo) Create(ctx context.Context, module *models.HomeModule) (*models.HomeModule, error) {
	if module.ID == uuid.Nil {
		module.ID = uuid.New()
	}
	s.rows[module.ID] = module
	return module, nil
}

func (s *stubContentRepo) Update(ctx context.Context, module *models.HomeModule) error {
	s.rows[module.ID] = module
	return nil
}

func (s *stubContentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.rows, id)
	return nil
}

func (s *stubContentRepo) UpdateSortOrder(ctx context.Context, id uuid.UUID, sortOrder int) error {
	row, ok := s.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	row.SortOrder = sortOrder
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

func newContentFixture(t *testing.T) (Service, *stubContentRepo) {
	t.Helper()
	repo := newStubContentRepo()
	svc, err := NewService(repo, stubTxRunner{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func strPtr(s string) *string { return &s }

func TestListHomeLocalizesAndHidesInvisible(t *testing.T) {
	t.Parallel()

	svc, repo := newContentFixture(t)
	repo.rows[uuid.New()] = &models.HomeModule{
		ID: uuid.New(), Kind: "hero",
		TitleFR: strPtr("La Maison"), TitleEN: strPtr("The House"),
		SortOrder: 0, IsVisible: true,
	}
	hidden := uuid.New()
	repo.rows[hidden] = &models.HomeModule{
		ID: hidden, Kind: "editorial", TitleFR: strPtr("Brouillon"), SortOrder: 1,
	}

	fr, err := svc.ListHome(context.Background(), "fr")
	if err != nil {
		t.Fatalf("list home: %v", err)
	}
	if len(fr) != 1 || fr[0].Title != "La Maison" {
		t.Fatalf("unexpected french listing %+v", fr)
	}

	en, err := svc.ListHome(context.Background(), "en")
	if err != nil {
		t.Fatalf("list home: %v", err)
	}
	if len(en) != 1 || en[0].Title != "The House" {
		t.Fatalf("unexpected english listing %+v", en)
	}
}

func TestCreateRejectsUnknownKind(t *testing.T) {
	t.Parallel()

	svc, _ := newContentFixture(t)

	_, err := svc.Create(context.Background(), ModuleInput{Kind: "carousel"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestCreateRejectsInvalidPayload(t *testing.T) {
	t.Parallel()

	svc, _ := newContentFixture(t)

	bad := json.RawMessage(`{"broken":`)
	_, err := svc.Create(context.Background(), ModuleInput{Kind: "hero", Payload: &bad})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestReorderAssignsStablePositions(t *testing.T) {
	t.Parallel()

	svc, _ := newContentFixture(t)
	ctx := context.Background()

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		created, err := svc.Create(ctx, ModuleInput{Kind: "hero", SortOrder: i, IsVisible: true})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		ids = append(ids, created.ID)
	}

	reversed := []uuid.UUID{ids[2], ids[1], ids[0]}
	if err := svc.Reorder(ctx, reversed); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	listed, err := svc.ListAdmin(ctx)
	if err != nil {
		t.Fatalf("list admin: %v", err)
	}
	for i, dto := range listed {
		if dto.ID != reversed[i] {
			t.Fatalf("position %d: expected %s, got %s", i, reversed[i], dto.ID)
		}
	}
}

func TestReorderRejectsDuplicatesAndUnknownIDs(t *testing.T) {
	t.Parallel()

	svc, _ := newContentFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, ModuleInput{Kind: "hero"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = svc.Reorder(ctx, []uuid.UUID{created.ID, created.ID})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR for duplicates, got %v", err)
	}

	err = svc.Reorder(ctx, []uuid.UUID{uuid.New()})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND for unknown id, got %v", err)
	}
}

func TestDeleteUnknownModule(t *testing.T) {
	t.Parallel()

	svc, _ := newContentFixture(t)

	err := svc.Delete(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
