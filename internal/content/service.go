package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maisonlumiere/boutique-backend/internal/locale"
	"github.com/maisonlumiere/boutique-backend/pkg/db/models"
	pkgerrors "github.com/maisonlumiere/boutique-backend/pkg/errors"
)

var allowedModuleKinds = map[string]bool{
	"hero":           true,
	"collection_row": true,
	"editorial":      true,
	"lookbook":       true,
}

// Service manages homepage modules: the public localized listing and the
// admin CRUD plus ordering behind it.
type Service interface {
	ListHome(ctx context.Context, loc string) ([]HomeModuleDTO, error)
	ListAdmin(ctx context.Context) ([]AdminModuleDTO, error)
	Create(ctx context.Context, input ModuleInput) (*AdminModuleDTO, error)
	Update(ctx context.Context, id uuid.UUID, input ModuleInput) (*AdminModuleDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Reorder(ctx context.Context, orderedIDs []uuid.UUID) error
}

// ModuleInput carries the writable fields of a homepage module.
type ModuleInput struct {
	Kind      string           `json:"kind" validate:"required"`
	TitleFR   *string          `json:"title_fr"`
	TitleEN   *string          `json:"title_en"`
	Payload   *json.RawMessage `json:"payload"`
	SortOrder int              `json:"sort_order"`
	IsVisible bool             `json:"is_visible"`
}

// HomeModuleDTO is the localized public view of a module.
type HomeModuleDTO struct {
	ID      uuid.UUID        `json:"id"`
	Kind    string           `json:"kind"`
	Title   string           `json:"title,omitempty"`
	Payload *json.RawMessage `json:"payload,omitempty"`
}

// AdminModuleDTO is the full module row for the admin surface.
type AdminModuleDTO struct {
	ID        uuid.UUID        `json:"id"`
	Kind      string           `json:"kind"`
	TitleFR   *string          `json:"title_fr,omitempty"`
	TitleEN   *string          `json:"title_en,omitempty"`
	Payload   *json.RawMessage `json:"payload,omitempty"`
	SortOrder int              `json:"sort_order"`
	IsVisible bool             `json:"is_visible"`
}

type service struct {
	repo     ContentRepository
	txRunner txRunner
}

// NewService builds the content service.
func NewService(repo ContentRepository, runner txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("content repository is required")
	}
	if runner == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	return &service{repo: repo, txRunner: runner}, nil
}

func (s *service) ListHome(ctx context.Context, loc string) ([]HomeModuleDTO, error) {
	rows, err := s.repo.ListVisible(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list home modules")
	}
	out := make([]HomeModuleDTO, 0, len(rows))
	for i := range rows {
		out = append(out, newHomeModuleDTO(&rows[i], loc))
	}
	return out, nil
}

func (s *service) ListAdmin(ctx context.Context) ([]AdminModuleDTO, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list modules")
	}
	out := make([]AdminModuleDTO, 0, len(rows))
	for i := range rows {
		out = append(out, newAdminModuleDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, input ModuleInput) (*AdminModuleDTO, error) {
	module, err := buildModule(input)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, module)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create module")
	}
	dto := newAdminModuleDTO(created)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input ModuleInput) (*AdminModuleDTO, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "module not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load module")
	}

	module, err := buildModule(input)
	if err != nil {
		return nil, err
	}
	module.ID = existing.ID
	module.CreatedAt = existing.CreatedAt

	if err := s.repo.Update(ctx, module); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update module")
	}
	dto := newAdminModuleDTO(module)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "module not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load module")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete module")
	}
	return nil
}

// Reorder rewrites sort_order to the given sequence in one transaction.
// Modules absent from the list keep their relative position after the listed
// ones because positions are reassigned from zero.
func (s *service) Reorder(ctx context.Context, orderedIDs []uuid.UUID) error {
	if len(orderedIDs) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "ordered ids are required")
	}
	seen := make(map[uuid.UUID]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if seen[id] {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate module id in order")
		}
		seen[id] = true
	}

	err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for position, id := range orderedIDs {
			if _, err := repo.FindByID(ctx, id); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "module not found")
				}
				return err
			}
			if err := repo.UpdateSortOrder(ctx, id, position); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return typed
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reorder modules")
	}
	return nil
}

func buildModule(input ModuleInput) (*models.HomeModule, error) {
	kind := strings.TrimSpace(strings.ToLower(input.Kind))
	if !allowedModuleKinds[kind] {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown module kind %q", input.Kind))
	}
	var payload *string
	if input.Payload != nil && len(*input.Payload) > 0 {
		if !json.Valid(*input.Payload) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "payload must be valid json")
		}
		raw := string(*input.Payload)
		payload = &raw
	}
	return &models.HomeModule{
		Kind:      kind,
		TitleFR:   input.TitleFR,
		TitleEN:   input.TitleEN,
		Payload:   payload,
		SortOrder: input.SortOrder,
		IsVisible: input.IsVisible,
	}, nil
}

func newHomeModuleDTO(module *models.HomeModule, loc string) HomeModuleDTO {
	title := ""
	if loc == locale.English && module.TitleEN != nil && *module.TitleEN != "" {
		title = *module.TitleEN
	} else if module.TitleFR != nil {
		title = *module.TitleFR
	}
	return HomeModuleDTO{
		ID:      module.ID,
		Kind:    module.Kind,
		Title:   title,
		Payload: rawPayload(module.Payload),
	}
}

func newAdminModuleDTO(module *models.HomeModule) AdminModuleDTO {
	return AdminModuleDTO{
		ID:        module.ID,
		Kind:      module.Kind,
		TitleFR:   module.TitleFR,
		TitleEN:   module.TitleEN,
		Payload:   rawPayload(module.Payload),
		SortOrder: module.SortOrder,
		IsVisible: module.IsVisible,
	}
}

func rawPayload(payload *string) *json.RawMessage {
	if payload == nil || *payload == "" {
		return nil
	}
	raw := json.RawMessage(*payload)
	return &raw
}
