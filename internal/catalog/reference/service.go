package reference

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/critika-app/critika/internal/platform/apperr"
	"github.com/critika-app/critika/internal/platform/dberr"
	"github.com/critika-app/critika/pkg/pagination"
	"github.com/critika-app/critika/pkg/slug"
)

type Service struct {
	kind   Kind
	repo   Repository
	logger *slog.Logger
}

func NewService(kind Kind, repo Repository, logger *slog.Logger) *Service {
	return &Service{
		kind:   kind,
		repo:   repo,
		logger: logger,
	}
}

func (service *Service) List(context context.Context, search string, params pagination.Params) ([]*Item, int64, error) {
	items, total, err := service.repo.List(context, search, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("reference_service_list_failed: %w", err)
	}
	return items, total, nil
}

func (service *Service) Create(context context.Context, name, itemSlug string) (*Item, error) {

	// Slug is derived from the name unless the client supplied one.
	if itemSlug == "" {
		itemSlug = slug.From(name)
	}
	if itemSlug == "" {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   "slug",
			Message: "A slug could not be derived from this name",
		})
	}

	item := &Item{Name: name, Slug: itemSlug}
	if err := service.repo.Create(context, item); err != nil {
		if dberr.IsUniqueViolation(err, "") {
			return nil, apperr.Conflict(service.kind.Label() + " slug already exists")
		}
		return nil, fmt.Errorf("reference_service_create_failed: %w", err)
	}

	service.logger.InfoContext(context, "reference_item_created",
		slog.String("kind", string(service.kind)),
		slog.String("slug", item.Slug),
	)

	return item, nil
}

func (service *Service) DeleteBySlug(context context.Context, itemSlug string) error {
	if err := service.repo.DeleteBySlug(context, itemSlug); err != nil {
		return err
	}

	service.logger.InfoContext(context, "reference_item_deleted",
		slog.String("kind", string(service.kind)),
		slog.String("slug", itemSlug),
	)

	return nil
}
