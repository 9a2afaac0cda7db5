package title

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/critika-app/critika/internal/platform/apperr"
	"github.com/critika-app/critika/pkg/pagination"
)

type Service struct {
	repo   Repository
	logger *slog.Logger

	// now is injected so the year ceiling is testable.
	now func() time.Time
}

func NewService(repo Repository, logger *slog.Logger, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo:   repo,
		logger: logger,
		now:    now,
	}
}

func (service *Service) List(context context.Context, filter Filter, params pagination.Params) ([]*Title, int64, error) {
	titles, total, err := service.repo.List(context, filter, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("title_service_list_failed: %w", err)
	}
	return titles, total, nil
}

func (service *Service) Get(context context.Context, id int64) (*Title, error) {
	return service.repo.GetByID(context, id)
}

func (service *Service) Create(context context.Context, model WriteModel) (*Title, error) {
	if err := service.checkYear(model.Year); err != nil {
		return nil, err
	}

	created, err := service.repo.Create(context, model)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "title_created",
		slog.Int64("title_id", created.ID),
		slog.String("name", created.Name),
	)

	return created, nil
}

func (service *Service) Update(context context.Context, id int64, patch Patch) (*Title, error) {
	if patch.Year != nil {
		if err := service.checkYear(*patch.Year); err != nil {
			return nil, err
		}
	}

	updated, err := service.repo.Update(context, id, patch)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "title_updated", slog.Int64("title_id", id))

	return updated, nil
}

func (service *Service) Delete(context context.Context, id int64) error {
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.InfoContext(context, "title_deleted", slog.Int64("title_id", id))

	return nil
}

// checkYear rejects release years in the future. Unreleased works are not
// reviewable.
func (service *Service) checkYear(year int) error {
	if year > service.now().Year() {
		return apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   "year",
			Message: fmt.Sprintf("Year cannot be later than %d", service.now().Year()),
		})
	}
	return nil
}
