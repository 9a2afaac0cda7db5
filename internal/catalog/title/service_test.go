package title

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/critika-app/critika/internal/platform/apperr"
	"github.com/critika-app/critika/pkg/pagination"
	"github.com/critika-app/critika/pkg/pointer"
)

type fakeRepository struct {
	titles map[int64]*Title
	nextID int64
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{titles: make(map[int64]*Title), nextID: 1}
}

func (repo *fakeRepository) List(_ context.Context, _ Filter, _, _ int) ([]*Title, int64, error) {
	all := []*Title{}
	for _, title := range repo.titles {
		all = append(all, title)
	}
	return all, int64(len(all)), nil
}

func (repo *fakeRepository) GetByID(_ context.Context, id int64) (*Title, error) {
	title, ok := repo.titles[id]
	if !ok {
		return nil, apperr.NotFound("Title")
	}
	return title, nil
}

func (repo *fakeRepository) Create(_ context.Context, model WriteModel) (*Title, error) {
	title := &Title{
		ID:          repo.nextID,
		Name:        model.Name,
		Year:        model.Year,
		Description: model.Description,
	}
	repo.titles[title.ID] = title
	repo.nextID++
	return title, nil
}

func (repo *fakeRepository) Update(_ context.Context, id int64, patch Patch) (*Title, error) {
	title, ok := repo.titles[id]
	if !ok {
		return nil, apperr.NotFound("Title")
	}
	if patch.Name != nil {
		title.Name = *patch.Name
	}
	if patch.Year != nil {
		title.Year = *patch.Year
	}
	if patch.Description != nil {
		title.Description = *patch.Description
	}
	return title, nil
}

func (repo *fakeRepository) Delete(_ context.Context, id int64) error {
	if _, ok := repo.titles[id]; !ok {
		return apperr.NotFound("Title")
	}
	delete(repo.titles, id)
	return nil
}

// frozen clock: all year-ceiling tests pivot on 2024.
func fixedNow() time.Time {
	return time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
}

func newTestService() (*Service, *fakeRepository) {
	repo := newFakeRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, logger, fixedNow), repo
}

func TestCreate_YearCeiling(t *testing.T) {
	service, _ := newTestService()

	tests := []struct {
		name    string
		year    int
		allowed bool
	}{
		{"past_year", 1999, true},
		{"current_year", 2024, true},
		{"next_year", 2025, false},
		{"far_future", 3000, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), WriteModel{Name: "Work", Year: tt.year})

			if tt.allowed {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
		})
	}
}

func TestUpdate_YearCeilingAppliesToPatch(t *testing.T) {
	service, repo := newTestService()
	repo.titles[1] = &Title{ID: 1, Name: "Work", Year: 2000}
	repo.nextID = 2

	_, err := service.Update(context.Background(), 1, Patch{Year: pointer.To(2025)})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperr.As(err).HTTPStatus)

	updated, err := service.Update(context.Background(), 1, Patch{Year: pointer.To(2024)})
	require.NoError(t, err)
	assert.Equal(t, 2024, updated.Year)
}

func TestGet_UnknownTitle(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Get(context.Background(), 42)

	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)
}

func TestList_PassesThroughRating(t *testing.T) {
	service, repo := newTestService()
	repo.titles[1] = &Title{ID: 1, Name: "Unreviewed", Year: 2020, Rating: nil}
	repo.titles[2] = &Title{ID: 2, Name: "Reviewed", Year: 2020, Rating: pointer.To(7.5)}

	titles, total, err := service.List(context.Background(), Filter{}, pagination.Params{Page: 1, Limit: 20})

	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	byName := map[string]*Title{}
	for _, title := range titles {
		byName[title.Name] = title
	}

	// Zero reviews is null, never zero.
	assert.Nil(t, byName["Unreviewed"].Rating)
	require.NotNil(t, byName["Reviewed"].Rating)
	assert.InDelta(t, 7.5, *byName["Reviewed"].Rating, 0.0001)
}
