package reference

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/critika-app/critika/internal/platform/apperr"
	"github.com/critika-app/critika/pkg/pagination"
)

type fakeRepository struct {
	items []*Item
}

func (repo *fakeRepository) List(_ context.Context, search string, limit, offset int) ([]*Item, int64, error) {
	matched := []*Item{}
	for _, item := range repo.items {
		if search == "" || strings.Contains(strings.ToLower(item.Name), strings.ToLower(search)) {
			matched = append(matched, item)
		}
	}
	return matched, int64(len(matched)), nil
}

func (repo *fakeRepository) Create(_ context.Context, item *Item) error {
	for _, existing := range repo.items {
		if existing.Slug == item.Slug {
			return &pgconn.PgError{Code: pgerrcode.UniqueViolation}
		}
	}
	item.ID = int64(len(repo.items) + 1)
	repo.items = append(repo.items, item)
	return nil
}

func (repo *fakeRepository) DeleteBySlug(_ context.Context, slug string) error {
	for index, existing := range repo.items {
		if existing.Slug == slug {
			repo.items = append(repo.items[:index], repo.items[index+1:]...)
			return nil
		}
	}
	return apperr.NotFound("Genre")
}

func newTestService() (*Service, *fakeRepository) {
	repo := &fakeRepository{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(KindGenre, repo, logger), repo
}

func TestCreate_DerivesSlugFromName(t *testing.T) {
	service, _ := newTestService()

	item, err := service.Create(context.Background(), "Science Fiction", "")

	require.NoError(t, err)
	assert.Equal(t, "science-fiction", item.Slug)
}

func TestCreate_KeepsExplicitSlug(t *testing.T) {
	service, _ := newTestService()

	item, err := service.Create(context.Background(), "Science Fiction", "sci-fi")

	require.NoError(t, err)
	assert.Equal(t, "sci-fi", item.Slug)
}

func TestCreate_DuplicateSlugIsConflict(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Create(context.Background(), "Drama", "")
	require.NoError(t, err)

	_, err = service.Create(context.Background(), "Drama", "")
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusConflict, ae.HTTPStatus)
}

func TestList_SearchFiltersByName(t *testing.T) {
	service, repo := newTestService()
	repo.items = []*Item{
		{ID: 1, Name: "Drama", Slug: "drama"},
		{ID: 2, Name: "Dramedy", Slug: "dramedy"},
		{ID: 3, Name: "Horror", Slug: "horror"},
	}

	items, total, err := service.List(context.Background(), "dram", pagination.Params{Page: 1, Limit: 20})

	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, items, 2)
}

func TestDeleteBySlug(t *testing.T) {
	service, repo := newTestService()
	repo.items = []*Item{{ID: 1, Name: "Drama", Slug: "drama"}}

	require.NoError(t, service.DeleteBySlug(context.Background(), "drama"))
	assert.Empty(t, repo.items)

	err := service.DeleteBySlug(context.Background(), "drama")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)
}
