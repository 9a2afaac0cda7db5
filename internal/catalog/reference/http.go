package reference

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/critika-app/critika/internal/platform/request"
	"github.com/critika-app/critika/internal/platform/respond"
	"github.com/critika-app/critika/internal/platform/validate"
	"github.com/critika-app/critika/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the vocabulary surface. Write authorization (admin
// only) is enforced by the policy middleware installed at mount time; there
// is no single-item retrieve or patch.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Delete("/{slug}", handler.deleteBySlug)
}

type createItemRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	search := request.URL.Query().Get("search")

	items, total, err := handler.service.List(request.Context(), search, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, items, pagination.NewMeta(params.Page, params.Limit, int(total)))
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createItemRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required("name", input.Name).MaxLen("name", input.Name, 256)
	if input.Slug != "" {
		validator.Slug("slug", input.Slug).MaxLen("slug", input.Slug, 50)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	item, err := handler.service.Create(request.Context(), input.Name, input.Slug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, item)
}

func (handler *Handler) deleteBySlug(writer http.ResponseWriter, request *http.Request) {
	slug := requestutil.Param(request, "slug")

	if err := handler.service.DeleteBySlug(request.Context(), slug); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
