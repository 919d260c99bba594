package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/feedtags-backend/internal/domain"
	"github.com/heartmarshall/feedtags-backend/internal/service/catalog"
)

// catalogService defines the aggregate queries needed by the handlers.
type catalogService interface {
	ListTags(ctx context.Context, owner uuid.UUID, input catalog.ListInput) (catalog.Page[domain.Tag], error)
	CountTags(ctx context.Context, owner uuid.UUID, input catalog.ListInput) (int, error)
	GetTag(ctx context.Context, owner uuid.UUID, tag string) (*domain.Tag, error)
	ListBiGrams(ctx context.Context, owner uuid.UUID, input catalog.ListInput) (catalog.Page[domain.BiGram], error)
	GetBiGram(ctx context.Context, owner uuid.UUID, key string) (*domain.BiGram, error)
	Letters(ctx context.Context, owner uuid.UUID, onlyUnread bool) ([]domain.LetterItem, error)
}

// TagHandler serves tag and bi-gram endpoints.
type TagHandler struct {
	svc catalogService
	log *slog.Logger
}

// NewTagHandler creates a TagHandler.
func NewTagHandler(svc catalogService, logger *slog.Logger) *TagHandler {
	return &TagHandler{svc: svc, log: logger.With("handler", "tags")}
}

type tagResponse struct {
	Tag         string  `json:"tag"`
	PostsCount  int     `json:"posts_count"`
	UnreadCount int     `json:"unread_count"`
	Temperature float64 `json:"temperature"`
}

type biGramResponse struct {
	Tag         string   `json:"tag"`
	Tags        []string `json:"tags"`
	PostsCount  int      `json:"posts_count"`
	UnreadCount int      `json:"unread_count"`
	Temperature float64  `json:"temperature"`
}

type pageResponse[T any] struct {
	Items  []T  `json:"items"`
	Total  int  `json:"total"`
	Offset uint `json:"offset"`
	Limit  uint `json:"limit"`
}

type countResponse struct {
	Count int `json:"count"`
}

// ListTags handles GET /api/tags.
func (h *TagHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}
	input, err := parseListInput(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	page, err := h.svc.ListTags(r.Context(), owner, input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	items := make([]tagResponse, 0, len(page.Items))
	for _, t := range page.Items {
		items = append(items, toTagResponse(t))
	}
	writeJSON(w, http.StatusOK, pageResponse[tagResponse]{Items: items, Total: page.Total, Offset: page.Offset, Limit: page.Limit})
}

// CountTags handles GET /api/tags/count.
func (h *TagHandler) CountTags(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}
	input, err := parseListInput(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	n, err := h.svc.CountTags(r.Context(), owner, input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Count: n})
}

// GetTag handles GET /api/tags/{tag}.
func (h *TagHandler) GetTag(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}

	t, err := h.svc.GetTag(r.Context(), owner, r.PathValue("tag"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTagResponse(*t))
}

// ListBiGrams handles GET /api/bigrams.
func (h *TagHandler) ListBiGrams(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}
	input, err := parseListInput(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	page, err := h.svc.ListBiGrams(r.Context(), owner, input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	items := make([]biGramResponse, 0, len(page.Items))
	for _, bg := range page.Items {
		items = append(items, toBiGramResponse(bg))
	}
	writeJSON(w, http.StatusOK, pageResponse[biGramResponse]{Items: items, Total: page.Total, Offset: page.Offset, Limit: page.Limit})
}

// GetBiGram handles GET /api/bigrams/{bigram}.
func (h *TagHandler) GetBiGram(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}

	bg, err := h.svc.GetBiGram(r.Context(), owner, r.PathValue("bigram"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBiGramResponse(*bg))
}

// parseListInput reads the listing query parameters. page (1-based) is an
// alternative to offset used by letter links.
func parseListInput(r *http.Request) (catalog.ListInput, error) {
	q := r.URL.Query()
	input := catalog.ListInput{
		Pattern: q.Get("pattern"),
		Prefix:  q.Get("prefix"),
		Sort:    q.Get("sort"),
	}
	if tags := q.Get("tags"); tags != "" {
		input.Tags = strings.Split(tags, ",")
	}

	var err error
	if input.OnlyUnread, err = queryBool(r, "only_unread"); err != nil {
		return input, err
	}
	if input.Offset, err = queryUint(r, "offset"); err != nil {
		return input, err
	}
	if input.Limit, err = queryUint(r, "limit"); err != nil {
		return input, err
	}

	page, err := queryUint(r, "page")
	if err != nil {
		return input, err
	}
	if page > 0 {
		limit := input.Limit
		if limit == 0 {
			limit = domain.DefaultQueryLimit
		}
		input.Offset = (page - 1) * limit
	}
	return input, nil
}

func toTagResponse(t domain.Tag) tagResponse {
	return tagResponse{
		Tag:         t.Tag,
		PostsCount:  t.PostsCount,
		UnreadCount: t.UnreadCount,
		Temperature: t.Temperature,
	}
}

func toBiGramResponse(bg domain.BiGram) biGramResponse {
	tags := bg.Tags
	if tags == nil {
		tags = domain.BiGramTags(bg.Tag)
	}
	return biGramResponse{
		Tag:         bg.Tag,
		Tags:        tags,
		PostsCount:  bg.PostsCount,
		UnreadCount: bg.UnreadCount,
		Temperature: bg.Temperature,
	}
}
