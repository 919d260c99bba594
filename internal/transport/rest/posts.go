package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/feedtags-backend/internal/domain"
	"github.com/heartmarshall/feedtags-backend/internal/service/ingest"
)

// postService defines the post operations needed by PostHandler.
type postService interface {
	SubmitPost(ctx context.Context, owner uuid.UUID, input ingest.SubmitPostInput) (*domain.Post, error)
	GetPost(ctx context.Context, owner, id uuid.UUID) (*domain.Post, error)
	MarkPosts(ctx context.Context, owner uuid.UUID, input ingest.MarkPostsInput) (ingest.MarkResult, error)
}

// PostHandler serves post endpoints.
type PostHandler struct {
	svc postService
	log *slog.Logger
}

// NewPostHandler creates a PostHandler.
func NewPostHandler(svc postService, logger *slog.Logger) *PostHandler {
	return &PostHandler{svc: svc, log: logger.With("handler", "posts")}
}

type submitPostRequest struct {
	ID         *uuid.UUID `json:"id,omitempty"`
	FeedID     string     `json:"feed_id"`
	CategoryID string     `json:"category_id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	URL        string     `json:"url"`
	Read       bool       `json:"read"`
	Favorite   bool       `json:"favorite"`
}

type postResponse struct {
	ID         uuid.UUID `json:"id"`
	FeedID     string    `json:"feed_id,omitempty"`
	CategoryID string    `json:"category_id,omitempty"`
	Title      string    `json:"title"`
	URL        string    `json:"url,omitempty"`
	Read       bool      `json:"read"`
	Favorite   bool      `json:"favorite"`
	Tags       []string  `json:"tags"`
	BiGrams    []string  `json:"bi_grams"`
	Processing string    `json:"processing"`
	CreatedAt  time.Time `json:"created_at"`
}

type markPostsRequest struct {
	IDs  []uuid.UUID `json:"ids"`
	Read bool        `json:"read"`
}

type markPostsResponse struct {
	Changed int `json:"changed"`
	Matched struct {
		Tags    bool `json:"tags"`
		BiGrams bool `json:"bi_grams"`
		Letters bool `json:"letters"`
	} `json:"matched"`
}

// Submit handles POST /api/posts.
func (h *PostHandler) Submit(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}
	var req submitPostRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input := ingest.SubmitPostInput{
		FeedID:     req.FeedID,
		CategoryID: req.CategoryID,
		Title:      req.Title,
		Content:    req.Content,
		URL:        req.URL,
		Read:       req.Read,
		Favorite:   req.Favorite,
	}
	if req.ID != nil {
		input.ID = *req.ID
	}

	post, err := h.svc.SubmitPost(r.Context(), owner, input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPostResponse(*post))
}

// Get handles GET /api/posts/{id}.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	post, err := h.svc.GetPost(r.Context(), owner, id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPostResponse(*post))
}

// MarkRead handles POST /api/posts/read.
func (h *PostHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}
	var req markPostsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.svc.MarkPosts(r.Context(), owner, ingest.MarkPostsInput{IDs: req.IDs, Read: req.Read})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var resp markPostsResponse
	resp.Changed = res.Changed
	resp.Matched.Tags = res.Matched.Tags
	resp.Matched.BiGrams = res.Matched.BiGrams
	resp.Matched.Letters = res.Matched.Letters
	writeJSON(w, http.StatusOK, resp)
}

func toPostResponse(p domain.Post) postResponse {
	tags, biGrams := p.Tags, p.BiGrams
	if tags == nil {
		tags = []string{}
	}
	if biGrams == nil {
		biGrams = []string{}
	}
	return postResponse{
		ID:         p.ID,
		FeedID:     p.FeedID,
		CategoryID: p.CategoryID,
		Title:      p.Title,
		URL:        p.URL,
		Read:       p.Read,
		Favorite:   p.Favorite,
		Tags:       tags,
		BiGrams:    biGrams,
		Processing: p.Processing.String(),
		CreatedAt:  p.CreatedAt,
	}
}
