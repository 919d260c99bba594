package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/feedtags-backend/internal/domain"
)

// letterSyncer rebuilds an owner's letter rollup from the tags.
type letterSyncer interface {
	ResyncOwnerLetters(ctx context.Context, owner uuid.UUID) (map[string]domain.LetterItem, error)
}

// LetterHandler serves the letter rollup endpoints.
type LetterHandler struct {
	catalog catalogService
	sync    letterSyncer
	log     *slog.Logger
}

// NewLetterHandler creates a LetterHandler.
func NewLetterHandler(catalog catalogService, sync letterSyncer, logger *slog.Logger) *LetterHandler {
	return &LetterHandler{catalog: catalog, sync: sync, log: logger.With("handler", "letters")}
}

type letterResponse struct {
	Letter      string `json:"letter"`
	UnreadCount int    `json:"unread_count"`
	LocalURL    string `json:"local_url"`
}

type lettersResponse struct {
	Letters []letterResponse `json:"letters"`
}

// List handles GET /api/letters.
func (h *LetterHandler) List(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}
	onlyUnread, err := queryBool(r, "only_unread")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	items, err := h.catalog.Letters(r.Context(), owner, onlyUnread)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toLettersResponse(items))
}

// Resync handles POST /api/letters/resync. It rebuilds the rollup from the
// current tags and returns it.
func (h *LetterHandler) Resync(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}

	letters, err := h.sync.ResyncOwnerLetters(r.Context(), owner)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	h.log.InfoContext(r.Context(), "letters resynced",
		slog.String("owner_id", owner.String()),
		slog.Int("letters", len(letters)),
	)
	doc := domain.Letters{OwnerID: owner, Letters: letters}
	writeJSON(w, http.StatusOK, toLettersResponse(doc.Sorted()))
}

func toLettersResponse(items []domain.LetterItem) lettersResponse {
	resp := lettersResponse{Letters: make([]letterResponse, 0, len(items))}
	for _, item := range items {
		resp.Letters = append(resp.Letters, letterResponse{
			Letter:      item.Letter,
			UnreadCount: item.UnreadCount,
			LocalURL:    item.LocalURL,
		})
	}
	return resp
}
