package rest

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/heartmarshall/feedtags-backend/internal/config"
	"github.com/heartmarshall/feedtags-backend/internal/service/tagsync"
	"github.com/heartmarshall/feedtags-backend/internal/transport/middleware"
)

// Routes builds links to API endpoints. The letter rollup stores these links
// so the frontend can open the tag listing of a letter.
type Routes struct {
	base string
}

// NewRoutes creates Routes rooted at base, e.g. "" or "https://tags.example.com".
func NewRoutes(base string) Routes {
	return Routes{base: strings.TrimRight(base, "/")}
}

// BuildLocator returns the link of a named endpoint with query params.
// The letters endpoint maps to the tag listing filtered by prefix.
func (rt Routes) BuildLocator(endpoint string, params map[string]string) string {
	path := "/api/" + endpoint
	q := url.Values{}

	switch endpoint {
	case tagsync.LettersEndpoint:
		path = "/api/tags"
		for k, v := range params {
			switch k {
			case "letter":
				q.Set("prefix", v)
			case "page_number":
				q.Set("page", v)
			default:
				q.Set(k, v)
			}
		}
	default:
		for k, v := range params {
			q.Set(k, v)
		}
	}

	if len(q) == 0 {
		return rt.base + path
	}
	return rt.base + path + "?" + q.Encode()
}

// RouterDeps holds everything NewRouter wires together.
type RouterDeps struct {
	Health  *HealthHandler
	Tags    *TagHandler
	Letters *LetterHandler
	Posts   *PostHandler
	Limiter *middleware.RateLimiter
	CORS    config.CORSConfig
	// ResyncPerMinute limits letter resyncs per owner.
	ResyncPerMinute int
	// StorageTimeout bounds each /api request; zero disables it.
	StorageTimeout time.Duration
	Logger         *slog.Logger
}

// NewRouter builds the HTTP handler of the API. Probes are public; every
// /api route needs the owner header.
func NewRouter(d RouterDeps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", d.Health.Live)
	mux.HandleFunc("GET /ready", d.Health.Ready)
	mux.HandleFunc("GET /health", d.Health.Health)

	owned := middleware.Chain(middleware.Owner(), middleware.Timeout(d.StorageTimeout))
	limited := middleware.Chain(owned, d.Limiter.Limit(d.ResyncPerMinute))

	// A tag spelled "count" is reachable through the listing only.
	mux.Handle("GET /api/tags", owned.HandlerFunc(d.Tags.ListTags))
	mux.Handle("GET /api/tags/count", owned.HandlerFunc(d.Tags.CountTags))
	mux.Handle("GET /api/tags/{tag}", owned.HandlerFunc(d.Tags.GetTag))
	mux.Handle("GET /api/bigrams", owned.HandlerFunc(d.Tags.ListBiGrams))
	mux.Handle("GET /api/bigrams/{bigram}", owned.HandlerFunc(d.Tags.GetBiGram))
	mux.Handle("GET /api/letters", owned.HandlerFunc(d.Letters.List))
	mux.Handle("POST /api/letters/resync", limited.HandlerFunc(d.Letters.Resync))
	mux.Handle("POST /api/posts", owned.HandlerFunc(d.Posts.Submit))
	mux.Handle("POST /api/posts/read", owned.HandlerFunc(d.Posts.MarkRead))
	mux.Handle("GET /api/posts/{id}", owned.HandlerFunc(d.Posts.Get))

	return middleware.Chain(
		middleware.Recovery(d.Logger),
		middleware.RequestID(),
		middleware.Logger(d.Logger),
		middleware.CORS(d.CORS),
	)(mux)
}
