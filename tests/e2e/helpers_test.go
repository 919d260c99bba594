//go:build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/feedtags-backend/internal/adapter/postgres"
	"github.com/heartmarshall/feedtags-backend/internal/adapter/postgres/bigram"
	"github.com/heartmarshall/feedtags-backend/internal/adapter/postgres/letter"
	"github.com/heartmarshall/feedtags-backend/internal/adapter/postgres/post"
	"github.com/heartmarshall/feedtags-backend/internal/adapter/postgres/tag"
	"github.com/heartmarshall/feedtags-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/feedtags-backend/internal/app"
	"github.com/heartmarshall/feedtags-backend/internal/config"
	"github.com/heartmarshall/feedtags-backend/internal/transport/middleware"
	"github.com/heartmarshall/feedtags-backend/internal/transport/rest"
)

const testLexicon = `коты	кот
кот	кот
тестировали	тестировать
код	код
`

// ---------------------------------------------------------------------------
// testServer wraps the full-stack HTTP server for E2E tests.
// ---------------------------------------------------------------------------

type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool
	svc    *app.Services
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// setupTestServer bootstraps the application stack backed by a real
// PostgreSQL container (shared via testhelper).
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))

	lexiconPath := filepath.Join(t.TempDir(), "lexicon.tsv")
	require.NoError(t, os.WriteFile(lexiconPath, []byte(testLexicon), 0o600))

	cfg := &config.Config{
		Tagging: config.TaggingConfig{
			Alphabet:    "a-zA-Zа-яА-ЯёЁ0-9 ",
			LexiconPath: lexiconPath,
			CacheSize:   1000,
		},
		Ingest: config.IngestConfig{BatchSize: 10, Workers: 2, Timeout: time.Minute},
	}

	storage := &app.Storage{
		Backend: config.BackendPostgres,
		Tags:    tag.New(pool, logger),
		BiGrams: bigram.New(pool, logger),
		Letters: letter.New(pool, logger),
		Posts:   post.New(pool),
		Tx:      postgres.NewTxManager(pool),
		DB:      pool,
	}

	svc, err := app.NewServices(cfg, storage, logger)
	require.NoError(t, err)

	limiter := middleware.NewRateLimiter(time.Minute)
	t.Cleanup(limiter.Stop)

	handler := rest.NewRouter(rest.RouterDeps{
		Health:  rest.NewHealthHandler(pool, config.BackendPostgres, "test-version"),
		Tags:    rest.NewTagHandler(svc.Catalog, logger),
		Letters: rest.NewLetterHandler(svc.Catalog, svc.Sync, logger),
		Posts:   rest.NewPostHandler(svc.Ingest, logger),
		Limiter: limiter,
		CORS: config.CORSConfig{
			AllowedOrigins: "*",
			AllowedMethods: "GET,POST,OPTIONS",
			AllowedHeaders: "Content-Type,X-Owner-Id",
			MaxAge:         86400,
		},
		ResyncPerMinute: 100,
		Logger:          logger,
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		URL:    srv.URL,
		Client: srv.Client(),
		Pool:   pool,
		svc:    svc,
	}
}

// do sends a request as owner and decodes the JSON response into out
// when out is non-nil. Returns the status code.
func (ts *testServer) do(t *testing.T, method, path string, owner uuid.UUID, body any, out any) int {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if owner != uuid.Nil {
		req.Header.Set(middleware.OwnerHeader, owner.String())
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}
