package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/mongo"

	mongoadapter "github.com/heartmarshall/feedtags-backend/internal/adapter/mongo"
	"github.com/heartmarshall/feedtags-backend/internal/adapter/postgres"
	"github.com/heartmarshall/feedtags-backend/internal/adapter/postgres/bigram"
	"github.com/heartmarshall/feedtags-backend/internal/adapter/postgres/letter"
	"github.com/heartmarshall/feedtags-backend/internal/adapter/postgres/post"
	"github.com/heartmarshall/feedtags-backend/internal/adapter/postgres/tag"
	"github.com/heartmarshall/feedtags-backend/internal/config"
	"github.com/heartmarshall/feedtags-backend/internal/domain"
)

// TagStore is the union of what the services need from the tag store.
type TagStore interface {
	Get(ctx context.Context, owner uuid.UUID, tag string) (*domain.Tag, error)
	List(ctx context.Context, owner uuid.UUID, opts domain.QueryOptions) ([]domain.Tag, error)
	ListAll(ctx context.Context, owner uuid.UUID) ([]domain.Tag, error)
	Count(ctx context.Context, owner uuid.UUID, opts domain.QueryOptions) (int, error)
	Owners(ctx context.Context) ([]uuid.UUID, error)
	Upsert(ctx context.Context, owner uuid.UUID, tags []string, unread bool) error
	ApplyDeltas(ctx context.Context, owner uuid.UUID, deltas map[string]int) (bool, error)
	DecayTemperature(ctx context.Context, factor float64) (int64, error)
}

// BiGramStore is the union of what the services need from the bi-gram store.
type BiGramStore interface {
	Get(ctx context.Context, owner uuid.UUID, key string) (*domain.BiGram, error)
	List(ctx context.Context, owner uuid.UUID, opts domain.QueryOptions) ([]domain.BiGram, error)
	Count(ctx context.Context, owner uuid.UUID, opts domain.QueryOptions) (int, error)
	Upsert(ctx context.Context, owner uuid.UUID, keys []string, unread bool) error
	ApplyDeltas(ctx context.Context, owner uuid.UUID, deltas map[string]int) (bool, error)
	DecayTemperature(ctx context.Context, factor float64) (int64, error)
}

// LetterStore is the union of what the services need from the letter store.
type LetterStore interface {
	Get(ctx context.Context, owner uuid.UUID) (*domain.Letters, error)
	ApplyDeltas(ctx context.Context, owner uuid.UUID, deltas map[string]int) (bool, error)
	Replace(ctx context.Context, owner uuid.UUID, letters map[string]domain.LetterItem) error
}

// PostStore is the union of what the services need from the post store.
type PostStore interface {
	Insert(ctx context.Context, p domain.Post) error
	Get(ctx context.Context, owner, id uuid.UUID) (*domain.Post, error)
	PendingOwners(ctx context.Context) ([]uuid.UUID, error)
	ClaimPending(ctx context.Context, owner uuid.UUID, limit int) ([]domain.Post, error)
	SaveTags(ctx context.Context, id uuid.UUID, tags, biGrams []string) error
	Release(ctx context.Context, id uuid.UUID) error
	SetRead(ctx context.Context, owner uuid.UUID, ids []uuid.UUID, read bool) ([]domain.Post, error)
}

// TxRunner runs fn in a transaction where the backend supports one.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Pinger checks backend reachability for the health probes.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Storage is an opened backend with its stores.
type Storage struct {
	Backend string
	Tags    TagStore
	BiGrams BiGramStore
	Letters LetterStore
	Posts   PostStore
	Tx      TxRunner
	DB      Pinger
	close   func()
}

// Close releases the backend connections.
func (s *Storage) Close() {
	if s.close != nil {
		s.close()
	}
}

type preparer interface {
	Prepare(ctx context.Context)
}

// OpenStorage connects to the configured backend and ensures its indexes.
func OpenStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Storage, error) {
	var (
		s   *Storage
		err error
	)
	switch cfg.Storage.Backend {
	case config.BackendMongo:
		s, err = openMongo(ctx, cfg.Mongo, cfg.Storage.Timeout, logger)
	default:
		s, err = openPostgres(ctx, cfg.Database, logger)
	}
	if err != nil {
		return nil, err
	}

	for _, store := range []any{s.Tags, s.BiGrams, s.Letters, s.Posts} {
		if p, ok := store.(preparer); ok {
			p.Prepare(ctx)
		}
	}

	logger.Info("storage opened", slog.String("backend", s.Backend))
	return s, nil
}

func openPostgres(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*Storage, error) {
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return &Storage{
		Backend: config.BackendPostgres,
		Tags:    tag.New(pool, logger),
		BiGrams: bigram.New(pool, logger),
		Letters: letter.New(pool, logger),
		Posts:   post.New(pool),
		Tx:      postgres.NewTxManager(pool),
		DB:      pool,
		close:   pool.Close,
	}, nil
}

func openMongo(ctx context.Context, cfg config.MongoConfig, opTimeout time.Duration, logger *slog.Logger) (*Storage, error) {
	client, err := mongoadapter.Connect(ctx, cfg, opTimeout)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.Database)

	return &Storage{
		Backend: config.BackendMongo,
		Tags:    mongoadapter.NewTagRepo(db, logger),
		BiGrams: mongoadapter.NewBiGramRepo(db, logger),
		Letters: mongoadapter.NewLetterRepo(db, logger),
		Posts:   mongoadapter.NewPostRepo(db, logger),
		Tx:      mongoadapter.TxRunner{},
		DB:      mongoPinger{client: client},
		close: func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Warn("disconnect mongo", slog.String("error", err.Error()))
			}
		},
	}, nil
}

type mongoPinger struct {
	client *mongo.Client
}

func (p mongoPinger) Ping(ctx context.Context) error {
	return mongoadapter.Ping(ctx, p.client)
}
