package app

import (
	"fmt"
	"log/slog"

	"github.com/heartmarshall/feedtags-backend/internal/config"
	"github.com/heartmarshall/feedtags-backend/internal/lang"
	"github.com/heartmarshall/feedtags-backend/internal/service/catalog"
	"github.com/heartmarshall/feedtags-backend/internal/service/ingest"
	"github.com/heartmarshall/feedtags-backend/internal/service/tagsync"
	"github.com/heartmarshall/feedtags-backend/internal/tagging"
	"github.com/heartmarshall/feedtags-backend/internal/transport/rest"
)

// Services groups the application services built on one Storage.
type Services struct {
	Sync    *tagsync.Service
	Ingest  *ingest.Service
	Catalog *catalog.Service
}

// NewAnalyzer builds the Cyrillic morphological analyzer: the lexicon file
// (or an empty lexicon), optionally backed by Snowball prediction, behind an
// LRU cache.
func NewAnalyzer(cfg config.TaggingConfig, logger *slog.Logger) (lang.Analyzer, error) {
	lexicon := lang.EmptyLexicon()
	if cfg.LexiconPath != "" {
		var err error
		lexicon, err = lang.LoadLexiconFile(cfg.LexiconPath)
		if err != nil {
			return nil, err
		}
		logger.Info("lexicon loaded",
			slog.String("path", cfg.LexiconPath),
			slog.Int("forms", lexicon.Len()),
		)
	} else {
		logger.Warn("no lexicon configured, cyrillic words are not lemmatized",
			slog.String("setting", "tagging.lexicon_path"),
			slog.Bool("predict_unknown", cfg.PredictUnknown),
		)
	}

	var base lang.Analyzer = lexicon
	if cfg.PredictUnknown {
		base = lang.NewPredicting(lexicon, lang.SnowballPredictor{})
	}
	cached, err := lang.NewCachedAnalyzer(base, cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	return cached, nil
}

// NewServices wires the tagging engines and services over s.
func NewServices(cfg *config.Config, s *Storage, logger *slog.Logger) (*Services, error) {
	tokenizer, err := tagging.NewTokenizer(cfg.Tagging.Alphabet)
	if err != nil {
		return nil, fmt.Errorf("tokenizer: %w", err)
	}
	analyzer, err := NewAnalyzer(cfg.Tagging, logger)
	if err != nil {
		return nil, fmt.Errorf("analyzer: %w", err)
	}
	classifier := tagging.NewClassifier(logger, analyzer, lang.EnglishStemmer{})

	syncSvc := tagsync.NewService(logger, s.Tags, s.BiGrams, s.Letters, rest.NewRoutes(""))

	return &Services{
		Sync:    syncSvc,
		Ingest:  ingest.NewService(logger, s.Posts, syncSvc, s.Tx, tokenizer, classifier, cfg.Ingest),
		Catalog: catalog.NewService(logger, s.Tags, s.BiGrams, s.Letters),
	}, nil
}
