package config

import "time"

// Storage backends.
const (
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	CORS     CORSConfig     `yaml:"cors"`
	Database DatabaseConfig `yaml:"database"`
	Mongo    MongoConfig    `yaml:"mongo"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
	Tagging  TaggingConfig  `yaml:"tagging"`
	Letters  LettersConfig  `yaml:"letters"`
	Ingest   IngestConfig   `yaml:"ingest"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	// ResyncPerMinute limits POST /api/letters/resync per owner.
	ResyncPerMinute int `yaml:"resync_per_minute" env:"SERVER_RESYNC_PER_MINUTE" env-default:"6"`
}

// CORSConfig holds Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type,X-Owner-Id,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	MigrationsDir   string        `yaml:"migrations_dir"     env:"DATABASE_MIGRATIONS_DIR"     env-default:"migrations"`
}

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI            string        `yaml:"uri"             env:"MONGO_URI"             env-default:"mongodb://localhost:27017"`
	Database       string        `yaml:"database"        env:"MONGO_DATABASE"        env-default:"feedtags"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"MONGO_CONNECT_TIMEOUT" env-default:"10s"`
}

// StorageConfig selects the aggregate store implementation.
type StorageConfig struct {
	Backend string        `yaml:"backend" env:"STORAGE_BACKEND" env-default:"postgres"`
	Timeout time.Duration `yaml:"timeout" env:"STORAGE_TIMEOUT" env-default:"5s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// TaggingConfig holds tokenizer and word normalization settings.
type TaggingConfig struct {
	// Alphabet is the body of the regexp character class of kept characters.
	Alphabet string `yaml:"alphabet" env:"TAGGING_ALPHABET" env-default:"a-zA-Zа-яА-ЯёЁ0-9 "`
	// LexiconPath is the Russian word-form dictionary, one
	// "form<TAB>lemma[<TAB>grammemes]" line per form. Build it from the
	// OpenCorpora dictionary export (opencorpora.org/?page=downloads, the
	// dict.opcorpora.txt file): every word form of a lemma block maps to the
	// block's first form, with the block's grammemes. Empty means no
	// dictionary; Cyrillic words are then kept as written or, with
	// PredictUnknown, reduced to their Snowball stem.
	LexiconPath    string `yaml:"lexicon_path"    env:"TAGGING_LEXICON_PATH"`
	CacheSize      int    `yaml:"cache_size"      env:"TAGGING_CACHE_SIZE"      env-default:"100000"`
	PredictUnknown bool   `yaml:"predict_unknown" env:"TAGGING_PREDICT_UNKNOWN" env-default:"false"`
}

// LettersConfig holds the periodic maintenance schedule. An empty schedule
// disables the job.
type LettersConfig struct {
	ResyncSchedule string  `yaml:"resync_schedule" env:"LETTERS_RESYNC_SCHEDULE" env-default:"0 */6 * * *"`
	DecaySchedule  string  `yaml:"decay_schedule"  env:"LETTERS_DECAY_SCHEDULE"  env-default:"@hourly"`
	DecayFactor    float64 `yaml:"decay_factor"    env:"LETTERS_DECAY_FACTOR"    env-default:"0.9"`
	Timezone       string  `yaml:"timezone"        env:"LETTERS_TIMEZONE"        env-default:"UTC"`
}

// IngestConfig holds pending post processing settings. An empty schedule
// leaves processing to cmd/ingest.
type IngestConfig struct {
	BatchSize int           `yaml:"batch_size" env:"INGEST_BATCH_SIZE" env-default:"100"`
	Workers   int           `yaml:"workers"    env:"INGEST_WORKERS"    env-default:"4"`
	Timeout   time.Duration `yaml:"timeout"    env:"INGEST_TIMEOUT"    env-default:"10m"`
	Schedule  string        `yaml:"schedule"   env:"INGEST_SCHEDULE"   env-default:"@every 1m"`
}
