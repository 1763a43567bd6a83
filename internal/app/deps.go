package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/openai/openai-go/v3"

	"exercise-vectors/internal/cache"
	"exercise-vectors/internal/config"
	"exercise-vectors/internal/embeddings"
	"exercise-vectors/internal/logger"
	"exercise-vectors/internal/progress"
	"exercise-vectors/internal/store"
)

// Deps bundles common runtime dependencies for the server and the CLIs.
type Deps struct {
	Config   config.Config
	Log      *slog.Logger
	Embedder embeddings.Embedder

	closers []io.Closer
}

// JobDeps adds what the batch jobs need. Store is nil for the file job.
type JobDeps struct {
	Deps
	Reporter progress.Reporter
	Store    store.DocumentStore
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// Close releases everything Build opened, most recent first.
func (d Deps) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Build loads env and config and builds the embedder used by the HTTP server,
// wrapped in the configured vector cache.
func Build() (Deps, error) {
	deps, err := build(os.Stdout)
	if err != nil {
		return Deps{}, err
	}
	c, err := buildCache(deps.Config, deps.Log)
	if err != nil {
		_ = deps.Close()
		return Deps{}, fmt.Errorf("failed to initialize cache: %w", err)
	}
	deps.closers = append(deps.closers, c)
	ttl := time.Duration(deps.Config.CacheTTL) * time.Second
	deps.Embedder = cache.NewEmbedder(deps.Embedder, c, ttl, deps.Log)
	return deps, nil
}

// BuildCLI is Build without a cache and with logs on stderr, leaving stdout
// for command output.
func BuildCLI() (Deps, error) {
	return build(os.Stderr)
}

// BuildFileJob builds dependencies for the JSON file rewrite job.
func BuildFileJob() (JobDeps, error) {
	deps, err := build(os.Stdout)
	if err != nil {
		return JobDeps{}, err
	}
	job := JobDeps{Deps: deps}
	if err := job.addReporter(); err != nil {
		_ = job.Close()
		return JobDeps{}, err
	}
	return job, nil
}

// BuildStoreJob builds dependencies for the document store job.
func BuildStoreJob(ctx context.Context, credentialsFile string) (JobDeps, error) {
	deps, err := build(os.Stdout)
	if err != nil {
		return JobDeps{}, err
	}
	job := JobDeps{Deps: deps}
	if err := job.addReporter(); err != nil {
		_ = job.Close()
		return JobDeps{}, err
	}
	st, err := buildStore(ctx, job.Config, credentialsFile, job.Log)
	if err != nil {
		_ = job.Close()
		return JobDeps{}, fmt.Errorf("failed to initialize store: %w", err)
	}
	job.Store = st
	job.closers = append(job.closers, st)
	return job, nil
}

func build(logOut io.Writer) (Deps, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Deps{}, fmt.Errorf("failed to load environment variables: %w", err)
	}
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return Deps{}, err
	}
	log := logger.NewTo(logOut, cfg.LogLevel)

	embedder, err := buildEmbedder(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize embedder: %w", err)
	}
	deps := Deps{
		Config:   cfg,
		Log:      log,
		Embedder: embedder,
	}
	if c, ok := embedder.(io.Closer); ok {
		deps.closers = append(deps.closers, c)
	}
	return deps, nil
}

func (j *JobDeps) addReporter() error {
	r, closer, err := buildReporter(j.Config, j.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize progress reporter: %w", err)
	}
	j.Reporter = r
	if closer != nil {
		j.closers = append(j.closers, closer)
	}
	return nil
}

func buildEmbedder(cfg config.Config, log *slog.Logger) (embeddings.Embedder, error) {
	switch cfg.EmbedderProvider {
	case "local":
		embedder := embeddings.NewHugotEmbedder(cfg.ModelDir)
		if !embedder.Available() {
			return nil, fmt.Errorf("no %s model found in MODEL_DIR=%s", embeddings.ModelName, cfg.ModelDir)
		}
		log.Info("using local embedder", "model", embeddings.ModelName, "dir", cfg.ModelDir)
		return embedder, nil
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required when EMBEDDER_PROVIDER=openai")
		}
		embedder, err := embeddings.NewOpenAIEmbedder(cfg.OpenAIKey, openai.EmbeddingModel(cfg.OpenAIEmbeddingModel), embeddings.Dimension)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OpenAI embedder: %w", err)
		}
		log.Info("using OpenAI embedder", "model", cfg.OpenAIEmbeddingModel, "dimensions", embeddings.Dimension)
		return embedder, nil
	default:
		return nil, fmt.Errorf("invalid EMBEDDER_PROVIDER: %s (valid options: local, openai)", cfg.EmbedderProvider)
	}
}

func buildCache(cfg config.Config, log *slog.Logger) (cache.Cache, error) {
	switch cfg.CacheProvider {
	case "none", "":
		return cache.NewNoOpCache(), nil
	case "redis":
		c, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}
		log.Info("using Redis vector cache", "addr", cfg.RedisAddr)
		return c, nil
	default:
		return nil, fmt.Errorf("invalid CACHE_PROVIDER: %s (valid options: none, redis)", cfg.CacheProvider)
	}
}

func buildReporter(cfg config.Config, log *slog.Logger) (progress.Reporter, io.Closer, error) {
	logReporter := progress.NewLogReporter(log)
	switch cfg.ProgressProvider {
	case "log", "":
		return logReporter, nil, nil
	case "nats":
		nc, err := nats.Connect(cfg.NATSURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		log.Info("publishing progress to NATS", "subject", cfg.ProgressSubject)
		reporter := progress.Multi(logReporter, progress.NewNATSReporter(log, nc, cfg.ProgressSubject))
		return reporter, closerFunc(nc.Drain), nil
	default:
		return nil, nil, fmt.Errorf("invalid PROGRESS_PROVIDER: %s (valid options: log, nats)", cfg.ProgressProvider)
	}
}

func buildStore(ctx context.Context, cfg config.Config, credentialsFile string, log *slog.Logger) (store.DocumentStore, error) {
	switch cfg.StoreProvider {
	case "firestore":
		if _, err := os.Stat(credentialsFile); err != nil {
			return nil, fmt.Errorf("credentials file: %w", err)
		}
		st, err := store.NewFirestore(ctx, cfg.FirestoreProjectID, credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Firestore: %w", err)
		}
		log.Info("using Firestore store")
		return st, nil
	case "postgres":
		if cfg.DBURL == "" {
			return nil, fmt.Errorf("DB_URL is required when STORE_PROVIDER=postgres")
		}
		st, err := store.NewPostgres(cfg.DBURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres: %w", err)
		}
		log.Info("using Postgres store")
		return st, nil
	default:
		return nil, fmt.Errorf("invalid STORE_PROVIDER: %s (valid options: firestore, postgres)", cfg.StoreProvider)
	}
}
