package container

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/abdelfattahqandil21-oss/back-ngPodium/internal/config"
	postHandler "github.com/abdelfattahqandil21-oss/back-ngPodium/internal/domains/post/handler"
	postRepo "github.com/abdelfattahqandil21-oss/back-ngPodium/internal/domains/post/repository"
	postService "github.com/abdelfattahqandil21-oss/back-ngPodium/internal/domains/post/service"
	"github.com/abdelfattahqandil21-oss/back-ngPodium/internal/infrastructure/cache"
	"github.com/abdelfattahqandil21-oss/back-ngPodium/internal/infrastructure/database"
	"github.com/abdelfattahqandil21-oss/back-ngPodium/internal/infrastructure/storage"
	"github.com/abdelfattahqandil21-oss/back-ngPodium/pkg/jwt"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds every dependency of the API.
// Build order: config → infrastructure → store → service → handlers.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config     *config.Config
	DB         *database.PostgresDB // postgres store driver only
	Redis      *cache.RedisClient   // redis store driver only
	JWTManager *jwt.Manager
	Uploader   storage.Uploader

	// LocalUploads is set with the local upload driver, the router serves it statically
	LocalUploads *storage.LocalStorage

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	PostStore postRepo.DocumentStore

	// ========================================
	// SERVICE LAYER
	// ========================================
	PostService postService.ServiceInterface

	// ========================================
	// HANDLER LAYER
	// ========================================
	PostHandler   *postHandler.PostHandler
	UploadHandler *postHandler.UploadHandler
}

// ========================================
// CONSTRUCTOR
// ========================================

// NewContainer loads the configuration from the environment and builds the graph
func NewContainer(ctx context.Context) (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log.Info().Str("env", cfg.App.Environment).Msg("Config loaded")

	return NewContainerWithConfig(ctx, cfg)
}

// NewContainerWithConfig builds the dependency graph from cfg
func NewContainerWithConfig(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	// STEP 1: identity
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTTL())

	// STEP 2: post store
	if err := c.initStore(ctx); err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("failed to init post store: %w", err)
	}
	log.Info().Str("driver", cfg.Store.Driver).Msg("Post store ready")

	// STEP 3: uploads
	if err := c.initUploader(ctx); err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("failed to init uploader: %w", err)
	}
	log.Info().Str("driver", cfg.Upload.Driver).Msg("Uploader ready")

	// STEP 4: services
	c.PostService = postService.NewPostService(c.PostStore)

	// STEP 5: handlers
	c.PostHandler = postHandler.NewPostHandler(c.PostService)
	c.UploadHandler = postHandler.NewUploadHandler(
		c.Uploader,
		storage.NewImageProcessor(cfg.Upload.CoverMaxDimension),
		cfg.Upload.MaxBytes,
	)

	log.Info().Msg("Container initialized")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initStore(ctx context.Context) error {
	cfg := c.Config

	switch cfg.Store.Driver {
	case config.StoreDriverFile:
		c.PostStore = postRepo.NewFileStore(cfg.Store.Path)

	case config.StoreDriverMemory:
		c.PostStore = postRepo.NewMemoryStore()

	case config.StoreDriverRedis:
		c.Redis = cache.NewRedisClient(cfg.Redis)
		if err := c.Redis.Connect(ctx); err != nil {
			return err
		}
		c.PostStore = postRepo.NewRedisStore(c.Redis.Client, cfg.Store.Key)

	case config.StoreDriverPostgres:
		dbConfig, err := config.LoadDatabaseConfig()
		if err != nil {
			return fmt.Errorf("failed to load database config: %w", err)
		}

		c.DB = database.NewPostgresDB(dbConfig)

		connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := c.DB.Connect(connectCtx); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		store, err := postRepo.NewPostgresStore(ctx, c.DB.Pool, cfg.Store.Key)
		if err != nil {
			return err
		}
		c.PostStore = store

	default:
		return fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	return nil
}

func (c *Container) initUploader(ctx context.Context) error {
	cfg := c.Config

	switch cfg.Upload.Driver {
	case config.UploadDriverLocal:
		c.LocalUploads = storage.NewLocalStorage(cfg.Upload.Dir, cfg.Upload.PublicPrefix)
		c.Uploader = c.LocalUploads

	case config.UploadDriverMinIO:
		minioStorage, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
		if err != nil {
			return err
		}
		c.Uploader = minioStorage

	default:
		return fmt.Errorf("unknown upload driver %q", cfg.Upload.Driver)
	}

	return nil
}

// ========================================
// HEALTH & CLEANUP
// ========================================

// HealthCheck reports whether the post store answers
func (c *Container) HealthCheck(ctx context.Context) error {
	if c.DB != nil {
		if err := c.DB.HealthCheck(ctx); err != nil {
			return err
		}
	}
	if c.Redis != nil {
		if err := c.Redis.HealthCheck(ctx); err != nil {
			return err
		}
	}
	return c.PostService.Ping(ctx)
}

// Cleanup releases connections, called on shutdown
func (c *Container) Cleanup() {
	if c.DB != nil {
		c.DB.Close()
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis")
		}
	}

	log.Info().Msg("Container cleanup completed")
}
