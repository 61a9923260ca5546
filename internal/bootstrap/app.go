package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"athlete-backend/internal/athletes"
	"athlete-backend/internal/files"
	"athlete-backend/internal/queue"
	"athlete-backend/internal/shared/config"
	"athlete-backend/internal/shared/server"
	"athlete-backend/internal/shared/storage/db"
	"athlete-backend/internal/shared/storage/object"
	s3store "athlete-backend/internal/shared/storage/object/s3"
	"athlete-backend/internal/streaming"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.Store
	Queue  queue.Client

	AthletesRepo athletes.Repo
	FilesRepo    files.Repo

	AthletesService *athletes.Service
	FilesService    *files.Service
	Streamer        *streaming.Streamer

	AthleteHandler *athletes.Handler
	FileHandler    *files.Handler
	StreamHandler  *streaming.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := s3store.New(ctx, s3store.Config{
		EndpointURL:     cfg.R2EndpointURL,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		Bucket:          cfg.R2Bucket,
		PublicDomain:    cfg.R2PublicDomain,
		ForcePathStyle:  cfg.R2ForcePathStyle,
	})
	if err != nil {
		return nil, fmt.Errorf("build object store: %w", err)
	}

	queueClient, err := buildQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Queue:  queueClient,
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:         app.Config,
		DB:             app.DB,
		AthleteHandler: app.AthleteHandler,
		FileHandler:    app.FileHandler,
		StreamHandler:  app.StreamHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if strings.TrimSpace(cfg.CleanupSQSQueueURL) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx, cfg.CleanupSQSQueueURL)
}

func buildServices(app *App) {
	var athletesRepo athletes.Repo
	var filesRepo files.Repo
	if app.DB != nil {
		athletesRepo = &athletes.PGRepo{DB: app.DB}
		filesRepo = &files.PGRepo{DB: app.DB}
	} else {
		athletesRepo = athletes.NewMemoryRepo()
		filesRepo = files.NewMemoryRepo()
	}

	presignTTL := time.Duration(app.Config.PresignExpirySecs) * time.Second

	athletesSvc := &athletes.Service{Repo: athletesRepo}
	filesSvc := &files.Service{
		Repo:       filesRepo,
		Store:      app.Store,
		Queue:      app.Queue,
		PresignTTL: presignTTL,
		MaxBytes:   app.Config.MaxUploadBytes,
	}
	streamer := &streaming.Streamer{
		Store:      app.Store,
		Client:     &http.Client{},
		PresignTTL: presignTTL,
	}

	app.AthletesRepo = athletesRepo
	app.FilesRepo = filesRepo
	app.AthletesService = athletesSvc
	app.FilesService = filesSvc
	app.Streamer = streamer
	app.AthleteHandler = athletes.NewHandler(athletesSvc)
	app.FileHandler = files.NewHandler(filesSvc)
	app.StreamHandler = streaming.NewHandler(filesRepo, streamer)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
