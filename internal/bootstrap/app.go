package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/taskcore/taskmanager/internal/config"
	"github.com/taskcore/taskmanager/internal/database"
	"github.com/taskcore/taskmanager/internal/domain"
	"github.com/taskcore/taskmanager/internal/handler"
	"github.com/taskcore/taskmanager/internal/logger"
	"github.com/taskcore/taskmanager/internal/repository"
	"github.com/taskcore/taskmanager/internal/service"
	"github.com/taskcore/taskmanager/internal/store"
)

type App struct {
	Echo *echo.Echo
	DB   *sql.DB
}

func NewApp() *App {
	return &App{
		Echo: echo.New(),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}

	logger.InitLogging(config.DefaultEnvConfig.LOG_FILE_PATH)
	logger.InfoLog(ctx, "environment variables loaded successfully")

	backend, err := a.buildStoreBackend(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage backend: %w", err)
	}

	taskRepo := repository.NewTaskRepository(backend)
	taskSvc := service.NewTaskService(taskRepo)
	taskHandler := handler.NewTaskHandler(taskSvc)

	a.RegisterMiddlewares()
	a.RegisterRoutes(taskHandler)

	return nil
}

// buildStoreBackend picks the configured store variant. The choice is
// made once here; everything above it sees only the Store contract.
func (a *App) buildStoreBackend(ctx context.Context) (domain.TaskStore, error) {
	cfg := config.DefaultEnvConfig
	switch cfg.STORAGE_BACKEND {
	case config.BackendPostgres:
		db, err := database.NewPostgresDB(ctx, database.Config{
			Host:            cfg.DB_HOST,
			Port:            cfg.DB_PORT,
			User:            cfg.DB_USER,
			Password:        cfg.DB_PASSWORD,
			DBName:          cfg.DB_NAME,
			SSLMode:         cfg.DB_SSL_MODE,
			MaxOpenConns:    cfg.DB_MAX_OPEN_CONNS,
			MaxIdleConns:    cfg.DB_MAX_IDLE_CONNS,
			ConnMaxLifetime: cfg.DB_CONN_MAX_LIFETIME,
		})
		if err != nil {
			return nil, err
		}
		if err := store.InitSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		a.DB = db
		return store.NewPgStore(db), nil
	case config.BackendElastic:
		return store.NewESStore(ctx, cfg.ES_URL, cfg.ES_INDEX)
	default:
		return store.NewFileStore(cfg.TASKS_FILE_PATH), nil
	}
}

func (a *App) RegisterMiddlewares() {
	a.Echo.Use(middleware.Logger())
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORS())
}

func (a *App) RegisterRoutes(taskHandler *handler.TaskHandler) {
	a.Echo.POST("/tasks", taskHandler.CreateHandler)
	a.Echo.GET("/tasks", taskHandler.ListHandler)
	a.Echo.GET("/tasks/search", taskHandler.SearchHandler)
	a.Echo.GET("/tasks/statistics", taskHandler.StatisticsHandler)
	a.Echo.GET("/tasks/export", taskHandler.ExportHandler)
	a.Echo.GET("/tasks/:id", taskHandler.GetHandler)
	a.Echo.PUT("/tasks/:id/complete", taskHandler.CompleteHandler)
	a.Echo.DELETE("/tasks/:id", taskHandler.DeleteHandler)
}

func (a *App) Run() error {
	if a.DB != nil {
		defer a.DB.Close()
	}
	return a.Echo.Start(":" + config.DefaultEnvConfig.APP_PORT)
}
