package app

import (
	"context"
	"errors"
	"fmt"
	"syscall"

	"github.com/andy/tourbook/internal/config"
	"github.com/andy/tourbook/internal/crypto"
	"github.com/andy/tourbook/internal/db"
	"github.com/andy/tourbook/internal/extraction"
	"github.com/andy/tourbook/internal/logger"
	"github.com/andy/tourbook/internal/repository"
	"github.com/andy/tourbook/internal/service"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// ErrExtractionUnavailable is returned when no extraction API key is configured
var ErrExtractionUnavailable = errors.New("document extraction is not configured")

// App is the dependency injection container for all application components
type App struct {
	Config *config.Config
	DB     *db.DB
	Log    *zap.Logger

	// Repositories
	TourRepo       repository.TourRepository
	MasterDataRepo repository.MasterDataRepository

	// Services
	TourService service.TourService

	extractor extraction.Extractor
}

// New creates a new App instance from the default config path
func New(ctx context.Context) (*App, error) {
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return NewWithConfig(ctx, cfg)
}

// NewWithConfig creates an App with a provided config
func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	password, err := databaseKey(crypto.NewKeyring())
	if err != nil {
		return nil, err
	}

	database, err := db.Open(cfg.Database.Path, password)
	if errors.Is(err, db.ErrWrongKey) {
		log.Error("database key rejected", zap.String("path", cfg.Database.Path))
		return nil, fmt.Errorf("failed to open database (set %s to the correct key): %w", crypto.EnvKey, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := database.RunMigrations(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	tourRepo := repository.NewTourRepo(database)
	masterDataRepo := repository.NewMasterDataRepo(database)

	tourService := service.NewTourService(tourRepo, masterDataRepo, log)
	if err := tourService.Load(ctx); err != nil {
		tourService.Close()
		database.Close()
		return nil, err
	}

	a := &App{
		Config:         cfg,
		DB:             database,
		Log:            log,
		TourRepo:       tourRepo,
		MasterDataRepo: masterDataRepo,
		TourService:    tourService,
	}

	if key := cfg.APIKey(); key != "" {
		client, err := extraction.NewClient(extraction.Config{
			APIKey:    key,
			BaseURL:   cfg.Extraction.BaseURL,
			Model:     cfg.Extraction.Model,
			MaxTokens: cfg.Extraction.MaxTokens,
		})
		if err != nil {
			log.Warn("extraction disabled", zap.Error(err))
		} else {
			a.extractor = client
		}
	}

	log.Debug("app started", zap.String("db", cfg.Database.Path))
	return a, nil
}

// Extractor returns the document extraction client
func (a *App) Extractor() (extraction.Extractor, error) {
	if a.extractor == nil {
		return nil, fmt.Errorf("%w: set %s", ErrExtractionUnavailable, a.Config.Extraction.APIKeyEnv)
	}
	return a.extractor, nil
}

// Close waits for pending tour writes, then closes the database
func (a *App) Close() error {
	if a.TourService != nil {
		a.TourService.Close()
	}
	if a.Log != nil {
		_ = a.Log.Sync()
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

// SaveConfig saves the current configuration to disk
func (a *App) SaveConfig() error {
	return a.Config.Save(config.DefaultConfigPath())
}

// databaseKey returns the stored key, prompting for a new one on first run
func databaseKey(kr crypto.Keyring) (string, error) {
	password, err := kr.GetKey()
	if err == nil {
		return password, nil
	}
	if !errors.Is(err, crypto.ErrKeyNotFound) {
		return "", err
	}

	fmt.Println("Setting up database encryption for the first time...")
	password, err = promptForPassword()
	if err != nil {
		return "", fmt.Errorf("failed to set password: %w", err)
	}

	if err := kr.SetKey(password); err != nil {
		return "", fmt.Errorf("failed to store encryption key: %w", err)
	}
	return password, nil
}

// promptForPassword prompts user for a new database password (first run)
func promptForPassword() (string, error) {
	fmt.Println()
	fmt.Println("Your tour records will be encrypted with a password.")
	fmt.Printf("It will be stored in your system keychain (or set %s).\n", crypto.EnvKey)
	fmt.Println()
	fmt.Print("Enter a password for database encryption: ")

	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if len(password) == 0 {
		return "", fmt.Errorf("password cannot be empty")
	}

	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}

	if string(password) != string(confirm) {
		return "", fmt.Errorf("passwords do not match")
	}

	fmt.Println()
	fmt.Println("✓ Database encryption configured successfully")
	fmt.Println()

	return string(password), nil
}
