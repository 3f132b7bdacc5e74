package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rmgen/internal/api"
	"rmgen/internal/backend"
	"rmgen/internal/config"
	"rmgen/internal/database"
	"rmgen/internal/llm/client"
	"rmgen/internal/services"
	"rmgen/internal/web"
	"rmgen/internal/wizard"
)

const (
	shutdownTimeout = 10 * time.Second
	sweepInterval   = 10 * time.Minute
)

// App owns the process-wide resources: the session database, the services
// built on it and the HTTP server.
type App struct {
	cfg    *config.Config
	db     *gorm.DB
	svc    *services.Services
	server *http.Server
	wg     sync.WaitGroup
}

// NewApp creates a new App for cfg.
func NewApp(cfg *config.Config) *App {
	return &App{cfg: cfg}
}

// startup opens the database, wires the services and builds the server.
func (a *App) startup(ctx context.Context) error {
	gin.SetMode(a.cfg.GinMode)

	db, err := database.Init(database.Config{
		Path:     a.cfg.DBPath,
		LogLevel: logger.Warn,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	a.db = db

	opts := services.Options{
		GitHub: services.GitHubConfig{
			APIBaseURL:   a.cfg.GitHub.APIBaseURL,
			Token:        a.cfg.GitHub.Token,
			ClientID:     a.cfg.GitHub.ClientID,
			ClientSecret: a.cfg.GitHub.ClientSecret,
			RedirectURI:  a.cfg.GitHub.RedirectURI,
		},
		SkipClone: a.cfg.SkipClone,
	}
	// Leave Writer a nil interface when no model could be built.
	if writer := a.readmeWriter(ctx); writer != nil {
		opts.Writer = writer
	}
	a.svc = services.NewServices(db, opts)

	site, err := web.New(web.Options{
		Backend: api.New(a.cfg.BackendURL, nil),
		Storage: func(id string) wizard.SessionStorage { return a.svc.Sessions.Storage(id) },
		API:     backend.NewServerFromServices(a.svc),
	})
	if err != nil {
		return err
	}
	a.server = &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           site.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return nil
}

// readmeWriter builds the chat model client for the configured provider. It
// returns nil, and generation reports an error, when there is no API key.
func (a *App) readmeWriter(ctx context.Context) *client.ReadmeClient {
	llm := a.cfg.LLM
	if llm.APIKey == "" {
		log.Printf("no API key for %s; README generation is disabled", llm.Provider)
		return nil
	}
	choice, err := services.NewModelCatalogService().Resolve(llm.Provider, llm.Model)
	if err != nil {
		log.Printf("failed to resolve model: %v", err)
		return nil
	}
	rc, err := client.NewReadmeClient(ctx, client.Options{
		Provider:  choice.ProviderID,
		Model:     choice.APIName,
		APIKey:    llm.APIKey,
		BaseURL:   llm.BaseURL,
		MaxTokens: llm.MaxTokens,
	})
	if err != nil {
		log.Printf("failed to create %s client: %v", llm.Provider, err)
		return nil
	}
	log.Printf("using %s model %s", choice.ProviderName, choice.APIName)
	return rc
}

// run serves until ctx is cancelled, then shuts down gracefully.
func (a *App) run(ctx context.Context) error {
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.sweepSessions(sweepCtx)
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("RMGen listening on %s (backend %s)", a.cfg.Addr, a.cfg.BackendURL)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			stopSweep()
			a.wg.Wait()
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	stopSweep()
	a.wg.Wait()
	return nil
}

// sweepSessions drops sessions idle for longer than the configured TTL.
func (a *App) sweepSessions(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := a.svc.Sessions.Prune(ctx, a.cfg.SessionTTL)
			if err != nil {
				log.Printf("session sweep failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("session sweep removed %d entries", n)
			}
		}
	}
}

// shutdown releases the database.
func (a *App) shutdown() {
	if a.db == nil {
		return
	}
	if err := database.Close(a.db); err != nil {
		log.Printf("failed to close database: %v", err)
	} else {
		log.Printf("database closed")
	}
	a.db = nil
}
