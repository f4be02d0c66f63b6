// Package entrypoint wires the configured application together: the shared
// document store, the typed repositories, credential storage, the session
// context and the login flow.
package entrypoint

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/klyphq/klypstore/internal/audit"
	"github.com/klyphq/klypstore/internal/auth"
	"github.com/klyphq/klypstore/internal/config"
	"github.com/klyphq/klypstore/internal/credentials"
	"github.com/klyphq/klypstore/internal/database/classes"
	"github.com/klyphq/klypstore/internal/database/educators"
	"github.com/klyphq/klypstore/internal/database/klyps"
	"github.com/klyphq/klypstore/internal/database/students"
	"github.com/klyphq/klypstore/internal/database/summaries"
	"github.com/klyphq/klypstore/internal/logger"
	"github.com/klyphq/klypstore/internal/remote"
	"github.com/klyphq/klypstore/internal/session"
	"github.com/klyphq/klypstore/internal/store"
)

// App holds every wired component. CLI commands (and an embedding UI shell)
// work against these fields rather than constructing their own.
type App struct {
	Config *config.Config
	Log    zerolog.Logger

	Store     *store.Store
	Students  *students.Repository
	Educators *educators.Repository
	Classes   *classes.Repository
	Klyps     *klyps.Repository
	Summaries *summaries.Repository

	Credentials *credentials.Store
	Session     *session.Context
	Auth        *auth.Flow
	Recorder    *audit.Recorder

	pruner *audit.Pruner
}

// New builds the application from configuration. The returned App owns its
// database handles; call Close when done.
func New(cfg *config.Config) (*App, error) {
	log := logger.New("klypstore", cfg.Logging.Level)

	docs, err := store.Open(cfg.Database.Name, cfg.Database.Path, log)
	if err != nil {
		return nil, fmt.Errorf("open document store: %w", err)
	}

	var recorder *audit.Recorder
	var pruner *audit.Pruner
	if cfg.Audit.Enabled {
		recorder, err = audit.NewRecorder(docs.DB(), log)
		if err != nil {
			docs.Close()
			return nil, fmt.Errorf("initialize audit recorder: %w", err)
		}
		retention := time.Duration(cfg.Audit.RetentionDays) * 24 * time.Hour
		pruner = audit.NewPruner(recorder, cfg.Audit.PruneSchedule, retention, log)
		if err := pruner.Start(); err != nil {
			log.Warn().Err(err).Msg("audit pruner not started")
		}
	}

	creds, err := credentials.New(credentials.Config{
		DatabasePath: cfg.Credentials.Path,
		KeyFilePath:  cfg.Credentials.KeyFilePath,
	})
	if err != nil {
		docs.Close()
		return nil, fmt.Errorf("open credential store: %w", err)
	}

	studentRepo := students.NewRepository(docs, recorder, log)
	educatorRepo := educators.NewRepository(docs, recorder, log)

	sessionCtx := session.New(creds, studentRepo, educatorRepo, log)
	remoteAuth := remote.NewClient(cfg.RemoteAuth.BaseURL, cfg.RemoteAuth.Timeout)
	flow := auth.NewFlow(remoteAuth, studentRepo, educatorRepo, creds, sessionCtx, recorder, log)

	return &App{
		Config:      cfg,
		Log:         log,
		Store:       docs,
		Students:    studentRepo,
		Educators:   educatorRepo,
		Classes:     classes.NewRepository(docs, log),
		Klyps:       klyps.NewRepository(docs, log),
		Summaries:   summaries.NewRepository(docs, log),
		Credentials: creds,
		Session:     sessionCtx,
		Auth:        flow,
		Recorder:    recorder,
		pruner:      pruner,
	}, nil
}

// Close releases database handles and stops background work.
func (a *App) Close() {
	if a.pruner != nil {
		a.pruner.Stop()
	}
	if a.Credentials != nil {
		if err := a.Credentials.Close(); err != nil {
			a.Log.Warn().Err(err).Msg("closing credential store")
		}
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Log.Warn().Err(err).Msg("closing document store")
		}
	}
}
