package audit

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Pruner periodically deletes audit events past the retention window.
type Pruner struct {
	recorder  *Recorder
	retention time.Duration
	schedule  string
	log       zerolog.Logger

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.Mutex
	isRunning bool
}

// NewPruner creates a pruner running on the given cron schedule
// (standard five-field format).
func NewPruner(recorder *Recorder, schedule string, retention time.Duration, log zerolog.Logger) *Pruner {
	return &Pruner{
		recorder:  recorder,
		retention: retention,
		schedule:  schedule,
		log:       log,
		cron:      cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start schedules pruning. Idempotent.
func (p *Pruner) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isRunning {
		return nil
	}

	entryID, err := p.cron.AddFunc(p.schedule, p.prune)
	if err != nil {
		return fmt.Errorf("invalid prune schedule %q: %w", p.schedule, err)
	}
	p.entryID = entryID
	p.cron.Start()
	p.isRunning = true

	p.log.Info().Str("schedule", p.schedule).Dur("retention", p.retention).Msg("audit pruner started")
	return nil
}

// Stop halts scheduling. Idempotent.
func (p *Pruner) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.isRunning {
		return
	}
	p.cron.Remove(p.entryID)
	p.cron.Stop()
	p.isRunning = false
}

func (p *Pruner) prune() {
	deleted, err := p.recorder.DeleteOlderThan(p.retention)
	if err != nil {
		p.log.Error().Err(err).Msg("audit prune failed")
		return
	}
	if deleted > 0 {
		p.log.Info().Int64("deleted", deleted).Msg("pruned audit events")
	}
}
