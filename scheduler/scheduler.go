// Package scheduler keeps the COSHH templates fresh. It performs the initial
// template load, re-reads the template files on a fixed interval so edited
// templates are picked up without a restart, and warns when reloads stop
// succeeding.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/giygas/coshh-api/interfaces"
	"github.com/giygas/coshh-api/logging"
	"github.com/giygas/coshh-api/metrics"
	"github.com/go-co-op/gocron"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Scheduler handles template reloads and staleness monitoring
type Scheduler struct {
	templates interfaces.TemplateStore
	formPath  string
	ticksPath string
	interval  time.Duration
	scheduler *gocron.Scheduler

	monitorEvery time.Duration
	stopOnce     sync.Once
	done         chan struct{}
}

// NewScheduler creates a new scheduler. A zero interval loads the templates
// once at Start and never reloads them.
func NewScheduler(templates interfaces.TemplateStore, formPath, ticksPath string, interval time.Duration) *Scheduler {
	return &Scheduler{
		templates:    templates,
		formPath:     formPath,
		ticksPath:    ticksPath,
		interval:     interval,
		scheduler:    gocron.NewScheduler(time.UTC),
		monitorEvery: time.Hour,
		done:         make(chan struct{}),
	}
}

// Start loads the templates and schedules the periodic reload. The service
// cannot produce documents without templates, so a failed initial load is
// returned to the caller.
func (s *Scheduler) Start() error {
	if err := s.reloadTemplates(); err != nil {
		logging.Error("Failed to perform initial template load", "error", err)
		return fmt.Errorf("initial template load failed: %w", err)
	}

	if s.interval <= 0 {
		logging.Info("Template reload disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).SingletonMode().WaitForSchedule().Do(func() {
		if err := s.reloadTemplates(); err != nil {
			logging.Error("Failed to reload templates", "error", err)
		}
	})
	if err != nil {
		logging.Error("Failed to schedule template reloads", "error", err)
		return fmt.Errorf("failed to schedule template reloads: %w", err)
	}

	s.scheduler.StartAsync()
	logging.Info("Template reload scheduled", "interval", s.interval.String())

	s.startStalenessMonitor()

	return nil
}

// Stop stops the scheduler and the staleness monitor
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.scheduler.Stop()
		close(s.done)
	})
}

// reloadTemplates reads the template files and swaps them into the store.
// Overlapping reloads are skipped.
func (s *Scheduler) reloadTemplates() error {
	if !s.templates.BeginUpdate() {
		logging.Info("Template reload already in progress, skipping...")
		metrics.TemplateReloads.WithLabelValues(metrics.OutcomeSkipped).Inc()
		return nil
	}
	defer s.templates.EndUpdate()

	start := time.Now()
	if err := s.templates.LoadFromDisk(s.formPath, s.ticksPath); err != nil {
		metrics.TemplateReloads.WithLabelValues(metrics.OutcomeError).Inc()
		return err
	}

	metrics.TemplateReloads.WithLabelValues(metrics.OutcomeSuccess).Inc()
	logging.Debug("Templates loaded",
		"form", s.formPath,
		"ticks", s.ticksPath,
		"duration", time.Since(start).String(),
	)
	return nil
}

// startStalenessMonitor warns when no reload has succeeded for several
// intervals in a row
func (s *Scheduler) startStalenessMonitor() {
	go func() {
		ticker := time.NewTicker(s.monitorEvery)
		defer ticker.Stop()

		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				s.checkStaleness()
			}
		}
	}()
}

func (s *Scheduler) checkStaleness() bool {
	age := time.Since(s.templates.GetLastUpdated())
	if age > 3*s.interval {
		logging.Warn("Templates haven't been reloaded successfully",
			"age", age.Round(time.Second).String(),
			"last_error", s.templates.GetLastError(),
		)
		return true
	}
	return false
}
