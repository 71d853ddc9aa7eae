package service

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultJanitorInterval = 1 * time.Minute
	defaultSessionTTL      = 30 * time.Minute
)

// Janitor drops finished consultations from the service registry once they
// have been terminal for the session TTL. Archived records stay available
// through the archive store.
type Janitor struct {
	svc    *ConsultationService
	logger *zap.Logger

	interval time.Duration
	ttl      time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewJanitor(svc *ConsultationService, logger *zap.Logger) *Janitor {
	return &Janitor{
		svc:      svc,
		logger:   logger,
		interval: defaultJanitorInterval,
		ttl:      defaultSessionTTL,
		stopCh:   make(chan struct{}),
	}
}

func (j *Janitor) SetInterval(d time.Duration) {
	if d > 0 {
		j.interval = d
	}
}

func (j *Janitor) SetTTL(d time.Duration) {
	if d > 0 {
		j.ttl = d
	}
}

// Start runs the janitor on a periodic schedule in a background goroutine.
func (j *Janitor) Start() {
	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		j.logger.Info("session janitor started",
			zap.Duration("interval", j.interval),
			zap.Duration("ttl", j.ttl))

		for {
			select {
			case <-ticker.C:
				if n := j.svc.expireBefore(time.Now().UTC().Add(-j.ttl)); n > 0 {
					j.logger.Info("expired finished consultations", zap.Int("count", n))
				}
			case <-j.stopCh:
				j.logger.Info("session janitor stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the janitor.
func (j *Janitor) Stop() {
	close(j.stopCh)
	j.wg.Wait()
}
