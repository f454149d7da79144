package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"portfolioboard/internal/models"
	"portfolioboard/internal/pipeline"
	"portfolioboard/internal/source"
)

// ErrNoSnapshot is returned before the first successful refresh.
var ErrNoSnapshot = errors.New("no snapshot available")

type Provider interface {
	Latest() (*models.Dashboard, error)
	Refresh(ctx context.Context) (*models.Dashboard, error)
}

// DashboardService fetches the sheet, runs the pipeline and keeps the most
// recent successful snapshot. A failed refresh leaves the previous snapshot in
// place.
type DashboardService struct {
	src     source.Source
	pipe    *pipeline.Pipeline
	metrics *Metrics
	log     *logrus.Logger

	mu      sync.RWMutex
	latest  *models.Dashboard
	lastErr error
}

func NewDashboardService(src source.Source, pipe *pipeline.Pipeline, metrics *Metrics, log *logrus.Logger) *DashboardService {
	return &DashboardService{src: src, pipe: pipe, metrics: metrics, log: log}
}

func (s *DashboardService) Refresh(ctx context.Context) (*models.Dashboard, error) {
	t, err := s.src.Fetch(ctx)
	if err != nil {
		s.fail("fetch_error", err)
		return nil, err
	}
	d, err := s.pipe.Run(s.src.Name(), t)
	if err != nil {
		s.fail("schema_error", err)
		return nil, err
	}

	s.mu.Lock()
	s.latest = d
	s.lastErr = nil
	s.mu.Unlock()

	s.metrics.observe(d)
	s.log.Infof("snapshot %s ready: %d holdings", d.ID, len(d.Holdings))
	return d, nil
}

func (s *DashboardService) fail(reason string, err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	s.metrics.failed(reason)
	s.log.Errorf("refresh from %s failed: %v", s.src.Name(), err)
}

// Latest returns the current snapshot. Before any refresh has succeeded the
// error wraps ErrNoSnapshot together with the last failure, if any.
func (s *DashboardService) Latest() (*models.Dashboard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		if s.lastErr != nil {
			return nil, errors.Join(ErrNoSnapshot, s.lastErr)
		}
		return nil, ErrNoSnapshot
	}
	return s.latest, nil
}

// Start refreshes on every tick until ctx is done. A non-positive interval
// disables the loop.
func (s *DashboardService) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				s.log.Info("dashboard refresher stopping")
				return
			case <-ticker.C:
				_, _ = s.Refresh(ctx)
			}
		}
	}()
}
