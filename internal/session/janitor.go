package session

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Janitor periodically drops sessions that have sat idle past their max age.
type Janitor interface {
	Start(ctx context.Context) error
	Shutdown()
}

type JanitorConfig struct {
	Interval time.Duration
	Logger   *logrus.Logger
}

type janitor struct {
	cfg     JanitorConfig
	manager *Manager

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func NewJanitor(cfg JanitorConfig, manager *Manager) Janitor {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &janitor{cfg: cfg, manager: manager}
}

// Start purges once before returning, then keeps purging on every tick until
// ctx ends or Shutdown is called.
func (j *janitor) Start(ctx context.Context) error {
	if _, err := j.purge(ctx); err != nil {
		return err
	}

	ctx, j.cancel = context.WithCancel(ctx)
	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		ticker := time.NewTicker(j.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := j.purge(ctx); err != nil && ctx.Err() == nil {
					j.cfg.Logger.WithError(err).Warn("purge sessions")
				}
			}
		}
	}()
	j.cfg.Logger.Infof("session janitor started, interval: %s", j.cfg.Interval)
	return nil
}

func (j *janitor) Shutdown() {
	if j.cancel != nil {
		j.cancel()
	}
	j.wg.Wait()
	j.cfg.Logger.Info("session janitor stopped")
}

func (j *janitor) purge(ctx context.Context) (int64, error) {
	n, err := j.manager.Purge(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		j.cfg.Logger.WithField("sessions", n).Info("purged idle sessions")
	}
	return n, nil
}
