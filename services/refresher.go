package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Refresher re-reads the order collection on a cron schedule so writes made
// by other clients become visible without a manual refresh.
type Refresher struct {
	cron    *cron.Cron
	store   *OrderStore
	timeout time.Duration
}

// NewRefresher schedules store.Refresh. schedule accepts standard cron specs
// and descriptors such as "@every 1m".
func NewRefresher(store *OrderStore, schedule string, timeout time.Duration) (*Refresher, error) {
	if store == nil {
		return nil, fmt.Errorf("order store cannot be nil")
	}
	r := &Refresher{
		// skip a run while the previous one is still going
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		store:   store,
		timeout: timeout,
	}
	if _, err := r.cron.AddFunc(schedule, r.run); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}
	return r, nil
}

func (r *Refresher) run() {
	ctx := context.Background()
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	if err := r.store.Refresh(ctx); err != nil {
		logrus.WithError(err).Warn("Refresher: scheduled refresh failed")
		return
	}
	logrus.Debug("Refresher: orders refreshed")
}

func (r *Refresher) Start() {
	r.cron.Start()
	logrus.Info("Refresher started")
}

// Stop halts the schedule and waits for a running refresh to finish
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
	logrus.Info("Refresher stopped")
}
