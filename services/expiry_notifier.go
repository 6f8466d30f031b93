package services

import (
	"context"
	"time"

	"github.com/pricejoshua/wehavefoodathome-backend/logger"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ExpiryNotifier runs AlertService.CheckExpiring on a cron schedule.
type ExpiryNotifier struct {
	alerts   *AlertService
	schedule string
	window   time.Duration
	cron     *cron.Cron
}

func NewExpiryNotifier(alerts *AlertService, schedule string, window time.Duration) *ExpiryNotifier {
	return &ExpiryNotifier{
		alerts:   alerts,
		schedule: schedule,
		window:   window,
		cron:     cron.New(),
	}
}

func (n *ExpiryNotifier) Start() error {
	if _, err := n.cron.AddFunc(n.schedule, n.RunOnce); err != nil {
		return err
	}
	n.cron.Start()
	logger.GetLogger().Info("expiry notifier started", zap.String("schedule", n.schedule), zap.Duration("window", n.window))
	return nil
}

// Stop halts scheduling; the returned context is done once a running check finishes.
func (n *ExpiryNotifier) Stop() context.Context {
	return n.cron.Stop()
}

func (n *ExpiryNotifier) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	count, err := n.alerts.CheckExpiring(ctx, time.Now(), n.window)
	if err != nil {
		logger.GetLogger().Error("expiry check failed", zap.Error(err))
		return
	}
	logger.GetLogger().Info("expiry check done", zap.Int("alerts_created", count))
}
