package services

import (
	"context"
	"sync"
	"time"

	"github.com/yeremiapane/raisin-tracker/live"
	"github.com/yeremiapane/raisin-tracker/utils"
)

// StatsBroadcaster periodically pushes a dashboard snapshot to live clients.
// Ticks with no connected clients skip the query.
type StatsBroadcaster struct {
	Reports  *ReportService
	Hub      *live.Hub
	Interval time.Duration

	stopChan chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func NewStatsBroadcaster(reports *ReportService, hub *live.Hub, interval time.Duration) *StatsBroadcaster {
	return &StatsBroadcaster{
		Reports:  reports,
		Hub:      hub,
		Interval: interval,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the ticker loop. A non-positive Interval disables it.
func (sb *StatsBroadcaster) Start() {
	if sb.Interval <= 0 {
		close(sb.done)
		return
	}

	go func() {
		defer close(sb.done)
		ticker := time.NewTicker(sb.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sb.Tick()
			case <-sb.stopChan:
				return
			}
		}
	}()
}

// Stop ends the loop and waits for it to exit. Start must have been called.
func (sb *StatsBroadcaster) Stop() {
	sb.stopOnce.Do(func() { close(sb.stopChan) })
	<-sb.done
}

// Tick computes and broadcasts one snapshot.
func (sb *StatsBroadcaster) Tick() {
	if sb.Hub.ClientCount() == 0 {
		return
	}

	timeout := sb.Interval
	if timeout <= 0 || timeout > 5*time.Second {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	stats, err := sb.Reports.DashboardStats(ctx)
	if err != nil {
		utils.ErrorLogger.WithError(err).Error("compute dashboard stats for broadcast")
		return
	}
	sb.Hub.Broadcast(live.EventDashboardStats, stats)
}
