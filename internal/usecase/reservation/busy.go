package reservation

import (
	"context"
	"time"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/beauty-booking/internal/domain/reservation"
	"github.com/BruksfildServices01/beauty-booking/internal/infra/events"
	"github.com/BruksfildServices01/beauty-booking/internal/scheduling"
)

// busyIntervals reads the day's active intervals through the cache. Cache
// failures fall back to the repository.
func busyIntervals(ctx context.Context, d Deps, providerID uint, date time.Time) ([]scheduling.Interval, error) {
	if busy, ok, err := d.Cache.Get(ctx, providerID, date); err != nil {
		d.Log.Warn("busy cache read failed", zap.Uint("provider_id", providerID), zap.Error(err))
	} else if ok {
		return busy, nil
	}

	busy, err := freshBusyIntervals(ctx, d.Repo, providerID, date)
	if err != nil {
		return nil, err
	}

	if err := d.Cache.Set(ctx, providerID, date, busy); err != nil {
		d.Log.Warn("busy cache write failed", zap.Uint("provider_id", providerID), zap.Error(err))
	}
	return busy, nil
}

func freshBusyIntervals(ctx context.Context, repo domain.Repository, providerID uint, date time.Time) ([]scheduling.Interval, error) {
	rows, err := repo.ListActiveForDay(ctx, providerID, date)
	if err != nil {
		return nil, err
	}

	busy := make([]scheduling.Interval, 0, len(rows))
	for i := range rows {
		busy = append(busy, domain.IntervalOf(&rows[i]))
	}
	return busy, nil
}

func invalidateDay(ctx context.Context, d Deps, providerID uint, date time.Time) {
	if err := d.Cache.Invalidate(ctx, providerID, date); err != nil {
		d.Log.Warn("busy cache invalidate failed",
			zap.Uint("provider_id", providerID),
			zap.String("date", date.Format("2006-01-02")),
			zap.Error(err),
		)
	}
}

func publish(ctx context.Context, d Deps, eventType string, providerID uint, payload any) {
	if err := d.Events.Publish(ctx, events.New(eventType, providerID, payload)); err != nil {
		d.Log.Error("event publish failed", zap.String("type", eventType), zap.Error(err))
	}
}
