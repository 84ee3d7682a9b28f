package reservation

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/beauty-booking/internal/audit"
	domain "github.com/BruksfildServices01/beauty-booking/internal/domain/reservation"
	"github.com/BruksfildServices01/beauty-booking/internal/infra/events"
	"github.com/BruksfildServices01/beauty-booking/internal/infra/payments"
	"github.com/BruksfildServices01/beauty-booking/internal/infra/receipts"
	"github.com/BruksfildServices01/beauty-booking/internal/models"
	"github.com/BruksfildServices01/beauty-booking/internal/scheduling"
)

// BusyCache holds the active intervals of a provider's day.
type BusyCache interface {
	Get(ctx context.Context, providerID uint, date time.Time) ([]scheduling.Interval, bool, error)
	Set(ctx context.Context, providerID uint, date time.Time, busy []scheduling.Interval) error
	Invalidate(ctx context.Context, providerID uint, date time.Time) error
}

// CompletionScheduler arranges for a confirmed reservation to be completed
// once it has ended.
type CompletionScheduler interface {
	ScheduleCompletion(ctx context.Context, reservationID uint, at time.Time) error
}

// Deps are the collaborators shared by the reservation use cases. Only Repo
// is required.
type Deps struct {
	Repo      domain.Repository
	Cache     BusyCache
	Payments  payments.Gateway
	Events    events.Publisher
	Receipts  receipts.Archiver
	Scheduler CompletionScheduler
	Audit     *audit.Dispatcher
	Log       *zap.Logger
	Now       func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Cache == nil {
		d.Cache = noCache{}
	}
	if d.Payments == nil {
		d.Payments = payments.Noop{}
	}
	if d.Events == nil {
		d.Events = events.Noop{}
	}
	if d.Receipts == nil {
		d.Receipts = receipts.Noop{}
	}
	if d.Scheduler == nil {
		d.Scheduler = noScheduler{}
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

type noCache struct{}

func (noCache) Get(context.Context, uint, time.Time) ([]scheduling.Interval, bool, error) {
	return nil, false, nil
}
func (noCache) Set(context.Context, uint, time.Time, []scheduling.Interval) error { return nil }
func (noCache) Invalidate(context.Context, uint, time.Time) error              { return nil }

type noScheduler struct{}

func (noScheduler) ScheduleCompletion(context.Context, uint, time.Time) error { return nil }

// Roles an actor can act under. They match the JWT role claim.
const (
	RoleCustomer = "customer"
	RoleProvider = "provider"
)

// ownedBy reports whether the actor may act on res. Customers match the
// customer column and providers the provider column. ActorID 0 is the
// system itself.
func ownedBy(res *models.Reservation, actorID uint, role string) bool {
	if actorID == 0 {
		return true
	}
	switch role {
	case RoleCustomer:
		return res.CustomerID == actorID
	case RoleProvider:
		return res.ProviderID == actorID
	}
	return false
}
