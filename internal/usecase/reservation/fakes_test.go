package reservation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/BruksfildServices01/beauty-booking/internal/httperr"
	"github.com/BruksfildServices01/beauty-booking/internal/infra/payments"
	"github.com/BruksfildServices01/beauty-booking/internal/models"
	"github.com/BruksfildServices01/beauty-booking/internal/scheduling"
)

// memoryRepo applies the same overlap rule as the database constraint,
// atomically under one mutex.
type memoryRepo struct {
	mu           sync.Mutex
	profiles     map[uint]*models.ProviderProfile
	offerings    map[uint]*models.ServiceOffering
	reservations map[uint]*models.Reservation
	series       map[string]*models.RecurringSeries
	nextID       uint
	dayReads     int

	// failOn makes CreateReservation fail with an infrastructure error for
	// that calendar day (see dayKey).
	failOn int
	now    func() time.Time
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		profiles:     map[uint]*models.ProviderProfile{},
		offerings:    map[uint]*models.ServiceOffering{},
		reservations: map[uint]*models.Reservation{},
		series:       map[string]*models.RecurringSeries{},
	}
}

func dayKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

func isActive(status string) bool {
	return status == "pending" || status == "confirmed"
}

func (m *memoryRepo) GetProfile(_ context.Context, providerID uint) (*models.ProviderProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[providerID]
	if !ok {
		return nil, httperr.ErrNotFound("provider_not_found")
	}
	cp := *p
	return &cp, nil
}

func (m *memoryRepo) GetOffering(_ context.Context, providerID, offeringID uint) (*models.ServiceOffering, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.offerings[offeringID]
	if !ok || o.ProviderID != providerID {
		return nil, httperr.ErrNotFound("service_offering_not_found")
	}
	cp := *o
	return &cp, nil
}

func (m *memoryRepo) CreateReservation(_ context.Context, r *models.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failOn != 0 && dayKey(r.Date) == m.failOn {
		return errors.New("connection reset by peer")
	}

	for _, other := range m.reservations {
		if other.ProviderID != r.ProviderID || dayKey(other.Date) != dayKey(r.Date) || !isActive(other.Status) {
			continue
		}
		if other.StartMinute < r.EndMinute() && r.StartMinute < other.EndMinute() {
			return httperr.ErrSlotConflict()
		}
	}

	m.nextID++
	r.ID = m.nextID
	r.CreatedAt = time.Now()
	if m.now != nil {
		r.CreatedAt = m.now()
	}
	cp := *r
	m.reservations[r.ID] = &cp
	return nil
}

func (m *memoryRepo) CreateSeries(_ context.Context, s *models.RecurringSeries) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.series[s.ID] = &cp
	return nil
}

func (m *memoryRepo) SetSeriesAnchor(_ context.Context, seriesID string, reservationID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.series[seriesID]
	if !ok {
		return fmt.Errorf("series %s not found", seriesID)
	}
	s.AnchorReservationID = &reservationID
	return nil
}

func (m *memoryRepo) DeleteSeries(_ context.Context, seriesID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.series, seriesID)
	return nil
}

func (m *memoryRepo) seriesCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.series)
}

func (m *memoryRepo) GetReservation(_ context.Context, id uint) (*models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return nil, httperr.ErrNotFound("reservation_not_found")
	}
	cp := *r
	return &cp, nil
}

func (m *memoryRepo) UpdateReservation(_ context.Context, r *models.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.reservations[r.ID] = &cp
	return nil
}

func (m *memoryRepo) ListBySeries(_ context.Context, seriesID string) ([]models.Reservation, error) {
	return m.filter(func(r *models.Reservation) bool {
		return r.SeriesID != nil && *r.SeriesID == seriesID
	}), nil
}

func (m *memoryRepo) ListActiveForDay(_ context.Context, providerID uint, date time.Time) ([]models.Reservation, error) {
	m.mu.Lock()
	m.dayReads++
	m.mu.Unlock()

	return m.filter(func(r *models.Reservation) bool {
		return r.ProviderID == providerID && dayKey(r.Date) == dayKey(date) && isActive(r.Status)
	}), nil
}

func (m *memoryRepo) ListForPeriod(_ context.Context, providerID uint, from, to time.Time) ([]models.Reservation, error) {
	return m.filter(func(r *models.Reservation) bool {
		k := dayKey(r.Date)
		return r.ProviderID == providerID && k >= dayKey(from) && k < dayKey(to)
	}), nil
}

func (m *memoryRepo) ListConfirmedUntil(_ context.Context, date time.Time) ([]models.Reservation, error) {
	return m.filter(func(r *models.Reservation) bool {
		return r.Status == "confirmed" && dayKey(r.Date) <= dayKey(date)
	}), nil
}

func (m *memoryRepo) filter(keep func(r *models.Reservation) bool) []models.Reservation {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Reservation
	for id := uint(1); id <= m.nextID; id++ {
		if r, ok := m.reservations[id]; ok && keep(r) {
			out = append(out, *r)
		}
	}
	return out
}

func (m *memoryRepo) reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dayReads
}

// memoryCache is a BusyCache over a map.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]scheduling.Interval
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]scheduling.Interval{}}
}

func cacheKey(providerID uint, date time.Time) string {
	return fmt.Sprintf("%d:%d", providerID, dayKey(date))
}

func (c *memoryCache) Get(_ context.Context, providerID uint, date time.Time) ([]scheduling.Interval, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[cacheKey(providerID, date)]
	return v, ok, nil
}

func (c *memoryCache) Set(_ context.Context, providerID uint, date time.Time, busy []scheduling.Interval) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(providerID, date)] = busy
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, providerID uint, date time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, cacheKey(providerID, date))
	return nil
}

// fakeGateway records calls and fails when told to.
type fakeGateway struct {
	mu        sync.Mutex
	verifyErr error
	refundErr error
	verified  []int64
	refunded  []int64
}

func (g *fakeGateway) Name() string { return "fake" }

func (g *fakeGateway) Verify(_ context.Context, _ string, expected int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.verifyErr != nil {
		return g.verifyErr
	}
	g.verified = append(g.verified, expected)
	return nil
}

func (g *fakeGateway) Refund(_ context.Context, reference string, amount int64) (*payments.RefundResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.refundErr != nil {
		return nil, g.refundErr
	}
	g.refunded = append(g.refunded, amount)
	return &payments.RefundResult{ID: "rf-" + reference, AmountCents: amount, Status: "approved"}, nil
}

type fakeScheduler struct {
	mu  sync.Mutex
	ats map[uint]time.Time
}

func (s *fakeScheduler) ScheduleCompletion(_ context.Context, id uint, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ats == nil {
		s.ats = map[uint]time.Time{}
	}
	s.ats[id] = at
	return nil
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}
