package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/beauty-booking/internal/httperr"
	"github.com/BruksfildServices01/beauty-booking/internal/httpresp"
	"github.com/BruksfildServices01/beauty-booking/internal/models"
)

// AuditLogsHandler lets a provider read their own audit trail, mostly to
// trace what happened to a reservation.
type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

// AuditLogFilter is parsed from the query string. List values are comma
// separated; From and To are inclusive calendar days in UTC.
//
//	GET /api/me/audit-logs?reservation_id=12,13&action=reservation_cancelled&from=2025-06-01
type AuditLogFilter struct {
	Actions        []string
	Entity         string
	ReservationIDs []uint
	From           *time.Time
	To             *time.Time
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	providerID := userID(c)

	filter, err := parseAuditLogFilter(c)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	paging := httpresp.ParsePaging(c, 50, 200)

	q := filter.scope(h.db.Model(&models.AuditLog{}).Where("provider_id = ?", providerID))

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "audit_count_failed", "Could not count audit logs.")
		return
	}

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC, id DESC").
		Limit(paging.Limit).
		Offset(paging.Offset()).
		Find(&logs).Error; err != nil {

		httperr.Internal(c, "audit_list_failed", "Could not list audit logs.")
		return
	}

	httpresp.Paged(c, paging, total, logs)
}

func parseAuditLogFilter(c *gin.Context) (AuditLogFilter, error) {
	f := AuditLogFilter{
		Actions: splitList(c.Query("action")),
		Entity:  strings.TrimSpace(c.Query("entity")),
	}

	for _, raw := range splitList(c.Query("reservation_id")) {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return AuditLogFilter{}, httperr.ErrValidation("reservation_id", "invalid_id")
		}
		f.ReservationIDs = append(f.ReservationIDs, uint(id))
	}
	if len(f.ReservationIDs) > 0 {
		if f.Entity != "" && f.Entity != "reservation" {
			return AuditLogFilter{}, httperr.ErrValidation("entity", "entity_conflicts_with_reservation_id")
		}
		f.Entity = "reservation"
	}

	var err error
	if f.From, err = dayParam(c, "from"); err != nil {
		return AuditLogFilter{}, err
	}
	if f.To, err = dayParam(c, "to"); err != nil {
		return AuditLogFilter{}, err
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return AuditLogFilter{}, httperr.ErrValidation("to", "end_before_start")
	}

	return f, nil
}

func (f AuditLogFilter) scope(q *gorm.DB) *gorm.DB {
	if len(f.Actions) > 0 {
		q = q.Where("action IN ?", f.Actions)
	}
	if f.Entity != "" {
		q = q.Where("entity = ?", f.Entity)
	}
	if len(f.ReservationIDs) > 0 {
		q = q.Where("entity_id IN ?", f.ReservationIDs)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", f.To.AddDate(0, 0, 1))
	}
	return q
}

func dayParam(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, httperr.ErrValidation(name, "invalid_date")
	}
	return &d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
