package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// planEntryLimits caps how many entries (across all four logs) a plan may
// create per calendar month. -1 means unlimited.
var planEntryLimits = map[string]int{
	"free": 150,
	"pro":  -1,
}

// monthlyEntryCount counts entries created in the current calendar month
// across all four logs. Billing counts by creation time, not by the wall-clock
// time the entry describes, so backfilling old dates still consumes quota.
func (h *Handler) monthlyEntryCount(c *gin.Context, userID int) (int, error) {
	monthStart := time.Date(time.Now().Year(), time.Now().Month(), 1, 0, 0, 0, 0, time.UTC)

	var count int
	err := h.db.QueryRow(c,
		`SELECT
			(SELECT COUNT(*) FROM meal_entries     WHERE user_id = @userID AND created_at >= @monthStart) +
			(SELECT COUNT(*) FROM activity_entries WHERE user_id = @userID AND created_at >= @monthStart) +
			(SELECT COUNT(*) FROM health_entries   WHERE user_id = @userID AND created_at >= @monthStart) +
			(SELECT COUNT(*) FROM weight_entries   WHERE user_id = @userID AND created_at >= @monthStart)`,
		pgx.NamedArgs{"userID": userID, "monthStart": monthStart}).Scan(&count)
	return count, err
}

// checkUsageLimit enforces the plan's monthly entry cap before a create.
// Writes the error response and returns false when the user is over quota or
// the check itself fails; entry-creating handlers bail out on false.
func (h *Handler) checkUsageLimit(c *gin.Context, userID int) bool {
	sub, err := queryOne[subscription](h.db, c,
		"SELECT * FROM subscriptions WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch subscription")
		return false
	}

	limit, known := planEntryLimits[sub.Plan]
	if !known || limit < 0 {
		return true
	}

	used, err := h.monthlyEntryCount(c, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to check usage")
		return false
	}
	if used >= limit {
		apiError(c, http.StatusForbidden, "usage limit reached")
		return false
	}
	return true
}

// getSubscription returns the user's plan, this month's usage against the
// plan's cap, and the billing provider's checkout/portal URLs for the client
// to redirect to. The provider itself is opaque to this service.
// GET /api/subscription.
func (h *Handler) getSubscription(c *gin.Context) {
	userID := c.GetInt("user_id")

	sub, err := queryOne[subscription](h.db, c,
		"SELECT * FROM subscriptions WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusNotFound, "subscription not found")
		return
	}

	used, err := h.monthlyEntryCount(c, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to check usage")
		return
	}

	limit, known := planEntryLimits[sub.Plan]
	if !known {
		limit = planEntryLimits["free"]
	}

	c.JSON(http.StatusOK, subscriptionResponse{
		Plan:        sub.Plan,
		Status:      sub.Status,
		Usage:       subscriptionUsage{Used: used, Limit: limit},
		CheckoutURL: h.checkoutURL,
		PortalURL:   h.portalURL,
	})
}
