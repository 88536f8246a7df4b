package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// validIntensities is the set of allowed values for the activity intensity enum.
var validIntensities = map[string]bool{
	"low":      true,
	"moderate": true,
	"high":     true,
}

// listActivities returns the user's activities for a given wall-clock day.
// GET /api/activities?date=YYYY-MM-DD (defaults to today).
func (h *Handler) listActivities(c *gin.Context) {
	userID := c.GetInt("user_id")
	date := c.DefaultQuery("date", time.Now().Format("2006-01-02"))

	if _, err := time.Parse("2006-01-02", date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	entries, err := queryMany[activityEntry](h.db, c,
		`SELECT * FROM activity_entries
		 WHERE user_id = @userID AND (occurred_at AT TIME ZONE 'UTC')::date = @date
		 ORDER BY occurred_at`,
		pgx.NamedArgs{"userID": userID, "date": date})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch activities")
		return
	}
	if entries == nil {
		entries = []activityEntry{}
	}

	c.JSON(http.StatusOK, entries)
}

// getActivityDailySummary returns the day's activities plus totals and the
// energy card. The balance here is the same computeBalance call the dashboard
// makes — the two views cannot drift apart.
// GET /api/activities/daily?date=YYYY-MM-DD (defaults to today).
func (h *Handler) getActivityDailySummary(c *gin.Context) {
	userID := c.GetInt("user_id")
	date := c.DefaultQuery("date", time.Now().Format("2006-01-02"))

	if _, err := time.Parse("2006-01-02", date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	entries, err := queryMany[activityEntry](h.db, c,
		`SELECT * FROM activity_entries
		 WHERE user_id = @userID AND (occurred_at AT TIME ZONE 'UTC')::date = @date
		 ORDER BY occurred_at`,
		pgx.NamedArgs{"userID": userID, "date": date})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch activities")
		return
	}
	if entries == nil {
		entries = []activityEntry{}
	}

	var burned, duration int
	for _, e := range entries {
		burned += e.CaloriesBurned
		duration += e.DurationMin
	}

	var consumed int
	err = h.db.QueryRow(c,
		`SELECT COALESCE(SUM(calories), 0) FROM meal_entries
		 WHERE user_id = @userID AND (occurred_at AT TIME ZONE 'UTC')::date = @date`,
		pgx.NamedArgs{"userID": userID, "date": date}).Scan(&consumed)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch meal totals")
		return
	}

	c.JSON(http.StatusOK, activityDailySummary{
		Date:             date,
		Entries:          entries,
		TotalDurationMin: duration,
		CaloriesBurned:   burned,
		CaloriesConsumed: consumed,
		Energy:           h.buildEnergyCard(c, userID, consumed, burned),
	})
}

// createActivity inserts a new activity entry.
// POST /api/activities.
func (h *Handler) createActivity(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body createActivityRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Name == "" {
		apiError(c, http.StatusBadRequest, "name is required")
		return
	}
	if !validIntensities[body.Intensity] {
		apiError(c, http.StatusBadRequest, "intensity must be one of: low, moderate, high")
		return
	}
	if body.OccurredAt.IsZero() {
		apiError(c, http.StatusBadRequest, "occurred_at is required")
		return
	}
	if body.DurationMin <= 0 {
		apiError(c, http.StatusBadRequest, "duration_min must be positive")
		return
	}
	if body.CaloriesBurned < 0 {
		apiError(c, http.StatusBadRequest, "calories_burned must not be negative")
		return
	}
	if !h.checkUsageLimit(c, userID) {
		return
	}

	entry, err := queryOne[activityEntry](h.db, c,
		`INSERT INTO activity_entries (user_id, occurred_at, name, intensity, duration_min, calories_burned)
		 VALUES (@userID, @occurredAt, @name, @intensity, @durationMin, @caloriesBurned)
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": userID, "occurredAt": body.OccurredAt.Time, "name": body.Name,
			"intensity": body.Intensity, "durationMin": body.DurationMin,
			"caloriesBurned": body.CaloriesBurned,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create activity")
		return
	}

	h.publishEntryEvent(c, "activity", "created", entry.ID, userID)
	c.JSON(http.StatusCreated, entry)
}

// updateActivity updates an existing activity entry.
// PUT /api/activities/:id. Uses COALESCE so omitted fields keep their current value.
func (h *Handler) updateActivity(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	var body struct {
		OccurredAt     *LocalTime `json:"occurred_at"`
		Name           *string    `json:"name"`
		Intensity      *string    `json:"intensity"`
		DurationMin    *int       `json:"duration_min"`
		CaloriesBurned *int       `json:"calories_burned"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Intensity != nil && !validIntensities[*body.Intensity] {
		apiError(c, http.StatusBadRequest, "intensity must be one of: low, moderate, high")
		return
	}

	var occurredAt *time.Time
	if body.OccurredAt != nil {
		occurredAt = &body.OccurredAt.Time
	}

	entry, err := queryOne[activityEntry](h.db, c,
		`UPDATE activity_entries SET
			occurred_at     = COALESCE(@occurredAt, occurred_at),
			name            = COALESCE(@name, name),
			intensity       = COALESCE(@intensity, intensity),
			duration_min    = COALESCE(@durationMin, duration_min),
			calories_burned = COALESCE(@caloriesBurned, calories_burned),
			updated_at      = now()
		 WHERE id = @id AND user_id = @userID
		 RETURNING *`,
		pgx.NamedArgs{
			"id": id, "userID": userID,
			"occurredAt": occurredAt, "name": body.Name, "intensity": body.Intensity,
			"durationMin": body.DurationMin, "caloriesBurned": body.CaloriesBurned,
		})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "activity not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to update activity")
		}
		return
	}

	c.JSON(http.StatusOK, entry)
}

// deleteActivity removes an activity entry. Returns 204 on success.
// DELETE /api/activities/:id.
func (h *Handler) deleteActivity(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	result, err := h.db.Exec(c,
		"DELETE FROM activity_entries WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete activity")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "activity not found")
		return
	}

	h.publishEntryEvent(c, "activity", "deleted", 0, userID)
	c.Status(http.StatusNoContent)
}
