package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// validConsistencyScore reports whether s is on the Bristol stool scale (1-7).
func validConsistencyScore(s int) bool {
	return s >= 1 && s <= 7
}

// validPainScore reports whether s is on the 0-10 pain scale.
func validPainScore(s int) bool {
	return s >= 0 && s <= 10
}

// listHealthEntries returns the user's health observations for a given wall-clock day.
// GET /api/health?date=YYYY-MM-DD (defaults to today).
func (h *Handler) listHealthEntries(c *gin.Context) {
	userID := c.GetInt("user_id")
	date := c.DefaultQuery("date", time.Now().Format("2006-01-02"))

	if _, err := time.Parse("2006-01-02", date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	entries, err := queryMany[healthEntry](h.db, c,
		`SELECT * FROM health_entries
		 WHERE user_id = @userID AND (occurred_at AT TIME ZONE 'UTC')::date = @date
		 ORDER BY occurred_at`,
		pgx.NamedArgs{"userID": userID, "date": date})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch health entries")
		return
	}
	if entries == nil {
		entries = []healthEntry{}
	}

	c.JSON(http.StatusOK, entries)
}

// createHealthEntry inserts a new health observation.
// POST /api/health.
func (h *Handler) createHealthEntry(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body createHealthEntryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.OccurredAt.IsZero() {
		apiError(c, http.StatusBadRequest, "occurred_at is required")
		return
	}
	if body.ConsistencyScore != nil && !validConsistencyScore(*body.ConsistencyScore) {
		apiError(c, http.StatusBadRequest, "consistency_score must be between 1 and 7")
		return
	}
	if !validPainScore(body.PainScore) {
		apiError(c, http.StatusBadRequest, "pain_score must be between 0 and 10")
		return
	}
	if !h.checkUsageLimit(c, userID) {
		return
	}

	entry, err := queryOne[healthEntry](h.db, c,
		`INSERT INTO health_entries (user_id, occurred_at, consistency_score, pain_score, notes)
		 VALUES (@userID, @occurredAt, @consistencyScore, @painScore, @notes)
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": userID, "occurredAt": body.OccurredAt.Time,
			"consistencyScore": body.ConsistencyScore, "painScore": body.PainScore,
			"notes": body.Notes,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create health entry")
		return
	}

	h.publishEntryEvent(c, "health", "created", entry.ID, userID)
	c.JSON(http.StatusCreated, entry)
}

// updateHealthEntry updates an existing health observation.
// PUT /api/health/:id. Uses COALESCE so omitted fields keep their current value.
func (h *Handler) updateHealthEntry(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	var body struct {
		OccurredAt       *LocalTime `json:"occurred_at"`
		ConsistencyScore *int       `json:"consistency_score"`
		PainScore        *int       `json:"pain_score"`
		Notes            *string    `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.ConsistencyScore != nil && !validConsistencyScore(*body.ConsistencyScore) {
		apiError(c, http.StatusBadRequest, "consistency_score must be between 1 and 7")
		return
	}
	if body.PainScore != nil && !validPainScore(*body.PainScore) {
		apiError(c, http.StatusBadRequest, "pain_score must be between 0 and 10")
		return
	}

	var occurredAt *time.Time
	if body.OccurredAt != nil {
		occurredAt = &body.OccurredAt.Time
	}

	entry, err := queryOne[healthEntry](h.db, c,
		`UPDATE health_entries SET
			occurred_at       = COALESCE(@occurredAt, occurred_at),
			consistency_score = COALESCE(@consistencyScore, consistency_score),
			pain_score        = COALESCE(@painScore, pain_score),
			notes             = COALESCE(@notes, notes),
			updated_at        = now()
		 WHERE id = @id AND user_id = @userID
		 RETURNING *`,
		pgx.NamedArgs{
			"id": id, "userID": userID,
			"occurredAt": occurredAt, "consistencyScore": body.ConsistencyScore,
			"painScore": body.PainScore, "notes": body.Notes,
		})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "health entry not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to update health entry")
		}
		return
	}

	c.JSON(http.StatusOK, entry)
}

// deleteHealthEntry removes a health observation. Returns 204 on success.
// DELETE /api/health/:id.
func (h *Handler) deleteHealthEntry(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	result, err := h.db.Exec(c,
		"DELETE FROM health_entries WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete health entry")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "health entry not found")
		return
	}

	h.publishEntryEvent(c, "health", "deleted", 0, userID)
	c.Status(http.StatusNoContent)
}
