package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// validMealTypes is the set of allowed values for the meal_type enum.
// Reject unknown values with 400 rather than letting the DB return a cryptic 500.
var validMealTypes = map[string]bool{
	"breakfast": true,
	"lunch":     true,
	"dinner":    true,
	"snack":     true,
}

// listMeals returns the user's meals for a given wall-clock day.
// GET /api/meals?date=YYYY-MM-DD (defaults to today).
// The day filter reads the stored envelope's UTC field slot — never the
// session time zone — so a meal logged at 23:30 stays on the day it was typed.
func (h *Handler) listMeals(c *gin.Context) {
	userID := c.GetInt("user_id")
	date := c.DefaultQuery("date", time.Now().Format("2006-01-02"))

	// Validate date format before querying — an invalid value silently returns no rows.
	if _, err := time.Parse("2006-01-02", date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	meals, err := queryMany[mealEntry](h.db, c,
		`SELECT * FROM meal_entries
		 WHERE user_id = @userID AND (occurred_at AT TIME ZONE 'UTC')::date = @date
		 ORDER BY occurred_at`,
		pgx.NamedArgs{"userID": userID, "date": date})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch meals")
		return
	}
	// Ensure empty array (not null) in JSON
	if meals == nil {
		meals = []mealEntry{}
	}

	c.JSON(http.StatusOK, meals)
}

// createMeal inserts a new meal entry.
// POST /api/meals. occurred_at is required — it is the user's wall-clock time.
func (h *Handler) createMeal(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body createMealRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Name == "" {
		apiError(c, http.StatusBadRequest, "name is required")
		return
	}
	if !validMealTypes[body.MealType] {
		apiError(c, http.StatusBadRequest, "meal_type must be one of: breakfast, lunch, dinner, snack")
		return
	}
	if body.OccurredAt.IsZero() {
		apiError(c, http.StatusBadRequest, "occurred_at is required")
		return
	}
	if body.Calories < 0 {
		apiError(c, http.StatusBadRequest, "calories must not be negative")
		return
	}
	if !h.checkUsageLimit(c, userID) {
		return
	}

	meal, err := queryOne[mealEntry](h.db, c,
		`INSERT INTO meal_entries (user_id, occurred_at, name, meal_type, calories, protein_g, carbs_g, fat_g, photo_url)
		 VALUES (@userID, @occurredAt, @name, @mealType, @calories, @proteinG, @carbsG, @fatG, @photoURL)
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": userID, "occurredAt": body.OccurredAt.Time, "name": body.Name,
			"mealType": body.MealType, "calories": body.Calories,
			"proteinG": body.ProteinG, "carbsG": body.CarbsG, "fatG": body.FatG,
			"photoURL": body.PhotoURL,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create meal")
		return
	}

	h.publishEntryEvent(c, "meal", "created", meal.ID, userID)
	c.JSON(http.StatusCreated, meal)
}

// updateMeal updates an existing meal entry.
// PUT /api/meals/:id. Uses COALESCE so omitted fields keep their current value.
func (h *Handler) updateMeal(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	var body struct {
		OccurredAt *LocalTime `json:"occurred_at"`
		Name       *string    `json:"name"`
		MealType   *string    `json:"meal_type"`
		Calories   *int       `json:"calories"`
		ProteinG   *float64   `json:"protein_g"`
		CarbsG     *float64   `json:"carbs_g"`
		FatG       *float64   `json:"fat_g"`
		PhotoURL   *string    `json:"photo_url"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.MealType != nil && !validMealTypes[*body.MealType] {
		apiError(c, http.StatusBadRequest, "meal_type must be one of: breakfast, lunch, dinner, snack")
		return
	}

	var occurredAt *time.Time
	if body.OccurredAt != nil {
		occurredAt = &body.OccurredAt.Time
	}

	meal, err := queryOne[mealEntry](h.db, c,
		`UPDATE meal_entries SET
			occurred_at = COALESCE(@occurredAt, occurred_at),
			name        = COALESCE(@name, name),
			meal_type   = COALESCE(@mealType, meal_type),
			calories    = COALESCE(@calories, calories),
			protein_g   = COALESCE(@proteinG, protein_g),
			carbs_g     = COALESCE(@carbsG, carbs_g),
			fat_g       = COALESCE(@fatG, fat_g),
			photo_url   = COALESCE(@photoURL, photo_url),
			updated_at  = now()
		 WHERE id = @id AND user_id = @userID
		 RETURNING *`,
		pgx.NamedArgs{
			"id": id, "userID": userID,
			"occurredAt": occurredAt, "name": body.Name, "mealType": body.MealType,
			"calories": body.Calories, "proteinG": body.ProteinG,
			"carbsG": body.CarbsG, "fatG": body.FatG, "photoURL": body.PhotoURL,
		})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "meal not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to update meal")
		}
		return
	}

	c.JSON(http.StatusOK, meal)
}

// deleteMeal removes a meal entry. Returns 204 on success.
// DELETE /api/meals/:id.
func (h *Handler) deleteMeal(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	result, err := h.db.Exec(c,
		"DELETE FROM meal_entries WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete meal")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "meal not found")
		return
	}

	h.publishEntryEvent(c, "meal", "deleted", 0, userID)
	c.Status(http.StatusNoContent)
}
