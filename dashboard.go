package main

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// buildEnergyCard assembles the computed energy block for a day. Returns nil
// when the profile is incomplete or no weight has been logged — callers render
// the response without the card instead of guessing defaults.
//
// This is the only place balance is derived, so the dashboard and the daily
// activity view always agree.
func (h *Handler) buildEnergyCard(c *gin.Context, userID, caloriesConsumed, caloriesBurned int) *energyCard {
	p, err := queryOne[userProfile](h.db, c,
		"SELECT * FROM user_profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		return nil
	}
	weightKG, ok := h.latestWeightKG(c, userID)
	if !ok {
		return nil
	}

	bmr, tdee, ok := computeEnergy(&p, weightKG, time.Now())
	if !ok {
		return nil
	}
	balance, isDeficit := computeBalance(caloriesConsumed, caloriesBurned, tdee)

	return &energyCard{
		BMR:       int(math.Round(bmr)),
		TDEE:      int(math.Round(tdee)),
		Balance:   balance,
		IsDeficit: isDeficit,
	}
}

// getDashboard returns everything the day view needs: the day's entries of all
// four kinds, calorie/macro totals, the latest weight, and the energy card.
// GET /api/dashboard?date=YYYY-MM-DD (defaults to today).
func (h *Handler) getDashboard(c *gin.Context) {
	userID := c.GetInt("user_id")
	date := c.DefaultQuery("date", time.Now().Format("2006-01-02"))

	if _, err := time.Parse("2006-01-02", date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	args := pgx.NamedArgs{"userID": userID, "date": date}
	meals, err := queryMany[mealEntry](h.db, c,
		`SELECT * FROM meal_entries
		 WHERE user_id = @userID AND (occurred_at AT TIME ZONE 'UTC')::date = @date
		 ORDER BY occurred_at`, args)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch meals")
		return
	}
	activities, err := queryMany[activityEntry](h.db, c,
		`SELECT * FROM activity_entries
		 WHERE user_id = @userID AND (occurred_at AT TIME ZONE 'UTC')::date = @date
		 ORDER BY occurred_at`, args)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch activities")
		return
	}
	healthEntries, err := queryMany[healthEntry](h.db, c,
		`SELECT * FROM health_entries
		 WHERE user_id = @userID AND (occurred_at AT TIME ZONE 'UTC')::date = @date
		 ORDER BY occurred_at`, args)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch health entries")
		return
	}
	// Ensure empty arrays (not null) in JSON
	if meals == nil {
		meals = []mealEntry{}
	}
	if activities == nil {
		activities = []activityEntry{}
	}
	if healthEntries == nil {
		healthEntries = []healthEntry{}
	}

	var consumed, burned int
	var proteinG, carbsG, fatG float64
	for _, m := range meals {
		consumed += m.Calories
		if m.ProteinG != nil {
			proteinG += *m.ProteinG
		}
		if m.CarbsG != nil {
			carbsG += *m.CarbsG
		}
		if m.FatG != nil {
			fatG += *m.FatG
		}
	}
	for _, a := range activities {
		burned += a.CaloriesBurned
	}

	var latestWeight *weightEntry
	if w, err := queryOne[weightEntry](h.db, c,
		`SELECT * FROM weight_entries WHERE user_id = @userID ORDER BY date DESC LIMIT 1`,
		pgx.NamedArgs{"userID": userID}); err == nil {
		latestWeight = &w
	}

	c.JSON(http.StatusOK, dashboardResponse{
		Date:             date,
		CaloriesConsumed: consumed,
		CaloriesBurned:   burned,
		ProteinG:         proteinG,
		CarbsG:           carbsG,
		FatG:             fatG,
		Meals:            meals,
		Activities:       activities,
		HealthEntries:    healthEntries,
		LatestWeight:     latestWeight,
		Energy:           h.buildEnergyCard(c, userID, consumed, burned),
	})
}

// monthWindow parses "YYYY-MM" and returns the first day of that month and the
// number of days in it. AddDate to the next month handles lengths and leap
// years without a lookup table.
func monthWindow(month string) (time.Time, int, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid month, expected YYYY-MM")
	}
	next := start.AddDate(0, 1, 0)
	return start, int(next.Sub(start).Hours() / 24), nil
}

// getCalendar returns one cell per day of the month: entry counts and calorie
// totals, gap-filled so days with nothing logged still appear with has_data=false.
// GET /api/calendar?month=YYYY-MM (defaults to the current month).
func (h *Handler) getCalendar(c *gin.Context) {
	userID := c.GetInt("user_id")
	month := c.DefaultQuery("month", time.Now().Format("2006-01"))

	start, days, err := monthWindow(month)
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}
	end := start.AddDate(0, 1, 0)

	// One GROUP BY across all three occurred_at logs. Days are bucketed by the
	// envelope's UTC field slot, never the session time zone, so a cell holds
	// exactly what the user logged under that calendar date.
	rows, err := queryMany[calendarDayDBRow](h.db, c,
		`SELECT
			day,
			SUM(meal_count)        AS meal_count,
			SUM(activity_count)    AS activity_count,
			SUM(health_count)      AS health_count,
			SUM(calories_consumed) AS calories_consumed,
			SUM(calories_burned)   AS calories_burned
		 FROM (
			SELECT (occurred_at AT TIME ZONE 'UTC')::date AS day,
			       1 AS meal_count, 0 AS activity_count, 0 AS health_count,
			       calories AS calories_consumed, 0 AS calories_burned
			FROM meal_entries
			WHERE user_id = @userID AND occurred_at >= @start AND occurred_at < @end
			UNION ALL
			SELECT (occurred_at AT TIME ZONE 'UTC')::date,
			       0, 1, 0, 0, calories_burned
			FROM activity_entries
			WHERE user_id = @userID AND occurred_at >= @start AND occurred_at < @end
			UNION ALL
			SELECT (occurred_at AT TIME ZONE 'UTC')::date,
			       0, 0, 1, 0, 0
			FROM health_entries
			WHERE user_id = @userID AND occurred_at >= @start AND occurred_at < @end
		 ) entries
		 GROUP BY day`,
		pgx.NamedArgs{"userID": userID, "start": start, "end": end})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch calendar data")
		return
	}

	// Index DB rows by date string for O(1) merge.
	rowByDate := make(map[string]calendarDayDBRow, len(rows))
	for _, r := range rows {
		rowByDate[r.Day.Time.Format("2006-01-02")] = r
	}

	// Build a full month response, filling zeros for days with no data.
	result := make([]calendarDay, days)
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		day := calendarDay{Date: DateOnly{d}}
		if row, ok := rowByDate[d.Format("2006-01-02")]; ok {
			day.HasData = true
			day.MealCount = row.MealCount
			day.ActivityCount = row.ActivityCount
			day.HealthCount = row.HealthCount
			day.CaloriesConsumed = row.CaloriesConsumed
			day.CaloriesBurned = row.CaloriesBurned
		}
		result[i] = day
	}

	c.JSON(http.StatusOK, result)
}
