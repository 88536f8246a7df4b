package main

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate implements pgtype.DateScanner so pgx can scan PostgreSQL date
// columns into DateOnly. NULL values zero the time and return nil so that
// *DateOnly pointer fields can be set to nil by pgx's NULL handling.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = v.Time
	return nil
}

// LocalTime wraps time.Time holding a wall-clock envelope per the codec in
// localtime.go: the stored instant's UTC fields are the fields the user typed,
// and every read goes through the UTC slot only. JSON uses a naive local
// format with no zone suffix, matching what date/time form inputs produce.
type LocalTime struct{ time.Time }

const localTimeLayout = "2006-01-02T15:04:05"

func (l LocalTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + l.Time.UTC().Format(localTimeLayout) + `"`), nil
}

// UnmarshalJSON accepts "YYYY-MM-DDTHH:MM:SS" or "YYYY-MM-DDTHH:MM" (what an
// HTML datetime-local input sends) and encodes the fields into the UTC slot.
func (l *LocalTime) UnmarshalJSON(b []byte) error {
	t, err := time.ParseInLocation(`"`+localTimeLayout+`"`, string(b), time.UTC)
	if err != nil {
		t, err = time.ParseInLocation(`"2006-01-02T15:04"`, string(b), time.UTC)
	}
	if err != nil {
		return err
	}
	l.Time = t
	return nil
}

// ScanTimestamptz implements pgtype.TimestamptzScanner. The instant comes back
// in whatever zone the driver picked; normalizing to UTC here keeps every
// downstream read on the envelope's field slot.
func (l *LocalTime) ScanTimestamptz(v pgtype.Timestamptz) error {
	if !v.Valid {
		l.Time = time.Time{}
		return nil
	}
	l.Time = v.Time.UTC()
	return nil
}

// Wall returns the wall-clock tuple the user originally entered.
func (l LocalTime) Wall() WallClock {
	return DecodeWallClock(l.Time)
}

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. Password is hidden from JSON responses.
type user struct {
	ID        int        `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// userProfile maps to user_profiles. One row per user with the attributes the
// energy calculator needs. All profile fields are nullable; zero-knowledge
// rows still work and the energy card is simply omitted until setup completes.
type userProfile struct {
	UserID        int       `json:"user_id"        db:"user_id"`
	Sex           *string   `json:"sex"            db:"sex"`
	DateOfBirth   *DateOnly `json:"date_of_birth"  db:"date_of_birth"`
	HeightCM      *float64  `json:"height_cm"      db:"height_cm"`
	ActivityLevel *string   `json:"activity_level" db:"activity_level"`
	SetupComplete bool      `json:"setup_complete" db:"setup_complete"`

	// Computed fields — populated server-side from the profile plus the latest
	// logged weight; not stored. db:"-" tells RowToStructByName to skip them.
	ComputedBMR  *int `json:"computed_bmr,omitempty"  db:"-"`
	ComputedTDEE *int `json:"computed_tdee,omitempty" db:"-"`
}

// mealEntry maps to meal_entries. Nullable macro fields use pointers so pgx
// can scan NULLs and JSON omits them naturally.
type mealEntry struct {
	ID         int        `json:"id" db:"id"`
	UserID     int        `json:"user_id" db:"user_id"`
	OccurredAt LocalTime  `json:"occurred_at" db:"occurred_at"`
	Name       string     `json:"name" db:"name"`
	MealType   string     `json:"meal_type" db:"meal_type"`
	Calories   int        `json:"calories" db:"calories"`
	ProteinG   *float64   `json:"protein_g" db:"protein_g"`
	CarbsG     *float64   `json:"carbs_g" db:"carbs_g"`
	FatG       *float64   `json:"fat_g" db:"fat_g"`
	PhotoURL   *string    `json:"photo_url" db:"photo_url"`
	CreatedAt  *time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at" db:"updated_at"`
}

// activityEntry maps to activity_entries.
type activityEntry struct {
	ID             int        `json:"id" db:"id"`
	UserID         int        `json:"user_id" db:"user_id"`
	OccurredAt     LocalTime  `json:"occurred_at" db:"occurred_at"`
	Name           string     `json:"name" db:"name"`
	Intensity      string     `json:"intensity" db:"intensity"`
	DurationMin    int        `json:"duration_min" db:"duration_min"`
	CaloriesBurned int        `json:"calories_burned" db:"calories_burned"`
	CreatedAt      *time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at" db:"updated_at"`
}

// healthEntry maps to health_entries: intestinal-health observations.
// ConsistencyScore is the Bristol stool scale (1-7), nullable because an
// observation may record pain only.
type healthEntry struct {
	ID               int        `json:"id" db:"id"`
	UserID           int        `json:"user_id" db:"user_id"`
	OccurredAt       LocalTime  `json:"occurred_at" db:"occurred_at"`
	ConsistencyScore *int       `json:"consistency_score" db:"consistency_score"`
	PainScore        int        `json:"pain_score" db:"pain_score"`
	Notes            *string    `json:"notes" db:"notes"`
	CreatedAt        *time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at" db:"updated_at"`
}

// weightEntry maps to weight_entries. One row per user per date, enforced by
// UNIQUE(user_id, date) — posting the same date updates in place.
type weightEntry struct {
	ID        int        `json:"id" db:"id"`
	UserID    int        `json:"user_id" db:"user_id"`
	Date      DateOnly   `json:"date" db:"date"`
	WeightKG  float64    `json:"weight_kg" db:"weight_kg"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// subscription maps to subscriptions. Plan limits live in code (planEntryLimits);
// the provider reference is an opaque customer id from the billing provider.
type subscription struct {
	UserID      int     `json:"user_id" db:"user_id"`
	Plan        string  `json:"plan" db:"plan"`
	Status      string  `json:"status" db:"status"`
	CustomerRef *string `json:"-" db:"customer_ref"`
}

/* ─── Request / response shapes ──────────────────────────────────────── */

// createMealRequest is the request body for POST /api/meals.
type createMealRequest struct {
	OccurredAt LocalTime `json:"occurred_at"`
	Name       string    `json:"name"`
	MealType   string    `json:"meal_type"`
	Calories   int       `json:"calories"`
	ProteinG   *float64  `json:"protein_g"`
	CarbsG     *float64  `json:"carbs_g"`
	FatG       *float64  `json:"fat_g"`
	PhotoURL   *string   `json:"photo_url"`
}

// createActivityRequest is the request body for POST /api/activities.
type createActivityRequest struct {
	OccurredAt     LocalTime `json:"occurred_at"`
	Name           string    `json:"name"`
	Intensity      string    `json:"intensity"`
	DurationMin    int       `json:"duration_min"`
	CaloriesBurned int       `json:"calories_burned"`
}

// createHealthEntryRequest is the request body for POST /api/health.
type createHealthEntryRequest struct {
	OccurredAt       LocalTime `json:"occurred_at"`
	ConsistencyScore *int      `json:"consistency_score"`
	PainScore        int       `json:"pain_score"`
	Notes            *string   `json:"notes"`
}

// patchProfileRequest is the request body for PATCH /api/profile.
// All fields are pointers — only non-nil fields get written to the database.
type patchProfileRequest struct {
	Sex           *string  `json:"sex"`
	DateOfBirth   *string  `json:"date_of_birth"` // YYYY-MM-DD string, stored as date
	HeightCM      *float64 `json:"height_cm"`
	ActivityLevel *string  `json:"activity_level"`
	SetupComplete *bool    `json:"setup_complete"`
}

// energyCard is the computed energy block shared by the dashboard and the
// daily activity view. Both are built by the same computeBalance call so the
// two screens can never disagree on deficit/surplus.
type energyCard struct {
	BMR       int  `json:"bmr"`
	TDEE      int  `json:"tdee"`
	Balance   int  `json:"balance"`
	IsDeficit bool `json:"is_deficit"`
}

// dashboardResponse is the response shape for GET /api/dashboard.
// Energy is nil when the profile is incomplete — the client omits the card.
type dashboardResponse struct {
	Date             string          `json:"date"`
	CaloriesConsumed int             `json:"calories_consumed"`
	CaloriesBurned   int             `json:"calories_burned"`
	ProteinG         float64         `json:"protein_g"`
	CarbsG           float64         `json:"carbs_g"`
	FatG             float64         `json:"fat_g"`
	Meals            []mealEntry     `json:"meals"`
	Activities       []activityEntry `json:"activities"`
	HealthEntries    []healthEntry   `json:"health_entries"`
	LatestWeight     *weightEntry    `json:"latest_weight"`
	Energy           *energyCard     `json:"energy"`
}

// calendarDayDBRow is the shape of each row returned by the month GROUP BY
// query. Used only for scanning; the final response uses calendarDay.
type calendarDayDBRow struct {
	Day              DateOnly `db:"day"`
	MealCount        int      `db:"meal_count"`
	ActivityCount    int      `db:"activity_count"`
	HealthCount      int      `db:"health_count"`
	CaloriesConsumed int      `db:"calories_consumed"`
	CaloriesBurned   int      `db:"calories_burned"`
}

// calendarDay is one day's cell in the GET /api/calendar response.
// Days with nothing logged have HasData=false and zero counts.
type calendarDay struct {
	Date             DateOnly `json:"date"`
	MealCount        int      `json:"meal_count"`
	ActivityCount    int      `json:"activity_count"`
	HealthCount      int      `json:"health_count"`
	CaloriesConsumed int      `json:"calories_consumed"`
	CaloriesBurned   int      `json:"calories_burned"`
	HasData          bool     `json:"has_data"`
}

// activityDailySummary is the response shape for GET /api/activities/daily.
type activityDailySummary struct {
	Date             string          `json:"date"`
	Entries          []activityEntry `json:"entries"`
	TotalDurationMin int             `json:"total_duration_min"`
	CaloriesBurned   int             `json:"calories_burned"`
	CaloriesConsumed int             `json:"calories_consumed"`
	Energy           *energyCard     `json:"energy"`
}

// subscriptionUsage reports the calendar-month entry count against the plan's
// limit. Limit < 0 means unlimited.
type subscriptionUsage struct {
	Used  int `json:"used"`
	Limit int `json:"limit"`
}

// subscriptionResponse is the response shape for GET /api/subscription.
// Checkout/portal URLs come from the billing provider configuration and are
// consumed by the client as plain redirects.
type subscriptionResponse struct {
	Plan        string            `json:"plan"`
	Status      string            `json:"status"`
	Usage       subscriptionUsage `json:"usage"`
	CheckoutURL string            `json:"checkout_url,omitempty"`
	PortalURL   string            `json:"portal_url,omitempty"`
}
