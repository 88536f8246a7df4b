package main

import (
	"math"
	"testing"
	"time"
)

// makeProfile constructs a fully-populated userProfile pointer for use in
// computeEnergy tests. All required fields are set; individual tests nil out
// specific fields to exercise missing-field guards.
func makeProfile(sex string, dob time.Time, heightCM float64, activityLevel string) *userProfile {
	d := DateOnly{dob}
	return &userProfile{
		Sex:           &sex,
		DateOfBirth:   &d,
		HeightCM:      &heightCM,
		ActivityLevel: &activityLevel,
	}
}

/* ─── computeAge tests ───────────────────────────────────────────────── */

// TestComputeAge_AnniversaryBoundary verifies the floor-of-elapsed-years rule
// on either side of a birthday.
func TestComputeAge_AnniversaryBoundary(t *testing.T) {
	dob := time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		asOf time.Time
		want int
	}{
		{"day before birthday", time.Date(2020, 6, 14, 0, 0, 0, 0, time.UTC), 29},
		{"on birthday", time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC), 30},
		{"day after birthday", time.Date(2020, 6, 16, 0, 0, 0, 0, time.UTC), 30},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := computeAge(dob, tc.asOf); got != tc.want {
				t.Errorf("computeAge = %d, want %d", got, tc.want)
			}
		})
	}
}

// TestComputeAge_LeapDayBirthday pins the Feb 29 policy: the anniversary
// normalizes to Mar 1 in non-leap years, so a 2000-02-29 birthday is still 22
// on 2023-02-28 and turns 23 on 2023-03-01.
func TestComputeAge_LeapDayBirthday(t *testing.T) {
	dob := time.Date(2000, 2, 29, 0, 0, 0, 0, time.UTC)

	if got := computeAge(dob, time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC)); got != 22 {
		t.Errorf("age on 2023-02-28 = %d, want 22", got)
	}
	if got := computeAge(dob, time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)); got != 23 {
		t.Errorf("age on 2023-03-01 = %d, want 23", got)
	}
	// In a leap year the real anniversary exists and applies as-is.
	if got := computeAge(dob, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)); got != 24 {
		t.Errorf("age on 2024-02-29 = %d, want 24", got)
	}
}

/* ─── BMR / TDEE accuracy tests ──────────────────────────────────────── */

// TestComputeBMR_KnownVectors checks the Mifflin-St Jeor formula against
// hand-computed values: male 70kg/175cm/30y = 10*70 + 6.25*175 - 5*30 + 5 =
// 1673.75; female swaps +5 for -161.
func TestComputeBMR_KnownVectors(t *testing.T) {
	if got := computeBMR("male", 70, 175, 30); got != 1673.75 {
		t.Errorf("male BMR = %v, want 1673.75", got)
	}
	if got := computeBMR("female", 70, 175, 30); got != 1507.75 {
		t.Errorf("female BMR = %v, want 1507.75", got)
	}
}

// TestComputeTDEE_Multipliers verifies the sedentary vector from the
// multiplier table and rejection of unknown levels.
func TestComputeTDEE_Multipliers(t *testing.T) {
	got, ok := computeTDEE(1674, "sedentary")
	if !ok {
		t.Fatal("expected ok=true for sedentary")
	}
	if math.Abs(got-2008.8) > 1e-9 {
		t.Errorf("sedentary TDEE = %v, want 2008.8", got)
	}

	if _, ok := computeTDEE(1674, "couch_potato"); ok {
		t.Error("expected ok=false for unknown activity level")
	}
}

/* ─── Balance convention tests ───────────────────────────────────────── */

// TestComputeBalance_NoDoubleCounting pins the documented convention: TDEE
// covers baseline activity, logged exercise is added separately. With
// consumed=2000, tdee=2000, exercise burn=300 the balance is -300 (a deficit),
// and the result is identical however many views call it.
func TestComputeBalance_NoDoubleCounting(t *testing.T) {
	balance, isDeficit := computeBalance(2000, 300, 2000)
	if balance != -300 || !isDeficit {
		t.Errorf("computeBalance(2000, 300, 2000) = (%d, %v), want (-300, true)", balance, isDeficit)
	}

	// Surplus case: eating past TDEE plus exercise.
	balance, isDeficit = computeBalance(2500, 100, 2000)
	if balance != 400 || isDeficit {
		t.Errorf("computeBalance(2500, 100, 2000) = (%d, %v), want (400, false)", balance, isDeficit)
	}

	// Exactly even is not a deficit.
	balance, isDeficit = computeBalance(2300, 300, 2000)
	if balance != 0 || isDeficit {
		t.Errorf("computeBalance(2300, 300, 2000) = (%d, %v), want (0, false)", balance, isDeficit)
	}
}

/* ─── computeEnergy guard tests ──────────────────────────────────────── */

// TestComputeEnergy_MissingFields verifies that ok=false is returned when any
// required profile field is nil. Each sub-test nils out one field on an
// otherwise-valid profile.
func TestComputeEnergy_MissingFields(t *testing.T) {
	dob := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name  string
		mutFn func(p *userProfile)
	}{
		{"nil Sex", func(p *userProfile) { p.Sex = nil }},
		{"nil DateOfBirth", func(p *userProfile) { p.DateOfBirth = nil }},
		{"nil HeightCM", func(p *userProfile) { p.HeightCM = nil }},
		{"nil ActivityLevel", func(p *userProfile) { p.ActivityLevel = nil }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := makeProfile("male", dob, 175, "sedentary")
			tc.mutFn(p)
			_, _, ok := computeEnergy(p, 70, time.Now())
			if ok {
				t.Errorf("expected ok=false when %s, got ok=true", tc.name)
			}
		})
	}
}

// TestComputeEnergy_Guards covers the non-nil failure paths: missing weight,
// unknown activity level, and implausible ages.
func TestComputeEnergy_Guards(t *testing.T) {
	dob := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)

	if _, _, ok := computeEnergy(makeProfile("male", dob, 175, "sedentary"), 0, time.Now()); ok {
		t.Error("expected ok=false for zero weight")
	}
	if _, _, ok := computeEnergy(makeProfile("male", dob, 175, "unknown"), 70, time.Now()); ok {
		t.Error("expected ok=false for unknown activity level")
	}

	futureDOB := time.Now().AddDate(1, 0, 0)
	if _, _, ok := computeEnergy(makeProfile("male", futureDOB, 175, "sedentary"), 70, time.Now()); ok {
		t.Error("expected ok=false for future date of birth")
	}
	ancientDOB := time.Now().AddDate(-200, 0, 0)
	if _, _, ok := computeEnergy(makeProfile("male", ancientDOB, 175, "sedentary"), 70, time.Now()); ok {
		t.Error("expected ok=false for age > 130")
	}
}

// TestComputeEnergy_KnownVector runs the full pipeline with a fixed asOf date
// so the age is deterministic: male, born 1990-01-01, 175cm, 70kg, moderate,
// evaluated on 2020-06-01 → age 30, BMR 1673.75, TDEE 1673.75*1.55.
func TestComputeEnergy_KnownVector(t *testing.T) {
	dob := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	asOf := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	p := makeProfile("male", dob, 175, "moderate")

	bmr, tdee, ok := computeEnergy(p, 70, asOf)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if bmr != 1673.75 {
		t.Errorf("BMR = %v, want 1673.75", bmr)
	}
	if want := 1673.75 * 1.55; math.Abs(tdee-want) > 1e-9 {
		t.Errorf("TDEE = %v, want %v", tdee, want)
	}
}
