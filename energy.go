package main

import (
	"math"
	"time"
)

// activityMultipliers maps activity level strings to their TDEE multiplier.
// This is the single source of truth for valid activity levels — also used for
// input validation in patchProfile.
var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

// computeAge returns whole elapsed years between birthDate and asOf,
// decremented by one when asOf falls before this year's anniversary.
// Feb 29 birthdays: AddDate normalizes the anniversary to Mar 1 in non-leap
// years, so someone born 2000-02-29 turns 23 on 2023-03-01, not 2023-02-28.
func computeAge(birthDate, asOf time.Time) int {
	age := asOf.Year() - birthDate.Year()
	if asOf.Before(birthDate.AddDate(age, 0, 0)) {
		age--
	}
	return age
}

// computeBMR returns basal metabolic rate in calories/day via Mifflin-St Jeor.
// Defined for all positive inputs; callers validate ranges.
func computeBMR(sex string, weightKG, heightCM float64, ageYears int) float64 {
	bmr := 10*weightKG + 6.25*heightCM - 5*float64(ageYears)
	if sex == "male" {
		bmr += 5
	} else {
		bmr -= 161
	}
	return bmr
}

// computeTDEE scales BMR by the activity-level multiplier.
// Returns ok=false for an unrecognised level.
func computeTDEE(bmr float64, activityLevel string) (float64, bool) {
	mult, found := activityMultipliers[activityLevel]
	if !found {
		return 0, false
	}
	return bmr * mult, true
}

// computeBalance returns the day's calorie balance and whether it is a deficit.
//
// Convention: TDEE already includes baseline non-exercise activity (it is BMR
// scaled by the profile's activity level), so logged workout calories are
// added on top of it rather than folded into the multiplier:
//
//	balance = consumed - (round(tdee) + burnedExercise)
//
// Every view that shows a balance goes through this one function.
func computeBalance(caloriesConsumed, caloriesBurnedExercise int, tdee float64) (balance int, isDeficit bool) {
	balance = caloriesConsumed - int(math.Round(tdee)) - caloriesBurnedExercise
	return balance, balance < 0
}

// computeEnergy derives BMR and TDEE from a user's profile and their current
// weight. Returns ok=false when birth date, sex, height, or activity level is
// missing, when weight is non-positive, or when the age is implausible —
// callers omit the energy card rather than guessing defaults.
func computeEnergy(p *userProfile, weightKG float64, asOf time.Time) (bmr, tdee float64, ok bool) {
	if p.Sex == nil || p.DateOfBirth == nil || p.HeightCM == nil || p.ActivityLevel == nil {
		return 0, 0, false
	}
	if weightKG <= 0 {
		return 0, 0, false
	}

	age := computeAge(p.DateOfBirth.Time, asOf)
	// Guard against implausible ages (e.g. DOB in the future, or over 130 years ago)
	if age < 0 || age > 130 {
		return 0, 0, false
	}

	bmr = computeBMR(*p.Sex, weightKG, *p.HeightCM, age)
	tdee, ok = computeTDEE(bmr, *p.ActivityLevel)
	if !ok {
		return 0, 0, false
	}
	return bmr, tdee, true
}

// populateComputedEnergy fills the computed-only fields on p from the profile
// and the latest logged weight. No-ops if anything required is missing.
func populateComputedEnergy(p *userProfile, weightKG float64) {
	if bmrF, tdeeF, ok := computeEnergy(p, weightKG, time.Now()); ok {
		bmr := int(math.Round(bmrF))
		tdee := int(math.Round(tdeeF))
		p.ComputedBMR = &bmr
		p.ComputedTDEE = &tdee
	}
}
