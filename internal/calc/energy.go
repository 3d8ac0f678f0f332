package calc

// activityMultipliers maps activity level names to their TDEE multiplier and
// doubles as the set of accepted levels.
var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

// BasalMetabolicRate computes BMR via Mifflin-St Jeor:
//
//	10*kg + 6.25*cm - 5*age + 5 (male) / - 161 (female)
//
// Estimates are best-effort: implausible inputs yield 0, not an error.
func BasalMetabolicRate(sex string, weightKg, heightCm float64, ageYears int) float64 {
	if weightKg <= 0 || heightCm <= 0 || ageYears <= 0 {
		return 0
	}
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(ageYears)
	switch sex {
	case "male":
		bmr += 5
	case "female":
		bmr -= 161
	default:
		return 0
	}
	if bmr < 0 {
		return 0
	}
	return bmr
}

// TotalDailyEnergyExpenditure scales a BMR by the activity level multiplier.
// Unknown levels yield 0.
func TotalDailyEnergyExpenditure(bmr float64, activityLevel string) float64 {
	if bmr <= 0 {
		return 0
	}
	mult, ok := activityMultipliers[activityLevel]
	if !ok {
		return 0
	}
	return bmr * mult
}

// ExerciseCalories estimates calories burned as MET × weight(kg) × duration
// in hours.
func ExerciseCalories(met, weightKg, durationMinutes float64) float64 {
	if met <= 0 || weightKg <= 0 || durationMinutes <= 0 {
		return 0
	}
	return met * weightKg * durationMinutes / 60
}
