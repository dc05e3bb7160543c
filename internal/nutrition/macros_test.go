package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vitaplan/health-app/internal/domain"
)

func TestBMRByGender(t *testing.T) {
	// Mifflin-St Jeor: 10*70 + 6.25*175 - 5*30 = 1643.75, then +5/-161
	assert.InDelta(t, 1648.75, BMR("male", 70, 175, 30), 0.001)
	assert.InDelta(t, 1482.75, BMR("female", 70, 175, 30), 0.001)
}

func TestTDEEUnknownActivityFallsBackToSedentary(t *testing.T) {
	p := &domain.UserProfile{Gender: "male", Weight: 70, Height: 175, Age: 30, ActivityLevel: "couch"}
	assert.InDelta(t, 1648.75*1.2, TDEE(p), 0.001)
}

func TestCalculateMacrosGoals(t *testing.T) {
	base := domain.UserProfile{Gender: "male", Weight: 80, Height: 180, Age: 25, ActivityLevel: "moderate"}

	loss := base
	loss.FitnessGoal = "fat_loss"
	gain := base
	gain.FitnessGoal = "muscle_gain"
	maintain := base
	maintain.FitnessGoal = "maintain"

	mLoss := CalculateMacros(&loss)
	mGain := CalculateMacros(&gain)
	mKeep := CalculateMacros(&maintain)

	assert.Equal(t, mKeep.Calories-500, mLoss.Calories)
	assert.Equal(t, mKeep.Calories+300, mGain.Calories)
	assert.Equal(t, float64(128), mLoss.Protein) // 80 * 1.6
	assert.Equal(t, float64(160), mGain.Protein) // 80 * 2.0
	assert.Equal(t, float64(96), mKeep.Protein)  // 80 * 1.2
}

func TestCalculateMacrosTeenFatLossFloor(t *testing.T) {
	teen := &domain.UserProfile{Gender: "female", Weight: 55, Height: 160, Age: 15, ActivityLevel: "light", FitnessGoal: "fat_loss"}
	m := CalculateMacros(teen)
	tdee := TDEE(teen)
	assert.GreaterOrEqual(t, m.Calories, tdee*0.9-1) // floored at 90% of TDEE
}

func TestCalculateMacrosEnergyBalance(t *testing.T) {
	p := &domain.UserProfile{Gender: "male", Weight: 75, Height: 178, Age: 28, ActivityLevel: "active", FitnessGoal: "maintain"}
	m := CalculateMacros(p)
	// Protein, carbs and fat calories should re-add to the target within
	// rounding error.
	total := m.Protein*4 + m.Carbs*4 + m.Fat*9
	assert.InDelta(t, m.Calories, total, 8)
}

func TestBMI(t *testing.T) {
	assert.Equal(t, 22.9, BMI(70, 175))
	assert.Equal(t, float64(0), BMI(0, 175))
	assert.Equal(t, float64(0), BMI(70, 0))
}

func TestBMICategory(t *testing.T) {
	assert.Equal(t, "Underweight", BMICategory(17.0))
	assert.Equal(t, "Normal weight", BMICategory(18.5))
	assert.Equal(t, "Normal weight", BMICategory(24.9))
	assert.Equal(t, "Overweight", BMICategory(25.0))
	assert.Equal(t, "Obese", BMICategory(31.2))
	assert.Equal(t, "Unknown", BMICategory(0))
}
