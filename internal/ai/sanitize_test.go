package ai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeJSONStripsMarkdownFence(t *testing.T) {
	raw := "Here is your plan:\n```json\n{\"totalCalories\": 2000}\n```\nEnjoy!"
	cleaned := SanitizeJSON(raw)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(cleaned), &out))
	assert.Equal(t, float64(2000), out["totalCalories"])
}

func TestSanitizeJSONRemovesUnitSuffixes(t *testing.T) {
	raw := `{"protein": 150g, "calories": 2200kcal, "restTime": 60 secs}`
	cleaned := SanitizeJSON(raw)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(cleaned), &out))
	assert.Equal(t, float64(150), out["protein"])
	assert.Equal(t, float64(2200), out["calories"])
	assert.Equal(t, float64(60), out["restTime"])
}

func TestSanitizeJSONQuotesRepRanges(t *testing.T) {
	raw := `{"reps": 8-12, "sets": 3}`
	cleaned := SanitizeJSON(raw)

	var out struct {
		Reps string `json:"reps"`
		Sets int    `json:"sets"`
	}
	require.NoError(t, json.Unmarshal([]byte(cleaned), &out))
	assert.Equal(t, "8-12", out.Reps)
	assert.Equal(t, 3, out.Sets)
}

func TestSanitizeJSONReplacesNaN(t *testing.T) {
	raw := `{"caloriesBurned": NaN}`
	cleaned := SanitizeJSON(raw)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(cleaned), &out))
	assert.Equal(t, float64(0), out["caloriesBurned"])
}

func TestSanitizeJSONTrimsSurroundingProse(t *testing.T) {
	raw := `Sure! {"ok": true} Let me know if you need changes.`
	cleaned := SanitizeJSON(raw)
	assert.Equal(t, `{"ok": true}`, cleaned)
}

func TestSanitizeJSONLeavesCleanInputAlone(t *testing.T) {
	raw := `{"mealPlan": {"totalCalories": 1800.5}}`
	assert.Equal(t, raw, SanitizeJSON(raw))
}
