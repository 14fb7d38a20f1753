// internal/scoring/engine_test.go
package scoring

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"assessment-engine/internal/common/config"
	"assessment-engine/internal/models"
	"assessment-engine/internal/refdata"
)

// newTestStore builds a reference store with two questions per area and
// the standard three-tier boundaries.
func newTestStore(t *testing.T) *refdata.Store {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"questions.json": `{"assessment": {
			"Customers_Marketing": [
				{"id": "cm1", "type": "scale", "text": "q"},
				{"id": "cm2", "type": "scale", "text": "q"}
			],
			"Employees": [
				{"id": "emp1", "type": "scale", "text": "q"},
				{"id": "emp2", "type": "scale", "text": "q"}
			],
			"Financials": [
				{"id": "fin1", "type": "scale", "text": "q"},
				{"id": "fin2", "type": "scale", "text": "q"}
			],
			"Leadership": [
				{"id": "ld1", "type": "scale", "text": "q"},
				{"id": "ld2", "type": "scale", "text": "q"}
			],
			"Operations": [
				{"id": "ops1", "type": "scale", "text": "q"},
				{"id": "ops2", "type": "scale", "text": "q"}
			],
			"Products_Services": [
				{"id": "ps1", "type": "scale", "text": "q"},
				{"id": "ps2", "type": "scale", "text": "q"}
			]
		}}`,
		"rules.json": `{
			"tier_boundaries": {
				"Responding": [0.0, 0.33],
				"Building": [0.34, 0.66],
				"Optimizing": [0.67, 1.0]
			},
			"whole_business_summaries": {
				"Mostly Responding": "r", "Mostly Building": "b", "Mostly Optimizing": "o"
			}
		}`,
		"tone.json": `{
			"Responding": {"general_intros": ["a"]},
			"Building": {"general_intros": ["b"]},
			"Optimizing": {"general_intros": ["c"]}
		}`,
		"catalysts.json": `{
			"Crisis": {"definition": "d", "primary_focus_areas": []},
			"Economic Uncertainty": {"definition": "d", "primary_focus_areas": []},
			"New Opportunity": {"definition": "d", "primary_focus_areas": []},
			"Steady Growth": {"definition": "d", "primary_focus_areas": []},
			"Lifestyle Change": {"definition": "d", "primary_focus_areas": []},
			"Operational Adjustments": {"definition": "d", "primary_focus_areas": []}
		}`,
		"functional_areas.json": `{}`,
	}

	for name, content := range files {
		err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644)
		assert.NoError(t, err)
	}

	store, err := refdata.Load(config.RefDataConfig{
		QuestionsPath:       filepath.Join(dir, "questions.json"),
		RulesPath:           filepath.Join(dir, "rules.json"),
		ToneMatrixPath:      filepath.Join(dir, "tone.json"),
		CatalystsPath:       filepath.Join(dir, "catalysts.json"),
		RecommendationsPath: filepath.Join(dir, "functional_areas.json"),
	})
	assert.NoError(t, err)
	return store
}

func TestEngine_Calculate_PartialArea(t *testing.T) {
	engine := NewEngine(newTestStore(t))

	// Financials answered fully with 4 and 0: raw 4 over 2 answered
	// questions normalizes to 4/8 = 0.5, landing in Building.
	report := engine.Calculate(models.Submission{
		Catalyst: "Crisis",
		Answers: []models.Answer{
			{QuestionID: "fin1", Score: 4},
			{QuestionID: "fin2", Score: 0},
		},
	})

	fin := report.CategoryScores["Financials"]
	assert.Equal(t, 4, fin.RawScore)
	assert.Equal(t, 0.5, fin.NormalizedScore)
	assert.Equal(t, models.TierBuilding, fin.Tier)
	assert.Equal(t, 2, fin.QuestionsAnswered)
	assert.Equal(t, 2, fin.TotalQuestions)

	// Only Financials was answered, so overall equals its score.
	assert.Equal(t, 0.5, report.OverallScore)
	assert.Equal(t, models.TierBuilding, report.OverallTier)

	// Every area below the top tier is a priority, including Financials.
	assert.Contains(t, report.PriorityCategories, "Financials")
	assert.Len(t, report.PriorityCategories, 6)
}

func TestEngine_Calculate_UnansweredAreasScoreZero(t *testing.T) {
	engine := NewEngine(newTestStore(t))

	report := engine.Calculate(models.Submission{
		Catalyst: "Crisis",
		Answers:  []models.Answer{{QuestionID: "fin1", Score: 4}, {QuestionID: "fin2", Score: 4}},
	})

	ops := report.CategoryScores["Operations"]
	assert.Equal(t, 0.0, ops.NormalizedScore)
	assert.Equal(t, models.TierResponding, ops.Tier)
	assert.Equal(t, 0, ops.QuestionsAnswered)
	assert.Equal(t, 2, ops.TotalQuestions)

	// Overall averages only the answered areas, so a perfect Financials
	// alone yields a perfect overall.
	assert.Equal(t, 1.0, report.OverallScore)
	assert.Equal(t, models.TierOptimizing, report.OverallTier)
}

func TestEngine_Calculate_EmptySubmission(t *testing.T) {
	engine := NewEngine(newTestStore(t))

	report := engine.Calculate(models.Submission{Catalyst: "Crisis"})

	assert.Equal(t, 0.0, report.OverallScore)
	assert.Equal(t, models.TierResponding, report.OverallTier)
	assert.Len(t, report.CategoryScores, 6)
	assert.Len(t, report.PriorityCategories, 6)
	for _, cs := range report.CategoryScores {
		assert.Equal(t, 0.0, cs.NormalizedScore)
		assert.Equal(t, models.TierResponding, cs.Tier)
		assert.Zero(t, cs.QuestionsAnswered)
	}
}

func TestEngine_Calculate_UnknownQuestionIDsSkipped(t *testing.T) {
	engine := NewEngine(newTestStore(t))

	withUnknown := engine.Calculate(models.Submission{
		Catalyst: "Crisis",
		Answers: []models.Answer{
			{QuestionID: "fin1", Score: 3},
			{QuestionID: "ghost-question", Score: 4},
		},
	})
	without := engine.Calculate(models.Submission{
		Catalyst: "Crisis",
		Answers:  []models.Answer{{QuestionID: "fin1", Score: 3}},
	})

	assert.Equal(t, without.CategoryScores, withUnknown.CategoryScores)
	assert.Equal(t, without.OverallScore, withUnknown.OverallScore)
}

func TestEngine_Calculate_NegativeScoresSkipped(t *testing.T) {
	engine := NewEngine(newTestStore(t))

	report := engine.Calculate(models.Submission{
		Catalyst: "Crisis",
		Answers: []models.Answer{
			{QuestionID: "fin1", Score: 4},
			{QuestionID: "fin2", Score: -1},
		},
	})

	fin := report.CategoryScores["Financials"]
	assert.Equal(t, 1, fin.QuestionsAnswered)
	assert.Equal(t, 1.0, fin.NormalizedScore)
}

func TestEngine_Calculate_PriorityOrderFollowsCatalog(t *testing.T) {
	engine := NewEngine(newTestStore(t))

	// Operations and Employees both land below the top tier; priority
	// order must follow catalog order, not answer order.
	report := engine.Calculate(models.Submission{
		Catalyst: "Crisis",
		Answers: []models.Answer{
			{QuestionID: "ops1", Score: 2}, {QuestionID: "ops2", Score: 2},
			{QuestionID: "emp1", Score: 1}, {QuestionID: "emp2", Score: 1},
			{QuestionID: "cm1", Score: 4}, {QuestionID: "cm2", Score: 4},
			{QuestionID: "fin1", Score: 4}, {QuestionID: "fin2", Score: 4},
			{QuestionID: "ld1", Score: 4}, {QuestionID: "ld2", Score: 4},
			{QuestionID: "ps1", Score: 4}, {QuestionID: "ps2", Score: 4},
		},
	})

	assert.Equal(t, []string{"Employees", "Operations"}, report.PriorityCategories)
}

func TestEngine_Calculate_RoundedScoreMatchesTier(t *testing.T) {
	engine := NewEngine(newTestStore(t))

	// 1+4 over 2 answered = 5/8 = 0.625, rounding to 0.63. The reported
	// tier must classify the rounded value, never the raw one.
	report := engine.Calculate(models.Submission{
		Catalyst: "Crisis",
		Answers: []models.Answer{
			{QuestionID: "fin1", Score: 1},
			{QuestionID: "fin2", Score: 4},
		},
	})

	fin := report.CategoryScores["Financials"]
	assert.Equal(t, 0.63, fin.NormalizedScore)
	assert.Equal(t, models.TierBuilding, fin.Tier)
}

func TestEngine_Calculate_Idempotent(t *testing.T) {
	engine := NewEngine(newTestStore(t))
	sub := models.Submission{
		Catalyst: "Steady Growth",
		Answers: []models.Answer{
			{QuestionID: "fin1", Score: 3},
			{QuestionID: "ops1", Score: 2},
		},
	}

	first := engine.Calculate(sub)
	second := engine.Calculate(sub)

	assert.Equal(t, first, second)
}

func TestEngine_Calculate_MonotonicInAnswerScore(t *testing.T) {
	engine := NewEngine(newTestStore(t))

	// Raising one answer's score while holding the rest fixed must never
	// lower the area's normalized score.
	prev := -1.0
	for score := 0; score <= 4; score++ {
		report := engine.Calculate(models.Submission{
			Catalyst: "Crisis",
			Answers: []models.Answer{
				{QuestionID: "fin1", Score: score},
				{QuestionID: "fin2", Score: 2},
			},
		})
		current := report.CategoryScores["Financials"].NormalizedScore
		assert.GreaterOrEqual(t, current, prev, "score %d", score)
		prev = current
	}
}

func TestEngine_Calculate_ConcurrentCalls(t *testing.T) {
	engine := NewEngine(newTestStore(t))

	subs := []models.Submission{
		{Catalyst: "Crisis", Answers: []models.Answer{{QuestionID: "fin1", Score: 4}, {QuestionID: "fin2", Score: 4}}},
		{Catalyst: "Steady Growth", Answers: []models.Answer{{QuestionID: "ops1", Score: 1}}},
		{Catalyst: "New Opportunity", Answers: []models.Answer{{QuestionID: "cm1", Score: 2}, {QuestionID: "emp1", Score: 3}}},
	}
	expected := make([]models.Report, len(subs))
	for i, sub := range subs {
		expected[i] = engine.Calculate(sub)
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		for j, sub := range subs {
			wg.Add(1)
			go func(j int, sub models.Submission) {
				defer wg.Done()
				got := engine.Calculate(sub)
				assert.Equal(t, expected[j], got)
			}(j, sub)
		}
	}
	wg.Wait()
}

func TestEngine_Calculate_CategoryOrderPreserved(t *testing.T) {
	engine := NewEngine(newTestStore(t))

	report := engine.Calculate(models.Submission{Catalyst: "Crisis"})

	assert.Equal(t, []string{
		"Customers_Marketing", "Employees", "Financials",
		"Leadership", "Operations", "Products_Services",
	}, report.CategoryOrder)
}
