// internal/refdata/loader_test.go
package refdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"assessment-engine/internal/common/config"
	apperrors "assessment-engine/internal/common/errors"
)

// ==========================
// Test Fixtures
// ==========================

const testQuestions = `{
	"assessment": {
		"Customers_Marketing": [
			{"id": "cm1", "type": "scale", "text": "We know our best customers."},
			{"id": "cm2", "type": "scale", "text": "We attract new customers repeatably."}
		],
		"Employees": [
			{"id": "emp1", "type": "scale", "text": "Roles have clear owners."},
			{"id": "emp2", "type": "scale", "text": "Onboarding is painless."}
		],
		"Financials": [
			{"id": "fin1", "type": "scale", "text": "We review a monthly P&L."},
			{"id": "fin2", "type": "scale", "text": "We forecast cash two months out."}
		],
		"Leadership": [
			{"id": "ld1", "type": "scale", "text": "We have written goals."},
			{"id": "ld2", "type": "scale", "text": "The owner can step away."}
		],
		"Operations": [
			{"id": "ops1", "type": "scale", "text": "Core processes are documented."},
			{"id": "ops2", "type": "scale", "text": "We measure quality."}
		],
		"Products_Services": [
			{"id": "ps1", "type": "scale", "text": "We know our most profitable offerings."},
			{"id": "ps2", "type": "scale", "text": "We retire underperformers."}
		]
	}
}`

const testRules = `{
	"tier_boundaries": {
		"Responding": [0.0, 0.33],
		"Building": [0.34, 0.66],
		"Optimizing": [0.67, 1.0]
	},
	"whole_business_summaries": {
		"Mostly Responding": "Reactive mode.",
		"Mostly Building": "Building foundations.",
		"Mostly Optimizing": "Refining what works."
	}
}`

const testTone = `{
	"Responding": {
		"general_intros": ["Steady basics first."],
		"Crisis": ["Triage first.", "Stabilize now."]
	},
	"Building": {
		"general_intros": ["Momentum is real.", "Make it repeatable."]
	},
	"Optimizing": {
		"general_intros": ["Fine-tune the strength."]
	}
}`

const testCatalysts = `{
	"Crisis": {"definition": "Urgent threat.", "primary_focus_areas": ["Protect cash", "Stabilize operations"]},
	"Economic Uncertainty": {"definition": "Unpredictable market.", "primary_focus_areas": ["Build reserves"]},
	"New Opportunity": {"definition": "Growth opening.", "primary_focus_areas": ["Validate with numbers"]},
	"Steady Growth": {"definition": "Manageable growth.", "primary_focus_areas": ["Document processes"]},
	"Lifestyle Change": {"definition": "Less owner time.", "primary_focus_areas": ["Delegate decisions"]},
	"Operational Adjustments": {"definition": "Execution rework.", "primary_focus_areas": ["Map the process"]}
}`

const testRecommendations = `{
	"Building": {
		"Steady Growth": {
			"Financials": [
				{"recommendation": "Keep a rolling budget.", "tone_focus": "structured"},
				{"recommendation": "Review margins quarterly."}
			]
		}
	}
}`

func testFixtures() map[string]string {
	return map[string]string{
		"questions.json":        testQuestions,
		"rules.json":            testRules,
		"tone.json":             testTone,
		"catalysts.json":        testCatalysts,
		"functional_areas.json": testRecommendations,
	}
}

func writeFixtures(t *testing.T, files map[string]string) config.RefDataConfig {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644)
		assert.NoError(t, err)
	}
	return config.RefDataConfig{
		QuestionsPath:       filepath.Join(dir, "questions.json"),
		RulesPath:           filepath.Join(dir, "rules.json"),
		ToneMatrixPath:      filepath.Join(dir, "tone.json"),
		CatalystsPath:       filepath.Join(dir, "catalysts.json"),
		RecommendationsPath: filepath.Join(dir, "functional_areas.json"),
	}
}

func loadTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Load(writeFixtures(t, testFixtures()))
	assert.NoError(t, err)
	assert.NotNil(t, store)
	return store
}

// ==========================
// Load Tests
// ==========================

func TestLoad_Success(t *testing.T) {
	store := loadTestStore(t)

	assert.Equal(t, []string{
		"Customers_Marketing", "Employees", "Financials",
		"Leadership", "Operations", "Products_Services",
	}, store.AreaOrder())

	assert.Equal(t, 2, store.QuestionCount("Financials"))
	assert.Equal(t, 12, store.TotalQuestionCount())

	area, ok := store.AreaForQuestion("fin2")
	assert.True(t, ok)
	assert.Equal(t, "Financials", area)

	_, ok = store.AreaForQuestion("nope")
	assert.False(t, ok)

	boundaries := store.Boundaries()
	assert.Len(t, boundaries, 3)
	assert.Equal(t, "Responding", boundaries[0].Name)
	assert.Equal(t, "Optimizing", boundaries[2].Name)
	assert.Equal(t, 1.0, boundaries[2].High)
}

func TestLoad_Summaries(t *testing.T) {
	store := loadTestStore(t)

	text, ok := store.Summary("Building")
	assert.True(t, ok)
	assert.Equal(t, "Building foundations.", text)

	_, ok = store.Summary("Thriving")
	assert.False(t, ok)
}

func TestLoad_RecommendationsFor(t *testing.T) {
	store := loadTestStore(t)

	recs := store.RecommendationsFor("Building", "Steady Growth", "Financials")
	assert.Len(t, recs, 2)
	assert.Equal(t, "Keep a rolling budget.", recs[0].Recommendation)

	assert.Nil(t, store.RecommendationsFor("Responding", "Crisis", "Financials"))
	assert.Nil(t, store.RecommendationsFor("Building", "Crisis", "Financials"))
}

func TestLoad_Catalysts(t *testing.T) {
	store := loadTestStore(t)

	info, ok := store.Catalyst("Crisis")
	assert.True(t, ok)
	assert.Equal(t, "Urgent threat.", info.Definition)
	assert.Len(t, info.PrimaryFocusAreas, 2)
}

func TestLoad_FileMissing(t *testing.T) {
	cfg := writeFixtures(t, testFixtures())
	cfg.RulesPath = filepath.Join(t.TempDir(), "absent.json")

	_, err := Load(cfg)
	assert.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeConfigLoadFailed))
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "duplicate question id across areas",
			file: "questions.json",
			content: `{"assessment": {
				"Financials": [{"id": "q1", "type": "scale", "text": "a"}],
				"Operations": [{"id": "q1", "type": "scale", "text": "b"}]
			}}`,
		},
		{
			name: "missing tier in boundaries",
			file: "rules.json",
			content: `{
				"tier_boundaries": {"Responding": [0.0, 0.5], "Building": [0.51, 1.0], "Thriving": [0.0, 1.0]},
				"whole_business_summaries": {}
			}`,
		},
		{
			name: "gap between tiers too wide",
			file: "rules.json",
			content: `{
				"tier_boundaries": {"Responding": [0.0, 0.33], "Building": [0.40, 0.66], "Optimizing": [0.67, 1.0]},
				"whole_business_summaries": {}
			}`,
		},
		{
			name: "overlapping tiers",
			file: "rules.json",
			content: `{
				"tier_boundaries": {"Responding": [0.0, 0.40], "Building": [0.34, 0.66], "Optimizing": [0.67, 1.0]},
				"whole_business_summaries": {}
			}`,
		},
		{
			name: "lowest tier does not start at zero",
			file: "rules.json",
			content: `{
				"tier_boundaries": {"Responding": [0.1, 0.33], "Building": [0.34, 0.66], "Optimizing": [0.67, 1.0]},
				"whole_business_summaries": {}
			}`,
		},
		{
			name: "tone matrix missing a tier",
			file: "tone.json",
			content: `{
				"Responding": {"general_intros": ["a"]},
				"Building": {"general_intros": ["b"]}
			}`,
		},
		{
			name: "tone tier without general intros",
			file: "tone.json",
			content: `{
				"Responding": {"general_intros": ["a"]},
				"Building": {"general_intros": ["b"]},
				"Optimizing": {"Crisis": ["c"]}
			}`,
		},
		{
			name: "tone tier with unknown catalyst key",
			file: "tone.json",
			content: `{
				"Responding": {"general_intros": ["a"], "Meteor Strike": ["duck"]},
				"Building": {"general_intros": ["b"]},
				"Optimizing": {"general_intros": ["c"]}
			}`,
		},
		{
			name:    "catalysts table missing an entry",
			file:    "catalysts.json",
			content: `{"Crisis": {"definition": "d", "primary_focus_areas": []}}`,
		},
		{
			name:    "recommendations with unknown tier key",
			file:    "functional_areas.json",
			content: `{"Thriving": {"Crisis": {"Financials": [{"recommendation": "r"}]}}}`,
		},
		{
			name:    "recommendations with unknown area key",
			file:    "functional_areas.json",
			content: `{"Building": {"Crisis": {"Finances": [{"recommendation": "r"}]}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := testFixtures()
			files[tt.file] = tt.content

			_, err := Load(writeFixtures(t, files))
			assert.Error(t, err)
			assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeConfigInvalid),
				"expected CONFIG_INVALID, got %v", err)
		})
	}
}

func TestLoad_SchemaViolation(t *testing.T) {
	files := testFixtures()
	files["questions.json"] = `{"assessment": {"Financials": [{"id": "q1"}]}}`

	_, err := Load(writeFixtures(t, files))
	assert.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeConfigInvalid))
}

// ==========================
// Store Accessor Tests
// ==========================

func TestStore_IntrosFallback(t *testing.T) {
	store := loadTestStore(t)

	// Catalyst-specific list when present.
	intros, ok := store.Intros("Responding", "Crisis")
	assert.True(t, ok)
	assert.Equal(t, []string{"Triage first.", "Stabilize now."}, intros)

	// Fallback to general_intros when the catalyst has no entry.
	intros, ok = store.Intros("Responding", "Steady Growth")
	assert.True(t, ok)
	assert.Equal(t, []string{"Steady basics first."}, intros)

	// Missing tier is the only false case.
	_, ok = store.Intros("Thriving", "Crisis")
	assert.False(t, ok)
}

func TestStore_RawPassthrough(t *testing.T) {
	store := loadTestStore(t)

	assert.JSONEq(t, testQuestions, string(store.RawQuestions()))
	assert.JSONEq(t, testTone, string(store.RawToneMatrix()))
}

func TestStore_BoundariesCopy(t *testing.T) {
	store := loadTestStore(t)

	boundaries := store.Boundaries()
	boundaries[0].Name = "mutated"

	assert.Equal(t, "Responding", store.Boundaries()[0].Name)
}
