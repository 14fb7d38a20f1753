// internal/models/assessment.go
package models

// Tier names in ascending maturity order.
const (
	TierResponding = "Responding"
	TierBuilding   = "Building"
	TierOptimizing = "Optimizing"
)

// Tiers lists the three maturity tiers from lowest to highest.
var Tiers = []string{TierResponding, TierBuilding, TierOptimizing}

// Catalysts is the fixed set of situational labels a submission may declare.
var Catalysts = []string{
	"Crisis",
	"Economic Uncertainty",
	"New Opportunity",
	"Steady Growth",
	"Lifestyle Change",
	"Operational Adjustments",
}

// IsKnownCatalyst reports whether name is one of the six catalyst labels.
func IsKnownCatalyst(name string) bool {
	for _, c := range Catalysts {
		if c == name {
			return true
		}
	}
	return false
}

// Answer is a user's response to a single question. Score is validated
// to [0,4] at the transport boundary before it reaches the scoring engine.
type Answer struct {
	QuestionID string `json:"question_id"`
	Score      int    `json:"score"`
	Notes      string `json:"notes,omitempty"`
}

// Submission is the request body for POST /assess.
type Submission struct {
	Catalyst string   `json:"catalyst"`
	Answers  []Answer `json:"answers"`
}

// CategoryScore is the computed score for one functional area.
type CategoryScore struct {
	Name              string  `json:"name"`
	RawScore          int     `json:"raw_score"`
	NormalizedScore   float64 `json:"normalized_score"`
	Tier              string  `json:"tier"`
	QuestionsAnswered int     `json:"questions_answered"`
	TotalQuestions    int     `json:"total_questions"`
}

// Report is the full scoring result for one submission. CategoryOrder
// preserves catalog insertion order so callers can iterate areas
// deterministically; CategoryScores is keyed by area name.
type Report struct {
	CategoryScores     map[string]CategoryScore `json:"category_scores"`
	CategoryOrder      []string                 `json:"-"`
	OverallScore       float64                  `json:"overall_score"`
	OverallTier        string                   `json:"overall_tier"`
	PriorityCategories []string                 `json:"priority_categories"`
}

// CategoryDetail is the per-area slice of the assess response payload.
type CategoryDetail struct {
	Score             float64 `json:"score"`
	Tier              string  `json:"tier"`
	QuestionsAnswered int     `json:"questions_answered"`
	TotalQuestions    int     `json:"total_questions"`
}

// AssessResponse is the response body for POST /assess.
type AssessResponse struct {
	AssessmentID       string                    `json:"assessment_id"`
	OverallScore       float64                   `json:"overall_score"`
	OverallTier        string                    `json:"overall_tier"`
	PriorityCategories []string                  `json:"priority_categories"`
	CategoryDetails    map[string]CategoryDetail `json:"category_details"`
	Recommendations    string                    `json:"recommendations"`
	TierDistribution   map[string]int            `json:"tier_distribution"`
}
