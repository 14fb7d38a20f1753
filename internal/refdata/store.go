// internal/refdata/store.go

// Package refdata loads and exposes the five reference tables driving
// scoring and recommendation assembly: question catalog, tier rules,
// tone matrix, catalyst definitions and detailed recommendations.
// A Store is immutable after Load and safe for concurrent readers.
package refdata

import "encoding/json"

// Question is one catalog entry within a functional area.
type Question struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Text string `json:"text"`
}

// TierBoundary is one tier rule: scores up to and including High
// (and above Low) classify into Name.
type TierBoundary struct {
	Name string
	Low  float64
	High float64
}

// CatalystInfo describes one situational catalyst.
type CatalystInfo struct {
	Definition        string   `json:"definition"`
	PrimaryFocusAreas []string `json:"primary_focus_areas"`
}

// Recommendation is one grounding snippet for a tier/catalyst/area cell.
type Recommendation struct {
	Recommendation string `json:"recommendation"`
	ToneFocus      string `json:"tone_focus,omitempty"`
}

// Store holds all reference tables, read-only after Load.
type Store struct {
	areas        map[string][]Question
	areaOrder    []string
	questionArea map[string]string

	boundaries []TierBoundary
	summaries  map[string]string

	tone            map[string]map[string][]string
	catalysts       map[string]CatalystInfo
	recommendations map[string]map[string]map[string][]Recommendation

	rawQuestions json.RawMessage
	rawTone      json.RawMessage
}

// AreaOrder returns the functional areas in catalog insertion order.
func (s *Store) AreaOrder() []string {
	out := make([]string, len(s.areaOrder))
	copy(out, s.areaOrder)
	return out
}

// Questions returns the catalog entries for one area.
func (s *Store) Questions(area string) []Question {
	return s.areas[area]
}

// QuestionCount returns the number of questions defined for an area.
func (s *Store) QuestionCount(area string) int {
	return len(s.areas[area])
}

// AreaForQuestion resolves a question id to its functional area.
func (s *Store) AreaForQuestion(questionID string) (string, bool) {
	area, ok := s.questionArea[questionID]
	return area, ok
}

// Boundaries returns the tier rules in ascending order of upper bound.
func (s *Store) Boundaries() []TierBoundary {
	out := make([]TierBoundary, len(s.boundaries))
	copy(out, s.boundaries)
	return out
}

// Summary returns the whole-business diagnosis keyed by "Mostly <tier>".
func (s *Store) Summary(tier string) (string, bool) {
	text, ok := s.summaries["Mostly "+tier]
	return text, ok
}

// Intros returns the candidate introductory phrases for a tier and
// catalyst, and whether the tier exists in the tone matrix at all.
// A catalyst without a specific entry falls back to the tier's
// general_intros list.
func (s *Store) Intros(tier, catalyst string) ([]string, bool) {
	tierIntros, ok := s.tone[tier]
	if !ok {
		return nil, false
	}
	if intros, ok := tierIntros[catalyst]; ok && len(intros) > 0 {
		return intros, true
	}
	return tierIntros["general_intros"], true
}

// Catalyst returns the definition for one catalyst label.
func (s *Store) Catalyst(name string) (CatalystInfo, bool) {
	info, ok := s.catalysts[name]
	return info, ok
}

// RecommendationsFor returns the grounding snippets for a
// tier/catalyst/area cell; nil when the cell is absent.
func (s *Store) RecommendationsFor(tier, catalyst, area string) []Recommendation {
	byCatalyst, ok := s.recommendations[tier]
	if !ok {
		return nil
	}
	byArea, ok := byCatalyst[catalyst]
	if !ok {
		return nil
	}
	return byArea[area]
}

// RawQuestions returns the question catalog exactly as loaded, for
// passthrough on GET /questions.
func (s *Store) RawQuestions() json.RawMessage {
	return s.rawQuestions
}

// RawToneMatrix returns the tone matrix exactly as loaded, for
// passthrough on GET /tone-options.
func (s *Store) RawToneMatrix() json.RawMessage {
	return s.rawTone
}

// TotalQuestionCount returns the number of questions across all areas.
func (s *Store) TotalQuestionCount() int {
	return len(s.questionArea)
}
