// internal/refdata/loader.go
package refdata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"assessment-engine/internal/common/config"
	apperrors "assessment-engine/internal/common/errors"
	"assessment-engine/internal/models"

	"github.com/xeipuuv/gojsonschema"
)

// boundaryGap is the widest hole tolerated between one tier's upper
// bound and the next tier's lower bound. Scores are rounded to two
// decimals, so a 0.01 seam (0.33 -> 0.34) is unreachable by any score.
const boundaryGap = 0.01 + 1e-9

// Load reads and validates all five reference tables. Any failure is a
// fatal startup error; the returned Store never changes afterwards.
func Load(cfg config.RefDataConfig) (*Store, error) {
	s := &Store{}

	if err := s.loadQuestions(cfg.QuestionsPath); err != nil {
		return nil, err
	}
	if err := s.loadRules(cfg.RulesPath); err != nil {
		return nil, err
	}
	if err := s.loadTone(cfg.ToneMatrixPath); err != nil {
		return nil, err
	}
	if err := s.loadCatalysts(cfg.CatalystsPath); err != nil {
		return nil, err
	}
	if err := s.loadRecommendations(cfg.RecommendationsPath); err != nil {
		return nil, err
	}

	return s, nil
}

// readValidated reads a file and checks it against its JSON schema.
func readValidated(path, schema string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewConfigLoadFailedError(path, err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, apperrors.NewConfigLoadFailedError(path, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return nil, apperrors.NewConfigInvalidError(
			fmt.Sprintf("%s: %s", path, strings.Join(msgs, "; ")))
	}

	return data, nil
}

func (s *Store) loadQuestions(path string) error {
	data, err := readValidated(path, questionsSchema)
	if err != nil {
		return err
	}

	var parsed struct {
		Assessment map[string][]Question `json:"assessment"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return apperrors.NewConfigLoadFailedError(path, err)
	}

	order, err := orderedAreaKeys(data)
	if err != nil {
		return apperrors.NewConfigLoadFailedError(path, err)
	}

	questionArea := make(map[string]string)
	for _, area := range order {
		for _, q := range parsed.Assessment[area] {
			if prev, exists := questionArea[q.ID]; exists {
				return apperrors.NewConfigInvalidError(fmt.Sprintf(
					"question id %q appears in both %q and %q", q.ID, prev, area))
			}
			questionArea[q.ID] = area
		}
	}

	s.areas = parsed.Assessment
	s.areaOrder = order
	s.questionArea = questionArea
	s.rawQuestions = json.RawMessage(data)
	return nil
}

func (s *Store) loadRules(path string) error {
	data, err := readValidated(path, rulesSchema)
	if err != nil {
		return err
	}

	var parsed struct {
		TierBoundaries         map[string][2]float64 `json:"tier_boundaries"`
		WholeBusinessSummaries map[string]string     `json:"whole_business_summaries"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return apperrors.NewConfigLoadFailedError(path, err)
	}

	boundaries := make([]TierBoundary, 0, len(models.Tiers))
	for _, tier := range models.Tiers {
		bounds, ok := parsed.TierBoundaries[tier]
		if !ok {
			return apperrors.NewConfigInvalidError(
				fmt.Sprintf("tier_boundaries missing tier %q", tier))
		}
		if bounds[0] > bounds[1] {
			return apperrors.NewConfigInvalidError(fmt.Sprintf(
				"tier %q has inverted bounds [%v, %v]", tier, bounds[0], bounds[1]))
		}
		boundaries = append(boundaries, TierBoundary{Name: tier, Low: bounds[0], High: bounds[1]})
	}

	// Boundaries must partition [0,1] in ascending order, allowing only
	// the 2-decimal seam between adjacent tiers.
	if boundaries[0].Low != 0 {
		return apperrors.NewConfigInvalidError("lowest tier must start at 0")
	}
	if boundaries[len(boundaries)-1].High != 1 {
		return apperrors.NewConfigInvalidError("highest tier must end at 1")
	}
	for i := 1; i < len(boundaries); i++ {
		gap := boundaries[i].Low - boundaries[i-1].High
		if gap <= 0 || gap > boundaryGap {
			return apperrors.NewConfigInvalidError(fmt.Sprintf(
				"tiers %q and %q do not partition the score range (gap %v)",
				boundaries[i-1].Name, boundaries[i].Name, gap))
		}
	}

	s.boundaries = boundaries
	s.summaries = parsed.WholeBusinessSummaries
	return nil
}

func (s *Store) loadTone(path string) error {
	data, err := readValidated(path, toneSchema)
	if err != nil {
		return err
	}

	var parsed map[string]map[string][]string
	if err := json.Unmarshal(data, &parsed); err != nil {
		return apperrors.NewConfigLoadFailedError(path, err)
	}

	for _, tier := range models.Tiers {
		tierIntros, ok := parsed[tier]
		if !ok {
			return apperrors.NewConfigInvalidError(
				fmt.Sprintf("tone matrix missing tier %q", tier))
		}
		if len(tierIntros["general_intros"]) == 0 {
			return apperrors.NewConfigInvalidError(
				fmt.Sprintf("tone matrix tier %q has no general_intros", tier))
		}
		for key := range tierIntros {
			if key != "general_intros" && !models.IsKnownCatalyst(key) {
				return apperrors.NewConfigInvalidError(fmt.Sprintf(
					"tone matrix tier %q has unknown catalyst key %q", tier, key))
			}
		}
	}
	for tier := range parsed {
		if !isKnownTier(tier) {
			return apperrors.NewConfigInvalidError(
				fmt.Sprintf("tone matrix has unknown tier key %q", tier))
		}
	}

	s.tone = parsed
	s.rawTone = json.RawMessage(data)
	return nil
}

func (s *Store) loadCatalysts(path string) error {
	data, err := readValidated(path, catalystsSchema)
	if err != nil {
		return err
	}

	var parsed map[string]CatalystInfo
	if err := json.Unmarshal(data, &parsed); err != nil {
		return apperrors.NewConfigLoadFailedError(path, err)
	}

	for _, catalyst := range models.Catalysts {
		if _, ok := parsed[catalyst]; !ok {
			return apperrors.NewConfigInvalidError(
				fmt.Sprintf("catalysts table missing %q", catalyst))
		}
	}

	s.catalysts = parsed
	return nil
}

func (s *Store) loadRecommendations(path string) error {
	data, err := readValidated(path, recommendationsSchema)
	if err != nil {
		return err
	}

	var parsed map[string]map[string]map[string][]Recommendation
	if err := json.Unmarshal(data, &parsed); err != nil {
		return apperrors.NewConfigLoadFailedError(path, err)
	}

	// Enforce one canonical key convention across the whole table:
	// tier, catalyst and area keys must match the other tables verbatim.
	for tier, byCatalyst := range parsed {
		if !isKnownTier(tier) {
			return apperrors.NewConfigInvalidError(
				fmt.Sprintf("recommendations table has unknown tier key %q", tier))
		}
		for catalyst, byArea := range byCatalyst {
			if !models.IsKnownCatalyst(catalyst) {
				return apperrors.NewConfigInvalidError(fmt.Sprintf(
					"recommendations tier %q has unknown catalyst key %q", tier, catalyst))
			}
			for area := range byArea {
				if _, ok := s.areas[area]; !ok {
					return apperrors.NewConfigInvalidError(fmt.Sprintf(
						"recommendations %s/%s has unknown area key %q", tier, catalyst, area))
				}
			}
		}
	}

	s.recommendations = parsed
	return nil
}

func isKnownTier(name string) bool {
	for _, t := range models.Tiers {
		if t == name {
			return true
		}
	}
	return false
}

// orderedAreaKeys walks the raw JSON tokens to recover the catalog's
// area insertion order, which encoding/json maps discard.
func orderedAreaKeys(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)

		if key != "assessment" {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, err
			}
			continue
		}

		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		var order []string
		for dec.More() {
			areaTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			area, _ := areaTok.(string)
			order = append(order, area)

			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, err
			}
		}
		return order, nil
	}

	return nil, fmt.Errorf("assessment key not found")
}
