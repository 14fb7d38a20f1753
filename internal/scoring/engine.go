// internal/scoring/engine.go

// Package scoring turns a validated submission into a per-area and
// overall maturity report. Calculation is a pure function of the
// submission and the reference data; nothing here mutates shared state,
// so concurrent calls need no synchronization.
package scoring

import (
	"assessment-engine/internal/models"
	"assessment-engine/internal/refdata"
)

type Engine struct {
	store *refdata.Store
}

func NewEngine(store *refdata.Store) *Engine {
	return &Engine{store: store}
}

// areaTally accumulates answers routed to one functional area. Total
// is the number of questions the catalog defines for the area, not the
// number answered; normalization divides by answered*4 instead.
type areaTally struct {
	totalScore int
	answered   int
	total      int
}

// Calculate scores a submission against the question catalog and tier
// rules. Unknown question ids are skipped silently so partial or
// forward-compatible submissions still score; they affect no tally.
func (e *Engine) Calculate(sub models.Submission) models.Report {
	order := e.store.AreaOrder()
	boundaries := e.store.Boundaries()

	tallies := make(map[string]*areaTally, len(order))
	for _, area := range order {
		tallies[area] = &areaTally{total: e.store.QuestionCount(area)}
	}

	for _, answer := range sub.Answers {
		if answer.Score < 0 {
			continue
		}
		area, ok := e.store.AreaForQuestion(answer.QuestionID)
		if !ok {
			continue
		}
		tallies[area].totalScore += answer.Score
		tallies[area].answered++
	}

	topTier := boundaries[len(boundaries)-1].Name

	categoryScores := make(map[string]models.CategoryScore, len(order))
	var priorityCategories []string
	var totalNormalized float64
	answeredAreas := 0

	for _, area := range order {
		tally := tallies[area]

		var normScore float64
		if tally.answered > 0 {
			normScore = Round2(float64(tally.totalScore) / float64(tally.answered*4))
		}
		// Classify the rounded score so the reported score and tier can
		// never disagree at a boundary.
		tier := ClassifyTier(normScore, boundaries)

		if tier != topTier {
			priorityCategories = append(priorityCategories, area)
		}

		categoryScores[area] = models.CategoryScore{
			Name:              area,
			RawScore:          tally.totalScore,
			NormalizedScore:   normScore,
			Tier:              tier,
			QuestionsAnswered: tally.answered,
			TotalQuestions:    tally.total,
		}

		if tally.answered > 0 {
			totalNormalized += normScore
			answeredAreas++
		}
	}

	var overallScore float64
	if answeredAreas > 0 {
		overallScore = Round2(totalNormalized / float64(answeredAreas))
	}
	overallTier := ClassifyTier(overallScore, boundaries)

	return models.Report{
		CategoryScores:     categoryScores,
		CategoryOrder:      order,
		OverallScore:       overallScore,
		OverallTier:        overallTier,
		PriorityCategories: priorityCategories,
	}
}
