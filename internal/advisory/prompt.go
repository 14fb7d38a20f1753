// internal/advisory/prompt.go

// Package advisory assembles the recommendation prompt for the external
// text generator and wraps the generation call itself.
package advisory

import (
	"fmt"
	"sort"
	"strings"

	apperrors "assessment-engine/internal/common/errors"
	"assessment-engine/internal/models"
	"assessment-engine/internal/refdata"
)

// maxFocusAreas caps the catalyst focus areas listed in the prompt.
const maxFocusAreas = 5

// maxSnippetsPerArea caps the grounding snippets embedded per area.
const maxSnippetsPerArea = 3

const fallbackDefinition = "No definition available."
const fallbackDiagnosis = "Your business is evolving."

var sectionRule = strings.Repeat("─", 80)

// ReferenceData is the slice of the reference store the prompt builder
// reads. *refdata.Store satisfies it.
type ReferenceData interface {
	Summary(tier string) (string, bool)
	Catalyst(name string) (refdata.CatalystInfo, bool)
	Intros(tier, catalyst string) ([]string, bool)
	RecommendationsFor(tier, catalyst, area string) []refdata.Recommendation
}

// Builder assembles one advisory prompt per scored report.
type Builder struct {
	data     ReferenceData
	selector Selector
}

func NewBuilder(data ReferenceData, selector Selector) *Builder {
	return &Builder{data: data, selector: selector}
}

// Build assembles the full generation prompt for a report and catalyst.
// Functional areas appear weakest-first: ascending normalized score,
// with catalog order breaking ties, so the generated text gives the
// worst-performing areas attention first. A tier absent from the tone
// matrix is a reference-data defect and fails loudly.
func (b *Builder) Build(report models.Report, catalyst string) (string, error) {
	definition := fallbackDefinition
	var focusAreas []string
	if info, ok := b.data.Catalyst(catalyst); ok {
		if info.Definition != "" {
			definition = info.Definition
		}
		focusAreas = info.PrimaryFocusAreas
	}
	if len(focusAreas) > maxFocusAreas {
		focusAreas = focusAreas[:maxFocusAreas]
	}

	diagnosis, ok := b.data.Summary(report.OverallTier)
	if !ok {
		diagnosis = fallbackDiagnosis
	}

	sorted := sortedCategories(report)

	parts := []string{
		"You are an experienced small business advisor with expertise across retail, service, manufacturing, and professional services.",
		"",
		"## BUSINESS CONTEXT:",
		fmt.Sprintf("**Current Situation:** %s", catalyst),
		fmt.Sprintf("**What This Means:** %s", definition),
		fmt.Sprintf("**Overall Business State:** %s", diagnosis),
		"",
		"## KEY PRIORITIES FOR THIS SITUATION:",
	}

	for i, focus := range focusAreas {
		parts = append(parts, fmt.Sprintf("%d. %s", i+1, focus))
	}

	areaNames := make([]string, len(sorted))
	for i, cat := range sorted {
		areaNames[i] = cat.Name
	}

	parts = append(parts,
		"",
		"## CRITICAL WRITING GUIDELINES:",
		"**DO NOT:**",
		"- Use phrases like 'Of course', 'Here are', or other unnecessary preambles",
		"- Use headings like 'WHAT to do', 'WHY it matters', 'HOW to start'",
		"- Show scores or tier levels to the user (e.g., '(Current Score: 0.50 - Building)')",
		"- Use bullet points with • symbols",
		"",
		"**DO:**",
		"- Start each functional area directly with the opening statement provided",
		"- Write each recommendation as a cohesive 2-3 sentence paragraph",
		"- Naturally integrate what to do, why it matters, and how to start within the paragraph flow",
		"- Use plain, conversational language at 8th-grade reading level",
		"- Define business terms in parentheses when first used",
		"- Keep total length: 150-200 words per functional area",
		"",
		"## FUNCTIONAL AREA RECOMMENDATIONS:",
		fmt.Sprintf("You must provide recommendations for ALL %d functional areas in this exact order: %s",
			len(areaNames), strings.Join(areaNames, ", ")),
		"",
	)

	for i, cat := range sorted {
		section, err := b.areaSection(i+1, cat, catalyst)
		if err != nil {
			return "", err
		}
		parts = append(parts, section)
	}

	parts = append(parts,
		"",
		"## FORMATTING REQUIREMENTS:",
		"- Use clear headings for each functional area (e.g., '1. Financials', '2. Operations')",
		"- Number your recommendations (1, 2, 3) within each area",
		"- Write each recommendation as a cohesive paragraph, NOT bullet points",
		"- Use **bold** sparingly for key terms only",
		"- Do NOT show scores or tier information",
		"",
		"## LENGTH REQUIREMENT:",
		"- Total response: 1,200 - 1,500 words",
		"- Each functional area: 150-200 words (roughly 3 paragraphs of 2-3 sentences each)",
		"",
		"Begin your recommendations now, starting directly with the first functional area:",
	)

	return strings.Join(parts, "\n"), nil
}

// areaSection renders one functional area block, grounded on detailed
// recommendation snippets when the tier/catalyst/area cell has any.
func (b *Builder) areaSection(position int, cat models.CategoryScore, catalyst string) (string, error) {
	intros, tierKnown := b.data.Intros(cat.Tier, catalyst)
	if !tierKnown {
		return "", apperrors.NewToneTierMissingError(cat.Tier)
	}

	var intro string
	if len(intros) > 0 {
		intro = intros[b.selector.Pick(len(intros))]
	}

	snippets := b.data.RecommendationsFor(cat.Tier, catalyst, cat.Name)
	if len(snippets) > maxSnippetsPerArea {
		snippets = snippets[:maxSnippetsPerArea]
	}

	displayName := strings.ReplaceAll(cat.Name, "_", " & ")

	if len(snippets) == 0 {
		return fmt.Sprintf(
			"### %d. %s\n"+
				"\n"+
				"**Opening Statement (use this exactly):** %s\n"+
				"\n"+
				"Provide 3 practical recommendations for this area based on the %s tier "+
				"and %s context. Each recommendation should be a 2-3 sentence paragraph.\n"+
				"%s\n",
			position, displayName, intro, cat.Tier, catalyst, sectionRule), nil
	}

	lines := make([]string, len(snippets))
	for j, rec := range snippets {
		lines[j] = fmt.Sprintf("  %d. %s", j+1, rec.Recommendation)
	}

	return fmt.Sprintf(
		"### %d. %s\n"+
			"\n"+
			"**Opening Statement (use this exactly):** %s\n"+
			"\n"+
			"**Base Your Advice On These Core Recommendations:**\n"+
			"%s\n"+
			"\n"+
			"**Instructions:** Expand each recommendation above into a 2-3 sentence paragraph. "+
			"Each paragraph should naturally explain the specific action, its business impact, "+
			"and a concrete first step, without using those as headings. "+
			"Write in a conversational but professional tone. Keep it concise and actionable.\n"+
			"%s\n",
		position, displayName, intro, strings.Join(lines, "\n"), sectionRule), nil
}

// sortedCategories orders areas ascending by normalized score. The sort
// is stable over catalog insertion order so equal scores keep their
// catalog position.
func sortedCategories(report models.Report) []models.CategoryScore {
	out := make([]models.CategoryScore, 0, len(report.CategoryOrder))
	for _, area := range report.CategoryOrder {
		if cs, ok := report.CategoryScores[area]; ok {
			out = append(out, cs)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].NormalizedScore < out[j].NormalizedScore
	})
	return out
}
