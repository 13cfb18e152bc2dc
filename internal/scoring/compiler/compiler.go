// internal/scoring/compiler/compiler.go
package compiler

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"recruit-workers/internal/models"
)

// DefaultLanguage is used when no output-language directive is supplied.
const DefaultLanguage = "English"

// Compile renders the active scoring rules and the job description into one
// instruction document for the completion service.
//
// Processing order is fixed: filter to active rules, partition by category,
// stable-sort each partition by ascending priority, render each category with
// its own formatter. The function is pure and deterministic: identical input
// yields byte-identical output, and there are no error conditions; a
// malformed industry-penalty rule degrades to verbatim pass-through.
func Compile(standards []models.ScoringStandard, jobDescription, language string) string {
	if language == "" {
		language = DefaultLanguage
	}

	byCategory := partition(standards)

	var parts []string

	parts = append(parts, "You are an expert HR analyst. Extract the candidate's structured data from the resume and score the candidate against the job description below.")

	parts = append(parts, "\n## Scoring Matrix")
	if weights := byCategory[models.CategoryDimensionWeight]; len(weights) > 0 {
		parts = append(parts, "Score each dimension from 0 to 10, then combine them using these weights:")
		for _, s := range weights {
			parts = append(parts, formatDimensionWeight(s))
		}
	} else {
		parts = append(parts, fallbackMatrixLine)
	}

	if skills := byCategory[models.CategorySkillWeight]; len(skills) > 0 {
		parts = append(parts, "\n## Skill Weights")
		for _, s := range skills {
			parts = append(parts, fmt.Sprintf("- %s (Weight: %s%%): %s", s.Condition, s.RuleText, s.Description))
		}
	}

	if ceilings := byCategory[models.CategoryExperienceCeiling]; len(ceilings) > 0 {
		parts = append(parts, "\n## Experience Ceilings")
		parts = append(parts, "Cap the plausible score band as follows:")
		for _, s := range ceilings {
			parts = append(parts, fmt.Sprintf("- %s: %s", s.Condition, s.RuleText))
		}
	}

	if penalties := byCategory[models.CategoryIndustryPenalty]; len(penalties) > 0 {
		parts = append(parts, "\n## Industry Penalties")
		for _, s := range penalties {
			parts = append(parts, formatIndustryPenalty(s))
		}
		parts = append(parts, "Whenever a penalty is applied, record that fact explicitly in the gap analysis cons.")
	}

	if general := byCategory[models.CategoryGeneralRule]; len(general) > 0 {
		parts = append(parts, "\n## General Rules")
		for _, s := range general {
			parts = append(parts, "- "+s.RuleText)
		}
	}

	parts = append(parts, "\n## Active Applicant Detection")
	parts = append(parts, "Set activeApplicant to true only if the resume text explicitly states the candidate applied proactively (e.g. \"applied via\", \"submitted application\"); sourced or referred candidates are not active applicants.")

	parts = append(parts, "\n## Job Description")
	parts = append(parts, jobDescription)

	parts = append(parts, "\n## Output Style")
	parts = append(parts, "- The summary must be exactly one sentence.")
	parts = append(parts, "- Provide exactly three advice bullets.")
	parts = append(parts, fmt.Sprintf("- The advice verdict must be exactly %q or %q.", models.VerdictRecommend, models.VerdictNotRecommend))
	parts = append(parts, fmt.Sprintf("- Write all free-text output in %s.", language))

	return strings.Join(parts, "\n")
}

const fallbackMatrixLine = "No scoring dimensions are configured; use general judgement to produce a 0-10 match score."

// DimensionWeightTotal sums the numeric weights of the active dimension-weight
// rules. Unparseable weights are skipped. Callers log a warning when the total
// is not 100; the convention is surfaced, never enforced.
func DimensionWeightTotal(standards []models.ScoringStandard) float64 {
	var total float64
	for _, s := range standards {
		if !s.IsActive || s.Category != models.CategoryDimensionWeight {
			continue
		}
		if w, err := strconv.ParseFloat(strings.TrimSpace(s.RuleText), 64); err == nil {
			total += w
		}
	}
	return total
}

func partition(standards []models.ScoringStandard) map[models.StandardCategory][]models.ScoringStandard {
	byCategory := make(map[models.StandardCategory][]models.ScoringStandard)
	for _, s := range standards {
		if !s.IsActive {
			continue
		}
		byCategory[s.Category] = append(byCategory[s.Category], s)
	}
	for _, group := range byCategory {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Priority < group[j].Priority
		})
	}
	return byCategory
}

func formatDimensionWeight(s models.ScoringStandard) string {
	return fmt.Sprintf("- %s (Weight: %s%%): %s", s.Condition, s.RuleText, s.Description)
}

// formatIndustryPenalty parses the rule's per-dimension multiplier mapping and
// renders it as a conditional instruction. A mapping that fails to parse is
// passed through verbatim; the completion service receives best-effort text
// either way.
func formatIndustryPenalty(s models.ScoringStandard) string {
	var multipliers map[string]float64
	if err := json.Unmarshal([]byte(s.RuleText), &multipliers); err != nil || len(multipliers) == 0 {
		return fmt.Sprintf("- %s: %s", s.Condition, s.RuleText)
	}

	dims := make([]string, 0, len(multipliers))
	for dim := range multipliers {
		dims = append(dims, dim)
	}
	sort.Strings(dims)

	rendered := make([]string, 0, len(dims))
	for _, dim := range dims {
		rendered = append(rendered, fmt.Sprintf("%s x%s", dim, strconv.FormatFloat(multipliers[dim], 'g', -1, 64)))
	}

	return fmt.Sprintf("- IF candidate industry matches %q THEN apply %s.", s.Condition, strings.Join(rendered, ", "))
}
