// internal/scoring/normalizer/normalizer.go
package normalizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"recruit-workers/internal/models"
)

// ErrParse marks a completion response that is not valid JSON after the code
// fence is stripped. It is fatal to the analysis call and is never retried
// here; retries, if any, belong to the caller.
var ErrParse = errors.New("ANALYSIS_PARSE_ERROR")

var numberPattern = regexp.MustCompile(`\d+(\.\d+)?`)

// rawResult mirrors the requested response schema but tolerates the dirt the
// completion service actually returns: years fields may be free text, scores
// may arrive on a 0-100 scale, optional containers may be missing.
type rawResult struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	CurrentTitle   string `json:"currentTitle"`
	CurrentCompany string `json:"currentCompany"`
	Industry       string `json:"industry"`
	Education      string `json:"education"`

	YearsOfExperience         json.RawMessage `json:"yearsOfExperience"`
	RelevantYearsOfExperience json.RawMessage `json:"relevantYearsOfExperience"`

	Skills      []string `json:"skills"`
	OtherSkills []string `json:"otherSkills"`

	Summary           string              `json:"summary"`
	MatchScore        float64             `json:"matchScore"`
	ScoringDimensions map[string]float64  `json:"scoringDimensions"`
	FiveForces        models.FiveForces   `json:"fiveForces"`
	GapAnalysis       *models.GapAnalysis `json:"gapAnalysis"`
	SWOT              models.SWOT         `json:"swot"`
	Advice            models.Advice       `json:"advice"`

	InterviewQuestions []string `json:"interviewQuestions"`

	DetectedSource  string `json:"detectedSource"`
	ActiveApplicant bool   `json:"activeApplicant"`
}

// Normalize converts the completion service's raw text into a trusted
// AnalysisResult. Only the initial parse can fail; every later step is pure
// data repair and substitutes defaults instead of erroring. ModelVersion is
// left empty for the caller to stamp.
func Normalize(raw string) (*models.AnalysisResult, error) {
	unwrapped := StripCodeFence(raw)

	var parsed rawResult
	if err := json.Unmarshal([]byte(unwrapped), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	// The verdict is part of the response contract, not repairable data: an
	// off-script value would flow into hiring decisions, so it fails the parse.
	switch parsed.Advice.Verdict {
	case models.VerdictRecommend, models.VerdictNotRecommend:
	default:
		return nil, fmt.Errorf("%w: verdict %q is not an allowed value", ErrParse, parsed.Advice.Verdict)
	}

	years := coerceYears(parsed.YearsOfExperience)
	relevant := coerceYears(parsed.RelevantYearsOfExperience)
	if len(parsed.RelevantYearsOfExperience) == 0 || string(parsed.RelevantYearsOfExperience) == "null" {
		relevant = years
	}

	result := &models.AnalysisResult{
		Name:           parsed.Name,
		Email:          parsed.Email,
		Phone:          parsed.Phone,
		CurrentTitle:   parsed.CurrentTitle,
		CurrentCompany: parsed.CurrentCompany,
		Industry:       parsed.Industry,
		Education:      parsed.Education,

		YearsOfExperience:         years,
		RelevantYearsOfExperience: relevant,

		Skills:      parsed.Skills,
		OtherSkills: parsed.OtherSkills,

		Summary:    parsed.Summary,
		MatchScore: rescale(parsed.MatchScore),
		FiveForces: models.FiveForces{
			SkillsMatch:     rescale(parsed.FiveForces.SkillsMatch),
			ExperienceMatch: rescale(parsed.FiveForces.ExperienceMatch),
			EducationMatch:  rescale(parsed.FiveForces.EducationMatch),
			CultureFit:      rescale(parsed.FiveForces.CultureFit),
			GrowthPotential: rescale(parsed.FiveForces.GrowthPotential),
		},
		SWOT:   parsed.SWOT,
		Advice: parsed.Advice,

		InterviewQuestions: parsed.InterviewQuestions,

		DetectedSource:  CanonicalSource(parsed.DetectedSource),
		ActiveApplicant: parsed.ActiveApplicant,
	}

	result.ScoringDimensions = make(map[string]float64, len(parsed.ScoringDimensions))
	for dim, score := range parsed.ScoringDimensions {
		result.ScoringDimensions[dim] = rescale(score)
	}

	if parsed.GapAnalysis != nil {
		result.GapAnalysis = *parsed.GapAnalysis
	}

	// Backfill optional containers so downstream consumers never branch on nil.
	if result.OtherSkills == nil {
		result.OtherSkills = []string{}
	}
	if result.GapAnalysis.Pros == nil {
		result.GapAnalysis.Pros = []string{}
	}
	if result.GapAnalysis.Cons == nil {
		result.GapAnalysis.Cons = []string{}
	}

	return result, nil
}

// StripCodeFence removes one leading code-fence marker (with or without a
// language tag) and one trailing marker. Text without a fence passes through
// unchanged.
func StripCodeFence(s string) string {
	clean := strings.TrimSpace(s)

	if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
		// Drop a language tag such as "json" up to the first newline.
		if idx := strings.IndexByte(clean, '\n'); idx >= 0 {
			firstLine := strings.TrimSpace(clean[:idx])
			if firstLine != "" && !strings.ContainsAny(firstLine, "{[") {
				clean = clean[idx+1:]
			}
		}
		clean = strings.TrimSuffix(strings.TrimSpace(clean), "```")
	}

	return strings.TrimSpace(clean)
}

// CanonicalSource maps a free-text source label onto the closed source set by
// case-insensitive substring containment. Unmatched labels pass through
// trimmed; an empty label becomes "Unknown".
func CanonicalSource(source string) string {
	trimmed := strings.TrimSpace(source)
	lower := strings.ToLower(trimmed)

	switch {
	case strings.Contains(lower, "104"):
		return "104"
	case strings.Contains(lower, "linkedin"):
		return "LinkedIn"
	case strings.Contains(lower, "teamdoor"):
		return "Teamdoor"
	case strings.Contains(lower, "cake"):
		return "CakeResume"
	case strings.Contains(lower, "upload"):
		return "User Upload"
	}

	if trimmed == "" {
		return "Unknown"
	}
	return trimmed
}

// rescale divides a value by 10 exactly once when it exceeds 10, so a
// 0-100-scale response is handled transparently. Already-normalized values
// pass through, which makes the transform idempotent. This is a one-shot
// heuristic, not a clamp.
func rescale(v float64) float64 {
	if v > 10 {
		return v / 10
	}
	return v
}

// coerceYears accepts a JSON number or free text such as "about 5 years" and
// extracts the first decimal or integer number found, defaulting to 0.
func coerceYears(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0
	}
	match := numberPattern.FindString(s)
	if match == "" {
		return 0
	}
	parsed, _ := strconv.ParseFloat(match, 64)
	return parsed
}
