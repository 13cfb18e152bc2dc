// internal/models/analysis.go
package models

// FiveForces is the legacy fixed five-dimension score record. It is kept for
// backward compatibility with dashboards built before dimensions became
// admin-configurable. All values are on a 0-10 scale.
type FiveForces struct {
	SkillsMatch     float64 `json:"skillsMatch"`
	ExperienceMatch float64 `json:"experienceMatch"`
	EducationMatch  float64 `json:"educationMatch"`
	CultureFit      float64 `json:"cultureFit"`
	GrowthPotential float64 `json:"growthPotential"`
}

// GapAnalysis lists where the candidate exceeds or falls short of the role.
type GapAnalysis struct {
	Pros []string `json:"pros"`
	Cons []string `json:"cons"`
}

// SWOT holds the strengths/weaknesses/opportunities/threats lists produced by
// the completion service.
type SWOT struct {
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
}

// Advice carries exactly three advice bullets and a verdict that is one of
// VerdictRecommend or VerdictNotRecommend.
type Advice struct {
	Verdict string   `json:"verdict"`
	Points  []string `json:"points"`
}

const (
	VerdictRecommend    = "RECOMMEND"
	VerdictNotRecommend = "DO NOT RECOMMEND"
)

// AnalysisResult is the normalized output of one scoring pass. It is created
// fresh on every analysis or re-evaluation and is immutable once attached to a
// candidate snapshot; re-scoring supersedes it rather than mutating it.
//
// Every score in the struct is on a 0-10 scale. ScoringDimensions has a
// variable key set determined by the dimension-weight rules that were active
// when the analysis ran.
type AnalysisResult struct {
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	CurrentTitle   string `json:"currentTitle,omitempty"`
	CurrentCompany string `json:"currentCompany,omitempty"`
	Industry       string `json:"industry,omitempty"`
	Education      string `json:"education,omitempty"`

	YearsOfExperience         float64 `json:"yearsOfExperience"`
	RelevantYearsOfExperience float64 `json:"relevantYearsOfExperience"`

	Skills      []string `json:"skills"`
	OtherSkills []string `json:"otherSkills"`

	Summary           string             `json:"summary"`
	MatchScore        float64            `json:"matchScore"`
	ScoringDimensions map[string]float64 `json:"scoringDimensions"`
	FiveForces        FiveForces         `json:"fiveForces"`
	GapAnalysis       GapAnalysis        `json:"gapAnalysis"`
	SWOT              SWOT               `json:"swot"`
	Advice            Advice             `json:"advice"`

	InterviewQuestions []string `json:"interviewQuestions"`

	DetectedSource  string `json:"detectedSource"`
	ActiveApplicant bool   `json:"activeApplicant"`
	ModelVersion    string `json:"modelVersion"`
}
