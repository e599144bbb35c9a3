package verify

// Claim statuses.
const (
	ClaimTraced          = "TRACED"
	ClaimPartiallyTraced = "PARTIALLY_TRACED"
	ClaimNotTraced       = "NOT_TRACED"
)

// Coverage statuses.
const (
	SectionCovered = "COVERED"
	SectionPartial = "PARTIAL"
	SectionOmitted = "OMITTED"
)

// ClaimResult records whether one factual statement from the script traces
// back to the source text. SourcePage and SourceSection are nil when the
// claim could not be traced.
type ClaimResult struct {
	ClaimText     string  `json:"claim_text"`
	Status        string  `json:"status"`
	SourcePage    *int    `json:"source_page"`
	SourceSection *string `json:"source_section"`
}

// ClaimsOutput wraps the claims list so structured output sees a top-level
// object.
type ClaimsOutput struct {
	Claims []ClaimResult `json:"claims"`
}

// CoverageResult records how completely the script covered one source
// section's key points.
type CoverageResult struct {
	Section          string   `json:"section"`
	Status           string   `json:"status"`
	KeyPointsTotal   int      `json:"key_points_total"`
	KeyPointsCovered int      `json:"key_points_covered"`
	OmittedPoints    []string `json:"omitted_points"`
}

// Summary aggregates the claim and coverage results.
type Summary struct {
	TotalClaims        int     `json:"total_claims"`
	Traced             int     `json:"traced"`
	PartiallyTraced    int     `json:"partially_traced"`
	NotTraced          int     `json:"not_traced"`
	TotalKeyPoints     int     `json:"total_key_points"`
	KeyPointsCovered   int     `json:"key_points_covered"`
	CoveragePercentage float64 `json:"coverage_percentage"`
}

// Report is the full verification report persisted alongside the script.
type Report struct {
	Claims   []ClaimResult    `json:"claims"`
	Coverage []CoverageResult `json:"coverage"`
	Summary  Summary          `json:"summary"`
}
