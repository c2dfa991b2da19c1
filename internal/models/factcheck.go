package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Verdict is the enumerated outcome of a fact-check
type Verdict string

const (
	VerdictTrue          Verdict = "TRUE"
	VerdictMostlyTrue    Verdict = "MOSTLY TRUE"
	VerdictPartiallyTrue Verdict = "PARTIALLY TRUE"
	VerdictMisleading    Verdict = "MISLEADING"
	VerdictMostlyFalse   Verdict = "MOSTLY FALSE"
	VerdictFalse         Verdict = "FALSE"
	VerdictUnverified    Verdict = "UNVERIFIED"
)

// ClaimVerification is the per-claim breakdown of a fact-check
type ClaimVerification struct {
	Claim       string   `json:"claim"`
	Verdict     Verdict  `json:"verdict"`
	Explanation string   `json:"explanation"`
	Sources     []string `json:"sources"`
}

// FactCheckSource is a cited source with a reliability rating
type FactCheckSource struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Reliability string `json:"reliability"` // High, Medium, Low
}

// FactCheckResult is the structured verdict cached on an article.
// Computed once, never invalidated.
type FactCheckResult struct {
	OverallVerdict     Verdict             `json:"overallVerdict"`
	TruthPercentage    int                 `json:"truthPercentage"`
	OverallSummary     string              `json:"overallSummary"`
	ClaimVerifications []ClaimVerification `json:"claimVerifications"`
	Sources            []FactCheckSource   `json:"sources"`
	RedFlags           []string            `json:"redFlags"`
	Context            string              `json:"context"`
}

func (f FactCheckResult) Value() (driver.Value, error) {
	return json.Marshal(f)
}

func (f *FactCheckResult) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	default:
		return fmt.Errorf("cannot scan %T into FactCheckResult", value)
	}
}
