package model

// EducationPattern is a "<degree_type> in <subject>" key and its frequency.
type EducationPattern struct {
	Pattern string `json:"pattern"`
	Count   int    `json:"count"`
}

// PredictionReport aggregates outcomes over a saved profile's matches.
// Numeric sections are nil when their denominator is empty.
type PredictionReport struct {
	ProfileName          string             `json:"profile_name"`
	BasedOn              int                `json:"based_on"`
	NoMatches            bool               `json:"no_matches"`
	EducationPatterns    []EducationPattern `json:"education_patterns"`
	TotalExits           int                `json:"total_exits"`
	SuccessfulExits      int                `json:"successful_exits"`
	ExitSuccessRate      *float64           `json:"exit_success_rate,omitempty"`
	FundedCompanies      int                `json:"funded_companies"`
	AverageFundingRounds *float64           `json:"average_funding_rounds,omitempty"`
	AverageTotalFunding  *float64           `json:"average_total_funding,omitempty"`
	Recommendations      []string           `json:"recommendations"`
}
