// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// UnknownName is reported when a person cannot be resolved in the people directory.
const UnknownName = "Unknown"

// Amount is a monetary value that may be absent from the source table.
type Amount struct {
	Value float64
	Valid bool
}

// KnownAmount returns a present Amount.
func KnownAmount(v float64) Amount { return Amount{Value: v, Valid: true} }

// Exceeds reports whether the amount is present and strictly above threshold.
func (a Amount) Exceeds(threshold float64) bool {
	return a.Valid && a.Value > threshold
}

// EducationRecord is one degree earned by one historical person (degrees table).
type EducationRecord struct {
	ID          string    // id
	PersonID    string    // object_id
	DegreeType  string    // degree_type
	Subject     string    // subject
	Institution string    // institution
	GraduatedAt time.Time // graduated_at, zero when absent
	CreatedAt   time.Time // created_at, zero when absent
	UpdatedAt   time.Time // updated_at, zero when absent
}

// Person is a row of the people directory.
type Person struct {
	ObjectID        string
	FirstName       string
	LastName        string
	AffiliationName string
}

// DisplayName joins first and last name, falling back to UnknownName.
func (p Person) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
	if name == "" {
		return UnknownName
	}
	return name
}

// Relationship links a person to a company with a role title.
type Relationship struct {
	PersonID  string // person_object_id
	CompanyID string // relationship_object_id
	Title     string
}

// IsFounder reports whether the title names a founder role (case-insensitive).
func (r Relationship) IsFounder() bool {
	return strings.Contains(strings.ToLower(r.Title), "founder")
}

// FundingRound is one raise by a company.
type FundingRound struct {
	CompanyID            string    // object_id
	FundedAt             time.Time // zero when absent
	RaisedAmountUSD      Amount
	RaisedAmount         Amount
	PreMoneyValuationUSD Amount
	RoundCode            string
}

// Acquisition records a company being acquired.
type Acquisition struct {
	CompanyID string // acquired_object_id
	Price     Amount // price_amount
}

// IPO records a company going public.
type IPO struct {
	CompanyID string // object_id
	Valuation Amount // valuation_amount
}
