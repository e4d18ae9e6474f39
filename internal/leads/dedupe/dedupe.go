// Package dedupe decides whether a candidate lead duplicates an existing
// record. Checks run in strict priority order; the first rule satisfied
// wins, so MatchType reflects the highest-priority rule, not all rules.
package dedupe

import (
	"strings"

	"estate_crm_backend/internal/leads/domain"
)

// MatchType tags which rule identified the duplicate.
type MatchType string

const (
	MatchPhone    MatchType = "phone"
	MatchEmail    MatchType = "email"
	MatchNameCity MatchType = "name_city"
)

// Result is the duplicate verdict. ExistingLead is nil when IsDuplicate is
// false.
type Result struct {
	IsDuplicate  bool
	ExistingLead *domain.Lead
	MatchType    MatchType
}

// Detect checks the candidate against the existing-lead snapshot.
// Merged leads are never match targets, and the candidate never matches
// itself. Callers should normalize phone numbers before calling so that
// formatting differences do not hide duplicates.
func Detect(candidate domain.Lead, existing []domain.Lead) Result {
	// 1. Exact phone match.
	if candidate.PrimaryPhone != "" {
		if match := find(candidate, existing, func(l domain.Lead) bool {
			return l.PrimaryPhone == candidate.PrimaryPhone
		}); match != nil {
			return Result{IsDuplicate: true, ExistingLead: match, MatchType: MatchPhone}
		}
	}

	// 2. Case-insensitive email match, only when the candidate has an email.
	if candidate.Email != nil && *candidate.Email != "" {
		if match := find(candidate, existing, func(l domain.Lead) bool {
			return l.Email != nil && strings.EqualFold(*l.Email, *candidate.Email)
		}); match != nil {
			return Result{IsDuplicate: true, ExistingLead: match, MatchType: MatchEmail}
		}
	}

	// 3. Same full name in the same preferred city.
	if candidate.FullName != "" && candidate.PreferredCity != nil && *candidate.PreferredCity != "" {
		if match := find(candidate, existing, func(l domain.Lead) bool {
			return strings.EqualFold(l.FullName, candidate.FullName) &&
				l.PreferredCity != nil &&
				strings.EqualFold(*l.PreferredCity, *candidate.PreferredCity)
		}); match != nil {
			return Result{IsDuplicate: true, ExistingLead: match, MatchType: MatchNameCity}
		}
	}

	return Result{IsDuplicate: false}
}

func find(candidate domain.Lead, existing []domain.Lead, pred func(domain.Lead) bool) *domain.Lead {
	for i := range existing {
		l := existing[i]
		if l.ID == candidate.ID || l.IsMerged() {
			continue
		}
		if pred(l) {
			return &existing[i]
		}
	}
	return nil
}
