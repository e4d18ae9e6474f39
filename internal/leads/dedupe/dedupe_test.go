package dedupe

import (
	"testing"

	"estate_crm_backend/internal/leads/domain"

	"github.com/google/uuid"
)

func str(s string) *string { return &s }

func lead(name, phone string, mutate ...func(*domain.Lead)) domain.Lead {
	l := domain.Lead{
		ID:           uuid.New(),
		FullName:     name,
		PrimaryPhone: phone,
	}
	for _, fn := range mutate {
		fn(&l)
	}
	return l
}

func TestDetectPhoneMatchWinsOverEmail(t *testing.T) {
	existing := lead("Ravi Kumar", "+919876543210", func(l *domain.Lead) {
		l.Email = str("ravi@example.com")
	})
	candidate := lead("R. Kumar", "+919876543210", func(l *domain.Lead) {
		l.Email = str("different@example.com")
	})

	got := Detect(candidate, []domain.Lead{existing})
	if !got.IsDuplicate {
		t.Fatal("expected duplicate")
	}
	if got.MatchType != MatchPhone {
		t.Fatalf("expected phone match, got %s", got.MatchType)
	}
	if got.ExistingLead.ID != existing.ID {
		t.Fatalf("expected existing lead %s, got %s", existing.ID, got.ExistingLead.ID)
	}
}

func TestDetectEmailMatchWhenPhonesDiffer(t *testing.T) {
	existing := lead("Ravi Kumar", "+919876543210", func(l *domain.Lead) {
		l.Email = str("Ravi@Example.com")
	})
	candidate := lead("Ravi K", "+919999999999", func(l *domain.Lead) {
		l.Email = str("ravi@example.com")
	})

	got := Detect(candidate, []domain.Lead{existing})
	if !got.IsDuplicate || got.MatchType != MatchEmail {
		t.Fatalf("expected email match, got %+v", got)
	}
}

func TestDetectNameCityMatch(t *testing.T) {
	existing := lead("Priya Sharma", "+919876543210", func(l *domain.Lead) {
		l.PreferredCity = str("Pune")
	})
	candidate := lead("priya sharma", "+918888888888", func(l *domain.Lead) {
		l.PreferredCity = str("PUNE")
	})

	got := Detect(candidate, []domain.Lead{existing})
	if !got.IsDuplicate || got.MatchType != MatchNameCity {
		t.Fatalf("expected name_city match, got %+v", got)
	}
}

func TestDetectCityAloneIsNotADuplicate(t *testing.T) {
	existing := lead("Priya Sharma", "+919876543210", func(l *domain.Lead) {
		l.PreferredCity = str("Pune")
	})
	candidate := lead("Amit Verma", "+918888888888", func(l *domain.Lead) {
		l.PreferredCity = str("Pune")
	})

	if got := Detect(candidate, []domain.Lead{existing}); got.IsDuplicate {
		t.Fatalf("expected no duplicate, got %+v", got)
	}
}

func TestDetectIgnoresMergedLeads(t *testing.T) {
	mergedInto := uuid.New()
	existing := lead("Ravi Kumar", "+919876543210", func(l *domain.Lead) {
		l.MergedIntoLeadID = &mergedInto
	})
	candidate := lead("Ravi Kumar", "+919876543210")

	if got := Detect(candidate, []domain.Lead{existing}); got.IsDuplicate {
		t.Fatalf("merged lead must never be a match target, got %+v", got)
	}
}

func TestDetectExcludesCandidateItself(t *testing.T) {
	candidate := lead("Ravi Kumar", "+919876543210")

	if got := Detect(candidate, []domain.Lead{candidate}); got.IsDuplicate {
		t.Fatalf("candidate matched itself: %+v", got)
	}
}

func TestDetectEmptyEmailDoesNotMatchEmptyEmail(t *testing.T) {
	existing := lead("Ravi Kumar", "+919876543210", func(l *domain.Lead) {
		l.Email = str("")
	})
	candidate := lead("Someone Else", "+918888888888", func(l *domain.Lead) {
		l.Email = str("")
	})

	if got := Detect(candidate, []domain.Lead{existing}); got.IsDuplicate {
		t.Fatalf("blank emails must not match, got %+v", got)
	}
}
