package matching

import (
	"testing"

	leaddomain "estate_crm_backend/internal/leads/domain"
	propdomain "estate_crm_backend/internal/properties/domain"

	"github.com/google/uuid"
)

func str(s string) *string { return &s }
func i64(v int64) *int64   { return &v }
func intp(v int) *int      { return &v }

func buyerLead() leaddomain.Lead {
	return leaddomain.Lead{
		ID:            uuid.New(),
		PreferredCity: str("Bengaluru"),
		PreferredArea: str("Whitefield"),
		PropertyType:  str("apartment"),
		Bedrooms:      intp(2),
		BudgetMin:     i64(8_000_000),
		BudgetMax:     i64(12_000_000),
	}
}

func listing(mutate ...func(*propdomain.Property)) propdomain.Property {
	p := propdomain.Property{
		ID:            uuid.New(),
		Title:         "2BHK in Whitefield",
		City:          "Bengaluru",
		Area:          "Whitefield",
		PropertyType:  propdomain.TypeApartment,
		Configuration: "2BHK",
		Price:         10_000_000,
		Status:        propdomain.StatusAvailable,
	}
	for _, fn := range mutate {
		fn(&p)
	}
	return p
}

func TestMatchScorePerfectMatchIs100(t *testing.T) {
	got := MatchScore(listing(), buyerLead())
	if got != 100 {
		t.Fatalf("expected perfect match score 100, got %d", got)
	}
}

func TestMatchScoreCityMismatchDropsLocationPoints(t *testing.T) {
	p := listing(func(p *propdomain.Property) {
		p.City = "Chennai"
		p.Area = "Whitefield"
	})
	got := MatchScore(p, buyerLead())
	if got != 70 {
		t.Fatalf("expected 70 without location points, got %d", got)
	}
}

func TestMatchScoreAreaSubstringBonusEitherDirection(t *testing.T) {
	lead := buyerLead()
	lead.PreferredArea = str("whitefield main road")

	p := listing() // area "Whitefield" is contained in the lead's area
	if got := MatchScore(p, lead); got != 100 {
		t.Fatalf("expected substring area bonus, got %d", got)
	}
}

func TestMatchScoreBudgetBands(t *testing.T) {
	cases := []struct {
		name  string
		price int64
		want  int // total score: 50 location+type + budget band + 15 config + 5 availability
	}{
		{"inside range", 10_000_000, 100},
		{"ten percent over max", 13_000_000, 90},
		// Prices past the 1.1x band still sit above 0.9x budgetMin, so the
		// under-min band (15) applies before the 1.2x band is reached.
		{"twenty percent over max", 14_000_000, 85},
		{"way over max", 20_000_000, 85},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := listing(func(p *propdomain.Property) { p.Price = tc.price })
			if got := MatchScore(p, buyerLead()); got != tc.want {
				t.Fatalf("price %d: score = %d, want %d", tc.price, got, tc.want)
			}
		})
	}
}

func TestMatchScoreMissingBudgetMaxIsUnbounded(t *testing.T) {
	lead := buyerLead()
	lead.BudgetMax = nil

	p := listing(func(p *propdomain.Property) { p.Price = 55_000_000 })
	if got := MatchScore(p, lead); got != 100 {
		t.Fatalf("expected any price above min to fit with no max, got %d", got)
	}
}

func TestMatchScoreConfigurationOffByOne(t *testing.T) {
	p := listing(func(p *propdomain.Property) { p.Configuration = "3BHK" })
	if got := MatchScore(p, buyerLead()); got != 93 {
		t.Fatalf("expected 93 for off-by-one bedrooms, got %d", got)
	}
}

func TestMatchScoreUnderNegotiationAvailability(t *testing.T) {
	p := listing(func(p *propdomain.Property) { p.Status = propdomain.StatusUnderNegotiation })
	if got := MatchScore(p, buyerLead()); got != 97 {
		t.Fatalf("expected 97 for under-negotiation listing, got %d", got)
	}
}

func TestMatchScoreMissingPreferencesDegradeToZeroPoints(t *testing.T) {
	lead := leaddomain.Lead{ID: uuid.New()}
	p := listing()
	// Only budget (no bounds means any price fits) and availability score.
	if got := MatchScore(p, lead); got != 35 {
		t.Fatalf("expected 35 for preference-less lead, got %d", got)
	}
}

func TestRankFiltersSortsAndTruncates(t *testing.T) {
	lead := buyerLead()

	sold := listing(func(p *propdomain.Property) { p.Status = propdomain.StatusSold })
	weak := listing(func(p *propdomain.Property) {
		p.City = "Chennai"
		p.PropertyType = propdomain.TypePlot
		p.Configuration = "Studio"
		p.Price = 30_000_000
	})
	negotiation := listing(func(p *propdomain.Property) { p.Status = propdomain.StatusUnderNegotiation })
	perfect := listing()

	got := Rank([]propdomain.Property{sold, weak, negotiation, perfect}, lead, 10)

	if len(got) != 2 {
		t.Fatalf("expected 2 ranked entries, got %d", len(got))
	}
	if got[0].Property.ID != perfect.ID {
		t.Fatalf("expected perfect listing first")
	}
	if got[1].Property.ID != negotiation.ID {
		t.Fatalf("expected under-negotiation listing second")
	}
	for _, r := range got {
		if r.Score < RankFloor {
			t.Fatalf("ranked entry below floor: %d", r.Score)
		}
	}

	limited := Rank([]propdomain.Property{sold, weak, negotiation, perfect}, lead, 1)
	if len(limited) != 1 || limited[0].Property.ID != perfect.ID {
		t.Fatalf("expected limit to truncate to the top entry")
	}
}

func TestRankTiesPreserveInputOrder(t *testing.T) {
	lead := buyerLead()
	first := listing()
	second := listing()

	got := Rank([]propdomain.Property{first, second}, lead, 10)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Score != got[1].Score {
		t.Fatalf("fixture should tie, got %d vs %d", got[0].Score, got[1].Score)
	}
	if got[0].Property.ID != first.ID || got[1].Property.ID != second.ID {
		t.Fatal("tie did not preserve input order")
	}
}
