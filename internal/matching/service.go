package matching

import (
	"context"
	"errors"
	"sync/atomic"

	"estate_crm_backend/internal/events"
	leaddomain "estate_crm_backend/internal/leads/domain"
	leadrepo "estate_crm_backend/internal/leads/repository"
	propdomain "estate_crm_backend/internal/properties/domain"
	"estate_crm_backend/platform/apperr"
	"estate_crm_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/sync/errgroup"
)

// autoMatchTopN caps how many ranked properties per lead the batch run
// considers for record creation.
const autoMatchTopN = 3

// autoMatchWorkers bounds concurrent per-lead passes so a large snapshot
// does not swamp the pool.
const autoMatchWorkers = 4

// autoMatchStages are the funnel stages eligible for batch matching.
var autoMatchStages = []leaddomain.FunnelStage{
	leaddomain.StageNew,
	leaddomain.StageContacted,
	leaddomain.StageQualified,
}

// LeadSource provides lead snapshots for matching.
type LeadSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (leaddomain.Lead, error)
	ListByStages(ctx context.Context, stages []leaddomain.FunnelStage) ([]leaddomain.Lead, error)
}

// PropertySource provides the sellable property snapshot.
type PropertySource interface {
	ListSellable(ctx context.Context) ([]propdomain.Property, error)
}

// MatchStore is the persistence surface the service needs.
type MatchStore interface {
	Exists(ctx context.Context, leadID, propertyID uuid.UUID) (bool, error)
	Create(ctx context.Context, params CreateMatchParams) (Match, error)
	ListByLead(ctx context.Context, leadID uuid.UUID) ([]Match, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status MatchStatus) (Match, error)
}

// Service runs the batch auto-matcher and manages match records.
type Service struct {
	store      MatchStore
	leads      LeadSource
	properties PropertySource
	bus        events.Bus
	log        *logger.Logger
}

// NewService wires the matching service.
func NewService(store MatchStore, leads LeadSource, properties PropertySource, bus events.Bus, log *logger.Logger) *Service {
	return &Service{store: store, leads: leads, properties: properties, bus: bus, log: log}
}

// AutoMatch runs one batch pass: for every lead in an eligible stage it
// ranks the sellable properties, takes the top entries scoring at or above
// AutoMatchThreshold, and creates a suggested match for each pair that has
// none yet. Re-running the pass creates nothing new, so it is safe on a
// schedule. Leads are processed concurrently; the match table's unique pair
// constraint backstops any overlap. Returns the number of match records
// created.
func (s *Service) AutoMatch(ctx context.Context) (int, error) {
	leads, err := s.leads.ListByStages(ctx, autoMatchStages)
	if err != nil {
		return 0, err
	}
	properties, err := s.properties.ListSellable(ctx)
	if err != nil {
		return 0, err
	}

	var created atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(autoMatchWorkers)
	for _, lead := range leads {
		if lead.IsMerged() {
			continue
		}
		g.Go(func() error {
			n, err := s.matchLead(gctx, lead, properties)
			created.Add(int64(n))
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return int(created.Load()), err
	}
	return int(created.Load()), nil
}

func (s *Service) matchLead(ctx context.Context, lead leaddomain.Lead, properties []propdomain.Property) (int, error) {
	created := 0
	for _, ranked := range Rank(properties, lead, autoMatchTopN) {
		if ranked.Score < AutoMatchThreshold {
			continue
		}

		exists, err := s.store.Exists(ctx, lead.ID, ranked.Property.ID)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}

		match, err := s.store.Create(ctx, CreateMatchParams{
			LeadID:        lead.ID,
			PropertyID:    ranked.Property.ID,
			MatchScore:    ranked.Score,
			LeadName:      lead.FullName,
			PropertyTitle: ranked.Property.Title,
		})
		if isUniqueViolation(err) {
			// A concurrent pass won the insert; the pair is suggested
			// either way.
			continue
		}
		if err != nil {
			return created, err
		}
		created++

		s.log.LeadDecision("matcher", lead.ID.String(), "suggested "+ranked.Property.Title)
		s.bus.Publish(ctx, events.PropertyMatchSuggested{
			BaseEvent:  events.NewBaseEvent(),
			MatchID:    match.ID,
			LeadID:     lead.ID,
			PropertyID: ranked.Property.ID,
			MatchScore: ranked.Score,
		})
	}
	return created, nil
}

// SuggestForLead ranks the current sellable inventory against one lead,
// without persisting anything. This backs the on-demand suggestions view.
func (s *Service) SuggestForLead(ctx context.Context, leadID uuid.UUID, limit int) ([]RankedProperty, error) {
	lead, err := s.leads.GetByID(ctx, leadID)
	if errors.Is(err, leadrepo.ErrNotFound) {
		return nil, apperr.NotFound("lead not found")
	}
	if err != nil {
		return nil, err
	}
	if lead.IsMerged() {
		return nil, apperr.Conflict("lead was merged into another lead")
	}

	properties, err := s.properties.ListSellable(ctx)
	if err != nil {
		return nil, err
	}
	return Rank(properties, lead, limit), nil
}

// isUniqueViolation reports whether err is the (lead_id, property_id)
// unique index rejecting a duplicate insert.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// MatchesForLead returns the persisted match records for a lead.
func (s *Service) MatchesForLead(ctx context.Context, leadID uuid.UUID) ([]Match, error) {
	return s.store.ListByLead(ctx, leadID)
}

// SetMatchStatus records an agent's accept/reject decision on a suggestion.
func (s *Service) SetMatchStatus(ctx context.Context, id uuid.UUID, status MatchStatus) (Match, error) {
	switch status {
	case MatchSuggested, MatchAccepted, MatchRejected:
	default:
		return Match{}, apperr.Validation("unknown match status")
	}

	match, err := s.store.UpdateStatus(ctx, id, status)
	if err == ErrMatchNotFound {
		return Match{}, apperr.NotFound("match not found")
	}
	if err != nil {
		return Match{}, err
	}
	return match, nil
}
