// Package notification turns domain events into agent-facing email.
package notification

import (
	"context"

	"estate_crm_backend/internal/email"
	"estate_crm_backend/internal/events"
	"estate_crm_backend/platform/logger"
)

// Notifier subscribes to assignment events and emails the new owner.
type Notifier struct {
	sender email.Sender
	log    *logger.Logger
}

// New creates the notifier and registers its subscriptions on the bus.
// Pass email.NoopSender when delivery is disabled; events are still
// consumed so subscription behavior stays uniform across environments.
func New(bus events.Bus, sender email.Sender, log *logger.Logger) *Notifier {
	n := &Notifier{sender: sender, log: log}

	bus.Subscribe(events.LeadAssigned{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.LeadAssigned)
		if !ok {
			return nil
		}
		return n.notifyLeadAssigned(ctx, e)
	}))

	return n
}

func (n *Notifier) notifyLeadAssigned(ctx context.Context, e events.LeadAssigned) error {
	if e.AgentEmail == "" {
		return nil
	}

	if err := n.sender.SendLeadAssignedEmail(ctx, e.AgentEmail, e.AgentName, e.LeadName); err != nil {
		n.log.Error("lead assigned email failed", "lead_id", e.LeadID, "agent_id", e.AgentID, "error", err)
		return err
	}

	n.log.Info("lead assigned email sent", "lead_id", e.LeadID, "agent_id", e.AgentID)
	return nil
}
