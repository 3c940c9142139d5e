package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/casalia/realty-backend/pkg/logger"
	"go.uber.org/multierr"
)

// BookingNotification carries everything needed to notify both parties of a
// new viewing appointment.
type BookingNotification struct {
	ClientName    string
	ClientEmail   string
	AgentName     string
	AgentEmail    string
	PropertyTitle string
	AppointmentAt time.Time
}

// Notifier fans booking emails out to the client and the hosting agent.
// Delivery is best effort; callers decide whether a failure matters.
type Notifier struct {
	sender Sender
	logg   *logger.Logger
}

func NewNotifier(sender Sender, logg *logger.Logger) *Notifier {
	return &Notifier{sender: sender, logg: logg}
}

// NotifyBooked sends the client confirmation and the agent alert, returning
// the combined delivery errors.
func (n *Notifier) NotifyBooked(ctx context.Context, msg BookingNotification) error {
	if n == nil || n.sender == nil {
		return nil
	}

	when := msg.AppointmentAt.Format("Mon, 02 Jan 2006 15:04 MST")

	var errs error

	clientBody := fmt.Sprintf(
		"Hi %s,\n\nYour viewing of %q is booked for %s with %s.\n\nWe will be in touch to confirm the details.",
		msg.ClientName, msg.PropertyTitle, when, msg.AgentName,
	)
	if err := n.sender.Send(msg.ClientEmail, "Viewing request received", clientBody); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("client email: %w", err))
	}

	agentBody := fmt.Sprintf(
		"%s (%s) requested a viewing of %q on %s.",
		msg.ClientName, msg.ClientEmail, msg.PropertyTitle, when,
	)
	if err := n.sender.Send(msg.AgentEmail, "New viewing request", agentBody); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("agent email: %w", err))
	}

	if errs != nil && n.logg != nil {
		n.logg.Warn(n.logg.WithField(ctx, "error", errs.Error()), "booking.email.failed")
	}
	return errs
}
