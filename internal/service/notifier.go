package service

import (
	"context"

	"github.com/Developershubh00/Binder-backend/internal/domain"
	"github.com/Developershubh00/Binder-backend/pkg/email"
	"github.com/Developershubh00/Binder-backend/pkg/logger"
	"github.com/Developershubh00/Binder-backend/pkg/metrics"
)

// Delivery reports the outcome of a notification attached to an operation
type Delivery string

const (
	DeliverySent   Delivery = "sent"
	DeliveryFailed Delivery = "failed"
)

// NotifierConfig holds the frontend links embedded in emails
type NotifierConfig struct {
	VerificationURL string
	SetPasswordURL  string
}

// Notifier renders and dispatches account emails. A failed delivery is
// logged and counted; it never undoes stored state.
type Notifier struct {
	sender  email.Sender
	cfg     NotifierConfig
	log     *logger.Logger
	metrics *metrics.Metrics
}

func NewNotifier(sender email.Sender, cfg NotifierConfig, log *logger.Logger, m *metrics.Metrics) *Notifier {
	return &Notifier{sender: sender, cfg: cfg, log: log.Named("notifier"), metrics: m}
}

func (n *Notifier) Verification(ctx context.Context, user *domain.User, token string) Delivery {
	msg := email.VerificationEmail(user.Email, displayName(user), n.cfg.VerificationURL, token, domain.VerificationTTL)
	return n.deliver(ctx, "verification", msg)
}

func (n *Notifier) OTP(ctx context.Context, user *domain.User, otp string) Delivery {
	msg := email.OTPEmail(user.Email, displayName(user), otp, domain.OTPTTL)
	return n.deliver(ctx, "otp", msg)
}

func (n *Notifier) PasswordReset(ctx context.Context, user *domain.User, token string) Delivery {
	msg := email.PasswordResetEmail(user.Email, displayName(user), n.cfg.SetPasswordURL, token, domain.PasswordResetTTL)
	return n.deliver(ctx, "password_reset", msg)
}

func (n *Notifier) deliver(ctx context.Context, kind string, msg email.Message) Delivery {
	if err := n.sender.Send(ctx, msg); err != nil {
		n.metrics.NotificationFailures.WithLabelValues(kind).Inc()
		n.log.Error().Err(err).Str("kind", kind).Str("to", msg.To).Msg("notification delivery failed")
		return DeliveryFailed
	}
	n.log.Debug().Str("kind", kind).Str("to", msg.To).Msg("notification sent")
	return DeliverySent
}

func displayName(user *domain.User) string {
	if name := user.FullName(); name != "" {
		return name
	}
	return user.Email
}
