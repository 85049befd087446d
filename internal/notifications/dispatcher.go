package notifications

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"shelfwatch/internal/types"
)

// PlaceholderToken is the sample token value shipped in .env templates.
// A token equal to this counts as unconfigured.
const PlaceholderToken = "your_fonnte_token_here"

// Dispatcher resolves and validates a destination WhatsApp number and drives
// a single outbound provider call. It performs no retries: repeated failures
// are surfaced to the coordinator, not retried, because at most one
// notification per batch exists upstream.
type Dispatcher struct {
	sender      types.MessageSender
	token       types.SecretString
	countryCode string
	logger      *slog.Logger
}

// NewDispatcher creates a Dispatcher. countryCode is the required national
// prefix in digit form (e.g. "62" for Indonesia).
func NewDispatcher(sender types.MessageSender, token types.SecretString, countryCode string, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		sender:      sender,
		token:       token,
		countryCode: countryCode,
		logger:      logger,
	}
}

// NormalizeNumber strips all non-digit characters from a contact address.
func NormalizeNumber(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Send validates configuration and destination, then performs one synchronous
// provider call and classifies the outcome:
//
//   - missing/placeholder token        -> config_whatsapp_not_configured
//   - normalized address lacks prefix  -> validation_invalid_whatsapp_number
//   - transport failure or timeout     -> upstream_whatsapp_unavailable
//   - provider reached but rejected    -> upstream_whatsapp_rejected
//
// On rejection the returned DeliveryResult is non-nil alongside the error and
// carries the raw provider response for diagnosis. Retry policy, if any,
// belongs to the caller and is presently absent.
func (d *Dispatcher) Send(ctx context.Context, contact string, message string) (*types.DeliveryResult, error) {
	if d.token.Unmask() == "" || d.token.Unmask() == PlaceholderToken {
		return nil, types.NewAppError(types.ErrCodeConfigWhatsAppMissing,
			"WhatsApp API belum dikonfigurasi. Silakan set FONNTE_TOKEN di environment variables.", nil)
	}

	target := NormalizeNumber(contact)
	if !strings.HasPrefix(target, d.countryCode) {
		return nil, types.NewAppError(types.ErrCodeValidationInvalidWhatsApp,
			"Format nomor WhatsApp tidak valid (harus mulai dengan "+d.countryCode+")", nil)
	}

	result, err := d.sender.Send(ctx, target, message)
	if err != nil {
		var appErr *types.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, types.NewAppError(types.ErrCodeUpstreamWhatsApp,
			"Gagal menghubungi WhatsApp gateway", err)
	}

	if !result.Success {
		reason := result.ErrorReason
		if reason == "" {
			reason = "Pesan gagal dikirim"
		}
		return result, types.NewAppError(types.ErrCodeUpstreamWhatsAppRejected, reason, nil)
	}

	d.logger.Info("whatsapp notification sent", "target", target, "bytes", len(message))
	return result, nil
}
