package google

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"
	"time"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"cvintake/internal/config"
	"cvintake/internal/errors"
)

// Mail is a thin client over the Gmail send API.
type Mail struct {
	provider ClientProvider
	timeout  time.Duration
	cb       *MailCircuitBreaker
	logger   *errors.Logger

	// endpoint overrides the API base URL in tests
	endpoint string
}

// NewMail builds a Mail client from the Google section of the
// configuration.
func NewMail(provider ClientProvider, cfg config.GoogleConfig, logger *errors.Logger) *Mail {
	return &Mail{
		provider: provider,
		timeout:  cfg.Mail.Timeout,
		cb:       NewMailCircuitBreaker("send", &cfg.Mail.CircuitBreaker, logger),
		logger:   logger,
	}
}

// Send delivers a plain-text message on behalf of the signed-in user.
// It reports success as a boolean; transport and authentication
// failures are logged and come back as false, never as a panic or an
// error that reaches the workflow.
func (m *Mail) Send(ctx context.Context, to, subject, body string) bool {
	_, err := m.cb.Execute(func() (string, error) {
		callCtx, cancel := context.WithTimeout(ctx, m.timeout)
		defer cancel()

		client, err := m.provider.Client(callCtx)
		if err != nil {
			return "", err
		}
		opts := []option.ClientOption{option.WithHTTPClient(client)}
		if m.endpoint != "" {
			opts = append(opts, option.WithEndpoint(m.endpoint))
		}
		svc, err := gmail.NewService(callCtx, opts...)
		if err != nil {
			return "", errors.NewRemoteError(errors.ErrCodeRemoteUnavailable,
				"failed to build gmail service", err)
		}

		msg := &gmail.Message{Raw: encodeMessage(to, subject, body)}
		sent, err := svc.Users.Messages.Send("me", msg).Context(callCtx).Do()
		if err != nil {
			return "", errors.NewRemoteError(errors.ErrCodeRemoteUnavailable,
				fmt.Sprintf("mail send to %s failed", to), err)
		}
		return sent.Id, nil
	})
	if err != nil {
		if m.logger != nil {
			m.logger.Warn("mail delivery failed", "to", to, "error", err)
		}
		return false
	}
	return true
}

// encodeMessage assembles an RFC 2822 plain-text message and encodes it
// base64url the way the send API expects.
func encodeMessage(to, subject, body string) string {
	var b strings.Builder
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return base64.URLEncoding.EncodeToString([]byte(b.String()))
}

// Stats exposes the circuit breaker state for the stats endpoint.
func (m *Mail) Stats() map[string]any {
	return map[string]any{"send": m.cb.GetStats()}
}

// Healthy reports whether the mail breaker is closed.
func (m *Mail) Healthy() bool {
	return m.cb.IsHealthy()
}
