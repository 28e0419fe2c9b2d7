package channel

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ttacon/libphonenumber"
	"go.uber.org/zap"

	"github.com/spec-kit/review-service/internal/config"
	"github.com/spec-kit/review-service/internal/domain"
)

const messagesPath = "/2010-04-01/Accounts/%s/Messages.json"

// SMSChannel delivers the plain-text body through the tenant's SMS
// gateway account. One instance is bound to one tenant's decrypted
// credentials and lives for a single send attempt.
type SMSChannel struct {
	cfg    config.SMSConfig
	creds  domain.SMSCredentials
	client *http.Client
	logger *zap.Logger
}

// NewSMSChannel binds a channel to decrypted tenant credentials.
func NewSMSChannel(cfg config.SMSConfig, creds domain.SMSCredentials, logger *zap.Logger) *SMSChannel {
	return &SMSChannel{cfg: cfg, creds: creds, client: http.DefaultClient, logger: logger}
}

// Name identifies the channel in logs and metrics.
func (c *SMSChannel) Name() string { return "sms" }

// Send posts one message to the gateway's Messages endpoint. The
// context deadline bounds the HTTP call.
func (c *SMSChannel) Send(ctx context.Context, destination string, content Content) error {
	to, err := NormalizeNumber(destination)
	if err != nil {
		return fmt.Errorf("sms: destination %q: %w", destination, err)
	}
	if c.creds.FromNumber == "" {
		return fmt.Errorf("sms: sending number not configured")
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", c.creds.FromNumber)
	form.Set("Body", content.Text)

	endpoint := strings.TrimSuffix(c.cfg.APIBaseURL, "/") + fmt.Sprintf(messagesPath, c.creds.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("sms: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.creds.AccountSID, c.creds.AuthToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms: post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sms: gateway returned %d", resp.StatusCode)
	}

	c.logger.Debug("sms delivered", zap.String("to", to))
	return nil
}

// NormalizeNumber parses a destination phone number and returns its
// E.164 form. Numbers without a country prefix default to US.
func NormalizeNumber(raw string) (string, error) {
	num, err := libphonenumber.Parse(strings.TrimSpace(raw), "US")
	if err != nil {
		return "", err
	}
	if !libphonenumber.IsValidNumber(num) {
		return "", fmt.Errorf("invalid phone number")
	}
	return libphonenumber.Format(num, libphonenumber.E164), nil
}
