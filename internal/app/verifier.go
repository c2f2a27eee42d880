// internal/app/verifier.go
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Verifier checks anti-bot tokens against an external verification
// endpoint (reCaptcha v3 shaped: POST form, JSON response with a
// confidence score). One attempt per submission, bounded timeout, no
// retries.
type Verifier struct {
	endpoint  string
	secret    string
	threshold float64
	client    *http.Client
}

func NewVerifier(config *Config) *Verifier {
	return &Verifier{
		endpoint:  config.Captcha.Endpoint,
		secret:    config.CaptchaSecret(),
		threshold: config.Captcha.Threshold,
		client:    &http.Client{Timeout: config.CaptchaTimeout()},
	}
}

// Verify returns a human-readable rejection description, or "" when the
// token passes. Transport and parse failures are rejections rather than
// errors: the submit contract reports them as ok=0 on a 200 response, a
// failing verifier must not look like a client error.
func (v *Verifier) Verify(ctx context.Context, token, remoteIP string) string {
	form := url.Values{
		"secret":   {v.secret},
		"response": {token},
		"remoteip": {remoteIP},
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		v.endpoint,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return fmt.Sprintf("Failed to verify reCaptcha token: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Sprintf("Failed to verify reCaptcha token: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Sprintf("Failed to verify reCaptcha token: %v", err)
	}

	var parsed struct {
		Score *float64 `json:"score"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Sprintf("Failed to read score from reCaptcha response: %v. Response=%s", err, body)
	}
	if parsed.Score == nil {
		return fmt.Sprintf("Failed to read score from reCaptcha response: missing score field. Response=%s", body)
	}

	// strict less-than: a score of exactly threshold passes
	if *parsed.Score < v.threshold {
		return "reCaptcha token did not have high enough score. Try refreshing the page and submitting again."
	}

	return ""
}
