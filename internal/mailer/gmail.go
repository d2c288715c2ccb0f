// Package mailer sends rendered HTML mail through the Gmail REST API using an
// OAuth2 refresh token.
package mailer

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/mail"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"vaultcast/internal/config"
)

// GmailSendScope is the only scope the sender needs.
const GmailSendScope = "https://www.googleapis.com/auth/gmail.send"

var (
	// ErrNotConfigured means Gmail credentials are missing.
	ErrNotConfigured = errors.New("mailer: gmail not configured")
	// ErrInvalidRecipient means a To address did not parse.
	ErrInvalidRecipient = errors.New("mailer: invalid recipient")
)

// Message is an HTML email.
type Message struct {
	To      []string
	Subject string
	HTML    string
}

// Sender delivers messages and returns the provider's message id.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// Gmail implements Sender.
type Gmail struct {
	baseURL string
	from    string
	http    *http.Client
}

var _ Sender = (*Gmail)(nil)

// NewGmail returns a sender whose HTTP client refreshes access tokens from
// cfg.RefreshToken. It returns ErrNotConfigured when credentials are missing.
func NewGmail(ctx context.Context, cfg config.GmailConfig) (*Gmail, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}
	oc := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{GmailSendScope},
	}
	base := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	ts := oc.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})
	return NewGmailWithClient(cfg.BaseURL, cfg.Sender, oauth2.NewClient(ctx, ts)), nil
}

// NewGmailWithClient uses hc as is; hc must attach credentials itself.
func NewGmailWithClient(baseURL, from string, hc *http.Client) *Gmail {
	return &Gmail{baseURL: strings.TrimRight(baseURL, "/"), from: from, http: hc}
}

// BuildMIME renders msg as an RFC 5322 message with an HTML body.
func BuildMIME(from string, msg Message) ([]byte, error) {
	if len(msg.To) == 0 {
		return nil, fmt.Errorf("%w: no recipients", ErrInvalidRecipient)
	}
	to := make([]string, 0, len(msg.To))
	for _, addr := range msg.To {
		a, err := mail.ParseAddress(addr)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidRecipient, addr)
		}
		to = append(to, a.String())
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	return b.Bytes(), nil
}

type sendRequest struct {
	Raw string `json:"raw"`
}

type sendResponse struct {
	ID string `json:"id"`
}

// Send posts the message to users/me/messages/send.
func (g *Gmail) Send(ctx context.Context, msg Message) (string, error) {
	raw, err := BuildMIME(g.from, msg)
	if err != nil {
		return "", err
	}
	body, err := json.Marshal(sendRequest{Raw: base64.URLEncoding.EncodeToString(raw)})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/gmail/v1/users/me/messages/send", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("mailer: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("mailer: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("mailer: gmail returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var out sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("mailer: decode response: %w", err)
	}
	return out.ID, nil
}
