// Package api is the typed client for the companion backend's HTTP surface.
// The backend owns sessions, conversation memory and speech synthesis; this
// client is a thin request/response layer with logging and request ids.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/companionai/companion/internal/debug"
)

const defaultTimeout = 30 * time.Second

// Maximum response body we are willing to buffer. Speech payloads are the
// largest thing the backend returns.
const maxBodySize = 32 * 1024 * 1024

// Client talks to the companion backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New instantiates a client for the given base URL. A zero timeout falls
// back to the default.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: &loggingRoundTripper{inner: http.DefaultTransport},
		},
	}
}

// loggingRoundTripper tags every outbound request with an X-Request-Id and
// logs the outcome.
type loggingRoundTripper struct {
	inner http.RoundTripper
}

func (l *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	log := debug.GetLogger()
	requestID := req.Header.Get("X-Request-Id")
	if requestID == "" {
		requestID = uuid.New().String()
		req.Header.Set("X-Request-Id", requestID)
	}

	start := time.Now()
	resp, err := l.inner.RoundTrip(req)
	duration := time.Since(start)
	if err != nil {
		log.Error("backend request failed",
			"method", req.Method, "url", req.URL.String(),
			"duration", duration.String(), "request_id", requestID, "error", err)
		return nil, err
	}
	log.Debug("backend request",
		"method", req.Method, "url", req.URL.String(), "status", resp.StatusCode,
		"duration", duration.String(), "request_id", requestID)
	return resp, nil
}

// ListSessions fetches all sessions owned by a user.
func (c *Client) ListSessions(ctx context.Context, userID string) ([]Session, error) {
	var sessions []Session
	if err := c.doJSON(ctx, http.MethodGet, path.Join("/sessions", userID), nil, &sessions); err != nil {
		return nil, errors.Wrap(err, "listing sessions")
	}
	return sessions, nil
}

// CreateSession asks the backend to create a session. The backend assigns
// the session id; the client never synthesizes one.
func (c *Client) CreateSession(ctx context.Context, name, userID string) (*Session, error) {
	session := &Session{}
	request := createSessionRequest{Name: name, UserID: userID}
	if err := c.doJSON(ctx, http.MethodPost, "/sessions", request, session); err != nil {
		return nil, errors.Wrap(err, "creating session")
	}
	return session, nil
}

// DeleteSession deletes a session by id.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	if err := c.doJSON(ctx, http.MethodDelete, path.Join("/sessions", sessionID), nil, nil); err != nil {
		return errors.Wrap(err, "deleting session")
	}
	return nil
}

// ListMessages fetches the full message history of a session, in
// chronological order.
func (c *Client) ListMessages(ctx context.Context, sessionID string) ([]Message, error) {
	var messages []Message
	if err := c.doJSON(ctx, http.MethodGet, path.Join("/sessions", sessionID, "messages"), nil, &messages); err != nil {
		return nil, errors.Wrap(err, "listing messages")
	}
	return messages, nil
}

// SendChat posts one user turn and returns the assistant's reply. History is
// sent empty: the backend owns conversation memory.
func (c *Client) SendChat(ctx context.Context, sessionID, message string) (string, error) {
	request := chatRequest{Message: message, History: []Message{}}
	response := &chatResponse{}
	if err := c.doJSON(ctx, http.MethodPost, path.Join("/sessions", sessionID, "chat"), request, response); err != nil {
		return "", errors.Wrap(err, "sending chat")
	}
	return response.Response, nil
}

// ListVoices fetches the voice catalog.
func (c *Client) ListVoices(ctx context.Context) ([]Voice, error) {
	var voices []Voice
	if err := c.doJSON(ctx, http.MethodGet, "/voices", nil, &voices); err != nil {
		return nil, errors.Wrap(err, "listing voices")
	}
	return voices, nil
}

// Synthesize requests synthesized speech for the given text and voice and
// returns the raw audio payload.
func (c *Client) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	body, err := json.Marshal(speakRequest{Text: text, Voice: voiceID})
	if err != nil {
		return nil, errors.Wrap(err, "marshaling speak request")
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/speak", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "synthesizing speech")
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, errors.Wrap(err, "reading audio payload")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(payload)}
	}
	return payload, nil
}

// newRequest builds a request against the base URL.
func (c *Client) newRequest(ctx context.Context, method, relPath string, body io.Reader) (*http.Request, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parsing base URL")
	}
	base.Path = path.Join(base.Path, relPath)
	req, err := http.NewRequestWithContext(ctx, method, base.String(), body)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	return req, nil
}

// doJSON executes a JSON round-trip. A nil in skips the request body, a nil
// out discards the response body.
func (c *Client) doJSON(ctx context.Context, method, relPath string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "marshaling request")
		}
		body = bytes.NewReader(payload)
	}

	req, err := c.newRequest(ctx, method, relPath, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return errors.Wrap(err, "reading response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{StatusCode: resp.StatusCode, Body: string(payload)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return errors.Wrap(err, "unmarshaling response")
	}
	return nil
}
