package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/faceconnect/client/internal/logging"
	"github.com/faceconnect/client/internal/models"
	"github.com/faceconnect/client/internal/ui"
)

// TokenSource exposes the bearer token of the current session.
type TokenSource interface {
	Token() string
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Tokens     TokenSource
	Notifier   ui.Notifier
	// Limiter paces outgoing calls; nil disables pacing.
	Limiter *rate.Limiter
}

// Client issues FaceConnect API calls on behalf of the current session.
type Client struct {
	baseURL  string
	http     *http.Client
	tokens   TokenSource
	notifier ui.Notifier
	limiter  *rate.Limiter
}

// NewClient constructs a Client. A nil HTTPClient gets a 15 second timeout.
func NewClient(opts Options) (*Client, error) {
	base := strings.TrimSuffix(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, ErrNoBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = ui.Discard{}
	}
	return &Client{
		baseURL:  base,
		http:     httpClient,
		tokens:   opts.Tokens,
		notifier: notifier,
		limiter:  opts.Limiter,
	}, nil
}

// NewLimiter builds the outbound pacing limiter; non-positive rates disable it.
func NewLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// Do sends an authenticated request and decodes the JSON response into out.
// An empty method means GET; a nil body sends no payload; a nil out discards
// the response. Failures are shown to the user before they are returned.
func (c *Client) Do(ctx context.Context, method, endpoint string, body, out any) error {
	if method == "" {
		method = http.MethodGet
	}
	err := c.send(ctx, method, endpoint, body, out, c.authorization())
	if err != nil {
		c.notifier.Notify(err.Error(), ui.LevelError)
	}
	return err
}

// authorization builds the bearer header value. Without a token the header is
// omitted and the server's rejection flows through the normal error path.
func (c *Client) authorization() string {
	if c.tokens == nil {
		return ""
	}
	token := c.tokens.Token()
	if token == "" {
		return ""
	}
	return "Bearer " + token
}

func (c *Client) send(ctx context.Context, method, endpoint string, body, out any, authorization string) (err error) {
	ctx, span := logging.StartSpan(ctx, "api.request",
		slog.String("method", method),
		slog.String("endpoint", endpoint),
	)
	status := 0
	defer func() { span.End(err, slog.Int("status", status)) }()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s %s: %w", method, endpoint, err)
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, endpoint, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s response: %w", method, endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestError{
			Method:   method,
			Endpoint: endpoint,
			Status:   resp.StatusCode,
			Message:  serverMessage(data),
		}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, endpoint, err)
	}
	return nil
}

func serverMessage(data []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || strings.TrimSpace(payload.Message) == "" {
		return DefaultErrorMessage
	}
	return payload.Message
}

// RegisterRequest is the POST /register payload.
type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	BirthDate string `json:"birth_date"`
	Gender    string `json:"gender"`
}

// LoginResponse is the POST /login result.
type LoginResponse struct {
	Message     string      `json:"message"`
	AccessToken string      `json:"access_token"`
	User        models.User `json:"user"`
}

var errEmptyToken = errors.New("login response carried no access token")

// Register creates an account. It bypasses the bearer header because no token
// exists yet, and does not log the user in.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (string, error) {
	var resp MessageResponse
	if err := c.send(ctx, http.MethodPost, "/register", req, &resp, ""); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Login exchanges credentials for an access token and the user profile.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var resp LoginResponse
	if err := c.send(ctx, http.MethodPost, "/login", body, &resp, ""); err != nil {
		return LoginResponse{}, err
	}
	if resp.AccessToken == "" {
		return LoginResponse{}, errEmptyToken
	}
	return resp, nil
}
