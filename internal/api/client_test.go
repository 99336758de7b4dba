package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/faceconnect/client/internal/models"
	"github.com/faceconnect/client/internal/ui"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
	levels   []ui.Level
}

func (r *recordingNotifier) Notify(message string, level ui.Level) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
	r.levels = append(r.levels, level)
}

func newTestClient(t *testing.T, handler http.HandlerFunc, token string, notifier ui.Notifier) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Options{
		BaseURL:    srv.URL + "/api/",
		HTTPClient: srv.Client(),
		Tokens:     staticToken(token),
		Notifier:   notifier,
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestDoAttachesBearerToken(t *testing.T) {
	var gotAuth, gotPath, gotMethod string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.RequestURI()
		gotMethod = r.Method
		_, _ = w.Write([]byte(`{"posts":[]}`))
	}, "abc", nil)

	var out models.FeedPage
	if err := client.Do(context.Background(), "", "/feed?page=1&per_page=10", nil, &out); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if gotAuth != "Bearer abc" {
		t.Fatalf("unexpected authorization header %q", gotAuth)
	}
	if gotMethod != http.MethodGet {
		t.Fatalf("expected default GET got %s", gotMethod)
	}
	if gotPath != "/api/feed?page=1&per_page=10" {
		t.Fatalf("unexpected path %q", gotPath)
	}
}

func TestDoOmitsHeaderWithoutToken(t *testing.T) {
	var present bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, present = r.Header["Authorization"]
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"msg":"Missing Authorization Header"}`))
	}, "", nil)

	err := client.Do(context.Background(), http.MethodGet, "/notifications", nil, nil)
	if present {
		t.Fatal("authorization header should be omitted without a token")
	}
	if !IsUnauthorized(err) {
		t.Fatalf("expected unauthorized error got %v", err)
	}
}

func TestDoSendsJSONBody(t *testing.T) {
	var body map[string]string
	var contentType string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"Reacted with wow!"}`))
	}, "abc", nil)

	msg, err := client.React(context.Background(), 42, models.ReactionWow)
	if err != nil {
		t.Fatalf("React() error = %v", err)
	}
	if msg != "Reacted with wow!" {
		t.Fatalf("unexpected message %q", msg)
	}
	if contentType != "application/json" || body["reaction_type"] != "wow" {
		t.Fatalf("unexpected request %q %v", contentType, body)
	}
}

func TestDoErrorMessage(t *testing.T) {
	notifier := &recordingNotifier{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"X"}`))
	}, "abc", notifier)

	err := client.Do(context.Background(), http.MethodPost, "/posts/1/save", nil, nil)
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError got %T %v", err, err)
	}
	if reqErr.Message != "X" || err.Error() != "X" || reqErr.Status != http.StatusBadRequest {
		t.Fatalf("unexpected error %+v", reqErr)
	}
	if len(notifier.messages) != 1 || notifier.messages[0] != "X" || notifier.levels[0] != ui.LevelError {
		t.Fatalf("expected error toast got %v %v", notifier.messages, notifier.levels)
	}
}

func TestDoErrorFallbackMessage(t *testing.T) {
	for name, payload := range map[string]string{
		"no message": `{"error":"nope"}`,
		"not json":   `<html>oops</html>`,
		"empty":      ``,
	} {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(payload))
			}, "abc", nil)

			err := client.Do(context.Background(), http.MethodGet, "/stories", nil, nil)
			if err == nil || err.Error() != DefaultErrorMessage {
				t.Fatalf("expected fallback message got %v", err)
			}
		})
	}
}

func TestDoTransportFailureIsNotified(t *testing.T) {
	notifier := &recordingNotifier{}
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	client, err := NewClient(Options{BaseURL: srv.URL, Tokens: staticToken("abc"), Notifier: notifier})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if err := client.Do(context.Background(), http.MethodGet, "/feed", nil, nil); err == nil {
		t.Fatal("expected transport error")
	}
	if len(notifier.messages) != 1 {
		t.Fatalf("expected one toast got %v", notifier.messages)
	}
}

func TestLoginAndRegisterBypassBearer(t *testing.T) {
	var headers []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		headers = append(headers, r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/api/register":
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"message":"Welcome aboard!"}`))
		case "/api/login":
			_, _ = w.Write([]byte(`{"message":"Welcome back, Ada!","access_token":"tok-1","user":{"id":9,"first_name":"Ada"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}, "stale-token", nil)

	msg, err := client.Register(context.Background(), RegisterRequest{Email: "ada@example.com", Password: "secret123"})
	if err != nil || msg != "Welcome aboard!" {
		t.Fatalf("Register() = %q, %v", msg, err)
	}
	resp, err := client.Login(context.Background(), "ada@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if resp.AccessToken != "tok-1" || resp.User.ID != 9 {
		t.Fatalf("unexpected login response %+v", resp)
	}
	for _, h := range headers {
		if h != "" {
			t.Fatalf("expected no authorization header got %q", h)
		}
	}
}

func TestLoginFailureMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
	}, "", nil)

	if _, err := client.Login(context.Background(), "a@b.c", "bad"); err == nil || err.Error() != "Invalid credentials" {
		t.Fatalf("expected invalid credentials got %v", err)
	}
}

func TestSearchEncodesQuery(t *testing.T) {
	var query string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"users":[{"id":1,"username":"ada"}]}`))
	}, "abc", nil)

	results, err := client.Search(context.Background(), "ada & co", "")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if !strings.Contains(query, "q=ada+%26+co") || !strings.Contains(query, "type=all") {
		t.Fatalf("unexpected query %q", query)
	}
	if len(results.Users) != 1 || results.Posts != nil {
		t.Fatalf("unexpected results %+v", results)
	}
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient(Options{}); !errors.Is(err, ErrNoBaseURL) {
		t.Fatalf("expected ErrNoBaseURL got %v", err)
	}
}

func TestStatusIsQuietAndAnonymous(t *testing.T) {
	notifier := &recordingNotifier{}
	var present bool
	healthy := true
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, present = r.Header["Authorization"]
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"status":"healthy","message":"API is running"}`))
	}, "abc", notifier)

	status, err := client.Status(context.Background())
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if status.Status != "healthy" {
		t.Fatalf("expected healthy got %q", status.Status)
	}
	if present {
		t.Fatal("status check should not send credentials")
	}

	healthy = false
	_, err = client.Status(context.Background())
	var reqErr *RequestError
	if !errors.As(err, &reqErr) || reqErr.Status != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 RequestError got %v", err)
	}
	if got := reqErr.Describe(); got != "GET /status: 503 Request failed" {
		t.Fatalf("unexpected description %q", got)
	}
	if len(notifier.messages) != 0 {
		t.Fatalf("expected no toasts got %v", notifier.messages)
	}
}
