package gemini

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"google.golang.org/genai"

	"glowup-server/modules/common/apperr"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	genaiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return &Client{
		genaiClient: genaiClient,
		visionModel: "vision-test",
		imageModel:  "image-test",
	}
}

func TestDescribe_PropagatesQuotaError(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	text, err := c.Describe(context.Background(), []byte("img"), "image/jpeg")
	if err == nil {
		t.Fatalf("expected error, got text %q", text)
	}
	if apperr.CodeOf(err) != apperr.ResourceExhausted {
		t.Errorf("expected resource-exhausted, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
}

func TestDescribe_FallsBackOnEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"candidates":[{"content":{"role":"model","parts":[]}}]}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	text, err := c.Describe(context.Background(), []byte("img"), "image/jpeg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != FallbackVision {
		t.Errorf("expected fallback text, got %q", text)
	}
}

func TestDescribe_ReturnsVisionText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"a smiling person at a cafe"}]}}]}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	text, err := c.Describe(context.Background(), []byte("img"), "image/jpeg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "a smiling person at a cafe" {
		t.Errorf("unexpected vision text: %q", text)
	}
}
