package messaging

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/citimaster/booking-platform/internal/conversation"
)

type capturedRequest struct {
	path    string
	auth    string
	payload map[string]any
}

func newTestClient(t *testing.T, status int) (*Client, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		captured.auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&captured.payload)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	client := NewClient("test-token", "12345", "v22.0", nil, WithBaseURL(srv.URL))
	return client, captured
}

func TestSendTextPostsToMessagesEndpoint(t *testing.T) {
	client, captured := newTestClient(t, http.StatusOK)

	if err := client.SendText(context.Background(), "+919876500001", "hello"); err != nil {
		t.Fatalf("SendText failed: %v", err)
	}

	if captured.path != "/v22.0/12345/messages" {
		t.Fatalf("unexpected path %q", captured.path)
	}
	if captured.auth != "Bearer test-token" {
		t.Fatalf("unexpected auth header %q", captured.auth)
	}
	if captured.payload["messaging_product"] != "whatsapp" {
		t.Fatalf("unexpected payload: %+v", captured.payload)
	}
	text := captured.payload["text"].(map[string]any)
	if text["body"] != "hello" {
		t.Fatalf("unexpected text body: %+v", text)
	}
}

func TestSendTextRejectsEmptyBody(t *testing.T) {
	client, _ := newTestClient(t, http.StatusOK)

	if err := client.SendText(context.Background(), "+919876500001", "   "); err == nil {
		t.Fatal("expected error for empty body")
	}
}

func TestSendButtonsTruncatesTitlesAndCapsAtThree(t *testing.T) {
	client, captured := newTestClient(t, http.StatusOK)

	long := strings.Repeat("x", 30)
	buttons := []conversation.Button{
		{ID: "a", Title: long},
		{ID: "b", Title: "B"},
		{ID: "c", Title: "C"},
		{ID: "d", Title: "D"},
	}
	if err := client.SendButtons(context.Background(), "+919876500001", "pick", buttons); err != nil {
		t.Fatalf("SendButtons failed: %v", err)
	}

	interactive := captured.payload["interactive"].(map[string]any)
	action := interactive["action"].(map[string]any)
	sent := action["buttons"].([]any)
	if len(sent) != 3 {
		t.Fatalf("expected 3 buttons, got %d", len(sent))
	}
	first := sent[0].(map[string]any)["reply"].(map[string]any)
	if len(first["title"].(string)) != 20 {
		t.Fatalf("expected 20-char title, got %q", first["title"])
	}
}

func TestSendListTruncatesRowFields(t *testing.T) {
	client, captured := newTestClient(t, http.StatusOK)

	sections := []conversation.ListSection{{
		Title: "Services",
		Rows: []conversation.ListRow{{
			ID:          "r1",
			Title:       strings.Repeat("t", 40),
			Description: strings.Repeat("d", 100),
		}},
	}}
	if err := client.SendList(context.Background(), "+919876500001", "pick", "Select", sections); err != nil {
		t.Fatalf("SendList failed: %v", err)
	}

	interactive := captured.payload["interactive"].(map[string]any)
	action := interactive["action"].(map[string]any)
	outSections := action["sections"].([]any)
	row := outSections[0].(map[string]any)["rows"].([]any)[0].(map[string]any)
	if len(row["title"].(string)) != 24 {
		t.Fatalf("expected 24-char row title, got %d", len(row["title"].(string)))
	}
	if len(row["description"].(string)) != 72 {
		t.Fatalf("expected 72-char description, got %d", len(row["description"].(string)))
	}
}

func TestSendDoesNotRetryClientErrors(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	}))
	t.Cleanup(srv.Close)

	client := NewClient("test-token", "12345", "v22.0", nil, WithBaseURL(srv.URL))
	if err := client.SendText(context.Background(), "+919876500001", "hello"); err == nil {
		t.Fatal("expected error for 400 response")
	}
	if calls != 1 {
		t.Fatalf("expected no retries on 4xx, got %d calls", calls)
	}
}
