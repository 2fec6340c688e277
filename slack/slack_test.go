package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/slack-go/slack"
)

func TestNotify(t *testing.T) {
	var received slack.WebhookMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode webhook body: %v", err)
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	n := NewNotifier(srv.URL)
	if err := n.Notify(context.Background(), "Take CS 6200 first."); err != nil {
		t.Fatal(err)
	}

	if received.Text != "Take CS 6200 first." {
		t.Errorf("unexpected text: %q", received.Text)
	}
	if received.Username != "advisor" {
		t.Errorf("unexpected username: %q", received.Username)
	}
}

func TestNotifyError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid_token", http.StatusForbidden)
	}))
	defer srv.Close()

	if err := NewNotifier(srv.URL).Notify(context.Background(), "hello"); err == nil {
		t.Error("expected an error for a rejected webhook")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"short", "hello"},
		{"ascii", strings.Repeat("a", MAX_MESSAGE_LENGTH+10)},
		{"multibyte", strings.Repeat("é", MAX_MESSAGE_LENGTH)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := truncate(test.text)
			if len(got) > MAX_MESSAGE_LENGTH {
				t.Errorf("text too long: %d", len(got))
			}
			if !utf8.ValidString(got) {
				t.Error("truncated text is not valid UTF-8")
			}
			if len(test.text) <= MAX_MESSAGE_LENGTH && got != test.text {
				t.Error("short text was modified")
			}
		})
	}
}
