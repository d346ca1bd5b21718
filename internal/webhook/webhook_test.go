package webhook

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/warzonemc/mars-api/internal/models"
)

func captureServer(t *testing.T) (*httptest.Server, chan []byte) {
	t.Helper()
	bodies := make(chan []byte, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies <- body
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(server.Close)
	return server, bodies
}

func waitForBody(t *testing.T, bodies chan []byte) payload {
	t.Helper()
	select {
	case body := <-bodies:
		var p payload
		if err := json.Unmarshal(body, &p); err != nil {
			t.Fatalf("webhook body is not valid JSON: %v", err)
		}
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("webhook was never delivered")
		return payload{}
	}
}

func TestSendPunishment(t *testing.T) {
	server, bodies := captureServer(t)
	client := NewClient(server.URL, "", "", zap.NewNop().Sugar())

	client.SendPunishment(&models.Punishment{
		Target:  models.SimplePlayer{Name: "Alice", ID: "u1"},
		Action:  models.PunishmentAction{Kind: models.PunishmentBan, Length: models.PermanentLength},
		Reason:  models.PunishmentReason{Name: "Cheating"},
		Offence: 2,
	})

	p := waitForBody(t, bodies)
	if len(p.Embeds) != 1 {
		t.Fatalf("embeds = %d, want 1", len(p.Embeds))
	}
	fields := map[string]string{}
	for _, f := range p.Embeds[0].Fields {
		fields[f.Name] = f.Value
	}
	if fields["Player"] != "Alice" || fields["Type"] != "BAN" || fields["Duration"] != "Permanent" {
		t.Errorf("fields = %v", fields)
	}
	if fields["Staff"] != "Console" {
		t.Errorf("missing punisher should fall back to Console, got %q", fields["Staff"])
	}
}

func TestSendReport(t *testing.T) {
	server, bodies := captureServer(t)
	client := NewClient("", server.URL, "", zap.NewNop().Sugar())

	client.SendReport("srv1",
		models.SimplePlayer{Name: "Bob", ID: "u2"},
		models.SimplePlayer{Name: "Alice", ID: "u1"},
		"hacking", nil)

	p := waitForBody(t, bodies)
	fields := map[string]string{}
	for _, f := range p.Embeds[0].Fields {
		fields[f.Name] = f.Value
	}
	if fields["Reporter"] != "Bob" || fields["Online staff"] != "None" {
		t.Errorf("fields = %v", fields)
	}
}

func TestUnconfiguredURLIsNoop(t *testing.T) {
	client := NewClient("", "", "", zap.NewNop().Sugar())
	// must not panic or block
	client.SendPunishment(&models.Punishment{Target: models.SimplePlayer{Name: "Alice"}})
}
