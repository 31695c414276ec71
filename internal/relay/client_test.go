package relay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/madssf/smart-home/internal/domain"
)

func TestCommand_DummyHostNeverHitsNetwork(t *testing.T) {
	c := New("")
	if err := c.Command(context.Background(), "dummy://kitchen", "u", "p", domain.On); err != nil {
		t.Fatalf("expected dummy host to succeed without a network call, got %v", err)
	}
}

func TestCommand_SendsTurnQueryParam(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	host := strings.TrimPrefix(srv.URL, "http://")
	c := New("")
	if err := c.Command(context.Background(), host, "u", "p", domain.On); err != nil {
		t.Fatal(err)
	}
	if gotPath != "/relay/0/command" {
		t.Fatalf("expected /relay/0/command, got %s", gotPath)
	}
	if gotQuery != "turn=on" {
		t.Fatalf("expected turn=on, got %s", gotQuery)
	}
}

func TestCommand_NonOKStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	host := strings.TrimPrefix(srv.URL, "http://")
	c := New("")
	if err := c.Command(context.Background(), host, "u", "p", domain.Off); err == nil {
		t.Fatal("expected a 500 response to surface as an error")
	}
}

func TestPowerUsage_ParsesMeterResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"power": 842.5}`))
	}))
	defer srv.Close()

	host := strings.TrimPrefix(srv.URL, "http://")
	c := New("")
	power, err := c.PowerUsage(context.Background(), host, "u", "p")
	if err != nil {
		t.Fatal(err)
	}
	if power != 842.5 {
		t.Fatalf("expected 842.5W, got %v", power)
	}
}

func TestPowerUsage_DummyHostReturnsZero(t *testing.T) {
	c := New("")
	power, err := c.PowerUsage(context.Background(), "dummy://x", "u", "p")
	if err != nil {
		t.Fatal(err)
	}
	if power != 0 {
		t.Fatalf("expected 0 for dummy host, got %v", power)
	}
}
