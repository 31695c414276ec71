package notify

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPublish_PostsBodyToTopic(t *testing.T) {
	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL)
	if err := c.Publish(context.Background(), "heating", "Current consumption 3200 W!"); err != nil {
		t.Fatal(err)
	}
	if gotPath != "/heating" {
		t.Fatalf("expected /heating, got %s", gotPath)
	}
	if gotBody != "Current consumption 3200 W!" {
		t.Fatalf("unexpected body: %s", gotBody)
	}
}

func TestPublish_EmptyTopicRejectedLocally(t *testing.T) {
	c := New("")
	if err := c.Publish(context.Background(), "", "hi"); err == nil {
		t.Fatal("expected an empty topic to be rejected without a network call")
	}
}

func TestPublish_NonOKStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL)
	if err := c.Publish(context.Background(), "heating", "hi"); err == nil {
		t.Fatal("expected a 500 to surface as an error")
	}
}
