package audio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFilename(t *testing.T) {
	tests := []struct {
		word string
		want string
	}{
		{"house", "house.mp3"},
		{"Ice Cream", "ice_cream.mp3"},
		{"  Rhythm  ", "rhythm.mp3"},
		{"don't", "don_t.mp3"},
	}
	for _, tt := range tests {
		if got := Filename(tt.word); got != tt.want {
			t.Errorf("Filename(%q) = %q, want %q", tt.word, got, tt.want)
		}
	}
}

// newBlockingServer serves requests that hang until the caller's context is
// cancelled, standing in for a slow TTS endpoint
func newBlockingServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)
	return srv
}

func waitForInFlight(t *testing.T, svc *Service, playerID string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		svc.mu.Lock()
		_, ok := svc.inFlight[playerID]
		svc.mu.Unlock()
		if ok {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("fetch for player %s never registered", playerID)
}

func TestFetchReplacementCancelsPrevious(t *testing.T) {
	srv := newBlockingServer(t)
	svc, err := NewService(t.TempDir())
	if err != nil {
		t.Fatalf("NewService() error: %v", err)
	}
	svc.endpoint = srv.URL

	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.Fetch(context.Background(), "p1", "alpha")
		firstErr <- err
	}()
	waitForInFlight(t, svc, "p1")

	secondErr := make(chan error, 1)
	go func() {
		_, err := svc.Fetch(context.Background(), "p1", "beta")
		secondErr <- err
	}()

	select {
	case err := <-firstErr:
		if err == nil {
			t.Fatal("replaced fetch should fail with a cancelled download")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("starting a second fetch did not cancel the first")
	}

	// The first fetch's cleanup ran; the second must still be cancellable
	svc.CancelFor("p1")
	select {
	case err := <-secondErr:
		if err == nil {
			t.Fatal("cancelled fetch should fail")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("CancelFor did not reach the second fetch")
	}
}

func TestCancelForWithNothingInFlight(t *testing.T) {
	svc, err := NewService(t.TempDir())
	if err != nil {
		t.Fatalf("NewService() error: %v", err)
	}
	svc.CancelFor("p1")
}
