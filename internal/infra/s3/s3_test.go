package s3_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	s3infra "github.com/nvoropaev/fitmatch/backend/internal/infra/s3"
)

type recordingS3 struct {
	mu      sync.Mutex
	methods []string
	exists  bool
}

func (r *recordingS3) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	r.methods = append(r.methods, req.Method)
	r.mu.Unlock()

	switch req.Method {
	case http.MethodHead:
		if r.exists {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	case http.MethodPut:
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (r *recordingS3) requests() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.methods...)
}

func TestEnsureBucketCreatesMissingBucket(t *testing.T) {
	backend := &recordingS3{}
	srv := httptest.NewServer(backend)
	defer srv.Close()

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("parse server url: %v", err)
	}
	client, err := s3infra.NewClient(s3infra.Config{Endpoint: u.Host, AccessKey: "key", SecretKey: "secret"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if err := s3infra.EnsureBucket(context.Background(), client, "photos"); err != nil {
		t.Fatalf("ensure bucket: %v", err)
	}

	got := backend.requests()
	if len(got) != 2 || got[0] != http.MethodHead || got[1] != http.MethodPut {
		t.Fatalf("expected HEAD then PUT, got %v", got)
	}
}

func TestEnsureBucketSkipsExistingBucket(t *testing.T) {
	backend := &recordingS3{exists: true}
	srv := httptest.NewServer(backend)
	defer srv.Close()

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("parse server url: %v", err)
	}
	client, err := s3infra.NewClient(s3infra.Config{Endpoint: u.Host, AccessKey: "key", SecretKey: "secret"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if err := s3infra.EnsureBucket(context.Background(), client, "photos"); err != nil {
		t.Fatalf("ensure bucket: %v", err)
	}

	got := backend.requests()
	if len(got) != 1 || got[0] != http.MethodHead {
		t.Fatalf("expected a single HEAD, got %v", got)
	}
}
