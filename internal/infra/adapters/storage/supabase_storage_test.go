//go:build !integration

package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestStorage(t *testing.T, handler http.HandlerFunc) *SupabaseStorage {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	s, err := NewSupabaseStorage(srv.URL, "service-key", "images")
	if err != nil {
		t.Fatalf("constructor failed: %v", err)
	}
	return s
}

func TestSupabaseStorage_Upload(t *testing.T) {
	t.Run("posts the object with the expected headers", func(t *testing.T) {
		var got *http.Request
		var body []byte
		s := newTestStorage(t, func(w http.ResponseWriter, r *http.Request) {
			got = r
			body, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusOK)
		})

		err := s.Upload(context.Background(), "virtual-try-on-u1-1.png", []byte("png-bytes"), "image/png")
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if got.Method != http.MethodPost || got.URL.Path != "/storage/v1/object/images/virtual-try-on-u1-1.png" {
			t.Errorf("unexpected request: %s %s", got.Method, got.URL.Path)
		}
		if got.Header.Get("Authorization") != "Bearer service-key" {
			t.Errorf("unexpected authorization: %s", got.Header.Get("Authorization"))
		}
		if got.Header.Get("Content-Type") != "image/png" {
			t.Errorf("unexpected content type: %s", got.Header.Get("Content-Type"))
		}
		if got.Header.Get("Cache-Control") != "max-age=3600" {
			t.Errorf("unexpected cache control: %s", got.Header.Get("Cache-Control"))
		}
		if got.Header.Get("x-upsert") != "false" {
			t.Errorf("uploads must not overwrite, got x-upsert=%s", got.Header.Get("x-upsert"))
		}
		if string(body) != "png-bytes" {
			t.Errorf("unexpected body: %q", body)
		}
	})

	t.Run("surfaces the provider error body", func(t *testing.T) {
		s := newTestStorage(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			io.WriteString(w, `{"message":"The resource already exists"}`)
		})

		err := s.Upload(context.Background(), "dup.png", []byte("x"), "image/png")
		if err == nil {
			t.Fatal("expected an error")
		}
		if !strings.Contains(err.Error(), "409") || !strings.Contains(err.Error(), "already exists") {
			t.Errorf("error should carry status and body, got: %v", err)
		}
	})
}

func TestSupabaseStorage_PublicURL(t *testing.T) {
	s, err := NewSupabaseStorage("https://proj.supabase.co/", "service-key", "images")
	if err != nil {
		t.Fatalf("constructor failed: %v", err)
	}
	want := "https://proj.supabase.co/storage/v1/object/public/images/gen.png"
	if got := s.PublicURL("gen.png"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNewSupabaseStorage_Validation(t *testing.T) {
	if _, err := NewSupabaseStorage("", "key", "bucket"); err == nil {
		t.Error("expected an error for a missing url")
	}
	if _, err := NewSupabaseStorage("https://x", "", "bucket"); err == nil {
		t.Error("expected an error for a missing service key")
	}
	if _, err := NewSupabaseStorage("https://x", "key", ""); err == nil {
		t.Error("expected an error for a missing bucket")
	}
}
