package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/player/internal/models"
	"github.com/desertthunder/player/internal/shared"
	tu "github.com/desertthunder/player/internal/testing"
)

func TestMetaService(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Empty URL", func(t *testing.T) {
			srv := NewMetaService("", "", 0, nil)
			if srv.URL() != DefaultMetaURL {
				t.Errorf("expected default URL %s, got %s", DefaultMetaURL, srv.URL())
			}
			if srv.httpClient == nil {
				t.Error("expected client to be created")
			}
		})

		t.Run("With Custom Client", func(t *testing.T) {
			transport := tu.NewMockRoundTripper(nil, nil)
			client := &http.Client{Transport: transport}
			srv := NewMetaService("http://example.com/api/meta", "", 5*time.Second, client)

			if srv.httpClient.Transport != transport {
				t.Error("expected custom transport to be used")
			}
			if srv.httpClient.Timeout != 5*time.Second {
				t.Errorf("expected timeout 5s, got %v", srv.httpClient.Timeout)
			}
			if client.Timeout != 0 {
				t.Errorf("expected caller's client untouched, got timeout %v", client.Timeout)
			}
		})
	})

	t.Run("FetchMeta", func(t *testing.T) {
		t.Run("Successful Request", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("expected GET method, got %s", r.Method)
				}
				if r.URL.Path != "/api/meta" {
					t.Errorf("expected path '/api/meta', got %s", r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(tu.SampleSongs())
			}))
			defer server.Close()

			srv := NewMetaService(server.URL+"/api/meta", "", 0, nil)
			songs, err := srv.FetchMeta(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(songs) != len(tu.SampleSongs()) {
				t.Errorf("expected %d songs, got %d", len(tu.SampleSongs()), len(songs))
			}
			if songs[0] != tu.SampleSongs()[0] {
				t.Errorf("expected %+v, got %+v", tu.SampleSongs()[0], songs[0])
			}
		})

		t.Run("Sends Bearer Token", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("Authorization"); got != "Bearer secret" {
					w.WriteHeader(http.StatusUnauthorized)
					return
				}
				w.Write([]byte("[]"))
			}))
			defer server.Close()

			srv := NewMetaService(server.URL, "secret", time.Second, nil)
			songs, err := srv.FetchMeta(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if songs == nil || len(songs) != 0 {
				t.Errorf("expected empty non-nil list, got %v", songs)
			}
		})

		t.Run("Missing Fields Decode Empty", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`[{"Title":"Solo","BlobRef":"sha224-ab","Extra":1}]`))
			}))
			defer server.Close()

			songs, err := NewMetaService(server.URL, "", 0, nil).FetchMeta(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			want := models.SongMetadata{Title: "Solo", BlobRef: "sha224-ab"}
			if len(songs) != 1 || songs[0] != want {
				t.Errorf("expected [%+v], got %v", want, songs)
			}
		})

		t.Run("Non-2xx Status", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			}))
			defer server.Close()

			_, err := NewMetaService(server.URL, "", 0, nil).FetchMeta(context.Background())
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Fatalf("expected ErrAPIRequest, got %v", err)
			}
			if !strings.Contains(err.Error(), "status 500") {
				t.Errorf("expected status in error, got %v", err)
			}
		})

		t.Run("Malformed JSON", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"not": "a list"}`))
			}))
			defer server.Close()

			_, err := NewMetaService(server.URL, "", 0, nil).FetchMeta(context.Background())
			if !errors.Is(err, shared.ErrInvalidResponse) {
				t.Errorf("expected ErrInvalidResponse, got %v", err)
			}
		})

		t.Run("Failed HTTP Request", func(t *testing.T) {
			client := &http.Client{
				Transport: tu.NewMockRoundTripper(nil, errors.New("connection failed")),
			}

			_, err := NewMetaService("http://example.com/api/meta", "", 0, client).FetchMeta(context.Background())
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})

		t.Run("Failed Body Read", func(t *testing.T) {
			client := &http.Client{
				Transport: tu.NewMockRoundTripper(&http.Response{
					StatusCode: http.StatusOK,
					Body:       &tu.FCloser{},
					Header:     make(http.Header),
				}, nil),
			}

			_, err := NewMetaService("http://example.com/api/meta", "", 0, client).FetchMeta(context.Background())
			if !errors.Is(err, shared.ErrInvalidResponse) {
				t.Errorf("expected ErrInvalidResponse, got %v", err)
			}
		})

		t.Run("Failed Request Creation", func(t *testing.T) {
			_, err := NewMetaService("http://example.com/\x00", "", 0, nil).FetchMeta(context.Background())
			if err == nil || !strings.Contains(err.Error(), "failed to create request") {
				t.Errorf("expected 'failed to create request' error, got %v", err)
			}
		})
	})
}

func TestDecodeMeta(t *testing.T) {
	t.Run("Null", func(t *testing.T) {
		songs, err := DecodeMeta(strings.NewReader("null"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if songs == nil || len(songs) != 0 {
			t.Errorf("expected empty non-nil list, got %v", songs)
		}
	})

	t.Run("Empty Body", func(t *testing.T) {
		_, err := DecodeMeta(strings.NewReader(""))
		if !errors.Is(err, shared.ErrInvalidResponse) {
			t.Errorf("expected ErrInvalidResponse, got %v", err)
		}
	})
}

func TestStaticFetcher(t *testing.T) {
	t.Run("LoadMetaFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "meta.json")
		data, _ := json.Marshal(tu.SampleSongs())
		tu.MustWriteFile(t, path, data)

		f, err := LoadMetaFile(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		songs, err := f.FetchMeta(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(songs) != len(tu.SampleSongs()) {
			t.Errorf("expected %d songs, got %d", len(tu.SampleSongs()), len(songs))
		}

		songs[0].Title = "changed"
		if f.Songs[0].Title == "changed" {
			t.Error("expected FetchMeta to return a copy")
		}
	})

	t.Run("Missing File", func(t *testing.T) {
		if _, err := LoadMetaFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("Invalid File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "meta.json")
		tu.MustWriteFile(t, path, []byte("not json"))

		if _, err := LoadMetaFile(path); !errors.Is(err, shared.ErrInvalidResponse) {
			t.Errorf("expected ErrInvalidResponse, got %v", err)
		}
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := (&StaticFetcher{}).FetchMeta(ctx); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}
