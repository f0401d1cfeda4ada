// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/player/internal/models"
)

// SampleSongs returns a small unsorted library covering case-folded ties and an untagged genre.
func SampleSongs() []models.SongMetadata {
	return []models.SongMetadata{
		{Title: "So What", Artist: "Miles Davis", Album: "Kind of Blue", Genre: "Jazz", BlobRef: "sha224-0001"},
		{Title: "The Thrill Is Gone", Artist: "B.B. King", Album: "Completely Well", Genre: "Blues", BlobRef: "sha224-0002"},
		{Title: "Rehab", Artist: "amy winehouse", Album: "Back to Black", Genre: "rock", BlobRef: "sha224-0003"},
		{Title: "Paranoid Android", Artist: "Radiohead", Album: "OK Computer", Genre: "Rock", BlobRef: "sha224-0004"},
		{Title: "Blue in Green", Artist: "Miles Davis", Album: "Kind of Blue", Genre: "jazz", BlobRef: "sha224-0005"},
		{Title: "Untitled", Artist: "Unknown", Album: "Demos", Genre: "", BlobRef: "sha224-0006"},
		{Title: "Café del Mar", Artist: "Energy 52", Album: "Café del Mar", Genre: "Electronic", BlobRef: "sha224-0007"},
	}
}

// StaticFetcher returns a fixed song list, or Err when set.
type StaticFetcher struct {
	Songs []models.SongMetadata
	Err   error
	Calls int
}

func (f *StaticFetcher) FetchMeta(ctx context.Context) ([]models.SongMetadata, error) {
	f.Calls++
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Songs, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

var _ io.ReadCloser = (*FCloser)(nil)

func MustWriteFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
