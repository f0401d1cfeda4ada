// Metadata client for a player server's api/meta endpoint
package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/player/internal/models"
	"github.com/desertthunder/player/internal/shared"
	"golang.org/x/oauth2"
)

const DefaultMetaURL = "http://127.0.0.1:3179/api/meta"

// MetaService fetches song metadata over HTTP.
type MetaService struct {
	metaURL    string
	httpClient *http.Client
}

// NewMetaService creates a client for metaURL.
//
// When token is set every request carries it as a bearer token. The client is copied,
// never modified; timeout, when positive, bounds each request.
func NewMetaService(metaURL, token string, timeout time.Duration, client *http.Client) *MetaService {
	if metaURL == "" {
		metaURL = DefaultMetaURL
	}
	if client == nil {
		client = &http.Client{}
	} else {
		c := *client
		client = &c
	}

	if token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, client)
		client = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: token,
			TokenType:   "Bearer",
		}))
	}
	if timeout > 0 {
		client.Timeout = timeout
	}

	return &MetaService{metaURL: metaURL, httpClient: client}
}

// URL returns the endpoint the service reads from.
func (m *MetaService) URL() string {
	return m.metaURL
}

// FetchMeta performs GET on the metadata endpoint and decodes the song list.
func (m *MetaService) FetchMeta(ctx context.Context) ([]models.SongMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.metaURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: GET %s: status %d", shared.ErrAPIRequest, m.metaURL, resp.StatusCode)
	}

	songs, err := DecodeMeta(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", m.metaURL, err)
	}
	return songs, nil
}

var _ Fetcher = (*MetaService)(nil)
