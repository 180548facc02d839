package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/abhisek/gotutor/internal/logger"
	"github.com/abhisek/gotutor/internal/progress"
)

// ProgressClient talks to the remote progress authority. It implements
// progress.Authority.
type ProgressClient struct {
	c   client
	log *logger.Logger
}

// NewProgressClient returns a client for baseURL (including the /api
// prefix). hc may be nil.
func NewProgressClient(baseURL string, timeout time.Duration, hc *http.Client, log *logger.Logger) *ProgressClient {
	if log == nil {
		log = logger.Nop()
	}
	return &ProgressClient{c: newClient(baseURL, timeout, hc), log: log.Named("remote")}
}

// FetchProgress returns the authority's records for userID. Entries that
// fail validation are skipped.
func (p *ProgressClient) FetchProgress(ctx context.Context, userID string) ([]progress.Record, error) {
	data, err := p.c.do(ctx, http.MethodGet, "/progress/"+url.PathEscape(userID), nil)
	if err != nil {
		return nil, fmt.Errorf("fetch progress: %w", err)
	}
	// The authority encodes an empty set as null.
	if string(data) == "null" {
		return []progress.Record{}, nil
	}
	records, dropped, err := progress.DecodeRecords(data)
	if err != nil {
		return nil, fmt.Errorf("fetch progress: %w", err)
	}
	if dropped > 0 {
		p.log.Warn("authority returned invalid records", "user_id", userID, "dropped", dropped)
	}
	return records, nil
}

// SubmitProgress upserts rec on the authority.
func (p *ProgressClient) SubmitProgress(ctx context.Context, rec progress.Record) error {
	if _, err := p.c.do(ctx, http.MethodPost, "/progress", rec); err != nil {
		return fmt.Errorf("submit progress: %w", err)
	}
	return nil
}
