package legacysubmit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ruudy-sib/postpone/internal/config"
	"github.com/ruudy-sib/postpone/internal/domain"
	"github.com/ruudy-sib/postpone/internal/domain/entity"
	"github.com/ruudy-sib/postpone/internal/port/secondary"
)

// Header names carrying the acting identity of a submission.
const (
	HeaderActor         = "X-Actor-Uid"
	HeaderAuthenticated = "X-Actor-Authenticated"
)

type submitResponse struct {
	ID int64 `json:"id"`
}

// Submitter implements secondary.LegacySubmitter by posting the item to the
// synchronous submission endpoint on behalf of its actor. A positive
// LegacySubmitRate caps the request rate towards the endpoint.
type Submitter struct {
	client  *http.Client
	limiter *rate.Limiter
	url     string
	token   string
	logger  *zap.Logger
}

// NewSubmitter creates a legacy submitter from the application configuration.
func NewSubmitter(cfg *config.Config, logger *zap.Logger) *Submitter {
	timeout := cfg.LegacySubmitTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	// Token bucket: burst = rate per sec.
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.LegacySubmitRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.LegacySubmitRate), cfg.LegacySubmitRate)
	}

	logger.Info("legacy submitter initialized",
		zap.String("url", cfg.LegacySubmitURL),
		zap.Duration("timeout", client.Timeout),
		zap.Int("rate_per_sec", cfg.LegacySubmitRate),
	)

	return &Submitter{
		client:  client,
		limiter: limiter,
		url:     cfg.LegacySubmitURL,
		token:   cfg.LegacySubmitToken,
		logger:  logger.Named("legacy-submitter"),
	}
}

var _ secondary.LegacySubmitter = (*Submitter)(nil)

// Submit posts the item and returns the content ID reported by the endpoint.
func (s *Submitter) Submit(ctx context.Context, actor entity.ActorContext, item *entity.Item) (int64, error) {
	if s.url == "" {
		return 0, fmt.Errorf("legacy submission URL is not configured")
	}
	if actor.UID <= 0 {
		return 0, domain.ErrMissingActor
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("waiting for submission slot: %w", err)
	}

	payload, err := json.Marshal(item)
	if err != nil {
		return 0, fmt.Errorf("marshaling item: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("creating http request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "postpone/1.0")
	req.Header.Set(HeaderActor, strconv.FormatInt(actor.UID, 10))
	req.Header.Set(HeaderAuthenticated, strconv.FormatBool(actor.Authenticated))
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("executing http request to %q: %w", s.url, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("http request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var out submitResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return 0, fmt.Errorf("decoding submission response: %w", err)
	}

	s.logger.Debug("item submitted",
		zap.Int64("uid", actor.UID),
		zap.Int64("content_id", out.ID),
		zap.Int("status_code", resp.StatusCode),
	)

	return out.ID, nil
}

// Close releases idle connections.
func (s *Submitter) Close() error {
	if s.client != nil {
		s.client.CloseIdleConnections()
	}
	return nil
}
