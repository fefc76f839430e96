package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ix-ath/shelf-sense/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the Gemini REST endpoint root
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	// DefaultModel is a multimodal model that supports search grounding
	DefaultModel = "gemini-2.5-flash"

	maxResponseBytes = 4 << 20
)

// ClientConfig holds configuration for the analysis client
type ClientConfig struct {
	APIKey            string
	BaseURL           string
	Model             string
	Temperature       float32
	SearchGrounding   bool
	Timeout           time.Duration
	RequestsPerMinute int
	Burst             int
}

// Client sends shelf analysis requests to the Gemini generateContent API.
// It issues exactly one request per Analyze call and never retries.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	model       string
	buildOpts   BuildOptions
	rateLimiter *rate.Limiter
	logger      *zap.Logger
}

// NewClient creates a new analysis client
func NewClient(cfg ClientConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}

	// The limiter delays a call, it never turns one request into several
	limiter := rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), cfg.Burst)

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		buildOpts: BuildOptions{
			Temperature:     cfg.Temperature,
			SearchGrounding: cfg.SearchGrounding,
		},
		rateLimiter: limiter,
		logger:      logger.Named("gemini"),
	}
}

// Analyze performs one analysis round trip. It returns a fully assembled
// recommendation or an error; partial results are never returned.
func (c *Client) Analyze(ctx context.Context, image []byte, query string, tags []string) (*domain.Recommendation, error) {
	req, err := BuildRequest(image, query, tags, c.buildOpts)
	if err != nil {
		return nil, err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrTransportFailure, err)
	}

	started := time.Now()
	envelope, err := c.send(ctx, req)
	if err != nil {
		c.logger.Error("analysis request failed", zap.Error(err), zap.Duration("elapsed", time.Since(started)))
		return nil, err
	}

	text := envelope.text()
	if strings.TrimSpace(text) == "" {
		reason := ""
		if envelope.PromptFeedback != nil {
			reason = envelope.PromptFeedback.BlockReason
		}
		c.logger.Error("analysis returned no text", zap.String("block_reason", reason), zap.Int("candidates", len(envelope.Candidates)))
		return nil, domain.ErrEmptyResponse
	}

	rec, err := ParseRecommendation(text)
	if err != nil {
		c.logger.Error("analysis response rejected", zap.Error(err), zap.Int("text_len", len(text)))
		return nil, err
	}

	// Only grounding metadata may supply sources; anything the model wrote itself is dropped
	rec.VerifiedSources = envelope.sources()

	c.checkBoxes(rec)

	c.logger.Info("analysis complete",
		zap.String("match_type", string(rec.MatchType)),
		zap.Float64("match_score", rec.MatchScore),
		zap.Int("supplementary", len(rec.SupplementaryItems)),
		zap.Int("sources", len(rec.VerifiedSources)),
		zap.Duration("elapsed", time.Since(started)),
	)
	return rec, nil
}

// send posts the request and decodes the provider envelope
func (c *Client) send(ctx context.Context, req *AnalysisRequest) (*generateContentResponse, error) {
	payload, err := json.Marshal(req.wire())
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", domain.ErrTransportFailure, err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", domain.ErrTransportFailure, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)
	httpReq.Header.Set("User-Agent", "ShelfSense/1.0")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransportFailure, err)
	}
	defer resp.Body.Close()

	body, err := readLimitedBody(resp.Body, maxResponseBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrTransportFailure, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrTransportFailure, resp.StatusCode, truncate(string(body), 512))
	}

	var envelope generateContentResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrTransportFailure, err)
	}
	return &envelope, nil
}

// checkBoxes logs bounding boxes that break the percentage invariants.
// Such boxes are a data-quality issue and do not fail the analysis.
func (c *Client) checkBoxes(rec *domain.Recommendation) {
	if rec.IsWrongAisle() {
		return
	}
	if rec.BoundingBox == nil {
		c.logger.Warn("primary item has no bounding box", zap.String("match_type", string(rec.MatchType)))
	} else if !rec.BoundingBox.Valid() {
		c.logger.Warn("primary bounding box out of range", zap.Any("box", rec.BoundingBox))
	}
	for i, item := range rec.SupplementaryItems {
		if item.BoundingBox != nil && !item.BoundingBox.Valid() {
			c.logger.Warn("supplementary bounding box out of range", zap.Int("index", i), zap.Any("box", item.BoundingBox))
		}
	}
}

// readLimitedBody reads at most limit bytes from r
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, limit))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
