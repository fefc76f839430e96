package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ix-ath/shelf-sense/internal/domain"
	"go.uber.org/zap"
)

// State is a scan session state
type State string

const (
	StateIdle      State = "IDLE"
	StateAnalyzing State = "ANALYZING"
	StateResult    State = "RESULT"
	StateError     State = "ERROR"
)

// TagSource supplies the global dietary tags
type TagSource interface {
	Tags() []string
}

// SessionSnapshot is a consistent copy of the session state
type SessionSnapshot struct {
	State         State                  `json:"state"`
	Query         string                 `json:"query"`
	Tags          []string               `json:"tags"`
	HasImage      bool                   `json:"hasImage"`
	Result        *domain.Recommendation `json:"result,omitempty"`
	SelectedIndex int                    `json:"selectedIndex"`
	Error         string                 `json:"error,omitempty"`
	InputError    string                 `json:"inputError,omitempty"`
	CanSubmit     bool                   `json:"canSubmit"`
}

// ScanSession drives one user through capture, analysis and result display.
//
//	IDLE      --submit--> ANALYZING
//	ANALYZING --success-> RESULT
//	ANALYZING --failure-> ERROR
//	ERROR     --submit--> ANALYZING
//	RESULT    --reset---> IDLE
//	any       --load history--> RESULT
//
// Each reset or history load starts a new generation; analysis results that
// complete for an older generation are discarded.
type ScanSession struct {
	analyzer domain.Analyzer
	history  domain.HistoryRecorder
	tags     TagSource
	logger   *zap.Logger

	mu          sync.Mutex
	state       State
	image       []byte
	query       string
	sessionTags []string
	result      *domain.Recommendation
	selected    int
	errMsg      string
	inputErr    string
	generation  uint64
}

// NewScanSession creates an idle session
func NewScanSession(analyzer domain.Analyzer, history domain.HistoryRecorder, tags TagSource, logger *zap.Logger) *ScanSession {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScanSession{
		analyzer: analyzer,
		history:  history,
		tags:     tags,
		logger:   logger.Named("session"),
		state:    StateIdle,
		selected: domain.PrimaryItemIndex,
	}
}

// SetImage replaces the captured shelf image
func (s *ScanSession) SetImage(image []byte) error {
	if len(image) == 0 {
		return fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrMissingImage)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateAnalyzing {
		return domain.ErrAnalysisInProgress
	}
	s.image = append([]byte(nil), image...)
	s.inputErr = ""
	return nil
}

// ClearImage discards the captured image
func (s *ScanSession) ClearImage() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateAnalyzing {
		return domain.ErrAnalysisInProgress
	}
	s.image = nil
	return nil
}

// SetQuery replaces the free-text request
func (s *ScanSession) SetQuery(query string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateAnalyzing {
		return domain.ErrAnalysisInProgress
	}
	s.query = query
	s.inputErr = ""
	return nil
}

// SetTags overrides the global dietary tags for this session until reset.
// A nil slice restores the global tags.
func (s *ScanSession) SetTags(tags []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateAnalyzing {
		return domain.ErrAnalysisInProgress
	}
	if tags == nil {
		s.sessionTags = nil
		return nil
	}
	s.sessionTags = dedupeTags(tags)
	return nil
}

// activeTags returns the tags to send with the next analysis. Caller holds mu.
func (s *ScanSession) activeTags() []string {
	if s.sessionTags != nil {
		return append([]string(nil), s.sessionTags...)
	}
	if s.tags == nil {
		return nil
	}
	return s.tags.Tags()
}

// Submit validates the inputs and runs one analysis. Validation failures
// leave the state unchanged and set the inline input error. Remote failures
// move the session to ERROR and are never recorded in history.
func (s *ScanSession) Submit(ctx context.Context) (*domain.Recommendation, error) {
	s.mu.Lock()
	switch s.state {
	case StateAnalyzing:
		s.mu.Unlock()
		return nil, domain.ErrAnalysisInProgress
	case StateResult:
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: reset before scanning again", domain.ErrInvalidTransition)
	}

	query := strings.TrimSpace(s.query)
	if query == "" {
		s.inputErr = domain.MessageEmptyQuery
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrEmptyQuery)
	}
	if len(s.image) == 0 {
		s.inputErr = domain.MessageMissingImage
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrMissingImage)
	}

	previous := s.state
	s.state = StateAnalyzing
	s.errMsg = ""
	s.inputErr = ""
	s.generation++
	generation := s.generation
	image := s.image
	tags := s.activeTags()
	s.mu.Unlock()

	s.logger.Info("analysis started",
		zap.String("query", query),
		zap.Strings("tags", tags),
		zap.Int("image_bytes", len(image)),
	)

	rec, err := s.analyzer.Analyze(ctx, image, query, tags)

	s.mu.Lock()
	if s.generation != generation || s.state != StateAnalyzing {
		s.mu.Unlock()
		s.logger.Info("discarding result for stale session", zap.Uint64("generation", generation))
		return nil, domain.ErrStaleSession
	}

	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			s.state = previous
			s.inputErr = domain.UserMessage(err)
			s.mu.Unlock()
			return nil, err
		}
		s.state = StateError
		s.errMsg = domain.UserMessage(err)
		s.mu.Unlock()
		s.logger.Error("analysis failed", zap.Error(err))
		return nil, err
	}

	s.result = rec
	s.selected = domain.PrimaryItemIndex
	s.state = StateResult
	s.mu.Unlock()

	// The result is already visible; history I/O runs outside the session lock
	if s.history != nil {
		if _, herr := s.history.Save(ctx, *rec); herr != nil {
			s.logger.Warn("could not persist scan", zap.Error(herr))
		}
	}

	s.logger.Info("analysis complete",
		zap.String("match_type", string(rec.MatchType)),
		zap.Float64("match_score", rec.MatchScore),
	)
	return rec, nil
}

// Reset returns the session to IDLE with cleared inputs
func (s *ScanSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.state = StateIdle
	s.image = nil
	s.query = ""
	s.sessionTags = nil
	s.result = nil
	s.selected = domain.PrimaryItemIndex
	s.errMsg = ""
	s.inputErr = ""
}

// LoadHistory shows a past result. The image is not retained with history
// so the session has none afterwards.
func (s *ScanSession) LoadHistory(item domain.ScanHistoryItem) {
	rec := item.FullData

	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.state = StateResult
	s.image = nil
	s.result = &rec
	s.selected = domain.PrimaryItemIndex
	s.errMsg = ""
	s.inputErr = ""
}

// SelectItem focuses the primary item (PrimaryItemIndex) or a supplementary item
func (s *ScanSession) SelectItem(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateResult || s.result == nil {
		return fmt.Errorf("%w: no result to select from", domain.ErrInvalidTransition)
	}
	if _, err := s.result.Item(index); err != nil {
		return err
	}
	s.selected = index
	return nil
}

// Snapshot returns a copy of the current state
func (s *ScanSession) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return SessionSnapshot{
		State:         s.state,
		Query:         s.query,
		Tags:          s.activeTags(),
		HasImage:      len(s.image) > 0,
		Result:        s.result,
		SelectedIndex: s.selected,
		Error:         s.errMsg,
		InputError:    s.inputErr,
		CanSubmit:     s.state == StateIdle || s.state == StateError,
	}
}

// Image returns the captured image, or nil
func (s *ScanSession) Image() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.image == nil {
		return nil
	}
	return append([]byte(nil), s.image...)
}
