package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iwvelando/gpa-calculator/pkg/constants"
	"github.com/iwvelando/gpa-calculator/pkg/cumulative"
	"github.com/iwvelando/gpa-calculator/pkg/gpa"
	"github.com/iwvelando/gpa-calculator/pkg/scale"
	"go.uber.org/zap"
)

// Kind names one of the two worksheets.
type Kind string

const (
	SemesterKind   Kind = "semester"
	CumulativeKind Kind = "cumulative"
)

// ParseKind accepts "semester" or "cumulative".
func ParseKind(raw string) (Kind, error) {
	switch Kind(raw) {
	case SemesterKind, CumulativeKind:
		return Kind(raw), nil
	default:
		return "", fmt.Errorf("unknown draft kind %q (expected semester or cumulative)", raw)
	}
}

// Key returns the storage key for the worksheet.
func (k Kind) Key() string {
	if k == CumulativeKind {
		return constants.CumulativeDraftKey
	}
	return constants.SemesterDraftKey
}

// SemesterDraft is a saved semester worksheet.
type SemesterDraft struct {
	Courses      []gpa.Entry `json:"courses"`
	ScaleID      string      `json:"scaleId"`
	SemesterName string      `json:"semesterName"`
}

// CumulativeDraft is a saved cumulative worksheet.
type CumulativeDraft struct {
	Semesters []cumulative.Period `json:"semesters"`
	ScaleID   string              `json:"scaleId"`
}

// DefaultSemester is the worksheet shown when nothing usable is saved.
func DefaultSemester() SemesterDraft {
	return SemesterDraft{
		Courses: []gpa.Entry{gpa.NewEntry()},
		ScaleID: scale.DefaultID,
	}
}

// DefaultCumulative is the worksheet shown when nothing usable is saved.
func DefaultCumulative() CumulativeDraft {
	return CumulativeDraft{
		Semesters: []cumulative.Period{{}},
		ScaleID:   scale.DefaultID,
	}
}

// Service reads and writes drafts through a Store. Loaded drafts are
// untrusted: callers must still validate their contents.
type Service struct {
	store   Store
	catalog *scale.Catalog
	logger  *zap.Logger
}

// NewService wraps store. A nil logger disables logging.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:   store,
		catalog: scale.Default(),
		logger:  logger,
	}
}

// load fetches key into target. It reports false when the caller should use
// defaults.
func (s *Service) load(ctx context.Context, key string, target any) (bool, error) {
	data, err := s.store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load draft %s: %w", key, err)
	}

	if err := json.Unmarshal(data, target); err != nil {
		s.logger.Warn("discarding unreadable draft",
			zap.String("op", "draft.load"),
			zap.String("key", key),
			zap.Error(err),
		)
		return false, nil
	}
	return true, nil
}

func (s *Service) knownScale(key, id string) bool {
	if _, err := s.catalog.GetScale(id); err != nil {
		s.logger.Warn("draft references an unknown scale, using the default",
			zap.String("op", "draft.load"),
			zap.String("key", key),
			zap.String("scale", id),
		)
		return false
	}
	return true
}

// LoadSemester returns the saved semester worksheet or the default one.
func (s *Service) LoadSemester(ctx context.Context) (SemesterDraft, error) {
	var saved SemesterDraft
	ok, err := s.load(ctx, constants.SemesterDraftKey, &saved)
	if err != nil || !ok {
		return DefaultSemester(), err
	}

	result := DefaultSemester()
	if saved.Courses != nil {
		result.Courses = saved.Courses
	}
	if s.knownScale(constants.SemesterDraftKey, saved.ScaleID) {
		result.ScaleID = saved.ScaleID
	}
	result.SemesterName = saved.SemesterName
	return result, nil
}

// LoadCumulative returns the saved cumulative worksheet or the default one.
func (s *Service) LoadCumulative(ctx context.Context) (CumulativeDraft, error) {
	var saved CumulativeDraft
	ok, err := s.load(ctx, constants.CumulativeDraftKey, &saved)
	if err != nil || !ok {
		return DefaultCumulative(), err
	}

	result := DefaultCumulative()
	if saved.Semesters != nil {
		result.Semesters = saved.Semesters
	}
	if s.knownScale(constants.CumulativeDraftKey, saved.ScaleID) {
		result.ScaleID = saved.ScaleID
	}
	return result, nil
}

func (s *Service) save(ctx context.Context, key, scaleID string, value any) error {
	if _, err := s.catalog.GetScale(scaleID); err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode draft %s: %w", key, err)
	}
	if err := s.store.Put(ctx, key, data); err != nil {
		return fmt.Errorf("failed to save draft %s: %w", key, err)
	}

	s.logger.Debug("saved draft",
		zap.String("op", "draft.save"),
		zap.String("key", key),
		zap.Int("bytes", len(data)),
	)
	return nil
}

// SaveSemester stores d. The scale must be known.
func (s *Service) SaveSemester(ctx context.Context, d SemesterDraft) error {
	return s.save(ctx, constants.SemesterDraftKey, d.ScaleID, d)
}

// SaveCumulative stores d. The scale must be known.
func (s *Service) SaveCumulative(ctx context.Context, d CumulativeDraft) error {
	return s.save(ctx, constants.CumulativeDraftKey, d.ScaleID, d)
}

// Reset removes the saved worksheet of the given kind.
func (s *Service) Reset(ctx context.Context, kind Kind) error {
	if err := s.store.Delete(ctx, kind.Key()); err != nil {
		return fmt.Errorf("failed to reset draft %s: %w", kind.Key(), err)
	}
	s.logger.Info("reset draft",
		zap.String("op", "draft.reset"),
		zap.String("kind", string(kind)),
	)
	return nil
}
