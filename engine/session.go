package engine

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/canvass-io/canvass/model"
)

// SubmitFunc delivers the normalized submission to the host. The
// session waits for it; only a nil return moves the session to done.
type SubmitFunc func(ctx context.Context, sub *Submission) error

// ErrNoPages rejects documents the session cannot navigate.
var ErrNoPages = errors.New("survey document has no pages")

// SessionConfig wires a session to its host.
type SessionConfig struct {
	// InitialValues overlays the type-derived defaults, e.g. when
	// resuming a draft.
	InitialValues map[string]Value
	// OnChange observes every answer mutation.
	OnChange ChangeFunc
	// OnSubmit receives the submission record on the final Next.
	OnSubmit SubmitFunc
	// Clock stamps SubmittedAt; defaults to time.Now.
	Clock func() time.Time
}

// Session drives one respondent through a survey document. It owns
// the answer store and the page cursor, gates forward navigation on
// page validation and hands the normalized record to the submit
// collaborator on the last page.
//
// A session is single-goroutine, like the UI event loop it models.
type Session struct {
	doc        model.Survey
	store      *Store
	pageIndex  int
	submitting bool
	done       bool
	onSubmit   SubmitFunc
	clock      func() time.Time
}

func NewSession(doc model.Survey, cfg SessionConfig) (*Session, error) {
	if len(doc.Pages) == 0 {
		return nil, ErrNoPages
	}

	store := NewStore(doc, cfg.InitialValues)
	store.OnChange(cfg.OnChange)

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Session{
		doc:      doc,
		store:    store,
		onSubmit: cfg.OnSubmit,
		clock:    clock,
	}, nil
}

func (s *Session) Store() *Store { return s.store }

func (s *Session) PageIndex() int { return s.pageIndex }

func (s *Session) PageCount() int { return len(s.doc.Pages) }

func (s *Session) CurrentPage() model.Page { return s.doc.Pages[s.pageIndex] }

// Submitting reports whether a submit call is in flight. Hosts use it
// to disable their submit control; the session itself also ignores
// Next while it is set.
func (s *Session) Submitting() bool { return s.submitting }

// Done reports whether the submit collaborator accepted the record.
func (s *Session) Done() bool { return s.done }

// Answer records a value and notifies the change observer.
func (s *Session) Answer(questionID string, value Value) {
	s.store.Set(questionID, value)
}

// VisibleQuestions returns the currently shown questions of the
// current page, for render time.
func (s *Session) VisibleQuestions() []model.Question {
	var shown []model.Question
	for _, q := range s.CurrentPage().Questions {
		if IsVisible(q, s.store) {
			shown = append(shown, q)
		}
	}
	return shown
}

// Next validates the current page and advances. Three outcomes:
//
//   - validation failed: the error map is returned and the cursor
//     stays put;
//   - not the last page: the cursor moves forward;
//   - last page: the record is normalized and handed to the submit
//     collaborator. Its error is returned as-is and the session stays
//     on the last page for a retry; on success the session is done.
//
// Next during an in-flight submit, or after done, is a no-op.
func (s *Session) Next(ctx context.Context) (map[string]string, error) {
	if s.submitting || s.done {
		return nil, nil
	}

	pageErrs := ValidatePage(s.CurrentPage(), s.store)
	if len(pageErrs) > 0 {
		return pageErrs, nil
	}

	if s.pageIndex < len(s.doc.Pages)-1 {
		s.pageIndex++
		return nil, nil
	}

	s.submitting = true
	sub := Normalize(s.doc, s.store, s.clock())

	var err error
	if s.onSubmit != nil {
		err = s.onSubmit(ctx, sub)
	}
	s.submitting = false

	if err != nil {
		return nil, err
	}
	s.done = true
	return nil, nil
}

// Previous moves back one page. Going back never validates.
func (s *Session) Previous() {
	if s.pageIndex > 0 {
		s.pageIndex--
	}
}

// JumpTo selects a page directly, without validating the one being
// left. The asymmetry with Next is kept on purpose: page tabs in the
// authoring preview allow free movement through a draft. It reports
// whether the index was in range.
func (s *Session) JumpTo(pageIndex int) bool {
	if pageIndex < 0 || pageIndex >= len(s.doc.Pages) {
		return false
	}
	s.pageIndex = pageIndex
	return true
}
