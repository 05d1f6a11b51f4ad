package engine

import (
	"reflect"
	"testing"
	"time"

	"github.com/canvass-io/canvass/model"
)

var normalizeDoc = model.Survey{
	ID:    "s1",
	Title: "Feedback",
	Pages: []model.Page{
		{ID: "p1", Questions: []model.Question{
			{ID: "q1", Name: "mood", Type: "radio", Title: "How are you?", Required: true},
			{ID: "q2", Type: "checkbox", Title: "Pick some"},
		}},
		{ID: "p2", Questions: []model.Question{
			{ID: "q3", Type: "matrix-single", Title: "Rate rows"},
		}},
	},
}

func TestNormalize(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)

	store := NewStore(normalizeDoc, nil)
	store.Set("q1", Text("fine"))
	store.Set("q3", Matrix{"row1": Text("col2")})

	sub := Normalize(normalizeDoc, store, now)

	t.Run("counts", func(t *testing.T) {
		if sub.TotalQuestions != 3 {
			t.Errorf("totalQuestions = %d, want 3", sub.TotalQuestions)
		}
		if sub.AnsweredQuestions != 2 {
			t.Errorf("answeredQuestions = %d, want 2", sub.AnsweredQuestions)
		}
		if sub.AnsweredQuestions != len(sub.Answers) {
			t.Errorf("answeredQuestions %d != len(answers) %d", sub.AnsweredQuestions, len(sub.Answers))
		}
		if sub.AnsweredQuestions > sub.TotalQuestions {
			t.Error("answered must never exceed total")
		}
	})

	t.Run("question entries cover the whole document in order", func(t *testing.T) {
		if len(sub.Questions) != 3 {
			t.Fatalf("expected 3 question entries, got %d", len(sub.Questions))
		}
		for i, want := range []string{"q1", "q2", "q3"} {
			if sub.Questions[i].ID != want {
				t.Errorf("questions[%d].ID = %q, want %q", i, sub.Questions[i].ID, want)
			}
		}
		if sub.Questions[1].Answered {
			t.Error("q2 is unanswered")
		}
	})

	t.Run("name falls back to id", func(t *testing.T) {
		if sub.Questions[0].Name != "mood" {
			t.Errorf("questions[0].Name = %q, want mood", sub.Questions[0].Name)
		}
		if sub.Questions[1].Name != "q2" {
			t.Errorf("questions[1].Name = %q, want id fallback", sub.Questions[1].Name)
		}
	})

	t.Run("answers carry denormalized metadata", func(t *testing.T) {
		if len(sub.Answers) != 2 {
			t.Fatalf("expected 2 answers, got %d", len(sub.Answers))
		}
		a := sub.Answers[1]
		if a.QuestionID != "q3" || a.QuestionType != "matrix-single" || a.QuestionTitle != "Rate rows" {
			t.Errorf("unexpected answer entry: %+v", a)
		}
		if !a.Answered {
			t.Error("answers list must only hold answered entries")
		}
	})

	t.Run("timestamp comes from the injected clock", func(t *testing.T) {
		if sub.SubmittedAt != "2025-06-01T12:30:00Z" {
			t.Errorf("submittedAt = %q", sub.SubmittedAt)
		}
	})
}

func TestNormalizeIsPure(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)

	store := NewStore(normalizeDoc, nil)
	store.Set("q1", Text("fine"))

	first := Normalize(normalizeDoc, store, now)
	second := Normalize(normalizeDoc, store, now)

	if !reflect.DeepEqual(first, second) {
		t.Error("normalize must be deterministic for a fixed (doc, store, now)")
	}

	// The record must not alias the live store.
	store.Set("q1", Text("changed"))
	if first.FormData["q1"] != Text("fine") {
		t.Error("submission formData must be a snapshot, not a live view")
	}
}

func TestNormalizeEmptyStore(t *testing.T) {
	store := NewStore(normalizeDoc, nil)
	sub := Normalize(normalizeDoc, store, time.Unix(0, 0))

	if sub.AnsweredQuestions != 0 {
		t.Errorf("answeredQuestions = %d, want 0", sub.AnsweredQuestions)
	}
	if len(sub.Answers) != 0 {
		t.Errorf("expected empty answers list, got %v", sub.Answers)
	}
	if len(sub.Questions) != sub.TotalQuestions {
		t.Error("questions list must still cover the full document")
	}
}
