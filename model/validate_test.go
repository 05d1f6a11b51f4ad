package model

import (
	"strings"
	"testing"
)

func validDoc() Survey {
	return Survey{
		Title: "Customer feedback",
		Pages: []Page{
			{ID: "p1", Name: "Intro", Questions: []Question{
				{ID: "q1", Type: "radio", Title: "Happy?"},
				{ID: "q2", Type: "text-input", Title: "Why?", ConditionalLogic: &ConditionalRule{
					Enabled: true, DependsOn: "q1", Condition: CondEquals, Value: "no",
				}},
			}},
		},
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		if err := Validate(validDoc()); err != nil {
			t.Errorf("unexpected error: %s", err)
		}
	})

	t.Run("missing title and pages", func(t *testing.T) {
		err := Validate(Survey{})
		if err == nil {
			t.Fatal("expected errors")
		}
		if !strings.Contains(err.Error(), "no pages") {
			t.Errorf("expected a no-pages error, got: %s", err)
		}
	})

	t.Run("duplicate question id across pages", func(t *testing.T) {
		doc := validDoc()
		doc.Pages = append(doc.Pages, Page{ID: "p2", Questions: []Question{
			{ID: "q1", Type: "textarea", Title: "dup"},
		}})
		err := Validate(doc)
		if err == nil || !strings.Contains(err.Error(), "duplicate question id") {
			t.Errorf("expected a duplicate id error, got: %v", err)
		}
	})

	t.Run("unknown condition keyword", func(t *testing.T) {
		doc := validDoc()
		doc.Pages[0].Questions[1].ConditionalLogic.Condition = "between"
		err := Validate(doc)
		if err == nil || !strings.Contains(err.Error(), "unknown condition") {
			t.Errorf("expected an unknown condition error, got: %v", err)
		}
	})

	t.Run("dangling dependsOn is tolerated", func(t *testing.T) {
		doc := validDoc()
		doc.Pages[0].Questions[1].ConditionalLogic.DependsOn = "no-such-question"
		if err := Validate(doc); err != nil {
			t.Errorf("dangling dependsOn must not fail validation: %s", err)
		}
	})

	t.Run("self-referencing rule", func(t *testing.T) {
		doc := validDoc()
		doc.Pages[0].Questions[1].ConditionalLogic.DependsOn = "q2"
		err := Validate(doc)
		if err == nil || !strings.Contains(err.Error(), "depends on itself") {
			t.Errorf("expected a self-reference error, got: %v", err)
		}
	})
}

func TestAllQuestionsOrder(t *testing.T) {
	doc := Survey{Pages: []Page{
		{Questions: []Question{{ID: "a"}, {ID: "b"}}},
		{Questions: []Question{{ID: "c"}}},
	}}

	all := doc.AllQuestions()
	if len(all) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(all))
	}
	for i, want := range []string{"a", "b", "c"} {
		if all[i].ID != want {
			t.Errorf("all[%d].ID = %q, want %q", i, all[i].ID, want)
		}
	}

	if _, ok := doc.QuestionByID("c"); !ok {
		t.Error("QuestionByID should find c")
	}
	if _, ok := doc.QuestionByID("zzz"); ok {
		t.Error("QuestionByID should miss zzz")
	}
}
