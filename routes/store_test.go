package routes

import (
	"testing"

	"github.com/canvass-io/canvass/model"
)

func TestDuplicatePages(t *testing.T) {
	pages := []model.Page{
		{ID: "p1", Name: "Intro", Questions: []model.Question{
			{ID: "q1", Type: "radio", Title: "Happy?"},
			{ID: "q2", Type: "text-input", Title: "Why not?", ConditionalLogic: &model.ConditionalRule{
				Enabled: true, DependsOn: "q1", Condition: model.CondEquals, Value: "no",
			}},
			{ID: "q3", Type: "text-input", ConditionalLogic: &model.ConditionalRule{
				Enabled: true, DependsOn: "gone", Condition: model.CondEquals, Value: "x",
			}},
		}},
		{ID: "p2", Questions: []model.Question{
			{ID: "q4", Type: "rating", ConditionalLogic: &model.ConditionalRule{
				Enabled: true, DependsOn: "q2", Condition: model.CondContains, Value: "bug",
			}},
		}},
	}

	copied := duplicatePages(pages)

	if len(copied) != 2 || len(copied[0].Questions) != 3 || len(copied[1].Questions) != 1 {
		t.Fatalf("copy must keep the tree shape, got %+v", copied)
	}

	t.Run("fresh ids", func(t *testing.T) {
		seen := map[string]bool{"p1": true, "p2": true, "q1": true, "q2": true, "q3": true, "q4": true}
		for _, page := range copied {
			if page.ID == "" || seen[page.ID] {
				t.Errorf("page id %q is not fresh", page.ID)
			}
			seen[page.ID] = true
			for _, q := range page.Questions {
				if q.ID == "" || seen[q.ID] {
					t.Errorf("question id %q is not fresh", q.ID)
				}
				seen[q.ID] = true
			}
		}
	})

	t.Run("rules follow the copied questions", func(t *testing.T) {
		if got, want := copied[0].Questions[1].ConditionalLogic.DependsOn, copied[0].Questions[0].ID; got != want {
			t.Errorf("same-page reference: got %q, want %q", got, want)
		}
		if got, want := copied[1].Questions[0].ConditionalLogic.DependsOn, copied[0].Questions[1].ID; got != want {
			t.Errorf("cross-page reference: got %q, want %q", got, want)
		}
	})

	t.Run("unresolvable reference is kept", func(t *testing.T) {
		if got := copied[0].Questions[2].ConditionalLogic.DependsOn; got != "gone" {
			t.Errorf("dangling dependsOn should be untouched, got %q", got)
		}
	})

	t.Run("source tree is unchanged", func(t *testing.T) {
		if pages[0].ID != "p1" || pages[0].Questions[1].ID != "q2" {
			t.Error("ids of the source tree were rewritten")
		}
		if pages[1].Questions[0].ConditionalLogic.DependsOn != "q2" {
			t.Error("rule of the source tree was rewritten")
		}
	})
}
