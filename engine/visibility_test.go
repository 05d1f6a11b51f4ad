package engine

import (
	"testing"

	"github.com/canvass-io/canvass/model"
)

func ruleQuestion(condition, dependsOn, value string) model.Question {
	return model.Question{
		ID:   "q2",
		Type: "text-input",
		ConditionalLogic: &model.ConditionalRule{
			Enabled:   true,
			DependsOn: dependsOn,
			Condition: condition,
			Value:     value,
		},
	}
}

func storeWith(values map[string]Value) *Store {
	s := NewStore(model.Survey{}, nil)
	for id, v := range values {
		s.Set(id, v)
	}
	return s
}

func TestIsVisibleWithoutRule(t *testing.T) {
	store := storeWith(map[string]Value{"q1": Text("anything")})

	t.Run("no conditional logic", func(t *testing.T) {
		if !IsVisible(model.Question{ID: "q2", Type: "text-input"}, store) {
			t.Error("question without rule should be visible")
		}
	})

	t.Run("disabled rule", func(t *testing.T) {
		q := ruleQuestion(model.CondEquals, "q1", "never")
		q.ConditionalLogic.Enabled = false
		if !IsVisible(q, store) {
			t.Error("disabled rule should not hide the question")
		}
	})
}

func TestIsVisibleEquals(t *testing.T) {
	t.Run("matching text", func(t *testing.T) {
		store := storeWith(map[string]Value{"q1": Text("yes")})
		if !IsVisible(ruleQuestion(model.CondEquals, "q1", "yes"), store) {
			t.Error("expected visible")
		}
	})

	t.Run("non-matching text", func(t *testing.T) {
		store := storeWith(map[string]Value{"q1": Text("no")})
		if IsVisible(ruleQuestion(model.CondEquals, "q1", "yes"), store) {
			t.Error("expected hidden")
		}
	})

	t.Run("number never equals a rule string", func(t *testing.T) {
		store := storeWith(map[string]Value{"q1": Number(3)})
		if IsVisible(ruleQuestion(model.CondEquals, "q1", "3"), store) {
			t.Error("stored number must not match on string equality")
		}
	})

	t.Run("missing dependent answer", func(t *testing.T) {
		store := storeWith(nil)
		if IsVisible(ruleQuestion(model.CondEquals, "missing", "yes"), store) {
			t.Error("equals against an absent answer should be false")
		}
	})
}

func TestIsVisibleNotEqualsNegatesEquals(t *testing.T) {
	stores := map[string]*Store{
		"answered yes": storeWith(map[string]Value{"q1": Text("yes")}),
		"answered no":  storeWith(map[string]Value{"q1": Text("no")}),
		"unanswered":   storeWith(nil),
		"multi answer": storeWith(map[string]Value{"q1": Multi{"yes"}}),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			eq := IsVisible(ruleQuestion(model.CondEquals, "q1", "yes"), store)
			ne := IsVisible(ruleQuestion(model.CondNotEquals, "q1", "yes"), store)
			if eq == ne {
				t.Errorf("not_equals must negate equals, got equals=%v not_equals=%v", eq, ne)
			}
		})
	}
}

func TestIsVisibleContains(t *testing.T) {
	t.Run("multi element match", func(t *testing.T) {
		store := storeWith(map[string]Value{"q1": Multi{"a", "b"}})
		if !IsVisible(ruleQuestion(model.CondContains, "q1", "b"), store) {
			t.Error("expected element match")
		}
		if IsVisible(ruleQuestion(model.CondContains, "q1", "c"), store) {
			t.Error("expected no match for absent element")
		}
	})

	t.Run("substring match on text", func(t *testing.T) {
		store := storeWith(map[string]Value{"q1": Text("hello world")})
		if !IsVisible(ruleQuestion(model.CondContains, "q1", "lo wo"), store) {
			t.Error("expected substring match")
		}
	})

	t.Run("not_contains negates", func(t *testing.T) {
		store := storeWith(map[string]Value{"q1": Multi{"a"}})
		if IsVisible(ruleQuestion(model.CondNotContains, "q1", "a"), store) {
			t.Error("expected hidden")
		}
		if !IsVisible(ruleQuestion(model.CondNotContains, "q1", "b"), store) {
			t.Error("expected visible")
		}
	})

	t.Run("absent answer has empty string form", func(t *testing.T) {
		store := storeWith(nil)
		if IsVisible(ruleQuestion(model.CondContains, "missing", "x"), store) {
			t.Error("nothing contains x")
		}
		if !IsVisible(ruleQuestion(model.CondContains, "missing", ""), store) {
			t.Error("empty string form contains the empty substring")
		}
	})
}

func TestIsVisibleNumericComparisons(t *testing.T) {
	t.Run("greater_than on number", func(t *testing.T) {
		store := storeWith(map[string]Value{"q1": Number(7)})
		if !IsVisible(ruleQuestion(model.CondGreaterThan, "q1", "5"), store) {
			t.Error("7 > 5")
		}
		if IsVisible(ruleQuestion(model.CondGreaterThan, "q1", "9"), store) {
			t.Error("7 is not > 9")
		}
	})

	t.Run("less_than on numeric text", func(t *testing.T) {
		store := storeWith(map[string]Value{"q1": Text("3.5")})
		if !IsVisible(ruleQuestion(model.CondLessThan, "q1", "4"), store) {
			t.Error("3.5 < 4")
		}
	})

	t.Run("non-numeric coercion is false", func(t *testing.T) {
		store := storeWith(map[string]Value{"q1": Text("abc")})
		if IsVisible(ruleQuestion(model.CondGreaterThan, "q1", "1"), store) {
			t.Error("NaN comparisons must be false")
		}
		if IsVisible(ruleQuestion(model.CondLessThan, "q1", "1"), store) {
			t.Error("NaN comparisons must be false")
		}
	})

	t.Run("non-numeric rule value is false", func(t *testing.T) {
		store := storeWith(map[string]Value{"q1": Number(2)})
		if IsVisible(ruleQuestion(model.CondGreaterThan, "q1", "abc"), store) {
			t.Error("NaN comparisons must be false")
		}
	})

	// Blank text coerces to 0, like Number("") in the clients. An
	// unanswered text question seeded to "" must count as 0, not NaN.
	t.Run("blank text reads as zero", func(t *testing.T) {
		store := storeWith(map[string]Value{"q1": Text("")})
		if !IsVisible(ruleQuestion(model.CondLessThan, "q1", "5"), store) {
			t.Error("0 < 5, blank text must not hide the question")
		}
		if !IsVisible(ruleQuestion(model.CondGreaterThan, "q1", "-1"), store) {
			t.Error("0 > -1")
		}
		if IsVisible(ruleQuestion(model.CondLessThan, "q1", "-1"), store) {
			t.Error("0 is not < -1")
		}
	})

	t.Run("lists read via their joined string form", func(t *testing.T) {
		store := storeWith(map[string]Value{"q1": Multi{}})
		if !IsVisible(ruleQuestion(model.CondLessThan, "q1", "5"), store) {
			t.Error("empty list reads as 0")
		}

		store = storeWith(map[string]Value{"q1": Multi{"3"}})
		if !IsVisible(ruleQuestion(model.CondGreaterThan, "q1", "2"), store) {
			t.Error("single-element list reads as its element")
		}

		store = storeWith(map[string]Value{"q1": Multi{"a", "b"}})
		if IsVisible(ruleQuestion(model.CondGreaterThan, "q1", "0"), store) {
			t.Error("a,b has no numeric reading")
		}
	})

	t.Run("absent answer has no numeric reading", func(t *testing.T) {
		store := storeWith(nil)
		if IsVisible(ruleQuestion(model.CondLessThan, "missing", "5"), store) {
			t.Error("comparisons against an absent answer must be false")
		}
	})
}

func TestIsVisibleFailsOpen(t *testing.T) {
	t.Run("unknown condition keyword", func(t *testing.T) {
		store := storeWith(nil)
		if !IsVisible(ruleQuestion("between", "q1", "x"), store) {
			t.Error("unrecognized condition must not hide a question")
		}
	})

	t.Run("dangling dependsOn does not panic", func(t *testing.T) {
		store := storeWith(nil)
		for _, cond := range []string{
			model.CondEquals, model.CondNotEquals,
			model.CondContains, model.CondNotContains,
			model.CondGreaterThan, model.CondLessThan,
		} {
			IsVisible(ruleQuestion(cond, "no-such-question", "v"), store)
		}
	})
}
