package engine

import (
	"strconv"
	"strings"

	"github.com/canvass-io/canvass/model"
)

// IsVisible evaluates a question's conditional rule against the
// current answers. It never errors: a disabled or absent rule, an
// unresolvable dependsOn and an unrecognized condition keyword all
// resolve to visible.
func IsVisible(q model.Question, store *Store) bool {
	rule := q.ConditionalLogic
	if rule == nil || !rule.Enabled {
		return true
	}

	dep := store.Get(rule.DependsOn)

	switch rule.Condition {
	case model.CondEquals:
		return equalsRule(dep, rule.Value)
	case model.CondNotEquals:
		return !equalsRule(dep, rule.Value)
	case model.CondContains:
		return containsRule(dep, rule.Value)
	case model.CondNotContains:
		return !containsRule(dep, rule.Value)
	case model.CondGreaterThan:
		dn, dok := numberForm(dep)
		rn, rok := ruleNumber(rule.Value)
		return dok && rok && dn > rn
	case model.CondLessThan:
		dn, dok := numberForm(dep)
		rn, rok := ruleNumber(rule.Value)
		return dok && rok && dn < rn
	default:
		// Fail open: an unsupported rule must not hide a question.
		return true
	}
}

// equalsRule is strict equality on the stored representation: only a
// Text answer can equal a rule value. A Number never matches, same as
// the viewer it replaces.
func equalsRule(dep Value, want string) bool {
	t, ok := dep.(Text)
	return ok && string(t) == want
}

// containsRule tests element membership on lists and substring
// containment on everything else.
func containsRule(dep Value, want string) bool {
	if m, ok := dep.(Multi); ok {
		return m.contains(want)
	}
	return strings.Contains(stringForm(dep), want)
}

func ruleNumber(s string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return n, err == nil
}
