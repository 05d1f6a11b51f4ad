package model

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

var conditions = map[string]bool{
	CondEquals:      true,
	CondNotEquals:   true,
	CondContains:    true,
	CondNotContains: true,
	CondGreaterThan: true,
	CondLessThan:    true,
}

// Validate checks a document before it is stored. All problems are
// collected and reported together.
//
// A conditional rule whose dependsOn does not resolve is deliberately
// NOT an error here: the runtime fails open and shows the question, so
// a half-edited draft stays saveable.
func Validate(s Survey) error {
	var errs *multierror.Error

	if s.Title == "" {
		errs = multierror.Append(errs, fmt.Errorf("survey title is empty"))
	}
	if len(s.Pages) == 0 {
		errs = multierror.Append(errs, fmt.Errorf("survey has no pages"))
	}

	seen := map[string]bool{}
	for pi, p := range s.Pages {
		for qi, q := range p.Questions {
			where := fmt.Sprintf("page %d question %d", pi+1, qi+1)

			if q.ID != "" {
				if seen[q.ID] {
					errs = multierror.Append(errs, fmt.Errorf("%s: duplicate question id %q", where, q.ID))
				}
				seen[q.ID] = true
			}
			if q.Type == "" {
				errs = multierror.Append(errs, fmt.Errorf("%s: missing type", where))
			}

			rule := q.ConditionalLogic
			if rule == nil || !rule.Enabled {
				continue
			}
			if rule.DependsOn == "" {
				errs = multierror.Append(errs, fmt.Errorf("%s: conditional logic without dependsOn", where))
			}
			if rule.DependsOn == q.ID && q.ID != "" {
				errs = multierror.Append(errs, fmt.Errorf("%s: conditional logic depends on itself", where))
			}
			if rule.Condition != "" && !conditions[rule.Condition] {
				errs = multierror.Append(errs, fmt.Errorf("%s: unknown condition %q", where, rule.Condition))
			}
		}
	}

	return errs.ErrorOrNil()
}
