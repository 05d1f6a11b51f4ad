package engine

import "github.com/canvass-io/canvass/model"

// RequiredMessage is the error text for an unanswered required
// question. Consumers key on the map entry, not the wording.
const RequiredMessage = "This field is required"

// answered is the shared emptiness rule of the runtime: nil, blank
// text, zero-length lists/matrices and a zero Number are unanswered.
func answered(v Value) bool {
	return v != nil && !v.Empty()
}

// ValidatePage reports the unanswered required questions of one page,
// keyed by question id. Hidden questions are never validated, whatever
// their required flag. An empty map means the page may be left.
func ValidatePage(page model.Page, store *Store) map[string]string {
	errs := map[string]string{}
	for _, q := range page.Questions {
		if !q.Required {
			continue
		}
		if !IsVisible(q, store) {
			continue
		}
		if !answered(store.Get(q.ID)) {
			errs[q.ID] = RequiredMessage
		}
	}
	return errs
}

// ValidateAll applies the page rule across the whole document. Used
// server side to check a complete submission in one pass.
func ValidateAll(doc model.Survey, store *Store) map[string]string {
	errs := map[string]string{}
	for _, page := range doc.Pages {
		for id, msg := range ValidatePage(page, store) {
			errs[id] = msg
		}
	}
	return errs
}
