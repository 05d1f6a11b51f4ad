package engine

import (
	"time"

	"github.com/canvass-io/canvass/model"
)

// Submission is the canonical record of one completed response. Built
// once per submit action and immutable thereafter.
type Submission struct {
	FormData          map[string]Value `json:"formData"`
	SurveyID          string           `json:"surveyId,omitempty"`
	SurveyTitle       string           `json:"surveyTitle"`
	SubmittedAt       string           `json:"submittedAt"`
	TotalQuestions    int              `json:"totalQuestions"`
	AnsweredQuestions int              `json:"answeredQuestions"`
	Questions         []QuestionResult `json:"questions"`
	Answers           []Answer         `json:"answers"`
}

// QuestionResult covers every question in the document, answered or
// not, in page-then-question order.
type QuestionResult struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Title    string `json:"title"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
	Answer   Value  `json:"answer"`
	Answered bool   `json:"answered"`
}

// Answer is the answered-only view, denormalized with question
// metadata for downstream consumers.
type Answer struct {
	QuestionID    string `json:"questionId"`
	QuestionName  string `json:"questionName"`
	QuestionTitle string `json:"questionTitle"`
	QuestionType  string `json:"questionType"`
	Answer        Value  `json:"answer"`
	Answered      bool   `json:"answered"`
}

// Normalize flattens the document and the current answers into a
// submission record. Visibility does not filter the output; counts
// always refer to the full document. The store is only read, and the
// result is a pure function of (doc, store, now).
func Normalize(doc model.Survey, store *Store, now time.Time) *Submission {
	all := doc.AllQuestions()

	sub := &Submission{
		FormData:       store.Snapshot(),
		SurveyID:       doc.ID,
		SurveyTitle:    doc.Title,
		SubmittedAt:    now.UTC().Format(time.RFC3339),
		TotalQuestions: len(all),
		Questions:      make([]QuestionResult, 0, len(all)),
		Answers:        []Answer{},
	}

	for _, q := range all {
		v := store.Get(q.ID)
		ok := answered(v)

		name := q.Name
		if name == "" {
			name = q.ID
		}

		sub.Questions = append(sub.Questions, QuestionResult{
			ID:       q.ID,
			Name:     name,
			Title:    q.Title,
			Type:     q.Type,
			Required: q.Required,
			Answer:   v,
			Answered: ok,
		})

		if ok {
			sub.AnsweredQuestions++
			sub.Answers = append(sub.Answers, Answer{
				QuestionID:    q.ID,
				QuestionName:  name,
				QuestionTitle: q.Title,
				QuestionType:  q.Type,
				Answer:        v,
				Answered:      true,
			})
		}
	}

	return sub
}
