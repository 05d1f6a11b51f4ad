package model

// Survey is the declarative document produced by the visual builder:
// ordered pages of typed questions, each optionally carrying options,
// matrix rows/columns, numeric bounds, a conditional-visibility rule
// and styling hints.
type Survey struct {
	ID             string `json:"id,omitempty"`
	Version        int    `json:"version,omitempty"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	Status         string `json:"status,omitempty"`
	IsPublic       bool   `json:"isPublic,omitempty"`
	AllowAnonymous bool   `json:"allowAnonymous,omitempty"`
	Submitted      bool   `json:"submitted,omitempty"`
	Pages          []Page `json:"pages"`
}

type Page struct {
	ID         string     `json:"id,omitempty"`
	Name       string     `json:"name"`
	OrderIndex int        `json:"orderIndex,omitempty"`
	Questions  []Question `json:"questions"`
}

type Question struct {
	ID               string           `json:"id,omitempty"`
	Name             string           `json:"name,omitempty"`
	Type             string           `json:"type"`
	Title            string           `json:"title"`
	Description      string           `json:"description,omitempty"`
	Placeholder      string           `json:"placeholder,omitempty"`
	Required         bool             `json:"required"`
	OrderIndex       int              `json:"orderIndex,omitempty"`
	Options          []Option         `json:"options,omitempty"`
	Scale            int              `json:"scale,omitempty"`
	Min              *float64         `json:"min,omitempty"`
	Max              *float64         `json:"max,omitempty"`
	Step             *float64         `json:"step,omitempty"`
	Rows             []Option         `json:"rows,omitempty"`
	Columns          []Option         `json:"columns,omitempty"`
	Validation       *Validation      `json:"validation,omitempty"`
	ConditionalLogic *ConditionalRule `json:"conditionalLogic,omitempty"`
	Styling          *Styling         `json:"styling,omitempty"`
}

// Option doubles as a choice entry and as a matrix row/column label.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value,omitempty"`
}

// ConditionalRule hides a question until another question's answer
// satisfies the condition. DependsOn may reference any question id in
// the document, not just earlier ones.
type ConditionalRule struct {
	Enabled   bool   `json:"enabled"`
	DependsOn string `json:"dependsOn,omitempty"`
	Condition string `json:"condition,omitempty"`
	Value     string `json:"value,omitempty"`
}

// Condition keywords understood by the visibility evaluator.
const (
	CondEquals      = "equals"
	CondNotEquals   = "not_equals"
	CondContains    = "contains"
	CondNotContains = "not_contains"
	CondGreaterThan = "greater_than"
	CondLessThan    = "less_than"
)

type Validation struct {
	MinLength    *int     `json:"minLength,omitempty"`
	MaxLength    *int     `json:"maxLength,omitempty"`
	Min          *float64 `json:"min,omitempty"`
	Max          *float64 `json:"max,omitempty"`
	Pattern      string   `json:"pattern,omitempty"`
	ErrorMessage string   `json:"errorMessage,omitempty"`
}

type Styling struct {
	Width     string `json:"width,omitempty"`
	Alignment string `json:"alignment,omitempty"`
}

// AllQuestions flattens the document in page-then-question order. This
// ordering is canonical for submission records.
func (s Survey) AllQuestions() []Question {
	var all []Question
	for _, p := range s.Pages {
		all = append(all, p.Questions...)
	}
	return all
}

// QuestionByID resolves a question id anywhere in the document.
func (s Survey) QuestionByID(id string) (Question, bool) {
	for _, p := range s.Pages {
		for _, q := range p.Questions {
			if q.ID == id {
				return q, true
			}
		}
	}
	return Question{}, false
}
