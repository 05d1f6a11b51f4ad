package engine

// questionKind describes runtime behaviour per question type tag.
// Adding a question type is one registration here; the evaluator,
// validator and normalizer never branch on type strings.
type questionKind struct {
	emptyValue func() Value
}

func emptyText() Value   { return Text("") }
func emptyMulti() Value  { return Multi{} }
func emptyMatrix() Value { return Matrix{} }

var questionKinds = map[string]questionKind{
	"text-input":      {emptyValue: emptyText},
	"text":            {emptyValue: emptyText},
	"email":           {emptyValue: emptyText},
	"phone":           {emptyValue: emptyText},
	"textarea":        {emptyValue: emptyText},
	"radio":           {emptyValue: emptyText},
	"dropdown":        {emptyValue: emptyText},
	"select":          {emptyValue: emptyText},
	"checkbox":        {emptyValue: emptyMulti},
	"multi-select":    {emptyValue: emptyMulti},
	"rating":          {emptyValue: emptyText},
	"nps":             {emptyValue: emptyText},
	"slider":          {emptyValue: emptyText},
	"number-input":    {emptyValue: emptyText},
	"number":          {emptyValue: emptyText},
	"matrix-single":   {emptyValue: emptyMatrix},
	"matrix-multiple": {emptyValue: emptyMatrix},
	"ranking":         {emptyValue: emptyText},
	"date":            {emptyValue: emptyText},
	"time":            {emptyValue: emptyText},
	"file":            {emptyValue: emptyText},
	"signature":       {emptyValue: emptyText},
	"location":        {emptyValue: emptyText},
}

// DefaultValue is the seed answer for a question type. Unknown types
// behave like free text.
func DefaultValue(qtype string) Value {
	if kind, ok := questionKinds[qtype]; ok {
		return kind.emptyValue()
	}
	return Text("")
}

// KnownType reports whether the runtime has a registration for the
// given question type tag.
func KnownType(qtype string) bool {
	_, ok := questionKinds[qtype]
	return ok
}
