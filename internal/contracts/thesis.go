package contracts

// StatementKind separates strengths from risks
type StatementKind string

const (
	Strength StatementKind = "strength"
	Risk     StatementKind = "risk"
)

// Statement is one line of a thesis, tied to the criterion it came from
type Statement struct {
	Kind      StatementKind `json:"kind"`
	Criterion string        `json:"criterion"`
	Text      string        `json:"text"`
}

// Thesis is the structured investment rationale for a top pick
type Thesis struct {
	Ticker         string      `json:"ticker"`
	Headline       string      `json:"headline"`
	Strengths      []Statement `json:"strengths"`
	Risks          []Statement `json:"risks"`
	Recommendation string      `json:"recommendation"`
}
