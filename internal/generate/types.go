package generate

import "fmt"

// SectionKeyPoints holds the key points extracted from one source section.
type SectionKeyPoints struct {
	Section string   `json:"section"`
	Points  []string `json:"points"`
}

// KeyPointsOutput is the key-points agent response.
type KeyPointsOutput struct {
	Sections []SectionKeyPoints `json:"sections"`
}

// EvaluationScores is the evaluator agent response. Dimension scores run
// 1-10; overall carries one decimal place.
type EvaluationScores struct {
	Teachability         int     `json:"teachability"`
	ConversationalFeel   int     `json:"conversational_feel"`
	FrictionDisagreement int     `json:"friction_disagreement"`
	TakeawayClarity      int     `json:"takeaway_clarity"`
	Accuracy             int     `json:"accuracy"`
	Coverage             int     `json:"coverage"`
	Overall              float64 `json:"overall"`
	Feedback             string  `json:"feedback"`
}

// ParseError indicates an LLM response could not be parsed into the
// expected shape.
type ParseError struct {
	Agent string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse %s response: %v", e.Agent, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
