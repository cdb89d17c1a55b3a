// Package acceptance turns plain-text GIVEN/WHEN/THEN specs into Go test
// files whose scenarios drive the cukereport CLI.
package acceptance

// Step keywords.
const (
	KeywordGiven = "GIVEN"
	KeywordWhen  = "WHEN"
	KeywordThen  = "THEN"
	KeywordAnd   = "AND" // continues the preceding step's keyword
)

// Step is one keyword line of a scenario.
type Step struct {
	Keyword string `json:"keyword"`
	Text    string `json:"text"`
	Line    int    `json:"line"`
}

// Scenario is a titled run of steps.
type Scenario struct {
	// Description is the title taken from the ";" line between separators.
	Description string `json:"description"`
	Steps       []Step `json:"steps"`
	// Line is the line of Description in the spec file.
	Line int `json:"line"`
}

// Spec is one parsed spec file.
type Spec struct {
	SourceFile string     `json:"sourceFile"`
	Scenarios  []Scenario `json:"scenarios"`
}
