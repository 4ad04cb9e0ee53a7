package domain

// VaguenessIssue names one detected form of vagueness.
type VaguenessIssue string

const (
	IssueAbstractProblem  VaguenessIssue = "abstract_problem"
	IssueUndefinedUser    VaguenessIssue = "undefined_user"
	IssueHandWavySolution VaguenessIssue = "hand_wavy_solution"
	IssueMissingScope     VaguenessIssue = "missing_scope"
	IssueBuzzwordDensity  VaguenessIssue = "buzzword_density"
)

// VaguenessAssessment is an ephemeral per-turn measure of how abstract the
// current idea description is. It is never persisted.
type VaguenessAssessment struct {
	IsVague            bool             `json:"is_vague"`
	Score              int              `json:"score"` // 0-100
	Issues             []VaguenessIssue `json:"issues,omitempty"`
	ClarifyingQuestions []string        `json:"clarifying_questions,omitempty"` // at most 2
}
