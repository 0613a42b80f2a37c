package model

// Event is published after state changes other systems may care about.
type Event struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	OccurredAt string                 `json:"occurredAt"`
	Data       map[string]interface{} `json:"data"`
}

const (
	EventAnalysisCompleted = "analysis.completed"
	EventSummaryGenerated  = "summary.generated"
	EventCreditApplied     = "payment.credit_applied"
)
