package entity

// Challenge is a time-boxed goal. The window is [StartAt, EndAt).
type Challenge struct {
	Base

	Title       string `dynamodbav:"title" json:"title"`
	Description string `dynamodbav:"description" json:"description"`
	StartAt     int64  `dynamodbav:"start_at" json:"start_at"`
	EndAt       int64  `dynamodbav:"end_at" json:"end_at"`

	Points int64 `dynamodbav:"points" json:"points"`
	Coins  int64 `dynamodbav:"coins" json:"coins"`

	// CompletionCount <= ParticipantCount holds only best-effort; the store
	// offers no cross-record atomicity.
	ParticipantCount int64 `dynamodbav:"participant_count" json:"participant_count"`
	CompletionCount  int64 `dynamodbav:"completion_count" json:"completion_count"`

	IsActive bool `dynamodbav:"is_active" json:"is_active"`
}
