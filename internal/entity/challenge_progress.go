package entity

import (
	"fmt"

	"github.com/cameronsaddress/snapchef-social/pkg/enum"
)

type ProgressStatus string

var (
	ProgressInProgress = enum.New(ProgressStatus("in_progress"), "in_progress")
	ProgressCompleted  = enum.New(ProgressStatus("completed"), "completed")
)

// ChallengeProgress tracks one user's state on one challenge. The status
// transition in_progress -> completed is monotonic and never reversed.
type ChallengeProgress struct {
	ID          string         `dynamodbav:"id" json:"id"`
	UserID      string         `dynamodbav:"user_id" json:"user_id"`
	ChallengeID string         `dynamodbav:"challenge_id" json:"challenge_id"`
	Status      ProgressStatus `dynamodbav:"status" json:"status"`
	Progress    float64        `dynamodbav:"progress" json:"progress"`

	EarnedPoints int64 `dynamodbav:"earned_points" json:"earned_points"`
	EarnedCoins  int64 `dynamodbav:"earned_coins" json:"earned_coins"`

	ProofURL   string `dynamodbav:"proof_url" json:"proof_url"`
	ProofNotes string `dynamodbav:"proof_notes" json:"proof_notes"`

	StartedAt   int64 `dynamodbav:"started_at" json:"started_at"`
	UpdatedAt   int64 `dynamodbav:"updated_at" json:"updated_at"`
	CompletedAt int64 `dynamodbav:"completed_at" json:"completed_at"`
}

func ChallengeProgressID(userID, challengeID string) string {
	return fmt.Sprintf("%s/%s", userID, challengeID)
}
