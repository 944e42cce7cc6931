package entity

import "golang.org/x/exp/slices"

// Team groups users pursuing a challenge. MemberIDs has no duplicates and its
// size is capped at join time, not by the store.
type Team struct {
	Base

	Name        string   `dynamodbav:"name" json:"name"`
	Description string   `dynamodbav:"description" json:"description"`
	ChallengeID string   `dynamodbav:"challenge_id" json:"challenge_id"`
	CaptainID   string   `dynamodbav:"captain_id" json:"captain_id"`
	MemberIDs   []string `dynamodbav:"member_ids" json:"member_ids"`
	InviteCode  string   `dynamodbav:"invite_code" json:"invite_code"`
	TotalPoints int64    `dynamodbav:"total_points" json:"total_points"`
}

func (t *Team) HasMember(userID string) bool {
	return slices.Contains(t.MemberIDs, userID)
}
