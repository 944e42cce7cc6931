package model

type Team struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ChallengeID string   `json:"challenge_id"`
	CaptainID   string   `json:"captain_id"`
	MemberIDs   []string `json:"member_ids"`
	InviteCode  string   `json:"invite_code"`
	TotalPoints int64    `json:"total_points"`
}

type CreateTeamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ChallengeID string `json:"challenge_id"`
}

type CreateTeamResponse struct {
	Team Team `json:"team"`
}

type JoinTeamRequest struct {
	InviteCode string `json:"invite_code"`
}

type JoinTeamResponse struct {
	Team Team `json:"team"`
}

type UpdateTeamPointsRequest struct {
	TeamID string `json:"team_id"`
	Delta  int64  `json:"delta"`
}

type UpdateTeamPointsResponse struct {
	TotalPoints int64 `json:"total_points"`
}

type GetTeamLeaderboardRequest struct {
	ChallengeID string `json:"challenge_id"`
}

type GetTeamLeaderboardResponse struct {
	Teams []Team `json:"teams"`
}
