package model

type LeaderboardRow struct {
	User        User  `json:"user"`
	Points      int64 `json:"points"`
	CurrentRank int   `json:"current_rank"`
}

type GetLeaderboardRequest struct {
	Range  string `json:"range"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

type GetLeaderboardResponse struct {
	Rows []LeaderboardRow `json:"rows"`
}
