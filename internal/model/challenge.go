package model

type Challenge struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	StartAt          int64  `json:"start_at"`
	EndAt            int64  `json:"end_at"`
	Points           int64  `json:"points"`
	Coins            int64  `json:"coins"`
	ParticipantCount int64  `json:"participant_count"`
	CompletionCount  int64  `json:"completion_count"`
}

type ChallengeProgress struct {
	ChallengeID  string  `json:"challenge_id"`
	Status       string  `json:"status"`
	Progress     float64 `json:"progress"`
	EarnedPoints int64   `json:"earned_points"`
	EarnedCoins  int64   `json:"earned_coins"`
	ProofURL     string  `json:"proof_url,omitempty"`
	CompletedAt  int64   `json:"completed_at,omitempty"`
}

type UpdateProgressRequest struct {
	ChallengeID string  `json:"challenge_id"`
	Progress    float64 `json:"progress"`
}

type UpdateProgressResponse struct {
	Progress ChallengeProgress `json:"progress"`
}

type SubmitChallengeProofRequest struct {
	ChallengeID string `json:"challenge_id"`
	FileName    string `json:"file_name"`
	Mime        string `json:"mime"`
	Data        []byte `json:"data"`
	Notes       string `json:"notes,omitempty"`
}

type SubmitChallengeProofResponse struct {
	Progress ChallengeProgress `json:"progress"`
}

type SyncChallengesRequest struct{}

type SyncChallengesResponse struct {
	Challenges []Challenge `json:"challenges"`
}
