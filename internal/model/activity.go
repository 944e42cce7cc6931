package model

type Activity struct {
	ID           string         `json:"id"`
	Type         string         `json:"type"`
	ActorID      string         `json:"actor_id"`
	TargetUserID string         `json:"target_user_id,omitempty"`
	RecipeID     string         `json:"recipe_id,omitempty"`
	ChallengeID  string         `json:"challenge_id,omitempty"`
	Timestamp    int64          `json:"timestamp"`
	IsRead       bool           `json:"is_read"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

type FetchActivityFeedRequest struct {
	Limit int `json:"limit"`
}

type FetchActivityFeedResponse struct {
	Activities []Activity `json:"activities"`
}

type MarkActivityAsReadRequest struct {
	ActivityID string `json:"activity_id"`
}

type MarkActivityAsReadResponse struct{}
