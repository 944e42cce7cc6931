package model

type FollowRequest struct {
	TargetID string `json:"target_id"`
}

type FollowResponse struct{}

type UnfollowRequest struct {
	TargetID string `json:"target_id"`
}

type UnfollowResponse struct{}

type IsFollowingRequest struct {
	TargetID string `json:"target_id"`
}

type IsFollowingResponse struct {
	Following bool `json:"following"`
}

type RecountSocialCountersRequest struct {
	UserID string `json:"user_id"`
}

type RecountSocialCountersResponse struct {
	FollowerCount  int64 `json:"follower_count"`
	FollowingCount int64 `json:"following_count"`
}
