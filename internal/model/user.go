package model

type User struct {
	ID             string `json:"id"`
	Handle         string `json:"handle"`
	DisplayName    string `json:"display_name"`
	AvatarURL      string `json:"avatar_url"`
	Points         int64  `json:"points"`
	Streak         int64  `json:"streak"`
	RecipesShared  int64  `json:"recipes_shared"`
	FollowerCount  int64  `json:"follower_count"`
	FollowingCount int64  `json:"following_count"`
	CoinBalance    int64  `json:"coin_balance"`
	Verified       bool   `json:"verified"`
	Tier           string `json:"tier"`
}
