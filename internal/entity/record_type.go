package entity

// Record type names double as table names on the backing store.
const (
	UserProfileRecord       = "user_profiles"
	FollowEdgeRecord        = "follow_edges"
	RecipeRecord            = "recipes"
	LikeRecord              = "likes"
	CommentRecord           = "comments"
	ActivityRecord          = "activities"
	ChallengeRecord         = "challenges"
	ChallengeProgressRecord = "challenge_progress"
	TeamRecord              = "teams"
	LeaderboardRecord       = "leaderboard_entries"
)
