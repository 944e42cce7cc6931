package entity

// Comment is soft-deleted, never hard-removed, so thread structure and
// counter history survive.
type Comment struct {
	Base

	UserID          string `dynamodbav:"user_id" json:"user_id"`
	RecipeID        string `dynamodbav:"recipe_id" json:"recipe_id"`
	Content         string `dynamodbav:"content" json:"content"`
	ParentCommentID string `dynamodbav:"parent_comment_id" json:"parent_comment_id"`

	IsDeleted bool  `dynamodbav:"is_deleted" json:"is_deleted"`
	LikeCount int64 `dynamodbav:"like_count" json:"like_count"`
}
