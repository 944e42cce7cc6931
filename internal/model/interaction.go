package model

type LikeRecipeRequest struct {
	RecipeID string `json:"recipe_id"`
}

type LikeRecipeResponse struct{}

type UnlikeRecipeRequest struct {
	RecipeID string `json:"recipe_id"`
}

type UnlikeRecipeResponse struct{}

type GetLikeCountRequest struct {
	RecipeID string `json:"recipe_id"`
}

type GetLikeCountResponse struct {
	Count int64 `json:"count"`
}

type SyncLikeCountRequest struct {
	RecipeID string `json:"recipe_id"`
}

type SyncLikeCountResponse struct {
	Count int64 `json:"count"`
}

type LikeCommentRequest struct {
	CommentID string `json:"comment_id"`
}

type LikeCommentResponse struct{}

type UnlikeCommentRequest struct {
	CommentID string `json:"comment_id"`
}

type UnlikeCommentResponse struct{}

type GetLikedCommentIDsRequest struct {
	RecipeID string `json:"recipe_id"`
}

type GetLikedCommentIDsResponse struct {
	CommentIDs []string `json:"comment_ids"`
}

type Comment struct {
	ID              string `json:"id"`
	UserID          string `json:"user_id"`
	RecipeID        string `json:"recipe_id"`
	Content         string `json:"content"`
	ParentCommentID string `json:"parent_comment_id,omitempty"`
	LikeCount       int64  `json:"like_count"`
	CreatedAt       int64  `json:"created_at"`
}

type AddCommentRequest struct {
	RecipeID        string `json:"recipe_id"`
	Content         string `json:"content"`
	ParentCommentID string `json:"parent_comment_id,omitempty"`
}

type AddCommentResponse struct {
	Comment Comment `json:"comment"`
}

type DeleteCommentRequest struct {
	CommentID string `json:"comment_id"`
}

type DeleteCommentResponse struct{}
