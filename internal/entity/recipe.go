package entity

type Recipe struct {
	Base

	OwnerID     string `dynamodbav:"owner_id" json:"owner_id"`
	Title       string `dynamodbav:"title" json:"title"`
	Description string `dynamodbav:"description" json:"description"`
	ImageURL    string `dynamodbav:"image_url" json:"image_url"`

	LikeCount    int64 `dynamodbav:"like_count" json:"like_count"`
	CommentCount int64 `dynamodbav:"comment_count" json:"comment_count"`
	ViewCount    int64 `dynamodbav:"view_count" json:"view_count"`
	ShareCount   int64 `dynamodbav:"share_count" json:"share_count"`

	IsPublic bool `dynamodbav:"is_public" json:"is_public"`
}
