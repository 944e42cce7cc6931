package model

type Recipe struct {
	ID           string `json:"id"`
	OwnerID      string `json:"owner_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ImageURL     string `json:"image_url"`
	LikeCount    int64  `json:"like_count"`
	CommentCount int64  `json:"comment_count"`
	CreatedAt    int64  `json:"created_at"`
}

type FeedItem struct {
	Recipe  Recipe `json:"recipe"`
	Owner   User   `json:"owner"`
	IsLiked bool   `json:"is_liked"`
}

type FetchSocialFeedRequest struct {
	// LastSeenAt is the created_at of the last item of the previous page in
	// unix milliseconds. Zero fetches the first page.
	LastSeenAt int64 `json:"last_seen_at"`
	Limit      int   `json:"limit"`
}

type FetchSocialFeedResponse struct {
	Items []FeedItem `json:"items"`

	// NextCursor is the created_at of the last returned item; pass it back
	// as LastSeenAt for the next page. Zero means no further pages.
	NextCursor int64 `json:"next_cursor"`

	// FromCache marks a page served from the local cache, IsFallback a page
	// of canned data served because both store and cache were unavailable.
	FromCache  bool `json:"from_cache"`
	IsFallback bool `json:"is_fallback"`
}
