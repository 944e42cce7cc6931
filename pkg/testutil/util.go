package testutil

import (
	"context"
	"time"

	"github.com/cameronsaddress/snapchef-social/config"
	"github.com/cameronsaddress/snapchef-social/pkg/logger"
	"github.com/cameronsaddress/snapchef-social/pkg/xcontext"
)

func MockConfigs() config.Configs {
	return config.Configs{
		Env: "testing",
		Auth: config.AuthConfigs{
			TokenSecret:     "secret",
			TokenExpiration: time.Minute,
		},
		Store: config.StoreConfigs{
			Region:      "us-east-1",
			TablePrefix: "testing",
		},
		Feed: config.FeedConfigs{
			DefaultLimit: 20,
			MaxLimit:     50,
			CacheTTL:     10 * time.Minute,
		},
		Activity: config.ActivityConfigs{
			DefaultLimit: 20,
			MaxLimit:     50,
		},
		Challenge: config.ChallengeConfigs{
			UpcomingWindow: 7 * 24 * time.Hour,
		},
		Team: config.TeamConfigs{
			MaxMembers:       5,
			InviteCodeLength: 6,
			LeaderboardLimit: 100,
		},
		Storage: config.S3Configs{Bucket: "testing"},
	}
}

func NewMockContext() context.Context {
	return NewMockContextWithStore(NewMemoryStore())
}

func NewMockContextWithStore(store *MemoryStore) context.Context {
	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, MockConfigs())
	ctx = xcontext.WithLogger(ctx, logger.NewSilenceLogger())
	ctx = xcontext.WithRecordStore(ctx, store)
	return ctx
}

// NewMockContextWithUserID binds a caller identity onto an existing mock
// context, so several identities can share one store.
func NewMockContextWithUserID(ctx context.Context, userID string) context.Context {
	return xcontext.WithRequestUserID(ctx, userID)
}
