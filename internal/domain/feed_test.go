package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cameronsaddress/snapchef-social/internal/entity"
	"github.com/cameronsaddress/snapchef-social/internal/model"
	"github.com/cameronsaddress/snapchef-social/internal/repository"
	"github.com/cameronsaddress/snapchef-social/pkg/testutil"
)

func newFeedDomain(redisClient *testutil.InMemoryRedis) *feedDomain {
	return NewFeedDomain(
		repository.NewRecipeRepository(),
		repository.NewFollowEdgeRepository(),
		repository.NewUserProfileRepository(),
		repository.NewLikeRepository(),
		redisClient,
	)
}

func Test_feedDomain_CursorPagination(t *testing.T) {
	ctx := testutil.NewMockContext()
	followEdgeRepo := repository.NewFollowEdgeRepository()

	userB, err := testutil.SampleUserProfile(ctx, &entity.UserProfile{Handle: "chef-b"})
	require.NoError(t, err)
	userC, err := testutil.SampleUserProfile(ctx, &entity.UserProfile{Handle: "chef-c"})
	require.NoError(t, err)

	for _, followingID := range []string{userB.ID, userC.ID} {
		require.NoError(t, followEdgeRepo.Save(ctx, &entity.FollowEdge{
			ID:          entity.FollowEdgeID("user-a", followingID),
			FollowerID:  "user-a",
			FollowingID: followingID,
			FollowedAt:  entity.Now(),
			IsActive:    true,
		}))
	}

	// B posts Soup at t=100, C posts Salad at t=200.
	_, err = testutil.SampleRecipe(ctx, &entity.Recipe{
		Base:    entity.Base{ID: "soup", CreatedAt: 100},
		OwnerID: userB.ID,
		Title:   "Soup",
	})
	require.NoError(t, err)
	_, err = testutil.SampleRecipe(ctx, &entity.Recipe{
		Base:    entity.Base{ID: "salad", CreatedAt: 200},
		OwnerID: userC.ID,
		Title:   "Salad",
	})
	require.NoError(t, err)

	domain := newFeedDomain(testutil.NewInMemoryRedis())
	ctxA := testutil.NewMockContextWithUserID(ctx, "user-a")

	// First page returns the newest recipe.
	page, err := domain.FetchSocialFeed(ctxA, &model.FetchSocialFeedRequest{Limit: 1})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, "Salad", page.Items[0].Recipe.Title)
	require.Equal(t, "chef-c", page.Items[0].Owner.Handle)
	require.Equal(t, int64(200), page.NextCursor)
	require.False(t, page.FromCache)
	require.False(t, page.IsFallback)

	// The cursor walks past Salad to Soup.
	page, err = domain.FetchSocialFeed(ctxA, &model.FetchSocialFeedRequest{
		LastSeenAt: page.NextCursor,
		Limit:      1,
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, "Soup", page.Items[0].Recipe.Title)
	require.Equal(t, "chef-b", page.Items[0].Owner.Handle)

	// The page after the oldest item is empty.
	page, err = domain.FetchSocialFeed(ctxA, &model.FetchSocialFeedRequest{
		LastSeenAt: page.NextCursor,
		Limit:      1,
	})
	require.NoError(t, err)
	require.Empty(t, page.Items)
	require.Equal(t, int64(0), page.NextCursor)
}

func Test_feedDomain_NoGapsUnderStaticData(t *testing.T) {
	ctx := testutil.NewMockContext()
	followEdgeRepo := repository.NewFollowEdgeRepository()

	owner, err := testutil.SampleUserProfile(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, followEdgeRepo.Save(ctx, &entity.FollowEdge{
		ID:          entity.FollowEdgeID("reader", owner.ID),
		FollowerID:  "reader",
		FollowingID: owner.ID,
		IsActive:    true,
	}))

	// Five recipes with distinct timestamps.
	for i := 1; i <= 5; i++ {
		_, err := testutil.SampleRecipe(ctx, &entity.Recipe{
			Base:    entity.Base{ID: fmt.Sprintf("recipe-%d", i), CreatedAt: int64(i * 100)},
			OwnerID: owner.ID,
		})
		require.NoError(t, err)
	}

	domain := newFeedDomain(testutil.NewInMemoryRedis())
	ctxReader := testutil.NewMockContextWithUserID(ctx, "reader")

	var seen []string
	var cursor int64
	for {
		page, err := domain.FetchSocialFeed(ctxReader, &model.FetchSocialFeedRequest{
			LastSeenAt: cursor,
			Limit:      2,
		})
		require.NoError(t, err)
		if len(page.Items) == 0 {
			break
		}

		for _, item := range page.Items {
			seen = append(seen, item.Recipe.ID)
		}
		cursor = page.NextCursor
	}

	// Every recipe exactly once, newest first.
	require.Equal(t, []string{"recipe-5", "recipe-4", "recipe-3", "recipe-2", "recipe-1"}, seen)
}

func Test_feedDomain_EmptyFollowingSet(t *testing.T) {
	ctx := testutil.NewMockContext()
	domain := newFeedDomain(testutil.NewInMemoryRedis())
	ctxLoner := testutil.NewMockContextWithUserID(ctx, "loner")

	page, err := domain.FetchSocialFeed(ctxLoner, &model.FetchSocialFeedRequest{})
	require.NoError(t, err)
	require.Empty(t, page.Items)
	require.False(t, page.IsFallback)
}

func Test_feedDomain_LikeStateJoin(t *testing.T) {
	ctx := testutil.NewMockContext()
	owner, err := testutil.SampleUserProfile(ctx, nil)
	require.NoError(t, err)

	require.NoError(t, repository.NewFollowEdgeRepository().Save(ctx, &entity.FollowEdge{
		ID:          entity.FollowEdgeID("reader", owner.ID),
		FollowerID:  "reader",
		FollowingID: owner.ID,
		IsActive:    true,
	}))

	liked, err := testutil.SampleRecipe(ctx, &entity.Recipe{
		Base:    entity.Base{ID: "liked-one", CreatedAt: 100},
		OwnerID: owner.ID,
	})
	require.NoError(t, err)
	_, err = testutil.SampleRecipe(ctx, &entity.Recipe{
		Base:    entity.Base{ID: "other-one", CreatedAt: 200},
		OwnerID: owner.ID,
	})
	require.NoError(t, err)

	require.NoError(t, repository.NewLikeRepository().Save(ctx, &entity.Like{
		ID:         entity.LikeID("reader", liked.ID),
		UserID:     "reader",
		TargetID:   liked.ID,
		TargetKind: entity.LikeTargetRecipe,
		LikedAt:    entity.Now(),
	}))

	domain := newFeedDomain(testutil.NewInMemoryRedis())
	ctxReader := testutil.NewMockContextWithUserID(ctx, "reader")

	page, err := domain.FetchSocialFeed(ctxReader, &model.FetchSocialFeedRequest{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.False(t, page.Items[0].IsLiked)
	require.True(t, page.Items[1].IsLiked)
}

func Test_feedDomain_DegradedPaths(t *testing.T) {
	store := testutil.NewMemoryStore()
	ctx := testutil.NewMockContextWithStore(store)

	owner, err := testutil.SampleUserProfile(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, repository.NewFollowEdgeRepository().Save(ctx, &entity.FollowEdge{
		ID:          entity.FollowEdgeID("reader", owner.ID),
		FollowerID:  "reader",
		FollowingID: owner.ID,
		IsActive:    true,
	}))
	_, err = testutil.SampleRecipe(ctx, &entity.Recipe{
		Base:    entity.Base{ID: "cached-recipe", CreatedAt: 100},
		OwnerID: owner.ID,
	})
	require.NoError(t, err)

	redisClient := testutil.NewInMemoryRedis()
	domain := newFeedDomain(redisClient)
	ctxReader := testutil.NewMockContextWithUserID(ctx, "reader")

	// A successful first page warms the cache.
	page, err := domain.FetchSocialFeed(ctxReader, &model.FetchSocialFeedRequest{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	// With the store down, the cached page is served and flagged.
	store.FailWith = errors.New("store is down")
	page, err = domain.FetchSocialFeed(ctxReader, &model.FetchSocialFeedRequest{})
	require.NoError(t, err)
	require.True(t, page.FromCache)
	require.False(t, page.IsFallback)
	require.Len(t, page.Items, 1)
	require.Equal(t, "cached-recipe", page.Items[0].Recipe.ID)

	// Without even a cache, the fixed fallback page is served, clearly
	// flagged as such.
	require.NoError(t, redisClient.Del(ctx, "social_feed:reader"))
	page, err = domain.FetchSocialFeed(ctxReader, &model.FetchSocialFeedRequest{})
	require.NoError(t, err)
	require.True(t, page.IsFallback)
	require.False(t, page.FromCache)
	require.NotEmpty(t, page.Items)
}
