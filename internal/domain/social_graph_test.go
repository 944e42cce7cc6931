package domain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cameronsaddress/snapchef-social/internal/entity"
	"github.com/cameronsaddress/snapchef-social/internal/model"
	"github.com/cameronsaddress/snapchef-social/internal/repository"
	"github.com/cameronsaddress/snapchef-social/pkg/errorx"
	"github.com/cameronsaddress/snapchef-social/pkg/testutil"
)

func newSocialGraphDomain() *socialGraphDomain {
	return NewSocialGraphDomain(
		repository.NewUserProfileRepository(),
		repository.NewFollowEdgeRepository(),
		NewActivityDomain(repository.NewActivityRepository(), testutil.NewInMemoryRedis()),
	)
}

func Test_socialGraphDomain_FollowUnfollow(t *testing.T) {
	ctx := testutil.NewMockContext()
	follower, err := testutil.SampleUserProfile(ctx, nil)
	require.NoError(t, err)
	target, err := testutil.SampleUserProfile(ctx, nil)
	require.NoError(t, err)

	domain := newSocialGraphDomain()
	followEdgeRepo := repository.NewFollowEdgeRepository()
	userProfileRepo := repository.NewUserProfileRepository()
	ctxFollower := testutil.NewMockContextWithUserID(ctx, follower.ID)

	// Follow successfully.
	_, err = domain.Follow(ctxFollower, &model.FollowRequest{TargetID: target.ID})
	require.NoError(t, err)

	// A second follow is absorbed without a second increment.
	_, err = domain.Follow(ctxFollower, &model.FollowRequest{TargetID: target.ID})
	require.NoError(t, err)

	active, err := followEdgeRepo.GetActivePair(ctx, follower.ID, target.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)

	gotTarget, err := userProfileRepo.GetByID(ctx, target.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), gotTarget.FollowerCount)

	gotFollower, err := userProfileRepo.GetByID(ctx, follower.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), gotFollower.FollowingCount)

	isFollowing, err := domain.IsFollowing(ctxFollower, &model.IsFollowingRequest{TargetID: target.ID})
	require.NoError(t, err)
	require.True(t, isFollowing.Following)

	// Unfollow leaves no active edge and the counters back at zero.
	_, err = domain.Unfollow(ctxFollower, &model.UnfollowRequest{TargetID: target.ID})
	require.NoError(t, err)

	active, err = followEdgeRepo.GetActivePair(ctx, follower.ID, target.ID)
	require.NoError(t, err)
	require.Empty(t, active)

	gotTarget, err = userProfileRepo.GetByID(ctx, target.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), gotTarget.FollowerCount)

	isFollowing, err = domain.IsFollowing(ctxFollower, &model.IsFollowingRequest{TargetID: target.ID})
	require.NoError(t, err)
	require.False(t, isFollowing.Following)

	// Unfollowing an unfollowed pair is a no-op and never drives the
	// counters negative.
	_, err = domain.Unfollow(ctxFollower, &model.UnfollowRequest{TargetID: target.ID})
	require.NoError(t, err)

	gotTarget, err = userProfileRepo.GetByID(ctx, target.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), gotTarget.FollowerCount)

	gotFollower, err = userProfileRepo.GetByID(ctx, follower.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), gotFollower.FollowingCount)
}

func Test_socialGraphDomain_Follow_Failures(t *testing.T) {
	ctx := testutil.NewMockContext()
	user, err := testutil.SampleUserProfile(ctx, nil)
	require.NoError(t, err)

	domain := newSocialGraphDomain()

	// No identity bound.
	_, err = domain.Follow(ctx, &model.FollowRequest{TargetID: user.ID})
	require.True(t, errorx.IsCode(err, errorx.Unauthenticated))

	ctxUser := testutil.NewMockContextWithUserID(ctx, user.ID)

	// Self follow.
	_, err = domain.Follow(ctxUser, &model.FollowRequest{TargetID: user.ID})
	require.True(t, errorx.IsCode(err, errorx.Validation))

	// Nonexistent target.
	_, err = domain.Follow(ctxUser, &model.FollowRequest{TargetID: "no-such-user"})
	require.True(t, errorx.IsCode(err, errorx.InvalidReference))
}

func Test_socialGraphDomain_RecountSocialCounters(t *testing.T) {
	ctx := testutil.NewMockContext()
	user, err := testutil.SampleUserProfile(ctx, nil)
	require.NoError(t, err)

	domain := newSocialGraphDomain()
	userProfileRepo := repository.NewUserProfileRepository()
	followEdgeRepo := repository.NewFollowEdgeRepository()

	// Three active followers and one inactive, written directly to
	// simulate increments lost to concurrent read-modify-writes.
	for _, e := range []entity.FollowEdge{
		{FollowerID: "a", FollowingID: user.ID, IsActive: true},
		{FollowerID: "b", FollowingID: user.ID, IsActive: true},
		{FollowerID: "c", FollowingID: user.ID, IsActive: true},
		{FollowerID: "d", FollowingID: user.ID, IsActive: false},
	} {
		edge := e
		edge.ID = entity.FollowEdgeID(edge.FollowerID, edge.FollowingID)
		require.NoError(t, followEdgeRepo.Save(ctx, &edge))
	}

	// Drift the stored counter away from the authoritative edge count.
	user.FollowerCount = 1
	require.NoError(t, userProfileRepo.Save(ctx, &user))

	resp, err := domain.RecountSocialCounters(ctx, &model.RecountSocialCountersRequest{UserID: user.ID})
	require.NoError(t, err)
	require.Equal(t, int64(3), resp.FollowerCount)
	require.Equal(t, int64(0), resp.FollowingCount)

	got, err := userProfileRepo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(3), got.FollowerCount)
}
