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

func Test_activityDomain_CreateAndFetch(t *testing.T) {
	ctx := testutil.NewMockContext()
	domain := NewActivityDomain(repository.NewActivityRepository(), testutil.NewInMemoryRedis())

	// Fan-out three activities with ascending timestamps.
	for i, actor := range []string{"a", "b", "c"} {
		activity := &entity.Activity{
			Type:         entity.ActivityFollow,
			ActorID:      actor,
			TargetUserID: "target",
		}
		domain.CreateActivity(ctx, activity, entity.FollowMetadata{FollowerHandle: actor})

		// Force distinct timestamps regardless of clock resolution.
		activity.Timestamp = int64(1000 + i)
		require.NoError(t, repository.NewActivityRepository().Save(ctx, activity))
	}

	ctxTarget := testutil.NewMockContextWithUserID(ctx, "target")
	resp, err := domain.FetchActivityFeed(ctxTarget, &model.FetchActivityFeedRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Activities, 3)

	// Newest first.
	require.Equal(t, "c", resp.Activities[0].ActorID)
	require.Equal(t, "b", resp.Activities[1].ActorID)
	require.Equal(t, "a", resp.Activities[2].ActorID)

	// The metadata round-trips through the loose map form.
	require.Equal(t, "c", resp.Activities[0].Metadata["follower_handle"])

	// Truncated to the requested limit after the client-side sort.
	resp, err = domain.FetchActivityFeed(ctxTarget, &model.FetchActivityFeedRequest{Limit: 2})
	require.NoError(t, err)
	require.Len(t, resp.Activities, 2)
	require.Equal(t, "c", resp.Activities[0].ActorID)

	// Another user sees nothing.
	ctxOther := testutil.NewMockContextWithUserID(ctx, "other")
	resp, err = domain.FetchActivityFeed(ctxOther, &model.FetchActivityFeedRequest{})
	require.NoError(t, err)
	require.Empty(t, resp.Activities)
}

func Test_activityDomain_MarkAsRead(t *testing.T) {
	ctx := testutil.NewMockContext()
	activityRepo := repository.NewActivityRepository()
	domain := NewActivityDomain(activityRepo, testutil.NewInMemoryRedis())

	activity := &entity.Activity{
		Type:         entity.ActivityRecipeLiked,
		ActorID:      "actor",
		TargetUserID: "target",
	}
	domain.CreateActivity(ctx, activity, entity.RecipeLikedMetadata{RecipeTitle: "Soup"})

	ctxTarget := testutil.NewMockContextWithUserID(ctx, "target")

	_, err := domain.MarkActivityAsRead(ctxTarget, &model.MarkActivityAsReadRequest{
		ActivityID: activity.ID,
	})
	require.NoError(t, err)

	got, err := activityRepo.GetByID(ctx, activity.ID)
	require.NoError(t, err)
	require.True(t, got.IsRead)

	// Marking twice is harmless.
	_, err = domain.MarkActivityAsRead(ctxTarget, &model.MarkActivityAsReadRequest{
		ActivityID: activity.ID,
	})
	require.NoError(t, err)

	// Only the target user may mark it.
	ctxActor := testutil.NewMockContextWithUserID(ctx, "actor")
	_, err = domain.MarkActivityAsRead(ctxActor, &model.MarkActivityAsReadRequest{
		ActivityID: activity.ID,
	})
	require.True(t, errorx.IsCode(err, errorx.PermissionDenied))

	_, err = domain.MarkActivityAsRead(ctxTarget, &model.MarkActivityAsReadRequest{
		ActivityID: "no-such-activity",
	})
	require.True(t, errorx.IsCode(err, errorx.NotFound))
}
