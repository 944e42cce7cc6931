package domain

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/cameronsaddress/snapchef-social/internal/entity"
	"github.com/cameronsaddress/snapchef-social/internal/model"
	"github.com/cameronsaddress/snapchef-social/internal/repository"
	"github.com/cameronsaddress/snapchef-social/pkg/errorx"
	"github.com/cameronsaddress/snapchef-social/pkg/recordstore"
	"github.com/cameronsaddress/snapchef-social/pkg/xcontext"
	"github.com/cameronsaddress/snapchef-social/pkg/xredis"
)

type ActivityDomain interface {
	// CreateActivity writes a fan-out record for the target user. It is
	// best-effort relative to the action that triggered it: failures are
	// logged and swallowed so the primary write never rolls back on a
	// broken fan-out.
	CreateActivity(ctx context.Context, activity *entity.Activity, meta entity.ActivityMetadata)

	FetchActivityFeed(
		ctx context.Context, req *model.FetchActivityFeedRequest,
	) (*model.FetchActivityFeedResponse, error)

	MarkActivityAsRead(
		ctx context.Context, req *model.MarkActivityAsReadRequest,
	) (*model.MarkActivityAsReadResponse, error)
}

type activityDomain struct {
	activityRepo repository.ActivityRepository
	redisClient  xredis.Client
}

func NewActivityDomain(
	activityRepo repository.ActivityRepository,
	redisClient xredis.Client,
) *activityDomain {
	return &activityDomain{activityRepo: activityRepo, redisClient: redisClient}
}

func redisKeyActivityFeed(userID string) string {
	return fmt.Sprintf("activity_feed:%s", userID)
}

func (d *activityDomain) CreateActivity(
	ctx context.Context, activity *entity.Activity, meta entity.ActivityMetadata,
) {
	if activity.TargetUserID == "" {
		return
	}

	encoded, err := entity.EncodeActivityMetadata(meta)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot encode activity metadata: %v", err)
		return
	}

	activity.ID = entity.NewActivityID()
	activity.Timestamp = entity.Now()
	activity.Metadata = encoded

	if err := d.activityRepo.Save(ctx, activity); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot save activity: %v", err)
		return
	}

	if err := d.redisClient.Del(ctx, redisKeyActivityFeed(activity.TargetUserID)); err != nil {
		xcontext.Logger(ctx).Debugf("Cannot invalidate activity feed cache: %v", err)
	}
}

func (d *activityDomain) FetchActivityFeed(
	ctx context.Context, req *model.FetchActivityFeedRequest,
) (*model.FetchActivityFeedResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	cfg := xcontext.Configs(ctx).Activity
	limit := req.Limit
	if limit <= 0 {
		limit = cfg.DefaultLimit
	}

	if cfg.MaxLimit > 0 && limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}

	// The store cannot sort this record type reliably, so fetch a bounded
	// overscan, sort client-side, then truncate. The overscan narrows,
	// without eliminating, the window where truly-recent items are cut by
	// the unsorted fetch.
	activities, err := d.activityRepo.GetByTargetUser(ctx, userID, limit*2)
	if err != nil {
		if errors.Is(err, recordstore.ErrNotFound) {
			return &model.FetchActivityFeedResponse{Activities: []model.Activity{}}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot fetch activities: %v", err)
		return d.fetchActivityFeedFromCache(ctx, userID)
	}

	sort.Slice(activities, func(i, j int) bool {
		if activities[i].Timestamp != activities[j].Timestamp {
			return activities[i].Timestamp > activities[j].Timestamp
		}

		// Snowflake ids order by creation time within the same millisecond.
		return activities[i].ID > activities[j].ID
	})

	if len(activities) > limit {
		activities = activities[:limit]
	}

	result := make([]model.Activity, 0, len(activities))
	for i := range activities {
		result = append(result, model.ConvertActivity(&activities[i]))
	}

	ttl := xcontext.Configs(ctx).Feed.CacheTTL
	err = d.redisClient.SetObj(ctx, redisKeyActivityFeed(userID), result, ttl)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot cache activity feed: %v", err)
	}

	return &model.FetchActivityFeedResponse{Activities: result}, nil
}

func (d *activityDomain) fetchActivityFeedFromCache(
	ctx context.Context, userID string,
) (*model.FetchActivityFeedResponse, error) {
	var cached []model.Activity
	err := d.redisClient.GetObj(ctx, redisKeyActivityFeed(userID), &cached)
	if err != nil {
		return nil, errorx.New(errorx.Unavailable, "Activity feed is unavailable")
	}

	return &model.FetchActivityFeedResponse{Activities: cached}, nil
}

func (d *activityDomain) MarkActivityAsRead(
	ctx context.Context, req *model.MarkActivityAsReadRequest,
) (*model.MarkActivityAsReadResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	if req.ActivityID == "" {
		return nil, errorx.New(errorx.Validation, "Require an activity id")
	}

	activity, err := d.activityRepo.GetByID(ctx, req.ActivityID)
	if err != nil {
		if errors.Is(err, recordstore.ErrNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found activity")
		}

		xcontext.Logger(ctx).Errorf("Cannot get activity: %v", err)
		return nil, errorx.Unknown
	}

	if activity.TargetUserID != userID {
		return nil, errorx.New(errorx.PermissionDenied, "Cannot mark another user's activity")
	}

	// Setting the flag twice is harmless, skip the write anyway.
	if activity.IsRead {
		return &model.MarkActivityAsReadResponse{}, nil
	}

	activity.IsRead = true
	if err := d.activityRepo.Save(ctx, activity); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save activity: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.redisClient.Del(ctx, redisKeyActivityFeed(userID)); err != nil {
		xcontext.Logger(ctx).Debugf("Cannot invalidate activity feed cache: %v", err)
	}

	return &model.MarkActivityAsReadResponse{}, nil
}
