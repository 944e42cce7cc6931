package domain

import (
	"context"
	"errors"

	"github.com/pkg/math"

	"github.com/cameronsaddress/snapchef-social/internal/entity"
	"github.com/cameronsaddress/snapchef-social/internal/model"
	"github.com/cameronsaddress/snapchef-social/internal/repository"
	"github.com/cameronsaddress/snapchef-social/pkg/errorx"
	"github.com/cameronsaddress/snapchef-social/pkg/recordstore"
	"github.com/cameronsaddress/snapchef-social/pkg/xcontext"
)

type SocialGraphDomain interface {
	Follow(ctx context.Context, req *model.FollowRequest) (*model.FollowResponse, error)
	Unfollow(ctx context.Context, req *model.UnfollowRequest) (*model.UnfollowResponse, error)
	IsFollowing(ctx context.Context, req *model.IsFollowingRequest) (*model.IsFollowingResponse, error)
	RecountSocialCounters(
		ctx context.Context, req *model.RecountSocialCountersRequest,
	) (*model.RecountSocialCountersResponse, error)
}

type socialGraphDomain struct {
	userProfileRepo repository.UserProfileRepository
	followEdgeRepo  repository.FollowEdgeRepository
	activityDomain  ActivityDomain
}

func NewSocialGraphDomain(
	userProfileRepo repository.UserProfileRepository,
	followEdgeRepo repository.FollowEdgeRepository,
	activityDomain ActivityDomain,
) *socialGraphDomain {
	return &socialGraphDomain{
		userProfileRepo: userProfileRepo,
		followEdgeRepo:  followEdgeRepo,
		activityDomain:  activityDomain,
	}
}

func (d *socialGraphDomain) Follow(
	ctx context.Context, req *model.FollowRequest,
) (*model.FollowResponse, error) {
	followerID := xcontext.RequestUserID(ctx)
	if followerID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	if req.TargetID == "" {
		return nil, errorx.New(errorx.Validation, "Require a target user id")
	}

	if req.TargetID == followerID {
		return nil, errorx.New(errorx.Validation, "Cannot follow yourself")
	}

	target, err := d.userProfileRepo.GetByID(ctx, req.TargetID)
	if err != nil {
		if errors.Is(err, recordstore.ErrNotFound) {
			return nil, errorx.New(errorx.InvalidReference, "Not found target user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get target profile: %v", err)
		return nil, errorx.Unknown
	}

	edge, err := d.followEdgeRepo.Get(ctx, followerID, req.TargetID)
	if err != nil && !errors.Is(err, recordstore.ErrNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get follow edge: %v", err)
		return nil, errorx.Unknown
	}

	// An active edge means a retried or duplicated call. Absorb it without
	// touching the counters a second time.
	if edge != nil && edge.IsActive {
		return &model.FollowResponse{}, nil
	}

	if edge == nil {
		edge = &entity.FollowEdge{
			ID:          entity.FollowEdgeID(followerID, req.TargetID),
			FollowerID:  followerID,
			FollowingID: req.TargetID,
		}
	}

	edge.IsActive = true
	edge.FollowedAt = entity.Now()
	if err := d.followEdgeRepo.Save(ctx, edge); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save follow edge: %v", err)
		return nil, errorx.Unknown
	}

	target.FollowerCount++
	if err := d.userProfileRepo.Save(ctx, target); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save target profile: %v", err)
		return nil, errorx.Unknown
	}

	follower, err := d.userProfileRepo.GetByID(ctx, followerID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get follower profile: %v", err)
		return nil, errorx.Unknown
	}

	follower.FollowingCount++
	if err := d.userProfileRepo.Save(ctx, follower); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save follower profile: %v", err)
		return nil, errorx.Unknown
	}

	d.activityDomain.CreateActivity(ctx, &entity.Activity{
		Type:         entity.ActivityFollow,
		ActorID:      followerID,
		TargetUserID: req.TargetID,
	}, entity.FollowMetadata{FollowerHandle: follower.Handle})

	return &model.FollowResponse{}, nil
}

func (d *socialGraphDomain) Unfollow(
	ctx context.Context, req *model.UnfollowRequest,
) (*model.UnfollowResponse, error) {
	followerID := xcontext.RequestUserID(ctx)
	if followerID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	if req.TargetID == "" {
		return nil, errorx.New(errorx.Validation, "Require a target user id")
	}

	// Retried follow writes can leave more than one active edge for the
	// pair; deactivate them all but decrement the counters only once.
	edges, err := d.followEdgeRepo.GetActivePair(ctx, followerID, req.TargetID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get active follow edges: %v", err)
		return nil, errorx.Unknown
	}

	if len(edges) == 0 {
		return &model.UnfollowResponse{}, nil
	}

	for i := range edges {
		edges[i].IsActive = false
		if err := d.followEdgeRepo.Save(ctx, &edges[i]); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot deactivate follow edge: %v", err)
			return nil, errorx.Unknown
		}
	}

	target, err := d.userProfileRepo.GetByID(ctx, req.TargetID)
	if err == nil {
		target.FollowerCount = math.MaxInt64(0, target.FollowerCount-1)
		if err := d.userProfileRepo.Save(ctx, target); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot save target profile: %v", err)
			return nil, errorx.Unknown
		}
	} else if !errors.Is(err, recordstore.ErrNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get target profile: %v", err)
		return nil, errorx.Unknown
	}

	follower, err := d.userProfileRepo.GetByID(ctx, followerID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get follower profile: %v", err)
		return nil, errorx.Unknown
	}

	follower.FollowingCount = math.MaxInt64(0, follower.FollowingCount-1)
	if err := d.userProfileRepo.Save(ctx, follower); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save follower profile: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UnfollowResponse{}, nil
}

func (d *socialGraphDomain) IsFollowing(
	ctx context.Context, req *model.IsFollowingRequest,
) (*model.IsFollowingResponse, error) {
	followerID := xcontext.RequestUserID(ctx)
	if followerID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	edge, err := d.followEdgeRepo.Get(ctx, followerID, req.TargetID)
	if err != nil {
		if errors.Is(err, recordstore.ErrNotFound) {
			return &model.IsFollowingResponse{Following: false}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get follow edge: %v", err)
		return nil, errorx.Unknown
	}

	return &model.IsFollowingResponse{Following: edge.IsActive}, nil
}

func (d *socialGraphDomain) RecountSocialCounters(
	ctx context.Context, req *model.RecountSocialCountersRequest,
) (*model.RecountSocialCountersResponse, error) {
	userID := req.UserID
	if userID == "" {
		userID = xcontext.RequestUserID(ctx)
	}

	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	profile, err := d.userProfileRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, recordstore.ErrNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get profile: %v", err)
		return nil, errorx.Unknown
	}

	followers, err := d.followEdgeRepo.CountActiveFollowers(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count followers: %v", err)
		return nil, errorx.Unknown
	}

	following, err := d.followEdgeRepo.CountActiveFollowing(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count following: %v", err)
		return nil, errorx.Unknown
	}

	// The authoritative edge count overwrites whatever drift the
	// non-atomic increments accumulated.
	profile.FollowerCount = followers
	profile.FollowingCount = following
	if err := d.userProfileRepo.Save(ctx, profile); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save recounted profile: %v", err)
		return nil, errorx.Unknown
	}

	return &model.RecountSocialCountersResponse{
		FollowerCount:  followers,
		FollowingCount: following,
	}, nil
}
