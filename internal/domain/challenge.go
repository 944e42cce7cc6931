package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cameronsaddress/snapchef-social/internal/domain/statistic"
	"github.com/cameronsaddress/snapchef-social/internal/entity"
	"github.com/cameronsaddress/snapchef-social/internal/model"
	"github.com/cameronsaddress/snapchef-social/internal/repository"
	"github.com/cameronsaddress/snapchef-social/pkg/errorx"
	"github.com/cameronsaddress/snapchef-social/pkg/recordstore"
	"github.com/cameronsaddress/snapchef-social/pkg/storage"
	"github.com/cameronsaddress/snapchef-social/pkg/xcontext"
	"github.com/cameronsaddress/snapchef-social/pkg/xredis"
)

const redisKeyChallengeWindows = "challenges:windows"

type ChallengeDomain interface {
	UpdateProgress(ctx context.Context, req *model.UpdateProgressRequest) (*model.UpdateProgressResponse, error)
	SubmitProof(
		ctx context.Context, req *model.SubmitChallengeProofRequest,
	) (*model.SubmitChallengeProofResponse, error)
	SyncChallenges(ctx context.Context, req *model.SyncChallengesRequest) (*model.SyncChallengesResponse, error)

	// RegisterChangeSubscription asks the record store to push challenge
	// changes so the synced window list stays fresh. The store may not
	// support subscriptions everywhere; a failed registration degrades to
	// TTL-based refresh and is not an error.
	RegisterChangeSubscription(ctx context.Context)
}

type challengeDomain struct {
	challengeRepo   repository.ChallengeRepository
	progressRepo    repository.ChallengeProgressRepository
	userProfileRepo repository.UserProfileRepository
	leaderboard     statistic.Leaderboard
	activityDomain  ActivityDomain
	storage         storage.Storage
	redisClient     xredis.Client
}

func NewChallengeDomain(
	challengeRepo repository.ChallengeRepository,
	progressRepo repository.ChallengeProgressRepository,
	userProfileRepo repository.UserProfileRepository,
	leaderboard statistic.Leaderboard,
	activityDomain ActivityDomain,
	s storage.Storage,
	redisClient xredis.Client,
) *challengeDomain {
	return &challengeDomain{
		challengeRepo:   challengeRepo,
		progressRepo:    progressRepo,
		userProfileRepo: userProfileRepo,
		leaderboard:     leaderboard,
		activityDomain:  activityDomain,
		storage:         s,
		redisClient:     redisClient,
	}
}

func (d *challengeDomain) UpdateProgress(
	ctx context.Context, req *model.UpdateProgressRequest,
) (*model.UpdateProgressResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	if req.Progress < 0 || req.Progress > 1 {
		return nil, errorx.New(errorx.Validation, "Progress must be in [0, 1]")
	}

	challenge, err := d.challengeRepo.GetByID(ctx, req.ChallengeID)
	if err != nil {
		if errors.Is(err, recordstore.ErrNotFound) {
			return nil, errorx.New(errorx.InvalidReference, "Not found challenge")
		}

		xcontext.Logger(ctx).Errorf("Cannot get challenge: %v", err)
		return nil, errorx.Unknown
	}

	progress, err := d.findOrCreateProgress(ctx, userID, challenge)
	if err != nil {
		return nil, err
	}

	// Completion is monotonic. A retried write with progress >= 1 must not
	// re-award points or bump the completion count.
	if progress.Status == entity.ProgressCompleted {
		return &model.UpdateProgressResponse{
			Progress: model.ConvertChallengeProgress(progress),
		}, nil
	}

	if req.Progress > progress.Progress {
		progress.Progress = req.Progress
	}

	if progress.Progress >= 1 {
		if err := d.complete(ctx, challenge, progress); err != nil {
			return nil, err
		}
	} else if err := d.progressRepo.Save(ctx, progress); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save progress: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateProgressResponse{
		Progress: model.ConvertChallengeProgress(progress),
	}, nil
}

func (d *challengeDomain) SubmitProof(
	ctx context.Context, req *model.SubmitChallengeProofRequest,
) (*model.SubmitChallengeProofResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	if len(req.Data) == 0 || req.FileName == "" {
		return nil, errorx.New(errorx.Validation, "Require a proof asset")
	}

	challenge, err := d.challengeRepo.GetByID(ctx, req.ChallengeID)
	if err != nil {
		if errors.Is(err, recordstore.ErrNotFound) {
			return nil, errorx.New(errorx.InvalidReference, "Not found challenge")
		}

		xcontext.Logger(ctx).Errorf("Cannot get challenge: %v", err)
		return nil, errorx.Unknown
	}

	cfg := xcontext.Configs(ctx).Storage
	uploaded, err := d.storage.Upload(ctx, &storage.UploadObject{
		Bucket:   cfg.Bucket,
		Prefix:   fmt.Sprintf("challenge-proofs/%s/%s", challenge.ID, userID),
		FileName: req.FileName,
		Mime:     req.Mime,
		Data:     req.Data,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upload proof: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Cannot upload proof asset")
	}

	progress, err := d.findOrCreateProgress(ctx, userID, challenge)
	if err != nil {
		return nil, err
	}

	progress.ProofURL = uploaded.Url
	progress.ProofNotes = req.Notes

	if progress.Status == entity.ProgressCompleted {
		// Completion already happened, just attach the newer proof.
		if err := d.progressRepo.Save(ctx, progress); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot save proof: %v", err)
			return nil, errorx.Unknown
		}

		return &model.SubmitChallengeProofResponse{
			Progress: model.ConvertChallengeProgress(progress),
		}, nil
	}

	progress.Progress = 1
	if err := d.complete(ctx, challenge, progress); err != nil {
		return nil, err
	}

	return &model.SubmitChallengeProofResponse{
		Progress: model.ConvertChallengeProgress(progress),
	}, nil
}

func (d *challengeDomain) SyncChallenges(
	ctx context.Context, req *model.SyncChallengesRequest,
) (*model.SyncChallengesResponse, error) {
	now := time.Now()
	window := xcontext.Configs(ctx).Challenge.UpcomingWindow

	active, err := d.challengeRepo.GetActive(ctx, now)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get active challenges: %v", err)
		return d.syncChallengesFromCache(ctx)
	}

	upcoming, err := d.challengeRepo.GetUpcoming(ctx, now, window)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get upcoming challenges: %v", err)
		return d.syncChallengesFromCache(ctx)
	}

	challenges := make([]model.Challenge, 0, len(active)+len(upcoming))
	for i := range active {
		challenges = append(challenges, model.ConvertChallenge(&active[i]))
	}
	for i := range upcoming {
		challenges = append(challenges, model.ConvertChallenge(&upcoming[i]))
	}

	ttl := xcontext.Configs(ctx).Feed.CacheTTL
	if err := d.redisClient.SetObj(ctx, redisKeyChallengeWindows, challenges, ttl); err != nil {
		xcontext.Logger(ctx).Debugf("Cannot cache challenge windows: %v", err)
	}

	return &model.SyncChallengesResponse{Challenges: challenges}, nil
}

func (d *challengeDomain) syncChallengesFromCache(ctx context.Context) (*model.SyncChallengesResponse, error) {
	var cached []model.Challenge
	if err := d.redisClient.GetObj(ctx, redisKeyChallengeWindows, &cached); err != nil {
		return nil, errorx.New(errorx.Unavailable, "Challenges are unavailable")
	}

	return &model.SyncChallengesResponse{Challenges: cached}, nil
}

func (d *challengeDomain) RegisterChangeSubscription(ctx context.Context) {
	err := xcontext.RecordStore(ctx).Subscribe(ctx, entity.ChallengeRecord,
		func(ctx context.Context, change recordstore.Change) {
			// Delivery is at-least-once and carries only id and kind.
			// Dropping the cached windows forces a re-fetch on next sync.
			if err := d.redisClient.Del(ctx, redisKeyChallengeWindows); err != nil {
				xcontext.Logger(ctx).Debugf("Cannot invalidate challenge cache: %v", err)
			}
		})
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot subscribe to challenge changes: %v", err)
	}
}

func (d *challengeDomain) findOrCreateProgress(
	ctx context.Context, userID string, challenge *entity.Challenge,
) (*entity.ChallengeProgress, error) {
	progress, err := d.progressRepo.Get(ctx, userID, challenge.ID)
	if err == nil {
		return progress, nil
	}

	if !errors.Is(err, recordstore.ErrNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get progress: %v", err)
		return nil, errorx.Unknown
	}

	progress = &entity.ChallengeProgress{
		ID:          entity.ChallengeProgressID(userID, challenge.ID),
		UserID:      userID,
		ChallengeID: challenge.ID,
		Status:      entity.ProgressInProgress,
		StartedAt:   entity.Now(),
	}
	if err := d.progressRepo.Save(ctx, progress); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save new progress: %v", err)
		return nil, errorx.Unknown
	}

	challenge.ParticipantCount++
	if err := d.challengeRepo.Save(ctx, challenge); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save participant count: %v", err)
		return nil, errorx.Unknown
	}

	return progress, nil
}

func (d *challengeDomain) complete(
	ctx context.Context, challenge *entity.Challenge, progress *entity.ChallengeProgress,
) error {
	now := time.Now()

	progress.Status = entity.ProgressCompleted
	progress.CompletedAt = now.UTC().UnixMilli()
	progress.EarnedPoints = challenge.Points
	progress.EarnedCoins = challenge.Coins
	if err := d.progressRepo.Save(ctx, progress); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save completed progress: %v", err)
		return errorx.Unknown
	}

	challenge.CompletionCount++
	if err := d.challengeRepo.Save(ctx, challenge); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save completion count: %v", err)
		return errorx.Unknown
	}

	profile, err := d.userProfileRepo.GetByID(ctx, progress.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get profile for award: %v", err)
		return errorx.Unknown
	}

	profile.Points += challenge.Points
	profile.CoinBalance += challenge.Coins
	if err := d.userProfileRepo.Save(ctx, profile); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save awarded profile: %v", err)
		return errorx.Unknown
	}

	// The leaderboard is a derived view; a failed board update heals on
	// the next reconciliation and must not fail the completion.
	if err := d.leaderboard.AwardPoints(ctx, progress.UserID, challenge.Points, now); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot award leaderboard points: %v", err)
	}

	d.activityDomain.CreateActivity(ctx, &entity.Activity{
		Type:         entity.ActivityChallengeCompleted,
		ActorID:      progress.UserID,
		TargetUserID: progress.UserID,
		ChallengeID:  challenge.ID,
	}, entity.ChallengeCompletedMetadata{
		ChallengeTitle: challenge.Title,
		EarnedPoints:   challenge.Points,
	})

	return nil
}
