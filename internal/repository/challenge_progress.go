package repository

import (
	"context"

	"github.com/cameronsaddress/snapchef-social/internal/entity"
	"github.com/cameronsaddress/snapchef-social/pkg/recordstore"
	"github.com/cameronsaddress/snapchef-social/pkg/xcontext"
)

type ChallengeProgressRepository interface {
	Get(ctx context.Context, userID, challengeID string) (*entity.ChallengeProgress, error)
	Save(ctx context.Context, progress *entity.ChallengeProgress) error
	GetByUser(ctx context.Context, userID string) ([]entity.ChallengeProgress, error)
	CountCompleted(ctx context.Context, challengeID string) (int64, error)
	CountParticipants(ctx context.Context, challengeID string) (int64, error)
}

type challengeProgressRepository struct{}

func NewChallengeProgressRepository() *challengeProgressRepository {
	return &challengeProgressRepository{}
}

func (r *challengeProgressRepository) Get(
	ctx context.Context, userID, challengeID string,
) (*entity.ChallengeProgress, error) {
	var result entity.ChallengeProgress
	id := entity.ChallengeProgressID(userID, challengeID)
	err := xcontext.RecordStore(ctx).Get(ctx, entity.ChallengeProgressRecord, id, &result)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *challengeProgressRepository) Save(ctx context.Context, progress *entity.ChallengeProgress) error {
	progress.UpdatedAt = entity.Now()
	return xcontext.RecordStore(ctx).Put(ctx, entity.ChallengeProgressRecord, progress)
}

func (r *challengeProgressRepository) GetByUser(
	ctx context.Context, userID string,
) ([]entity.ChallengeProgress, error) {
	var result []entity.ChallengeProgress
	err := xcontext.RecordStore(ctx).Query(ctx, entity.ChallengeProgressRecord, recordstore.Query{
		Predicate: recordstore.Eq("user_id", userID),
	}, &result)
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *challengeProgressRepository) CountCompleted(ctx context.Context, challengeID string) (int64, error) {
	return xcontext.RecordStore(ctx).Count(ctx, entity.ChallengeProgressRecord, recordstore.And(
		recordstore.Eq("challenge_id", challengeID),
		recordstore.Eq("status", string(entity.ProgressCompleted)),
	))
}

func (r *challengeProgressRepository) CountParticipants(ctx context.Context, challengeID string) (int64, error) {
	return xcontext.RecordStore(ctx).Count(ctx, entity.ChallengeProgressRecord,
		recordstore.Eq("challenge_id", challengeID))
}
