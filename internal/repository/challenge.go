package repository

import (
	"context"
	"time"

	"github.com/cameronsaddress/snapchef-social/internal/entity"
	"github.com/cameronsaddress/snapchef-social/pkg/recordstore"
	"github.com/cameronsaddress/snapchef-social/pkg/xcontext"
)

type ChallengeRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Challenge, error)
	Save(ctx context.Context, challenge *entity.Challenge) error
	// GetActive returns challenges whose window contains now.
	GetActive(ctx context.Context, now time.Time) ([]entity.Challenge, error)
	// GetUpcoming returns challenges starting within the window after now.
	GetUpcoming(ctx context.Context, now time.Time, window time.Duration) ([]entity.Challenge, error)
}

type challengeRepository struct{}

func NewChallengeRepository() *challengeRepository {
	return &challengeRepository{}
}

func (r *challengeRepository) GetByID(ctx context.Context, id string) (*entity.Challenge, error) {
	var result entity.Challenge
	err := xcontext.RecordStore(ctx).Get(ctx, entity.ChallengeRecord, id, &result)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *challengeRepository) Save(ctx context.Context, challenge *entity.Challenge) error {
	challenge.UpdatedAt = entity.Now()
	return xcontext.RecordStore(ctx).Put(ctx, entity.ChallengeRecord, challenge)
}

func (r *challengeRepository) GetActive(ctx context.Context, now time.Time) ([]entity.Challenge, error) {
	nowMilli := now.UTC().UnixMilli()
	var result []entity.Challenge
	err := xcontext.RecordStore(ctx).Query(ctx, entity.ChallengeRecord, recordstore.Query{
		Predicate: recordstore.And(
			recordstore.Lte("start_at", nowMilli),
			recordstore.Gt("end_at", nowMilli),
		),
	}, &result)
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *challengeRepository) GetUpcoming(
	ctx context.Context, now time.Time, window time.Duration,
) ([]entity.Challenge, error) {
	nowMilli := now.UTC().UnixMilli()
	var result []entity.Challenge
	err := xcontext.RecordStore(ctx).Query(ctx, entity.ChallengeRecord, recordstore.Query{
		Predicate: recordstore.And(
			recordstore.Gt("start_at", nowMilli),
			recordstore.Lte("start_at", now.UTC().Add(window).UnixMilli()),
		),
	}, &result)
	if err != nil {
		return nil, err
	}

	return result, nil
}
