package repository

import (
	"context"

	"github.com/cameronsaddress/snapchef-social/internal/entity"
	"github.com/cameronsaddress/snapchef-social/pkg/recordstore"
	"github.com/cameronsaddress/snapchef-social/pkg/xcontext"
)

type TeamRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Team, error)
	Save(ctx context.Context, team *entity.Team) error
	GetByInviteCode(ctx context.Context, code string) (*entity.Team, error)
	GetByChallengeID(ctx context.Context, challengeID string, limit int) ([]entity.Team, error)
}

type teamRepository struct{}

func NewTeamRepository() *teamRepository {
	return &teamRepository{}
}

func (r *teamRepository) GetByID(ctx context.Context, id string) (*entity.Team, error) {
	var result entity.Team
	err := xcontext.RecordStore(ctx).Get(ctx, entity.TeamRecord, id, &result)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *teamRepository) Save(ctx context.Context, team *entity.Team) error {
	team.UpdatedAt = entity.Now()
	return xcontext.RecordStore(ctx).Put(ctx, entity.TeamRecord, team)
}

func (r *teamRepository) GetByInviteCode(ctx context.Context, code string) (*entity.Team, error) {
	var result []entity.Team
	err := xcontext.RecordStore(ctx).Query(ctx, entity.TeamRecord, recordstore.Query{
		Predicate: recordstore.Eq("invite_code", code),
		Limit:     1,
	}, &result)
	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, recordstore.ErrNotFound
	}

	return &result[0], nil
}

func (r *teamRepository) GetByChallengeID(
	ctx context.Context, challengeID string, limit int,
) ([]entity.Team, error) {
	var result []entity.Team
	err := xcontext.RecordStore(ctx).Query(ctx, entity.TeamRecord, recordstore.Query{
		Predicate: recordstore.Eq("challenge_id", challengeID),
		Sort:      &recordstore.Sort{Field: "total_points", Descending: true},
		Limit:     limit,
	}, &result)
	if err != nil {
		return nil, err
	}

	return result, nil
}
