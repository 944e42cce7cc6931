package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pkg/math"

	"github.com/cameronsaddress/snapchef-social/internal/entity"
	"github.com/cameronsaddress/snapchef-social/internal/model"
	"github.com/cameronsaddress/snapchef-social/internal/repository"
	"github.com/cameronsaddress/snapchef-social/pkg/crypto"
	"github.com/cameronsaddress/snapchef-social/pkg/errorx"
	"github.com/cameronsaddress/snapchef-social/pkg/recordstore"
	"github.com/cameronsaddress/snapchef-social/pkg/xcontext"
)

type TeamDomain interface {
	CreateTeam(ctx context.Context, req *model.CreateTeamRequest) (*model.CreateTeamResponse, error)
	JoinTeam(ctx context.Context, req *model.JoinTeamRequest) (*model.JoinTeamResponse, error)
	UpdateTeamPoints(
		ctx context.Context, req *model.UpdateTeamPointsRequest,
	) (*model.UpdateTeamPointsResponse, error)
	GetTeamLeaderboard(
		ctx context.Context, req *model.GetTeamLeaderboardRequest,
	) (*model.GetTeamLeaderboardResponse, error)
}

type teamDomain struct {
	teamRepo       repository.TeamRepository
	challengeRepo  repository.ChallengeRepository
	activityDomain ActivityDomain
}

func NewTeamDomain(
	teamRepo repository.TeamRepository,
	challengeRepo repository.ChallengeRepository,
	activityDomain ActivityDomain,
) *teamDomain {
	return &teamDomain{
		teamRepo:       teamRepo,
		challengeRepo:  challengeRepo,
		activityDomain: activityDomain,
	}
}

func (d *teamDomain) CreateTeam(
	ctx context.Context, req *model.CreateTeamRequest,
) (*model.CreateTeamResponse, error) {
	captainID := xcontext.RequestUserID(ctx)
	if captainID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	if req.Name == "" {
		return nil, errorx.New(errorx.Validation, "Require a team name")
	}

	if req.ChallengeID != "" {
		_, err := d.challengeRepo.GetByID(ctx, req.ChallengeID)
		if err != nil {
			if errors.Is(err, recordstore.ErrNotFound) {
				return nil, errorx.New(errorx.InvalidReference, "Not found challenge")
			}

			xcontext.Logger(ctx).Errorf("Cannot get challenge: %v", err)
			return nil, errorx.Unknown
		}
	}

	cfg := xcontext.Configs(ctx).Team

	// Collisions over a 36^6 code space are rare enough that codes are not
	// deduplicated against existing teams.
	code := crypto.GenerateInviteCode(uint(cfg.InviteCodeLength))

	team := &entity.Team{
		Base: entity.Base{
			ID:        uuid.NewString(),
			CreatedAt: entity.Now(),
		},
		Name:        req.Name,
		Description: req.Description,
		ChallengeID: req.ChallengeID,
		CaptainID:   captainID,
		MemberIDs:   []string{captainID},
		InviteCode:  code,
	}
	if err := d.teamRepo.Save(ctx, team); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save team: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateTeamResponse{Team: model.ConvertTeam(team)}, nil
}

func (d *teamDomain) JoinTeam(
	ctx context.Context, req *model.JoinTeamRequest,
) (*model.JoinTeamResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	if req.InviteCode == "" {
		return nil, errorx.New(errorx.Validation, "Require an invite code")
	}

	team, err := d.teamRepo.GetByInviteCode(ctx, req.InviteCode)
	if err != nil {
		if errors.Is(err, recordstore.ErrNotFound) {
			return nil, errorx.New(errorx.InvalidReference, "Invalid invite code")
		}

		xcontext.Logger(ctx).Errorf("Cannot get team by invite code: %v", err)
		return nil, errorx.Unknown
	}

	// Joining twice is absorbed, not an error.
	if team.HasMember(userID) {
		return &model.JoinTeamResponse{Team: model.ConvertTeam(team)}, nil
	}

	maxMembers := xcontext.Configs(ctx).Team.MaxMembers
	if len(team.MemberIDs) >= maxMembers {
		return nil, errorx.New(errorx.CapacityExceeded, "Team is full")
	}

	team.MemberIDs = append(team.MemberIDs, userID)
	if err := d.teamRepo.Save(ctx, team); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save team member: %v", err)
		return nil, errorx.Unknown
	}

	if team.CaptainID != userID {
		d.activityDomain.CreateActivity(ctx, &entity.Activity{
			Type:         entity.ActivityTeamJoined,
			ActorID:      userID,
			TargetUserID: team.CaptainID,
		}, entity.TeamJoinedMetadata{TeamName: team.Name})
	}

	return &model.JoinTeamResponse{Team: model.ConvertTeam(team)}, nil
}

func (d *teamDomain) UpdateTeamPoints(
	ctx context.Context, req *model.UpdateTeamPointsRequest,
) (*model.UpdateTeamPointsResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	team, err := d.teamRepo.GetByID(ctx, req.TeamID)
	if err != nil {
		if errors.Is(err, recordstore.ErrNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found team")
		}

		xcontext.Logger(ctx).Errorf("Cannot get team: %v", err)
		return nil, errorx.Unknown
	}

	if !team.HasMember(userID) {
		return nil, errorx.New(errorx.PermissionDenied, "Only members can add team points")
	}

	team.TotalPoints = math.MaxInt64(0, team.TotalPoints+req.Delta)
	if err := d.teamRepo.Save(ctx, team); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save team points: %v", err)
		return nil, errorx.Unknown
	}

	// Member notification is best-effort relative to the point write.
	for _, memberID := range team.MemberIDs {
		if memberID == userID {
			continue
		}

		d.activityDomain.CreateActivity(ctx, &entity.Activity{
			Type:         entity.ActivityTeamPoints,
			ActorID:      userID,
			TargetUserID: memberID,
		}, entity.TeamPointsMetadata{TeamName: team.Name, Delta: req.Delta})
	}

	return &model.UpdateTeamPointsResponse{TotalPoints: team.TotalPoints}, nil
}

func (d *teamDomain) GetTeamLeaderboard(
	ctx context.Context, req *model.GetTeamLeaderboardRequest,
) (*model.GetTeamLeaderboardResponse, error) {
	if req.ChallengeID == "" {
		return nil, errorx.New(errorx.Validation, "Require a challenge id")
	}

	limit := xcontext.Configs(ctx).Team.LeaderboardLimit
	teams, err := d.teamRepo.GetByChallengeID(ctx, req.ChallengeID, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get teams of challenge: %v", err)
		return nil, errorx.Unknown
	}

	result := make([]model.Team, 0, len(teams))
	for i := range teams {
		result = append(result, model.ConvertTeam(&teams[i]))
	}

	return &model.GetTeamLeaderboardResponse{Teams: result}, nil
}
