package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cameronsaddress/snapchef-social/internal/entity"
	"github.com/cameronsaddress/snapchef-social/internal/model"
	"github.com/cameronsaddress/snapchef-social/internal/repository"
	"github.com/cameronsaddress/snapchef-social/pkg/errorx"
	"github.com/cameronsaddress/snapchef-social/pkg/testutil"
)

func newTeamDomain(redisClient *testutil.InMemoryRedis) *teamDomain {
	return NewTeamDomain(
		repository.NewTeamRepository(),
		repository.NewChallengeRepository(),
		NewActivityDomain(repository.NewActivityRepository(), redisClient),
	)
}

func Test_teamDomain_CreateAndJoin(t *testing.T) {
	ctx := testutil.NewMockContext()
	challenge, err := testutil.SampleChallenge(ctx, nil)
	require.NoError(t, err)

	domain := newTeamDomain(testutil.NewInMemoryRedis())
	ctxCaptain := testutil.NewMockContextWithUserID(ctx, "captain")

	created, err := domain.CreateTeam(ctxCaptain, &model.CreateTeamRequest{
		Name:        "Sunday Cooks",
		ChallengeID: challenge.ID,
	})
	require.NoError(t, err)
	require.Len(t, created.Team.InviteCode, 6)
	require.Equal(t, []string{"captain"}, created.Team.MemberIDs)
	require.Equal(t, "captain", created.Team.CaptainID)

	// Joining with a wrong code fails.
	ctxMember := testutil.NewMockContextWithUserID(ctx, "member-1")
	_, err = domain.JoinTeam(ctxMember, &model.JoinTeamRequest{InviteCode: "WRONG1"})
	require.True(t, errorx.IsCode(err, errorx.InvalidReference))

	joined, err := domain.JoinTeam(ctxMember, &model.JoinTeamRequest{
		InviteCode: created.Team.InviteCode,
	})
	require.NoError(t, err)
	require.Len(t, joined.Team.MemberIDs, 2)

	// Joining twice is absorbed without duplicating the membership.
	joined, err = domain.JoinTeam(ctxMember, &model.JoinTeamRequest{
		InviteCode: created.Team.InviteCode,
	})
	require.NoError(t, err)
	require.Len(t, joined.Team.MemberIDs, 2)

	// Fill the team up to its capacity of five.
	for i := 2; i <= 4; i++ {
		ctxNext := testutil.NewMockContextWithUserID(ctx, fmt.Sprintf("member-%d", i))
		_, err = domain.JoinTeam(ctxNext, &model.JoinTeamRequest{
			InviteCode: created.Team.InviteCode,
		})
		require.NoError(t, err)
	}

	ctxLate := testutil.NewMockContextWithUserID(ctx, "member-5")
	_, err = domain.JoinTeam(ctxLate, &model.JoinTeamRequest{
		InviteCode: created.Team.InviteCode,
	})
	require.True(t, errorx.IsCode(err, errorx.CapacityExceeded))

	got, err := repository.NewTeamRepository().GetByID(ctx, created.Team.ID)
	require.NoError(t, err)
	require.Len(t, got.MemberIDs, 5)
}

func Test_teamDomain_PointsAndLeaderboard(t *testing.T) {
	ctx := testutil.NewMockContext()
	challenge, err := testutil.SampleChallenge(ctx, nil)
	require.NoError(t, err)

	domain := newTeamDomain(testutil.NewInMemoryRedis())

	// Three teams on the same challenge with distinct scores.
	teamRepo := repository.NewTeamRepository()
	for i, points := range []int64{30, 10, 20} {
		_, err := testutil.SampleTeam(ctx, &entity.Team{
			Base:        entity.Base{ID: fmt.Sprintf("team-%d", i)},
			ChallengeID: challenge.ID,
			CaptainID:   fmt.Sprintf("captain-%d", i),
			MemberIDs:   []string{fmt.Sprintf("captain-%d", i)},
			InviteCode:  fmt.Sprintf("CODE%d", i),
			TotalPoints: points,
		})
		require.NoError(t, err)
	}

	board, err := domain.GetTeamLeaderboard(ctx, &model.GetTeamLeaderboardRequest{
		ChallengeID: challenge.ID,
	})
	require.NoError(t, err)
	require.Len(t, board.Teams, 3)
	require.Equal(t, int64(30), board.Teams[0].TotalPoints)
	require.Equal(t, int64(20), board.Teams[1].TotalPoints)
	require.Equal(t, int64(10), board.Teams[2].TotalPoints)

	// Only members add points.
	ctxStranger := testutil.NewMockContextWithUserID(ctx, "stranger")
	_, err = domain.UpdateTeamPoints(ctxStranger, &model.UpdateTeamPointsRequest{
		TeamID: "team-1",
		Delta:  15,
	})
	require.True(t, errorx.IsCode(err, errorx.PermissionDenied))

	ctxCaptain := testutil.NewMockContextWithUserID(ctx, "captain-1")
	resp, err := domain.UpdateTeamPoints(ctxCaptain, &model.UpdateTeamPointsRequest{
		TeamID: "team-1",
		Delta:  15,
	})
	require.NoError(t, err)
	require.Equal(t, int64(25), resp.TotalPoints)

	got, err := teamRepo.GetByID(ctx, "team-1")
	require.NoError(t, err)
	require.Equal(t, int64(25), got.TotalPoints)
}
