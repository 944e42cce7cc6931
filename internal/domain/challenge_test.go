package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cameronsaddress/snapchef-social/internal/domain/statistic"
	"github.com/cameronsaddress/snapchef-social/internal/entity"
	"github.com/cameronsaddress/snapchef-social/internal/model"
	"github.com/cameronsaddress/snapchef-social/internal/repository"
	"github.com/cameronsaddress/snapchef-social/pkg/errorx"
	"github.com/cameronsaddress/snapchef-social/pkg/testutil"
)

func newChallengeDomain(redisClient *testutil.InMemoryRedis) *challengeDomain {
	return NewChallengeDomain(
		repository.NewChallengeRepository(),
		repository.NewChallengeProgressRepository(),
		repository.NewUserProfileRepository(),
		statistic.New(
			repository.NewLeaderboardRepository(),
			repository.NewUserProfileRepository(),
			redisClient,
		),
		NewActivityDomain(repository.NewActivityRepository(), redisClient),
		&testutil.MockStorage{},
		redisClient,
	)
}

func Test_challengeDomain_UpdateProgress(t *testing.T) {
	ctx := testutil.NewMockContext()
	user, err := testutil.SampleUserProfile(ctx, nil)
	require.NoError(t, err)
	challenge, err := testutil.SampleChallenge(ctx, &entity.Challenge{Points: 100, Coins: 10})
	require.NoError(t, err)

	domain := newChallengeDomain(testutil.NewInMemoryRedis())
	challengeRepo := repository.NewChallengeRepository()
	userProfileRepo := repository.NewUserProfileRepository()
	ctxUser := testutil.NewMockContextWithUserID(ctx, user.ID)

	// The first touch registers the user as a participant.
	resp, err := domain.UpdateProgress(ctxUser, &model.UpdateProgressRequest{
		ChallengeID: challenge.ID,
		Progress:    0.4,
	})
	require.NoError(t, err)
	require.Equal(t, string(entity.ProgressInProgress), resp.Progress.Status)
	require.Equal(t, 0.4, resp.Progress.Progress)

	got, err := challengeRepo.GetByID(ctx, challenge.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), got.ParticipantCount)
	require.Equal(t, int64(0), got.CompletionCount)

	// Completion awards the challenge's points and coins.
	resp, err = domain.UpdateProgress(ctxUser, &model.UpdateProgressRequest{
		ChallengeID: challenge.ID,
		Progress:    1,
	})
	require.NoError(t, err)
	require.Equal(t, string(entity.ProgressCompleted), resp.Progress.Status)
	require.Equal(t, int64(100), resp.Progress.EarnedPoints)
	require.Equal(t, int64(10), resp.Progress.EarnedCoins)

	got, err = challengeRepo.GetByID(ctx, challenge.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), got.CompletionCount)
	require.Equal(t, int64(1), got.ParticipantCount)

	profile, err := userProfileRepo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(100), profile.Points)
	require.Equal(t, int64(10), profile.CoinBalance)

	// Completion is monotonic: a retried write must not double-award.
	resp, err = domain.UpdateProgress(ctxUser, &model.UpdateProgressRequest{
		ChallengeID: challenge.ID,
		Progress:    1,
	})
	require.NoError(t, err)
	require.Equal(t, string(entity.ProgressCompleted), resp.Progress.Status)

	got, err = challengeRepo.GetByID(ctx, challenge.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), got.CompletionCount)

	profile, err = userProfileRepo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(100), profile.Points)

	// Out-of-range progress is rejected.
	_, err = domain.UpdateProgress(ctxUser, &model.UpdateProgressRequest{
		ChallengeID: challenge.ID,
		Progress:    1.5,
	})
	require.True(t, errorx.IsCode(err, errorx.Validation))

	// Unknown challenge.
	_, err = domain.UpdateProgress(ctxUser, &model.UpdateProgressRequest{
		ChallengeID: "no-such-challenge",
		Progress:    0.5,
	})
	require.True(t, errorx.IsCode(err, errorx.InvalidReference))
}

func Test_challengeDomain_SubmitProof(t *testing.T) {
	ctx := testutil.NewMockContext()
	user, err := testutil.SampleUserProfile(ctx, nil)
	require.NoError(t, err)
	challenge, err := testutil.SampleChallenge(ctx, &entity.Challenge{Points: 50})
	require.NoError(t, err)

	domain := newChallengeDomain(testutil.NewInMemoryRedis())
	progressRepo := repository.NewChallengeProgressRepository()
	ctxUser := testutil.NewMockContextWithUserID(ctx, user.ID)

	resp, err := domain.SubmitProof(ctxUser, &model.SubmitChallengeProofRequest{
		ChallengeID: challenge.ID,
		FileName:    "proof.jpg",
		Mime:        "image/jpeg",
		Data:        []byte("fake-image"),
		Notes:       "made it on sunday",
	})
	require.NoError(t, err)
	require.Equal(t, string(entity.ProgressCompleted), resp.Progress.Status)
	require.NotEmpty(t, resp.Progress.ProofURL)

	progress, err := progressRepo.Get(ctx, user.ID, challenge.ID)
	require.NoError(t, err)
	require.Equal(t, 1.0, progress.Progress)
	require.Equal(t, "made it on sunday", progress.ProofNotes)
	require.Equal(t, int64(50), progress.EarnedPoints)

	// A second submission replaces the proof without re-awarding.
	resp, err = domain.SubmitProof(ctxUser, &model.SubmitChallengeProofRequest{
		ChallengeID: challenge.ID,
		FileName:    "better-proof.jpg",
		Mime:        "image/jpeg",
		Data:        []byte("better-image"),
	})
	require.NoError(t, err)

	got, err := repository.NewChallengeRepository().GetByID(ctx, challenge.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), got.CompletionCount)

	// A proof without an asset is rejected.
	_, err = domain.SubmitProof(ctxUser, &model.SubmitChallengeProofRequest{
		ChallengeID: challenge.ID,
	})
	require.True(t, errorx.IsCode(err, errorx.Validation))
}

func Test_challengeDomain_SyncChallenges(t *testing.T) {
	ctx := testutil.NewMockContext()
	now := time.Now().UTC().UnixMilli()
	day := int64(24 * 60 * 60 * 1000)

	// One active window, one starting within seven days, one far in the
	// future, one already over.
	active, err := testutil.SampleChallenge(ctx, &entity.Challenge{
		StartAt: now - day, EndAt: now + day,
	})
	require.NoError(t, err)
	upcoming, err := testutil.SampleChallenge(ctx, &entity.Challenge{
		StartAt: now + 2*day, EndAt: now + 9*day,
	})
	require.NoError(t, err)
	_, err = testutil.SampleChallenge(ctx, &entity.Challenge{
		StartAt: now + 30*day, EndAt: now + 37*day,
	})
	require.NoError(t, err)
	_, err = testutil.SampleChallenge(ctx, &entity.Challenge{
		StartAt: now - 9*day, EndAt: now - 2*day,
	})
	require.NoError(t, err)

	redisClient := testutil.NewInMemoryRedis()
	domain := newChallengeDomain(redisClient)

	resp, err := domain.SyncChallenges(ctx, &model.SyncChallengesRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Challenges, 2)

	ids := []string{resp.Challenges[0].ID, resp.Challenges[1].ID}
	require.Contains(t, ids, active.ID)
	require.Contains(t, ids, upcoming.ID)
}

func Test_challengeDomain_ChangeSubscription(t *testing.T) {
	store := testutil.NewMemoryStore()
	ctx := testutil.NewMockContextWithStore(store)

	_, err := testutil.SampleChallenge(ctx, nil)
	require.NoError(t, err)

	redisClient := testutil.NewInMemoryRedis()
	domain := newChallengeDomain(redisClient)
	domain.RegisterChangeSubscription(ctx)

	// Populate the window cache.
	_, err = domain.SyncChallenges(ctx, &model.SyncChallengesRequest{})
	require.NoError(t, err)

	exist, err := redisClient.Exist(ctx, redisKeyChallengeWindows)
	require.NoError(t, err)
	require.True(t, exist)

	// A challenge write invalidates the cached windows.
	_, err = testutil.SampleChallenge(ctx, nil)
	require.NoError(t, err)

	exist, err = redisClient.Exist(ctx, redisKeyChallengeWindows)
	require.NoError(t, err)
	require.False(t, exist)
}
