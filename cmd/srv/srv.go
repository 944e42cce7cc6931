package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/cameronsaddress/snapchef-social/config"
	"github.com/cameronsaddress/snapchef-social/internal/domain"
	"github.com/cameronsaddress/snapchef-social/internal/domain/statistic"
	"github.com/cameronsaddress/snapchef-social/internal/model"
	"github.com/cameronsaddress/snapchef-social/internal/repository"
	"github.com/cameronsaddress/snapchef-social/pkg/kafka"
	"github.com/cameronsaddress/snapchef-social/pkg/logger"
	"github.com/cameronsaddress/snapchef-social/pkg/pubsub"
	"github.com/cameronsaddress/snapchef-social/pkg/recordstore"
	"github.com/cameronsaddress/snapchef-social/pkg/storage"
	"github.com/cameronsaddress/snapchef-social/pkg/xcontext"
	"github.com/cameronsaddress/snapchef-social/pkg/xredis"

	"github.com/urfave/cli/v2"
)

type srv struct {
	app *cli.App

	configs config.Configs
	logger  logger.Logger

	// ctx carries the configs, logger, and record store every repository
	// and domain resolves at call time.
	ctx context.Context

	publisher   pubsub.Publisher
	store       recordstore.Store
	redisClient xredis.Client
	storage     storage.Storage

	userProfileRepo repository.UserProfileRepository
	followEdgeRepo  repository.FollowEdgeRepository
	recipeRepo      repository.RecipeRepository
	likeRepo        repository.LikeRepository
	commentRepo     repository.CommentRepository
	activityRepo    repository.ActivityRepository
	challengeRepo   repository.ChallengeRepository
	progressRepo    repository.ChallengeProgressRepository
	leaderboardRepo repository.LeaderboardRepository
	teamRepo        repository.TeamRepository

	leaderboard       statistic.Leaderboard
	activityDomain    domain.ActivityDomain
	socialGraphDomain domain.SocialGraphDomain
	interactionDomain domain.InteractionDomain
	challengeDomain   domain.ChallengeDomain
	teamDomain        domain.TeamDomain
	feedDomain        domain.FeedDomain
}

func (s *srv) loadConfig(cliCtx *cli.Context) {
	var err error
	s.configs, err = config.Load(cliCtx.String("config"))
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadLogger() {
	level := logger.INFO
	if s.configs.Env == "local" {
		level = logger.DEBUG
	}
	s.logger = logger.NewLogger(level)
}

func (s *srv) loadStore(opts ...recordstore.DynamoOption) {
	client, err := recordstore.NewDynamoClient(context.Background(), s.configs.Store.Region)
	if err != nil {
		panic(err)
	}

	opts = append(opts, recordstore.WithStoreLogger(s.logger))
	s.store = recordstore.NewDynamoStore(client, s.configs.Store.TablePrefix, opts...)
}

func (s *srv) loadRedis() {
	var err error
	s.redisClient, err = xredis.NewClient(context.Background(), s.configs.Redis.Addr)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadStorage() {
	s.storage = storage.NewS3Storage(s.configs.Storage)
}

func (s *srv) loadRepos() {
	s.userProfileRepo = repository.NewUserProfileRepository()
	s.followEdgeRepo = repository.NewFollowEdgeRepository()
	s.recipeRepo = repository.NewRecipeRepository()
	s.likeRepo = repository.NewLikeRepository()
	s.commentRepo = repository.NewCommentRepository()
	s.activityRepo = repository.NewActivityRepository()
	s.challengeRepo = repository.NewChallengeRepository()
	s.progressRepo = repository.NewChallengeProgressRepository()
	s.leaderboardRepo = repository.NewLeaderboardRepository()
	s.teamRepo = repository.NewTeamRepository()
}

func (s *srv) loadDomains() {
	s.leaderboard = statistic.New(s.leaderboardRepo, s.userProfileRepo, s.redisClient)
	s.activityDomain = domain.NewActivityDomain(s.activityRepo, s.redisClient)
	s.socialGraphDomain = domain.NewSocialGraphDomain(
		s.userProfileRepo, s.followEdgeRepo, s.activityDomain)
	s.interactionDomain = domain.NewInteractionDomain(
		s.recipeRepo, s.likeRepo, s.commentRepo, s.activityDomain, s.redisClient)
	s.challengeDomain = domain.NewChallengeDomain(
		s.challengeRepo, s.progressRepo, s.userProfileRepo, s.leaderboard,
		s.activityDomain, s.storage, s.redisClient)
	s.teamDomain = domain.NewTeamDomain(s.teamRepo, s.challengeRepo, s.activityDomain)
	s.feedDomain = domain.NewFeedDomain(
		s.recipeRepo, s.followEdgeRepo, s.userProfileRepo, s.likeRepo, s.redisClient)
}

func (s *srv) loadContext() {
	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, s.configs)
	ctx = xcontext.WithLogger(ctx, s.logger)
	ctx = xcontext.WithRecordStore(ctx, s.store)
	s.ctx = ctx
}

func (s *srv) startReconcile(cliCtx *cli.Context) error {
	s.loadConfig(cliCtx)
	s.loadLogger()
	s.loadStore()
	s.loadRedis()
	s.loadStorage()
	s.loadRepos()
	s.loadDomains()
	s.loadContext()

	profiles, err := s.userProfileRepo.GetAll(s.ctx)
	if err != nil {
		return err
	}

	for i := range profiles {
		_, err := s.socialGraphDomain.RecountSocialCounters(s.ctx,
			&model.RecountSocialCountersRequest{UserID: profiles[i].ID})
		if err != nil {
			// The next sweep picks the profile up again.
			s.logger.Warnf("Cannot recount counters of %s: %v", profiles[i].ID, err)
		}
	}

	recipes, err := s.recipeRepo.GetAll(s.ctx)
	if err != nil {
		return err
	}

	for i := range recipes {
		_, err := s.interactionDomain.SyncLikeCount(s.ctx,
			&model.SyncLikeCountRequest{RecipeID: recipes[i].ID})
		if err != nil {
			s.logger.Warnf("Cannot sync like count of %s: %v", recipes[i].ID, err)
		}
	}

	s.logger.Infof("Reconciled %d profiles and %d recipes", len(profiles), len(recipes))
	return nil
}

func (s *srv) startChallengeSubscriber(cliCtx *cli.Context) error {
	s.loadConfig(cliCtx)
	s.loadLogger()

	var err error
	s.publisher, err = kafka.NewPublisher("challenge-subscriber",
		[]string{s.configs.Kafka.Addr})
	if err != nil {
		panic(err)
	}

	s.loadStore(
		recordstore.WithChangePublisher(s.publisher, s.configs.Kafka.ChangeTopic),
		recordstore.WithSubscriberFactory(func(handler pubsub.SubscribeHandler) pubsub.Subscriber {
			return kafka.NewSubscriber(
				s.configs.Kafka.GroupID,
				[]string{s.configs.Kafka.Addr},
				[]string{s.configs.Kafka.ChangeTopic},
				handler,
			)
		}),
	)
	s.loadRedis()
	s.loadStorage()
	s.loadRepos()
	s.loadDomains()
	s.loadContext()

	ctx, stop := signal.NotifyContext(s.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s.challengeDomain.RegisterChangeSubscription(ctx)
	s.logger.Infof("Challenge subscriber started")

	<-ctx.Done()
	s.logger.Infof("Challenge subscriber stopped")
	return s.publisher.Stop(context.Background())
}
