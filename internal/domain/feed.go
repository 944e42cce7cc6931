package domain

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/cameronsaddress/snapchef-social/internal/entity"
	"github.com/cameronsaddress/snapchef-social/internal/model"
	"github.com/cameronsaddress/snapchef-social/internal/repository"
	"github.com/cameronsaddress/snapchef-social/pkg/errorx"
	"github.com/cameronsaddress/snapchef-social/pkg/xcontext"
	"github.com/cameronsaddress/snapchef-social/pkg/xredis"
)

type FeedDomain interface {
	FetchSocialFeed(
		ctx context.Context, req *model.FetchSocialFeedRequest,
	) (*model.FetchSocialFeedResponse, error)
}

type feedDomain struct {
	recipeRepo      repository.RecipeRepository
	followEdgeRepo  repository.FollowEdgeRepository
	userProfileRepo repository.UserProfileRepository
	likeRepo        repository.LikeRepository
	redisClient     xredis.Client
}

func NewFeedDomain(
	recipeRepo repository.RecipeRepository,
	followEdgeRepo repository.FollowEdgeRepository,
	userProfileRepo repository.UserProfileRepository,
	likeRepo repository.LikeRepository,
	redisClient xredis.Client,
) *feedDomain {
	return &feedDomain{
		recipeRepo:      recipeRepo,
		followEdgeRepo:  followEdgeRepo,
		userProfileRepo: userProfileRepo,
		likeRepo:        likeRepo,
		redisClient:     redisClient,
	}
}

func redisKeySocialFeed(userID string) string {
	return fmt.Sprintf("social_feed:%s", userID)
}

func (d *feedDomain) FetchSocialFeed(
	ctx context.Context, req *model.FetchSocialFeedRequest,
) (*model.FetchSocialFeedResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	cfg := xcontext.Configs(ctx).Feed
	limit := req.Limit
	if limit <= 0 {
		limit = cfg.DefaultLimit
	}

	if cfg.MaxLimit > 0 && limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}

	followingIDs, err := d.followEdgeRepo.GetActiveFollowingIDs(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get following set: %v", err)
		return d.degradedFeed(ctx, userID)
	}

	// No following set means an empty feed; skip what would otherwise be
	// an unbounded recipe query.
	if len(followingIDs) == 0 {
		return &model.FetchSocialFeedResponse{Items: []model.FeedItem{}}, nil
	}

	recipes, err := d.recipeRepo.GetFeed(ctx, repository.FeedRecipeFilter{
		OwnerIDs: followingIDs,
		Before:   req.LastSeenAt,
		Limit:    limit * 2,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot fetch feed recipes: %v", err)
		return d.degradedFeed(ctx, userID)
	}

	// The store's sort descriptor is only a hint, so impose the order here
	// before truncating the overscan down to the requested page.
	sort.Slice(recipes, func(i, j int) bool {
		if recipes[i].CreatedAt != recipes[j].CreatedAt {
			return recipes[i].CreatedAt > recipes[j].CreatedAt
		}

		return recipes[i].ID > recipes[j].ID
	})

	if len(recipes) > limit {
		recipes = recipes[:limit]
	}

	owners, err := d.fetchOwners(ctx, recipes)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot join owner profiles: %v", err)
		return d.degradedFeed(ctx, userID)
	}

	likedRecipeIDs, err := d.likeRepo.GetTargetIDsByUser(ctx, userID, entity.LikeTargetRecipe)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get like state: %v", err)
		return d.degradedFeed(ctx, userID)
	}

	liked := map[string]bool{}
	for _, id := range likedRecipeIDs {
		liked[id] = true
	}

	items := make([]model.FeedItem, 0, len(recipes))
	for i := range recipes {
		items = append(items, model.FeedItem{
			Recipe:  model.ConvertRecipe(&recipes[i]),
			Owner:   owners[recipes[i].OwnerID],
			IsLiked: liked[recipes[i].ID],
		})
	}

	resp := &model.FetchSocialFeedResponse{Items: items}
	if len(items) > 0 {
		resp.NextCursor = items[len(items)-1].Recipe.CreatedAt
	}

	// Only the first page is cached; it is what the degraded path serves.
	if req.LastSeenAt == 0 {
		err := d.redisClient.SetObj(ctx, redisKeySocialFeed(userID), items, cfg.CacheTTL)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Cannot cache social feed: %v", err)
		}
	}

	return resp, nil
}

// fetchOwners resolves the distinct owner profiles of a page in parallel.
// Repeated owners cost one fetch thanks to the per-call cache map.
func (d *feedDomain) fetchOwners(
	ctx context.Context, recipes []entity.Recipe,
) (map[string]model.User, error) {
	owners := map[string]model.User{}

	var mutex sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	for i := range recipes {
		ownerID := recipes[i].OwnerID

		mutex.Lock()
		_, seen := owners[ownerID]
		if !seen {
			// Reserve the slot so concurrent iterations skip this owner.
			owners[ownerID] = model.User{ID: ownerID}
		}
		mutex.Unlock()

		if seen {
			continue
		}

		group.Go(func() error {
			profile, err := d.userProfileRepo.GetByID(groupCtx, ownerID)
			if err != nil {
				return err
			}

			mutex.Lock()
			owners[ownerID] = model.ConvertUser(profile)
			mutex.Unlock()
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return owners, nil
}

// degradedFeed serves the cached first page when the store is unreachable,
// and a small fixed dataset when not even a cache exists. Both are flagged so
// callers can tell degraded pages from live data.
func (d *feedDomain) degradedFeed(
	ctx context.Context, userID string,
) (*model.FetchSocialFeedResponse, error) {
	var cached []model.FeedItem
	err := d.redisClient.GetObj(ctx, redisKeySocialFeed(userID), &cached)
	if err == nil {
		return &model.FetchSocialFeedResponse{Items: cached, FromCache: true}, nil
	}

	xcontext.Logger(ctx).Debugf("No cached feed available: %v", err)
	return &model.FetchSocialFeedResponse{
		Items:      fallbackFeedItems(),
		IsFallback: true,
	}, nil
}

// fallbackFeedItems is the placeholder page shown when both the store and
// the cache are unavailable, so the caller never blocks on a broken network
// path.
func fallbackFeedItems() []model.FeedItem {
	return []model.FeedItem{
		{
			Recipe: model.Recipe{
				ID:      "fallback-1",
				OwnerID: "snapchef",
				Title:   "Weeknight Tomato Pasta",
				Description: "A one-pan pasta for nights when the kitchen " +
					"needs to be fast.",
			},
			Owner: model.User{ID: "snapchef", Handle: "snapchef", DisplayName: "SnapChef"},
		},
		{
			Recipe: model.Recipe{
				ID:      "fallback-2",
				OwnerID: "snapchef",
				Title:   "Five-Minute Breakfast Bowl",
				Description: "Yogurt, oats, and whatever fruit survived " +
					"the week.",
			},
			Owner: model.User{ID: "snapchef", Handle: "snapchef", DisplayName: "SnapChef"},
		},
	}
}
