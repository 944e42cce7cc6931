package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/math"

	"github.com/cameronsaddress/snapchef-social/internal/entity"
	"github.com/cameronsaddress/snapchef-social/internal/model"
	"github.com/cameronsaddress/snapchef-social/internal/repository"
	"github.com/cameronsaddress/snapchef-social/pkg/errorx"
	"github.com/cameronsaddress/snapchef-social/pkg/recordstore"
	"github.com/cameronsaddress/snapchef-social/pkg/xcontext"
	"github.com/cameronsaddress/snapchef-social/pkg/xredis"
)

const commentExcerptLen = 80

type InteractionDomain interface {
	LikeRecipe(ctx context.Context, req *model.LikeRecipeRequest) (*model.LikeRecipeResponse, error)
	UnlikeRecipe(ctx context.Context, req *model.UnlikeRecipeRequest) (*model.UnlikeRecipeResponse, error)
	GetLikeCount(ctx context.Context, req *model.GetLikeCountRequest) (*model.GetLikeCountResponse, error)
	SyncLikeCount(ctx context.Context, req *model.SyncLikeCountRequest) (*model.SyncLikeCountResponse, error)

	LikeComment(ctx context.Context, req *model.LikeCommentRequest) (*model.LikeCommentResponse, error)
	UnlikeComment(ctx context.Context, req *model.UnlikeCommentRequest) (*model.UnlikeCommentResponse, error)
	GetLikedCommentIDs(
		ctx context.Context, req *model.GetLikedCommentIDsRequest,
	) (*model.GetLikedCommentIDsResponse, error)

	AddComment(ctx context.Context, req *model.AddCommentRequest) (*model.AddCommentResponse, error)
	DeleteComment(ctx context.Context, req *model.DeleteCommentRequest) (*model.DeleteCommentResponse, error)
}

type interactionDomain struct {
	recipeRepo     repository.RecipeRepository
	likeRepo       repository.LikeRepository
	commentRepo    repository.CommentRepository
	activityDomain ActivityDomain
	redisClient    xredis.Client
}

func NewInteractionDomain(
	recipeRepo repository.RecipeRepository,
	likeRepo repository.LikeRepository,
	commentRepo repository.CommentRepository,
	activityDomain ActivityDomain,
	redisClient xredis.Client,
) *interactionDomain {
	return &interactionDomain{
		recipeRepo:     recipeRepo,
		likeRepo:       likeRepo,
		commentRepo:    commentRepo,
		activityDomain: activityDomain,
		redisClient:    redisClient,
	}
}

func redisKeyLikedComments(userID, recipeID string) string {
	return fmt.Sprintf("liked_comments:%s:%s", userID, recipeID)
}

func (d *interactionDomain) LikeRecipe(
	ctx context.Context, req *model.LikeRecipeRequest,
) (*model.LikeRecipeResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	if req.RecipeID == "" {
		return nil, errorx.New(errorx.Validation, "Require a recipe id")
	}

	recipe, err := d.recipeRepo.GetByID(ctx, req.RecipeID)
	if err != nil {
		if errors.Is(err, recordstore.ErrNotFound) {
			return nil, errorx.New(errorx.InvalidReference, "Not found recipe")
		}

		xcontext.Logger(ctx).Errorf("Cannot get recipe: %v", err)
		return nil, errorx.Unknown
	}

	_, err = d.likeRepo.Get(ctx, userID, req.RecipeID)
	if err == nil {
		// Already liked, absorb the retry without a second increment.
		return &model.LikeRecipeResponse{}, nil
	}

	if !errors.Is(err, recordstore.ErrNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get like: %v", err)
		return nil, errorx.Unknown
	}

	like := &entity.Like{
		ID:            entity.LikeID(userID, req.RecipeID),
		UserID:        userID,
		TargetID:      req.RecipeID,
		TargetOwnerID: recipe.OwnerID,
		TargetKind:    entity.LikeTargetRecipe,
		LikedAt:       entity.Now(),
	}
	if err := d.likeRepo.Save(ctx, like); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save like: %v", err)
		return nil, errorx.Unknown
	}

	recipe.LikeCount++
	if err := d.recipeRepo.Save(ctx, recipe); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save recipe like count: %v", err)
		return nil, errorx.Unknown
	}

	if recipe.OwnerID != userID {
		d.activityDomain.CreateActivity(ctx, &entity.Activity{
			Type:         entity.ActivityRecipeLiked,
			ActorID:      userID,
			TargetUserID: recipe.OwnerID,
			RecipeID:     recipe.ID,
		}, entity.RecipeLikedMetadata{RecipeTitle: recipe.Title})
	}

	return &model.LikeRecipeResponse{}, nil
}

func (d *interactionDomain) UnlikeRecipe(
	ctx context.Context, req *model.UnlikeRecipeRequest,
) (*model.UnlikeRecipeResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	_, err := d.likeRepo.Get(ctx, userID, req.RecipeID)
	if err != nil {
		if errors.Is(err, recordstore.ErrNotFound) {
			// Unliking something never liked is a no-op, not an error.
			return &model.UnlikeRecipeResponse{}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get like: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.likeRepo.DeleteAllByUserAndTarget(ctx, userID, req.RecipeID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete likes: %v", err)
		return nil, errorx.Unknown
	}

	recipe, err := d.recipeRepo.GetByID(ctx, req.RecipeID)
	if err != nil {
		if errors.Is(err, recordstore.ErrNotFound) {
			return &model.UnlikeRecipeResponse{}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get recipe: %v", err)
		return nil, errorx.Unknown
	}

	recipe.LikeCount = math.MaxInt64(0, recipe.LikeCount-1)
	if err := d.recipeRepo.Save(ctx, recipe); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save recipe like count: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UnlikeRecipeResponse{}, nil
}

func (d *interactionDomain) GetLikeCount(
	ctx context.Context, req *model.GetLikeCountRequest,
) (*model.GetLikeCountResponse, error) {
	recipe, err := d.recipeRepo.GetByID(ctx, req.RecipeID)
	if err == nil {
		return &model.GetLikeCountResponse{Count: recipe.LikeCount}, nil
	}

	if !errors.Is(err, recordstore.ErrNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get recipe: %v", err)
		return nil, errorx.Unknown
	}

	// A freshly created recipe may not be visible yet. Fall back to
	// counting the like records themselves.
	count, err := d.likeRepo.CountByTarget(ctx, req.RecipeID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count likes: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetLikeCountResponse{Count: count}, nil
}

func (d *interactionDomain) SyncLikeCount(
	ctx context.Context, req *model.SyncLikeCountRequest,
) (*model.SyncLikeCountResponse, error) {
	recipe, err := d.recipeRepo.GetByID(ctx, req.RecipeID)
	if err != nil {
		if errors.Is(err, recordstore.ErrNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found recipe")
		}

		xcontext.Logger(ctx).Errorf("Cannot get recipe: %v", err)
		return nil, errorx.Unknown
	}

	count, err := d.likeRepo.CountByTarget(ctx, req.RecipeID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count likes: %v", err)
		return nil, errorx.Unknown
	}

	recipe.LikeCount = count
	if err := d.recipeRepo.Save(ctx, recipe); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save reconciled like count: %v", err)
		return nil, errorx.Unknown
	}

	return &model.SyncLikeCountResponse{Count: count}, nil
}

func (d *interactionDomain) LikeComment(
	ctx context.Context, req *model.LikeCommentRequest,
) (*model.LikeCommentResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	comment, err := d.commentRepo.GetByID(ctx, req.CommentID)
	if err != nil {
		if errors.Is(err, recordstore.ErrNotFound) {
			return nil, errorx.New(errorx.InvalidReference, "Not found comment")
		}

		xcontext.Logger(ctx).Errorf("Cannot get comment: %v", err)
		return nil, errorx.Unknown
	}

	if comment.IsDeleted {
		return nil, errorx.New(errorx.InvalidReference, "Not found comment")
	}

	_, err = d.likeRepo.Get(ctx, userID, req.CommentID)
	if err == nil {
		return &model.LikeCommentResponse{}, nil
	}

	if !errors.Is(err, recordstore.ErrNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get like: %v", err)
		return nil, errorx.Unknown
	}

	like := &entity.Like{
		ID:            entity.LikeID(userID, req.CommentID),
		UserID:        userID,
		TargetID:      req.CommentID,
		TargetOwnerID: comment.UserID,
		TargetKind:    entity.LikeTargetComment,
		LikedAt:       entity.Now(),
	}
	if err := d.likeRepo.Save(ctx, like); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save comment like: %v", err)
		return nil, errorx.Unknown
	}

	comment.LikeCount++
	if err := d.commentRepo.Save(ctx, comment); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save comment like count: %v", err)
		return nil, errorx.Unknown
	}

	// The per-user set is a display cache over the like records, so a
	// failed add only costs a rebuild on the next read.
	key := redisKeyLikedComments(userID, comment.RecipeID)
	if err := d.redisClient.SAdd(ctx, key, comment.ID); err != nil {
		xcontext.Logger(ctx).Debugf("Cannot cache liked comment: %v", err)
	}

	if comment.UserID != userID {
		d.activityDomain.CreateActivity(ctx, &entity.Activity{
			Type:         entity.ActivityCommentLiked,
			ActorID:      userID,
			TargetUserID: comment.UserID,
			RecipeID:     comment.RecipeID,
		}, entity.CommentLikedMetadata{CommentID: comment.ID})
	}

	return &model.LikeCommentResponse{}, nil
}

func (d *interactionDomain) UnlikeComment(
	ctx context.Context, req *model.UnlikeCommentRequest,
) (*model.UnlikeCommentResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	_, err := d.likeRepo.Get(ctx, userID, req.CommentID)
	if err != nil {
		if errors.Is(err, recordstore.ErrNotFound) {
			return &model.UnlikeCommentResponse{}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get like: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.likeRepo.DeleteAllByUserAndTarget(ctx, userID, req.CommentID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete comment likes: %v", err)
		return nil, errorx.Unknown
	}

	comment, err := d.commentRepo.GetByID(ctx, req.CommentID)
	if err != nil {
		if errors.Is(err, recordstore.ErrNotFound) {
			return &model.UnlikeCommentResponse{}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get comment: %v", err)
		return nil, errorx.Unknown
	}

	comment.LikeCount = math.MaxInt64(0, comment.LikeCount-1)
	if err := d.commentRepo.Save(ctx, comment); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save comment like count: %v", err)
		return nil, errorx.Unknown
	}

	key := redisKeyLikedComments(userID, comment.RecipeID)
	if err := d.redisClient.SRem(ctx, key, comment.ID); err != nil {
		xcontext.Logger(ctx).Debugf("Cannot uncache liked comment: %v", err)
	}

	return &model.UnlikeCommentResponse{}, nil
}

func (d *interactionDomain) GetLikedCommentIDs(
	ctx context.Context, req *model.GetLikedCommentIDsRequest,
) (*model.GetLikedCommentIDsResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	key := redisKeyLikedComments(userID, req.RecipeID)
	ok, err := d.redisClient.Exist(ctx, key)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot check liked comments cache: %v", err)
	}

	if err == nil && ok {
		ids, err := d.redisClient.SMembers(ctx, key)
		if err == nil {
			return &model.GetLikedCommentIDsResponse{CommentIDs: ids}, nil
		}

		xcontext.Logger(ctx).Debugf("Cannot read liked comments cache: %v", err)
	}

	// Rebuild from the like records, which survive reinstalls and second
	// devices unlike a purely local set.
	comments, err := d.commentRepo.GetByRecipeID(ctx, req.RecipeID, 0)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get comments: %v", err)
		return nil, errorx.Unknown
	}

	likedIDs, err := d.likeRepo.GetTargetIDsByUser(ctx, userID, entity.LikeTargetComment)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get liked comment ids: %v", err)
		return nil, errorx.Unknown
	}

	liked := map[string]bool{}
	for _, id := range likedIDs {
		liked[id] = true
	}

	result := []string{}
	for _, c := range comments {
		if liked[c.ID] {
			result = append(result, c.ID)
		}
	}

	if len(result) > 0 {
		if err := d.redisClient.SAdd(ctx, key, result...); err != nil {
			xcontext.Logger(ctx).Debugf("Cannot warm liked comments cache: %v", err)
		}
	}

	return &model.GetLikedCommentIDsResponse{CommentIDs: result}, nil
}

func (d *interactionDomain) AddComment(
	ctx context.Context, req *model.AddCommentRequest,
) (*model.AddCommentResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	if req.Content == "" {
		return nil, errorx.New(errorx.Validation, "Require a content")
	}

	recipe, err := d.recipeRepo.GetByID(ctx, req.RecipeID)
	if err != nil {
		if errors.Is(err, recordstore.ErrNotFound) {
			return nil, errorx.New(errorx.InvalidReference, "Not found recipe")
		}

		xcontext.Logger(ctx).Errorf("Cannot get recipe: %v", err)
		return nil, errorx.Unknown
	}

	if req.ParentCommentID != "" {
		parent, err := d.commentRepo.GetByID(ctx, req.ParentCommentID)
		if err != nil {
			if errors.Is(err, recordstore.ErrNotFound) {
				return nil, errorx.New(errorx.InvalidReference, "Not found parent comment")
			}

			xcontext.Logger(ctx).Errorf("Cannot get parent comment: %v", err)
			return nil, errorx.Unknown
		}

		if parent.RecipeID != req.RecipeID || parent.IsDeleted {
			return nil, errorx.New(errorx.InvalidReference, "Not found parent comment")
		}
	}

	comment := &entity.Comment{
		Base: entity.Base{
			ID:        uuid.NewString(),
			CreatedAt: entity.Now(),
		},
		UserID:          userID,
		RecipeID:        req.RecipeID,
		Content:         req.Content,
		ParentCommentID: req.ParentCommentID,
	}
	if err := d.commentRepo.Save(ctx, comment); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save comment: %v", err)
		return nil, errorx.Unknown
	}

	recipe.CommentCount++
	if err := d.recipeRepo.Save(ctx, recipe); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save recipe comment count: %v", err)
		return nil, errorx.Unknown
	}

	if recipe.OwnerID != userID {
		excerpt := req.Content
		if len(excerpt) > commentExcerptLen {
			excerpt = excerpt[:commentExcerptLen]
		}

		d.activityDomain.CreateActivity(ctx, &entity.Activity{
			Type:         entity.ActivityCommentAdded,
			ActorID:      userID,
			TargetUserID: recipe.OwnerID,
			RecipeID:     recipe.ID,
		}, entity.CommentAddedMetadata{CommentID: comment.ID, Excerpt: excerpt})
	}

	return &model.AddCommentResponse{Comment: model.ConvertComment(comment)}, nil
}

func (d *interactionDomain) DeleteComment(
	ctx context.Context, req *model.DeleteCommentRequest,
) (*model.DeleteCommentResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	comment, err := d.commentRepo.GetByID(ctx, req.CommentID)
	if err != nil {
		if errors.Is(err, recordstore.ErrNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found comment")
		}

		xcontext.Logger(ctx).Errorf("Cannot get comment: %v", err)
		return nil, errorx.Unknown
	}

	recipe, err := d.recipeRepo.GetByID(ctx, comment.RecipeID)
	if err != nil && !errors.Is(err, recordstore.ErrNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get recipe: %v", err)
		return nil, errorx.Unknown
	}

	isRecipeOwner := recipe != nil && recipe.OwnerID == userID
	if comment.UserID != userID && !isRecipeOwner {
		return nil, errorx.New(errorx.PermissionDenied, "Cannot delete another user's comment")
	}

	// A retried delete against an already-deleted comment must not touch
	// the counter a second time.
	if comment.IsDeleted {
		return &model.DeleteCommentResponse{}, nil
	}

	comment.IsDeleted = true
	if err := d.commentRepo.Save(ctx, comment); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save deleted comment: %v", err)
		return nil, errorx.Unknown
	}

	if recipe != nil {
		recipe.CommentCount = math.MaxInt64(0, recipe.CommentCount-1)
		if err := d.recipeRepo.Save(ctx, recipe); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot save recipe comment count: %v", err)
			return nil, errorx.Unknown
		}
	}

	return &model.DeleteCommentResponse{}, nil
}
