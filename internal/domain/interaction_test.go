package domain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cameronsaddress/snapchef-social/internal/entity"
	"github.com/cameronsaddress/snapchef-social/internal/model"
	"github.com/cameronsaddress/snapchef-social/internal/repository"
	"github.com/cameronsaddress/snapchef-social/pkg/errorx"
	"github.com/cameronsaddress/snapchef-social/pkg/testutil"
)

func newInteractionDomain(redisClient *testutil.InMemoryRedis) *interactionDomain {
	return NewInteractionDomain(
		repository.NewRecipeRepository(),
		repository.NewLikeRepository(),
		repository.NewCommentRepository(),
		NewActivityDomain(repository.NewActivityRepository(), redisClient),
		redisClient,
	)
}

func Test_interactionDomain_LikeUnlikeRecipe(t *testing.T) {
	ctx := testutil.NewMockContext()
	owner, err := testutil.SampleUserProfile(ctx, nil)
	require.NoError(t, err)
	recipe, err := testutil.SampleRecipe(ctx, &entity.Recipe{OwnerID: owner.ID})
	require.NoError(t, err)

	domain := newInteractionDomain(testutil.NewInMemoryRedis())
	recipeRepo := repository.NewRecipeRepository()
	likeRepo := repository.NewLikeRepository()
	ctxUser := testutil.NewMockContextWithUserID(ctx, "user-x")

	// Like lifts the count from 0 to 1.
	_, err = domain.LikeRecipe(ctxUser, &model.LikeRecipeRequest{RecipeID: recipe.ID})
	require.NoError(t, err)

	got, err := recipeRepo.GetByID(ctx, recipe.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), got.LikeCount)

	// A second like leaves exactly one like record and one increment.
	_, err = domain.LikeRecipe(ctxUser, &model.LikeRecipeRequest{RecipeID: recipe.ID})
	require.NoError(t, err)

	likes, err := likeRepo.CountByTarget(ctx, recipe.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), likes)

	got, err = recipeRepo.GetByID(ctx, recipe.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), got.LikeCount)

	// Unlike drops the count back to 0.
	_, err = domain.UnlikeRecipe(ctxUser, &model.UnlikeRecipeRequest{RecipeID: recipe.ID})
	require.NoError(t, err)

	got, err = recipeRepo.GetByID(ctx, recipe.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), got.LikeCount)

	// Unliking again is a silent no-op and the count stays at 0.
	_, err = domain.UnlikeRecipe(ctxUser, &model.UnlikeRecipeRequest{RecipeID: recipe.ID})
	require.NoError(t, err)

	got, err = recipeRepo.GetByID(ctx, recipe.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), got.LikeCount)

	// Liking a nonexistent recipe fails.
	_, err = domain.LikeRecipe(ctxUser, &model.LikeRecipeRequest{RecipeID: "no-such-recipe"})
	require.True(t, errorx.IsCode(err, errorx.InvalidReference))
}

func Test_interactionDomain_LikeCount(t *testing.T) {
	ctx := testutil.NewMockContext()
	recipe, err := testutil.SampleRecipe(ctx, nil)
	require.NoError(t, err)

	domain := newInteractionDomain(testutil.NewInMemoryRedis())
	likeRepo := repository.NewLikeRepository()
	recipeRepo := repository.NewRecipeRepository()

	// Likes written directly, as if concurrent writers had raced the
	// denormalized counter.
	for _, userID := range []string{"a", "b", "c"} {
		require.NoError(t, likeRepo.Save(ctx, &entity.Like{
			ID:         entity.LikeID(userID, recipe.ID),
			UserID:     userID,
			TargetID:   recipe.ID,
			TargetKind: entity.LikeTargetRecipe,
			LikedAt:    entity.Now(),
		}))
	}

	// The denormalized counter still reads 0 until reconciliation.
	count, err := domain.GetLikeCount(ctx, &model.GetLikeCountRequest{RecipeID: recipe.ID})
	require.NoError(t, err)
	require.Equal(t, int64(0), count.Count)

	// Reconciliation converges the counter onto the true like count.
	synced, err := domain.SyncLikeCount(ctx, &model.SyncLikeCountRequest{RecipeID: recipe.ID})
	require.NoError(t, err)
	require.Equal(t, int64(3), synced.Count)

	got, err := recipeRepo.GetByID(ctx, recipe.ID)
	require.NoError(t, err)
	require.Equal(t, int64(3), got.LikeCount)

	// A like on a recipe record not visible yet falls back to counting
	// the like records.
	require.NoError(t, likeRepo.Save(ctx, &entity.Like{
		ID:         entity.LikeID("d", "fresh-recipe"),
		UserID:     "d",
		TargetID:   "fresh-recipe",
		TargetKind: entity.LikeTargetRecipe,
		LikedAt:    entity.Now(),
	}))

	count, err = domain.GetLikeCount(ctx, &model.GetLikeCountRequest{RecipeID: "fresh-recipe"})
	require.NoError(t, err)
	require.Equal(t, int64(1), count.Count)
}

func Test_interactionDomain_Comments(t *testing.T) {
	ctx := testutil.NewMockContext()
	owner, err := testutil.SampleUserProfile(ctx, nil)
	require.NoError(t, err)
	recipe, err := testutil.SampleRecipe(ctx, &entity.Recipe{OwnerID: owner.ID})
	require.NoError(t, err)

	domain := newInteractionDomain(testutil.NewInMemoryRedis())
	recipeRepo := repository.NewRecipeRepository()
	ctxAuthor := testutil.NewMockContextWithUserID(ctx, "author")
	ctxStranger := testutil.NewMockContextWithUserID(ctx, "stranger")

	added, err := domain.AddComment(ctxAuthor, &model.AddCommentRequest{
		RecipeID: recipe.ID,
		Content:  "Tried it, loved it.",
	})
	require.NoError(t, err)

	got, err := recipeRepo.GetByID(ctx, recipe.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), got.CommentCount)

	// An empty content is rejected.
	_, err = domain.AddComment(ctxAuthor, &model.AddCommentRequest{RecipeID: recipe.ID})
	require.True(t, errorx.IsCode(err, errorx.Validation))

	// A stranger cannot delete the comment.
	_, err = domain.DeleteComment(ctxStranger, &model.DeleteCommentRequest{
		CommentID: added.Comment.ID,
	})
	require.True(t, errorx.IsCode(err, errorx.PermissionDenied))

	// The author deletes it, decrementing the count by exactly one.
	_, err = domain.DeleteComment(ctxAuthor, &model.DeleteCommentRequest{
		CommentID: added.Comment.ID,
	})
	require.NoError(t, err)

	got, err = recipeRepo.GetByID(ctx, recipe.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), got.CommentCount)

	// A retried delete against the already-deleted comment must not
	// decrement the counter a second time.
	_, err = domain.DeleteComment(ctxAuthor, &model.DeleteCommentRequest{
		CommentID: added.Comment.ID,
	})
	require.NoError(t, err)

	got, err = recipeRepo.GetByID(ctx, recipe.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), got.CommentCount)
}

func Test_interactionDomain_CommentLikes(t *testing.T) {
	ctx := testutil.NewMockContext()
	recipe, err := testutil.SampleRecipe(ctx, nil)
	require.NoError(t, err)
	comment, err := testutil.SampleComment(ctx, &entity.Comment{RecipeID: recipe.ID})
	require.NoError(t, err)

	redisClient := testutil.NewInMemoryRedis()
	domain := newInteractionDomain(redisClient)
	commentRepo := repository.NewCommentRepository()
	ctxUser := testutil.NewMockContextWithUserID(ctx, "user-x")

	_, err = domain.LikeComment(ctxUser, &model.LikeCommentRequest{CommentID: comment.ID})
	require.NoError(t, err)

	got, err := commentRepo.GetByID(ctx, comment.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), got.LikeCount)

	liked, err := domain.GetLikedCommentIDs(ctxUser, &model.GetLikedCommentIDsRequest{
		RecipeID: recipe.ID,
	})
	require.NoError(t, err)
	require.Equal(t, []string{comment.ID}, liked.CommentIDs)

	// The liked set survives a cache flush because the like records are
	// the source of truth.
	require.NoError(t, redisClient.Del(ctx, "liked_comments:user-x:"+recipe.ID))

	liked, err = domain.GetLikedCommentIDs(ctxUser, &model.GetLikedCommentIDsRequest{
		RecipeID: recipe.ID,
	})
	require.NoError(t, err)
	require.Equal(t, []string{comment.ID}, liked.CommentIDs)

	// Unlike drops both the record and the cached set membership.
	_, err = domain.UnlikeComment(ctxUser, &model.UnlikeCommentRequest{CommentID: comment.ID})
	require.NoError(t, err)

	got, err = commentRepo.GetByID(ctx, comment.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), got.LikeCount)

	liked, err = domain.GetLikedCommentIDs(ctxUser, &model.GetLikedCommentIDsRequest{
		RecipeID: recipe.ID,
	})
	require.NoError(t, err)
	require.Empty(t, liked.CommentIDs)
}
