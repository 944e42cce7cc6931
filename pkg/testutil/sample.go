package testutil

import (
	"context"
	"reflect"

	"github.com/google/uuid"

	"github.com/cameronsaddress/snapchef-social/internal/entity"
	"github.com/cameronsaddress/snapchef-social/internal/repository"
)

// SampleUserProfile saves a randomized profile, overwritten by the non-zero
// fields of init, and returns it.
func SampleUserProfile(ctx context.Context, init *entity.UserProfile) (entity.UserProfile, error) {
	sample := &entity.UserProfile{
		Base: entity.Base{
			ID:        uuid.NewString(),
			CreatedAt: entity.Now(),
		},
		Handle:      uuid.NewString(),
		DisplayName: "Sample Chef",
		Tier:        entity.TierFree,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := repository.NewUserProfileRepository().Save(ctx, sample); err != nil {
		return *sample, err
	}

	return *sample, nil
}

func SampleRecipe(ctx context.Context, init *entity.Recipe) (entity.Recipe, error) {
	sample := &entity.Recipe{
		Base: entity.Base{
			ID:        uuid.NewString(),
			CreatedAt: entity.Now(),
		},
		OwnerID:  uuid.NewString(),
		Title:    uuid.NewString(),
		IsPublic: true,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := repository.NewRecipeRepository().Save(ctx, sample); err != nil {
		return *sample, err
	}

	return *sample, nil
}

func SampleComment(ctx context.Context, init *entity.Comment) (entity.Comment, error) {
	sample := &entity.Comment{
		Base: entity.Base{
			ID:        uuid.NewString(),
			CreatedAt: entity.Now(),
		},
		UserID:   uuid.NewString(),
		RecipeID: uuid.NewString(),
		Content:  "Looks delicious!",
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := repository.NewCommentRepository().Save(ctx, sample); err != nil {
		return *sample, err
	}

	return *sample, nil
}

func SampleChallenge(ctx context.Context, init *entity.Challenge) (entity.Challenge, error) {
	now := entity.Now()
	sample := &entity.Challenge{
		Base: entity.Base{
			ID:        uuid.NewString(),
			CreatedAt: now,
		},
		Title:    uuid.NewString(),
		StartAt:  now - 1000,
		EndAt:    now + 24*60*60*1000,
		Points:   100,
		Coins:    10,
		IsActive: true,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := repository.NewChallengeRepository().Save(ctx, sample); err != nil {
		return *sample, err
	}

	return *sample, nil
}

func SampleTeam(ctx context.Context, init *entity.Team) (entity.Team, error) {
	captainID := uuid.NewString()
	sample := &entity.Team{
		Base: entity.Base{
			ID:        uuid.NewString(),
			CreatedAt: entity.Now(),
		},
		Name:       uuid.NewString(),
		CaptainID:  captainID,
		MemberIDs:  []string{captainID},
		InviteCode: "SAMPLE",
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := repository.NewTeamRepository().Save(ctx, sample); err != nil {
		return *sample, err
	}

	return *sample, nil
}

func overwriteFields[T any](origin *T, overwrite T) {
	originValue := reflect.ValueOf(origin).Elem()
	overwriteValue := reflect.ValueOf(overwrite)

	for i := 0; i < overwriteValue.NumField(); i++ {
		overwriteField := overwriteValue.Field(i)
		if !overwriteField.IsZero() {
			originValue.Field(i).Set(overwriteField)
		}
	}
}
