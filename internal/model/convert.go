package model

import (
	"github.com/cameronsaddress/snapchef-social/internal/entity"
)

func ConvertUser(profile *entity.UserProfile) User {
	if profile == nil {
		return User{}
	}

	return User{
		ID:             profile.ID,
		Handle:         profile.Handle,
		DisplayName:    profile.DisplayName,
		AvatarURL:      profile.AvatarURL,
		Points:         profile.Points,
		Streak:         profile.Streak,
		RecipesShared:  profile.RecipesShared,
		FollowerCount:  profile.FollowerCount,
		FollowingCount: profile.FollowingCount,
		CoinBalance:    profile.CoinBalance,
		Verified:       profile.Verified,
		Tier:           string(profile.Tier),
	}
}

func ConvertRecipe(recipe *entity.Recipe) Recipe {
	if recipe == nil {
		return Recipe{}
	}

	return Recipe{
		ID:           recipe.ID,
		OwnerID:      recipe.OwnerID,
		Title:        recipe.Title,
		Description:  recipe.Description,
		ImageURL:     recipe.ImageURL,
		LikeCount:    recipe.LikeCount,
		CommentCount: recipe.CommentCount,
		CreatedAt:    recipe.CreatedAt,
	}
}

func ConvertComment(comment *entity.Comment) Comment {
	if comment == nil {
		return Comment{}
	}

	return Comment{
		ID:              comment.ID,
		UserID:          comment.UserID,
		RecipeID:        comment.RecipeID,
		Content:         comment.Content,
		ParentCommentID: comment.ParentCommentID,
		LikeCount:       comment.LikeCount,
		CreatedAt:       comment.CreatedAt,
	}
}

func ConvertActivity(activity *entity.Activity) Activity {
	if activity == nil {
		return Activity{}
	}

	return Activity{
		ID:           activity.ID,
		Type:         string(activity.Type),
		ActorID:      activity.ActorID,
		TargetUserID: activity.TargetUserID,
		RecipeID:     activity.RecipeID,
		ChallengeID:  activity.ChallengeID,
		Timestamp:    activity.Timestamp,
		IsRead:       activity.IsRead,
		Metadata:     activity.Metadata,
	}
}

func ConvertChallenge(challenge *entity.Challenge) Challenge {
	if challenge == nil {
		return Challenge{}
	}

	return Challenge{
		ID:               challenge.ID,
		Title:            challenge.Title,
		Description:      challenge.Description,
		StartAt:          challenge.StartAt,
		EndAt:            challenge.EndAt,
		Points:           challenge.Points,
		Coins:            challenge.Coins,
		ParticipantCount: challenge.ParticipantCount,
		CompletionCount:  challenge.CompletionCount,
	}
}

func ConvertChallengeProgress(progress *entity.ChallengeProgress) ChallengeProgress {
	if progress == nil {
		return ChallengeProgress{}
	}

	return ChallengeProgress{
		ChallengeID:  progress.ChallengeID,
		Status:       string(progress.Status),
		Progress:     progress.Progress,
		EarnedPoints: progress.EarnedPoints,
		EarnedCoins:  progress.EarnedCoins,
		ProofURL:     progress.ProofURL,
		CompletedAt:  progress.CompletedAt,
	}
}

func ConvertTeam(team *entity.Team) Team {
	if team == nil {
		return Team{}
	}

	return Team{
		ID:          team.ID,
		Name:        team.Name,
		Description: team.Description,
		ChallengeID: team.ChallengeID,
		CaptainID:   team.CaptainID,
		MemberIDs:   team.MemberIDs,
		InviteCode:  team.InviteCode,
		TotalPoints: team.TotalPoints,
	}
}
