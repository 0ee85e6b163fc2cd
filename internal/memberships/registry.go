// Package memberships is the single source of truth for authorization
// decisions: a (project, user) row with a role grants access, its absence
// denies it.
package memberships

import (
	"errors"
	"slices"

	"github.com/taskhub-dev/taskhub/db"
	"github.com/taskhub-dev/taskhub/internal/apierrors"
	"github.com/taskhub-dev/taskhub/internal/models"
	"gorm.io/gorm"
)

func IsMember(projectID, userID uint) (bool, error) {
	role, err := RoleOf(projectID, userID)
	if err != nil {
		return false, err
	}
	return role != "", nil
}

// RoleOf returns the user's role in the project, or "" when no membership
// row exists.
func RoleOf(projectID, userID uint) (string, error) {
	var member models.ProjectMember

	err := db.DB.Where("project_id = ? AND user_id = ?", projectID, userID).First(&member).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}

	return member.Role, nil
}

// RequireRole fails with a ForbiddenError unless the user holds one of the
// allowed roles in the project.
func RequireRole(projectID, userID uint, allowed ...string) error {
	role, err := RoleOf(projectID, userID)

	if err != nil {
		return err
	}

	if role == "" || !slices.Contains(allowed, role) {
		return apierrors.Forbidden("You do not have permission to perform this action")
	}

	return nil
}
