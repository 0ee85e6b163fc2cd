package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskhub-dev/taskhub/db"
	"github.com/taskhub-dev/taskhub/internal/apierrors"
	"github.com/taskhub-dev/taskhub/internal/memberships"
	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/internal/types"
	"github.com/taskhub-dev/taskhub/internal/utils"
	"gorm.io/gorm"
)

type CreateProjectRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description"`
}

type UpdateProjectRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
}

type ProjectResponse struct {
	ID          uint               `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	OwnerID     uint               `json:"ownerId"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
	Owner       types.UserResponse `json:"owner"`
	TaskCount   int64              `json:"taskCount"`
	MemberCount int64              `json:"memberCount"`
}

type ProjectMemberResponse struct {
	ID   uint               `json:"id"`
	Role string             `json:"role"`
	User types.UserResponse `json:"user"`
}

type ProjectDetailResponse struct {
	ID          uint                    `json:"id"`
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	OwnerID     uint                    `json:"ownerId"`
	CreatedAt   time.Time               `json:"createdAt"`
	UpdatedAt   time.Time               `json:"updatedAt"`
	Owner       types.UserResponse      `json:"owner"`
	Members     []ProjectMemberResponse `json:"members"`
	Tasks       []TaskResponse          `json:"tasks"`
}

func CreateProject(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		utils.RespondError(ctx, apierrors.Unauthorized("User not authenticated"))
		return
	}

	var req CreateProjectRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.RespondError(ctx, utils.BindingError(err))
		return
	}

	project := models.Project{
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     currentUser.ID,
	}

	// The project row and the creator's OWNER membership must land
	// together: a project without an owner membership is unreachable.
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}

		member := models.ProjectMember{
			ProjectID: project.ID,
			UserID:    currentUser.ID,
			Role:      types.RoleOwner,
		}

		return tx.Create(&member).Error
	})

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	utils.Respond(ctx, http.StatusCreated, ProjectResponse{
		ID:          project.ID,
		Title:       project.Title,
		Description: project.Description,
		OwnerID:     project.OwnerID,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
		Owner: types.UserResponse{
			ID:    currentUser.ID,
			Name:  currentUser.Name,
			Email: currentUser.Email,
		},
		TaskCount:   0,
		MemberCount: 1,
	})
}

func ListProjects(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		utils.RespondError(ctx, apierrors.Unauthorized("User not authenticated"))
		return
	}

	var projects []models.Project

	err = db.DB.
		Joins("JOIN project_members ON project_members.project_id = projects.id AND project_members.deleted_at IS NULL").
		Where("project_members.user_id = ?", userID).
		Preload("Owner").
		Order("projects.updated_at DESC").
		Find(&projects).Error

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	response := make([]ProjectResponse, 0, len(projects))

	for _, project := range projects {
		taskCount, memberCount, err := countProjectRows(project.ID)

		if err != nil {
			utils.RespondError(ctx, err)
			return
		}

		response = append(response, ProjectResponse{
			ID:          project.ID,
			Title:       project.Title,
			Description: project.Description,
			OwnerID:     project.OwnerID,
			CreatedAt:   project.CreatedAt,
			UpdatedAt:   project.UpdatedAt,
			Owner: types.UserResponse{
				ID:    project.Owner.ID,
				Name:  project.Owner.Name,
				Email: project.Owner.Email,
			},
			TaskCount:   taskCount,
			MemberCount: memberCount,
		})
	}

	utils.Respond(ctx, http.StatusOK, response)
}

func GetProject(ctx *gin.Context) {
	projectID, err := parseIDParam(ctx, "id")

	if err != nil {
		utils.RespondError(ctx, apierrors.BadRequest("Invalid project ID"))
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		utils.RespondError(ctx, apierrors.Unauthorized("User not authenticated"))
		return
	}

	isMember, err := memberships.IsMember(projectID, userID)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	// Non-members get the same 404 as a missing project so existence
	// cannot be probed.
	if !isMember {
		utils.RespondError(ctx, apierrors.NotFound("Project not found"))
		return
	}

	var project models.Project

	err = db.DB.
		Preload("Owner").
		Preload("Members.User").
		Preload("Tasks.Assignee").
		First(&project, projectID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(ctx, apierrors.NotFound("Project not found"))
		} else {
			utils.RespondError(ctx, err)
		}
		return
	}

	members := make([]ProjectMemberResponse, 0, len(project.Members))

	for _, member := range project.Members {
		members = append(members, ProjectMemberResponse{
			ID:   member.ID,
			Role: member.Role,
			User: types.UserResponse{
				ID:    member.User.ID,
				Name:  member.User.Name,
				Email: member.User.Email,
			},
		})
	}

	tasks := make([]TaskResponse, 0, len(project.Tasks))

	for _, task := range project.Tasks {
		tasks = append(tasks, buildTaskResponse(task))
	}

	utils.Respond(ctx, http.StatusOK, ProjectDetailResponse{
		ID:          project.ID,
		Title:       project.Title,
		Description: project.Description,
		OwnerID:     project.OwnerID,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
		Owner: types.UserResponse{
			ID:    project.Owner.ID,
			Name:  project.Owner.Name,
			Email: project.Owner.Email,
		},
		Members: members,
		Tasks:   tasks,
	})
}

func UpdateProject(ctx *gin.Context) {
	projectID, err := parseIDParam(ctx, "id")

	if err != nil {
		utils.RespondError(ctx, apierrors.BadRequest("Invalid project ID"))
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		utils.RespondError(ctx, apierrors.Unauthorized("User not authenticated"))
		return
	}

	var req UpdateProjectRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.RespondError(ctx, utils.BindingError(err))
		return
	}

	if err := memberships.RequireRole(projectID, userID, types.RoleOwner, types.RoleAdmin); err != nil {
		utils.RespondError(ctx, err)
		return
	}

	var project models.Project

	if err := db.DB.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(ctx, apierrors.NotFound("Project not found"))
		} else {
			utils.RespondError(ctx, err)
		}
		return
	}

	updates := make(map[string]interface{})

	if req.Title != nil {
		updates["title"] = *req.Title
	}

	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&project).Updates(updates).Error; err != nil {
			utils.RespondError(ctx, err)
			return
		}
	}

	taskCount, memberCount, err := countProjectRows(project.ID)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	var owner models.User

	if err := db.DB.First(&owner, project.OwnerID).Error; err != nil {
		utils.RespondError(ctx, err)
		return
	}

	utils.Respond(ctx, http.StatusOK, ProjectResponse{
		ID:          project.ID,
		Title:       project.Title,
		Description: project.Description,
		OwnerID:     project.OwnerID,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
		Owner: types.UserResponse{
			ID:    owner.ID,
			Name:  owner.Name,
			Email: owner.Email,
		},
		TaskCount:   taskCount,
		MemberCount: memberCount,
	})
}

func DeleteProject(ctx *gin.Context) {
	projectID, err := parseIDParam(ctx, "id")

	if err != nil {
		utils.RespondError(ctx, apierrors.BadRequest("Invalid project ID"))
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		utils.RespondError(ctx, apierrors.Unauthorized("User not authenticated"))
		return
	}

	var project models.Project

	// Deletion requires the literal owner, not just an OWNER-role row.
	// Anyone else gets the membership-masked 404.
	if err := db.DB.Where("id = ? AND owner_id = ?", projectID, userID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(ctx, apierrors.NotFound("Project not found"))
		} else {
			utils.RespondError(ctx, err)
		}
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&project).Error
	})

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	utils.RespondMessage(ctx, http.StatusOK, "Project deleted successfully")
}

func countProjectRows(projectID uint) (taskCount, memberCount int64, err error) {
	if err = db.DB.Model(&models.Task{}).Where("project_id = ?", projectID).Count(&taskCount).Error; err != nil {
		return 0, 0, err
	}

	if err = db.DB.Model(&models.ProjectMember{}).Where("project_id = ?", projectID).Count(&memberCount).Error; err != nil {
		return 0, 0, err
	}

	return taskCount, memberCount, nil
}

func parseIDParam(ctx *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)

	if err != nil {
		return 0, err
	}

	return uint(id), nil
}
