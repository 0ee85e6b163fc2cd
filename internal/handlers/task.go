package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/taskhub-dev/taskhub/db"
	"github.com/taskhub-dev/taskhub/internal/apierrors"
	"github.com/taskhub-dev/taskhub/internal/memberships"
	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/internal/types"
	"github.com/taskhub-dev/taskhub/internal/utils"
	"gorm.io/gorm"
)

type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required,max=200"`
	Description string     `json:"description"`
	ProjectID   uint       `json:"projectId" binding:"required"`
	AssigneeID  *uint      `json:"assigneeId"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Status      string     `json:"status" binding:"omitempty,oneof=TODO IN_PROGRESS IN_REVIEW DONE"`
	DueDate     *time.Time `json:"dueDate"`
}

// UpdateTaskRequest carries tri-state fields: an absent field is left
// untouched, an explicit null clears nullable attributes.
type UpdateTaskRequest struct {
	Title       types.Optional[string]    `json:"title"`
	Description types.Optional[string]    `json:"description"`
	Status      types.Optional[string]    `json:"status"`
	Priority    types.Optional[string]    `json:"priority"`
	AssigneeID  types.Optional[uint]      `json:"assigneeId"`
	DueDate     types.Optional[time.Time] `json:"dueDate"`
}

type TaskResponse struct {
	ID          uint                `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	ProjectID   uint                `json:"projectId"`
	CreatorID   uint                `json:"creatorId"`
	AssigneeID  *uint               `json:"assigneeId"`
	Priority    string              `json:"priority"`
	Status      string              `json:"status"`
	DueDate     *time.Time          `json:"dueDate"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
	Assignee    *types.UserResponse `json:"assignee,omitempty"`
}

type CommentResponse struct {
	ID        uint               `json:"id"`
	Body      string             `json:"body"`
	CreatedAt time.Time          `json:"createdAt"`
	Author    types.UserResponse `json:"author"`
}

type TaskProjectSummary struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

type TaskDetailResponse struct {
	TaskResponse
	Creator  types.UserResponse `json:"creator"`
	Project  TaskProjectSummary `json:"project"`
	Comments []CommentResponse  `json:"comments"`
}

func buildTaskResponse(task models.Task) TaskResponse {
	response := TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		ProjectID:   task.ProjectID,
		CreatorID:   task.CreatorID,
		AssigneeID:  task.AssigneeID,
		Priority:    task.Priority,
		Status:      task.Status,
		DueDate:     task.DueDate,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	if task.Assignee != nil {
		response.Assignee = &types.UserResponse{
			ID:    task.Assignee.ID,
			Name:  task.Assignee.Name,
			Email: task.Assignee.Email,
		}
	}

	return response
}

func CreateTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		utils.RespondError(ctx, apierrors.Unauthorized("User not authenticated"))
		return
	}

	var req CreateTaskRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.RespondError(ctx, utils.BindingError(err))
		return
	}

	isMember, err := memberships.IsMember(req.ProjectID, userID)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	if !isMember {
		utils.RespondError(ctx, apierrors.Forbidden("You are not a member of this project"))
		return
	}

	task := models.Task{
		Title:       req.Title,
		Description: req.Description,
		ProjectID:   req.ProjectID,
		CreatorID:   userID,
		AssigneeID:  req.AssigneeID,
		Priority:    req.Priority,
		Status:      req.Status,
		DueDate:     req.DueDate,
	}

	if task.Priority == "" {
		task.Priority = types.PriorityMedium
	}

	if task.Status == "" {
		task.Status = types.StatusTodo
	}

	if err := db.DB.Create(&task).Error; err != nil {
		utils.RespondError(ctx, err)
		return
	}

	if task.AssigneeID != nil {
		var assignee models.User

		if err := db.DB.First(&assignee, *task.AssigneeID).Error; err == nil {
			task.Assignee = &assignee
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(ctx, err)
			return
		}
	}

	utils.Respond(ctx, http.StatusCreated, buildTaskResponse(task))
}

func ListTasks(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		utils.RespondError(ctx, apierrors.Unauthorized("User not authenticated"))
		return
	}

	query := db.DB.
		Joins("JOIN project_members ON project_members.project_id = tasks.project_id AND project_members.deleted_at IS NULL").
		Where("project_members.user_id = ?", userID).
		Preload("Assignee").
		Preload("Project").
		Order("tasks.created_at DESC")

	// Filters are additive equality constraints.
	if projectIDStr := ctx.Query("projectId"); projectIDStr != "" {
		projectID, err := strconv.ParseUint(projectIDStr, 10, 64)

		if err != nil {
			utils.RespondError(ctx, apierrors.BadRequest("Invalid project ID"))
			return
		}

		query = query.Where("tasks.project_id = ?", uint(projectID))
	}

	if status := ctx.Query("status"); status != "" {
		query = query.Where("tasks.status = ?", status)
	}

	if priority := ctx.Query("priority"); priority != "" {
		query = query.Where("tasks.priority = ?", priority)
	}

	if assigneeIDStr := ctx.Query("assigneeId"); assigneeIDStr != "" {
		assigneeID, err := strconv.ParseUint(assigneeIDStr, 10, 64)

		if err != nil {
			utils.RespondError(ctx, apierrors.BadRequest("Invalid assignee ID"))
			return
		}

		query = query.Where("tasks.assignee_id = ?", uint(assigneeID))
	}

	var tasks []models.Task

	if err := query.Find(&tasks).Error; err != nil {
		utils.RespondError(ctx, err)
		return
	}

	response := make([]TaskResponse, 0, len(tasks))

	for _, task := range tasks {
		response = append(response, buildTaskResponse(task))
	}

	utils.Respond(ctx, http.StatusOK, response)
}

func GetTask(ctx *gin.Context) {
	taskID, err := parseIDParam(ctx, "id")

	if err != nil {
		utils.RespondError(ctx, apierrors.BadRequest("Invalid task ID"))
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		utils.RespondError(ctx, apierrors.Unauthorized("User not authenticated"))
		return
	}

	var task models.Task

	err = db.DB.
		Preload("Creator").
		Preload("Assignee").
		Preload("Project").
		Preload("Comments", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("comments.created_at DESC")
		}).
		Preload("Comments.Author").
		First(&task, taskID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(ctx, apierrors.NotFound("Task not found"))
		} else {
			utils.RespondError(ctx, err)
		}
		return
	}

	isMember, err := memberships.IsMember(task.ProjectID, userID)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	if !isMember {
		utils.RespondError(ctx, apierrors.NotFound("Task not found"))
		return
	}

	comments := make([]CommentResponse, 0, len(task.Comments))

	for _, comment := range task.Comments {
		comments = append(comments, CommentResponse{
			ID:        comment.ID,
			Body:      comment.Body,
			CreatedAt: comment.CreatedAt,
			Author: types.UserResponse{
				ID:    comment.Author.ID,
				Name:  comment.Author.Name,
				Email: comment.Author.Email,
			},
		})
	}

	utils.Respond(ctx, http.StatusOK, TaskDetailResponse{
		TaskResponse: buildTaskResponse(task),
		Creator: types.UserResponse{
			ID:    task.Creator.ID,
			Name:  task.Creator.Name,
			Email: task.Creator.Email,
		},
		Project: TaskProjectSummary{
			ID:    task.Project.ID,
			Title: task.Project.Title,
		},
		Comments: comments,
	})
}

func UpdateTask(ctx *gin.Context) {
	taskID, err := parseIDParam(ctx, "id")

	if err != nil {
		utils.RespondError(ctx, apierrors.BadRequest("Invalid task ID"))
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		utils.RespondError(ctx, apierrors.Unauthorized("User not authenticated"))
		return
	}

	var req UpdateTaskRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.RespondError(ctx, apierrors.BadRequest("Invalid request body"))
		return
	}

	if fields := validateTaskUpdate(req); len(fields) > 0 {
		utils.RespondError(ctx, apierrors.Validation(fields))
		return
	}

	var task models.Task

	if err := db.DB.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(ctx, apierrors.NotFound("Task not found"))
		} else {
			utils.RespondError(ctx, err)
		}
		return
	}

	isMember, err := memberships.IsMember(task.ProjectID, userID)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	if !isMember {
		utils.RespondError(ctx, apierrors.NotFound("Task not found"))
		return
	}

	updates := make(map[string]interface{})

	if req.Title.Set {
		updates["title"] = req.Title.Value
	}

	if req.Description.Set {
		updates["description"] = req.Description.Value
	}

	if req.Status.Set {
		updates["status"] = req.Status.Value
	}

	if req.Priority.Set {
		updates["priority"] = req.Priority.Value
	}

	if req.AssigneeID.Set {
		if req.AssigneeID.Valid {
			updates["assignee_id"] = req.AssigneeID.Value
		} else {
			updates["assignee_id"] = nil
		}
	}

	if req.DueDate.Set {
		if req.DueDate.Valid {
			updates["due_date"] = req.DueDate.Value
		} else {
			updates["due_date"] = nil
		}
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&task).Updates(updates).Error; err != nil {
			utils.RespondError(ctx, err)
			return
		}
	}

	if err := db.DB.Preload("Assignee").First(&task, task.ID).Error; err != nil {
		utils.RespondError(ctx, err)
		return
	}

	utils.Respond(ctx, http.StatusOK, buildTaskResponse(task))
}

func DeleteTask(ctx *gin.Context) {
	taskID, err := parseIDParam(ctx, "id")

	if err != nil {
		utils.RespondError(ctx, apierrors.BadRequest("Invalid task ID"))
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		utils.RespondError(ctx, apierrors.Unauthorized("User not authenticated"))
		return
	}

	var task models.Task

	if err := db.DB.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(ctx, apierrors.NotFound("Task not found"))
		} else {
			utils.RespondError(ctx, err)
		}
		return
	}

	role, err := memberships.RoleOf(task.ProjectID, userID)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	// MEMBER-role members may not delete; they get the same 404 as
	// outsiders.
	if role != types.RoleOwner && role != types.RoleAdmin {
		utils.RespondError(ctx, apierrors.NotFound("Task not found or you do not have permission to delete it"))
		return
	}

	if err := db.DB.Delete(&task).Error; err != nil {
		utils.RespondError(ctx, err)
		return
	}

	utils.RespondMessage(ctx, http.StatusOK, "Task deleted successfully")
}

func validateTaskUpdate(req UpdateTaskRequest) []types.FieldError {
	var fields []types.FieldError

	if req.Title.Set {
		if !req.Title.Valid || req.Title.Value == "" {
			fields = append(fields, types.FieldError{Field: "title", Message: "Title is required"})
		} else if utf8.RuneCountInString(req.Title.Value) > 200 {
			fields = append(fields, types.FieldError{Field: "title", Message: "Title too long"})
		}
	}

	if req.Description.Set && !req.Description.Valid {
		fields = append(fields, types.FieldError{Field: "description", Message: "Description cannot be null"})
	}

	if req.Status.Set && (!req.Status.Valid || !types.ValidStatus(req.Status.Value)) {
		fields = append(fields, types.FieldError{Field: "status", Message: "Must be one of: TODO IN_PROGRESS IN_REVIEW DONE"})
	}

	if req.Priority.Set && (!req.Priority.Valid || !types.ValidPriority(req.Priority.Value)) {
		fields = append(fields, types.FieldError{Field: "priority", Message: "Must be one of: LOW MEDIUM HIGH URGENT"})
	}

	return fields
}
