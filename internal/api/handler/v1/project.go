package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lets-assist/api/internal/api/handler/v1/request"
	"github.com/lets-assist/api/internal/api/handler/v1/response"
	"github.com/lets-assist/api/internal/domain"
	"github.com/lets-assist/api/internal/service"
)

type ProjectService interface {
	CreateProject(ctx context.Context, project domain.Project) (domain.Project, error)
	GetProject(ctx context.Context, id uint) (domain.Project, error)
	GetActiveProjects(ctx context.Context) ([]domain.Project, error)
	GetProjectsByCreator(ctx context.Context, creatorID uint) ([]domain.Project, error)
	CancelProject(ctx context.Context, projectID, callerID uint) error
	PublishHours(ctx context.Context, projectID uint, scheduleID string, callerID uint) error
}

type ProjectHandler struct {
	svc  ProjectService
	uSvc UserService
}

func NewProjectHandler(svc ProjectService, uSvc UserService) *ProjectHandler {
	return &ProjectHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleGetProjects godoc
// @Summary      List active projects
// @Tags         projects
// @Produce      json
// @Success      200  {array}   domain.Project
// @Failure      500  {object}  response.Err
// @Router       /projects [get]
func (h *ProjectHandler) HandleGetProjects(ctx *gin.Context) {
	projects, err := h.svc.GetActiveProjects(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetProjects -> h.svc.GetActiveProjects -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, projects)
}

// HandleGetProject godoc
// @Summary      Get a project by ID
// @Tags         projects
// @Produce      json
// @Param        projectID  path      int  true  "Project ID"
// @Success      200  {object}  domain.Project
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /projects/{projectID} [get]
func (h *ProjectHandler) HandleGetProject(ctx *gin.Context) {
	projectID, err := strconv.ParseUint(ctx.Param("projectID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid project ID: %w", err)))
		return
	}

	project, err := h.svc.GetProject(ctx.Request.Context(), uint(projectID))
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("project", "ID", projectID))
			return
		}

		err = fmt.Errorf("v1.HandleGetProject -> h.svc.GetProject -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, project)
}

// HandleCreateProject godoc
// @Summary      Create a new project
// @Description  Creates a new volunteer project. Only organizers can create projects.
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateProjectRequest  true  "Project details"
// @Success      201    {object}  domain.Project
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /projects [post]
// @Security BearerAuth
func (h *ProjectHandler) HandleCreateProject(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if user.Role != domain.RoleOrganizer {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an organizer", user.ID)))
		return
	}

	var req request.CreateProjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	project := domain.Project{
		Title:              req.Title,
		Location:           req.Location,
		Description:        req.Description,
		EventType:          domain.EventType(req.EventType),
		Schedule:           req.Schedule,
		VerificationMethod: domain.VerificationMethod(req.VerificationMethod),
		RequireLogin:       req.RequireLogin,
		Organization:       req.Organization,
		CreatorID:          user.ID,
	}

	created, err := h.svc.CreateProject(ctx.Request.Context(), project)
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateProject -> h.svc.CreateProject -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleCancelProject godoc
// @Summary      Cancel a project
// @Tags         projects
// @Produce      json
// @Param        projectID  path      int  true  "Project ID"
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /projects/{projectID} [delete]
// @Security BearerAuth
func (h *ProjectHandler) HandleCancelProject(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	projectID, err := strconv.ParseUint(ctx.Param("projectID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid project ID: %w", err)))
		return
	}

	err = h.svc.CancelProject(ctx.Request.Context(), uint(projectID), user.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProjectNotFound):
			response.RenderErr(ctx, response.ErrNotFound("project", "ID", projectID))
		case errors.Is(err, service.ErrNotProjectCreator):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		case errors.Is(err, service.ErrProjectStarted):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleCancelProject -> h.svc.CancelProject -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "project cancelled"})
}

// HandlePublishHours godoc
// @Summary      Publish volunteer hours for a schedule slot
// @Description  Finalizes hours for a slot and issues certificates for attended signups. One-way: publishing twice is a no-op.
// @Tags         projects
// @Produce      json
// @Param        projectID   path      int     true  "Project ID"
// @Param        scheduleID  path      string  true  "Schedule slot ID"
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /projects/{projectID}/schedules/{scheduleID}/publish [post]
// @Security BearerAuth
func (h *ProjectHandler) HandlePublishHours(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	projectID, err := strconv.ParseUint(ctx.Param("projectID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid project ID: %w", err)))
		return
	}
	scheduleID := ctx.Param("scheduleID")

	err = h.svc.PublishHours(ctx.Request.Context(), uint(projectID), scheduleID, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProjectNotFound):
			response.RenderErr(ctx, response.ErrNotFound("project", "ID", projectID))
		case errors.Is(err, domain.ErrSessionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("schedule slot", "ID", scheduleID))
		case errors.Is(err, service.ErrNotProjectCreator):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("v1.HandlePublishHours -> h.svc.PublishHours -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "hours published"})
}
