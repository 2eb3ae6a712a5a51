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

type SignupService interface {
	SignupRegistered(ctx context.Context, projectID uint, scheduleID string, userID uint) (domain.ProjectSignup, error)
	SignupAnonymous(ctx context.Context, projectID uint, scheduleID, email, name, phone string) (domain.AnonymousSignup, error)
	Approve(ctx context.Context, signupID uint) error
	Reject(ctx context.Context, signupID uint) error
	GetSignupsBySchedule(ctx context.Context, projectID uint, scheduleID string) ([]domain.ProjectSignup, error)
}

type SignupHandler struct {
	svc  SignupService
	uSvc UserService
}

func NewSignupHandler(svc SignupService, uSvc UserService) *SignupHandler {
	return &SignupHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleSignupRegistered godoc
// @Summary      Sign up the authenticated user for a schedule slot
// @Tags         signups
// @Produce      json
// @Param        projectID   path      int     true  "Project ID"
// @Param        scheduleID  path      string  true  "Schedule slot ID"
// @Success      201  {object}  domain.ProjectSignup
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /projects/{projectID}/schedules/{scheduleID}/signup [post]
// @Security BearerAuth
func (h *SignupHandler) HandleSignupRegistered(ctx *gin.Context) {
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

	signup, err := h.svc.SignupRegistered(ctx.Request.Context(), uint(projectID), scheduleID, user.ID)
	if err != nil {
		h.renderSignupErr(ctx, err, projectID, scheduleID)
		return
	}

	ctx.JSON(http.StatusCreated, signup)
}

// HandleSignupAnonymous godoc
// @Summary      Sign up without an account
// @Description  Creates a pending signup and emails a confirmation link to the given address.
// @Tags         signups
// @Accept       json
// @Produce      json
// @Param        projectID   path      int                             true  "Project ID"
// @Param        scheduleID  path      string                          true  "Schedule slot ID"
// @Param        input       body      request.AnonymousSignupRequest  true  "Participant details"
// @Success      201  {object}  domain.AnonymousSignup
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /projects/{projectID}/schedules/{scheduleID}/signup/anonymous [post]
func (h *SignupHandler) HandleSignupAnonymous(ctx *gin.Context) {
	projectID, err := strconv.ParseUint(ctx.Param("projectID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid project ID: %w", err)))
		return
	}
	scheduleID := ctx.Param("scheduleID")

	var req request.AnonymousSignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	anon, err := h.svc.SignupAnonymous(ctx.Request.Context(), uint(projectID), scheduleID, req.Email, req.Name, req.PhoneNumber)
	if err != nil {
		if errors.Is(err, service.ErrLoginRequired) {
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
			return
		}
		h.renderSignupErr(ctx, err, projectID, scheduleID)
		return
	}

	ctx.JSON(http.StatusCreated, anon)
}

// HandleApproveSignup godoc
// @Summary      Approve a pending signup
// @Tags         signups
// @Produce      json
// @Param        signupID  path  int  true  "Signup ID"
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /signups/{signupID}/approve [post]
// @Security BearerAuth
func (h *SignupHandler) HandleApproveSignup(ctx *gin.Context) {
	h.updateStatus(ctx, h.svc.Approve, "approved")
}

// HandleRejectSignup godoc
// @Summary      Reject a signup
// @Tags         signups
// @Produce      json
// @Param        signupID  path  int  true  "Signup ID"
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /signups/{signupID}/reject [post]
// @Security BearerAuth
func (h *SignupHandler) HandleRejectSignup(ctx *gin.Context) {
	h.updateStatus(ctx, h.svc.Reject, "rejected")
}

// HandleGetSignupsBySchedule godoc
// @Summary      List the signups for a schedule slot
// @Tags         signups
// @Produce      json
// @Param        projectID   path      int     true  "Project ID"
// @Param        scheduleID  path      string  true  "Schedule slot ID"
// @Success      200  {array}   domain.ProjectSignup
// @Failure      400  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /projects/{projectID}/schedules/{scheduleID}/signups [get]
// @Security BearerAuth
func (h *SignupHandler) HandleGetSignupsBySchedule(ctx *gin.Context) {
	projectID, err := strconv.ParseUint(ctx.Param("projectID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid project ID: %w", err)))
		return
	}
	scheduleID := ctx.Param("scheduleID")

	signups, err := h.svc.GetSignupsBySchedule(ctx.Request.Context(), uint(projectID), scheduleID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetSignupsBySchedule -> h.svc.GetSignupsBySchedule -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, signups)
}

func (h *SignupHandler) updateStatus(ctx *gin.Context, update func(context.Context, uint) error, verb string) {
	signupID, err := strconv.ParseUint(ctx.Param("signupID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid signup ID: %w", err)))
		return
	}

	err = update(ctx.Request.Context(), uint(signupID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSignupNotFound):
			response.RenderErr(ctx, response.ErrNotFound("signup", "ID", signupID))
		case errors.Is(err, service.ErrNotPending):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.SignupHandler.updateStatus -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "signup " + verb})
}

func (h *SignupHandler) renderSignupErr(ctx *gin.Context, err error, projectID uint64, scheduleID string) {
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		response.RenderErr(ctx, response.ErrNotFound("project", "ID", projectID))
	case errors.Is(err, domain.ErrSessionNotFound):
		response.RenderErr(ctx, response.ErrNotFound("schedule slot", "ID", scheduleID))
	case errors.Is(err, service.ErrProjectNotActive),
		errors.Is(err, service.ErrSlotFull),
		errors.Is(err, service.ErrDuplicateSignup):
		response.RenderErr(ctx, response.ErrBadRequest(err))
	default:
		err = fmt.Errorf("v1.SignupHandler -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}
