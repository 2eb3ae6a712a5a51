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
	"github.com/lets-assist/api/internal/pkg/jwthelper"
	"github.com/lets-assist/api/internal/service"
)

type LookupService interface {
	LookupEmailStatus(ctx context.Context, projectID uint, scheduleID, email string) domain.LookupResult
}

type AttendanceService interface {
	CheckInUser(ctx context.Context, signupID uint) (service.CheckInResult, error)
	CheckInAnonymous(ctx context.Context, projectID uint, scheduleID, email string) (service.CheckInResult, error)
}

type SignupReader interface {
	GetSignup(ctx context.Context, signupID uint) (domain.ProjectSignup, error)
}

type AttendanceHandler struct {
	lookupSvc  LookupService
	svc        AttendanceService
	signups    SignupReader
	signingKey string
}

func NewAttendanceHandler(lookupSvc LookupService, svc AttendanceService, signups SignupReader, signingKey string) *AttendanceHandler {
	return &AttendanceHandler{
		lookupSvc:  lookupSvc,
		svc:        svc,
		signups:    signups,
		signingKey: signingKey,
	}
}

// HandleLookupEmail godoc
// @Summary      Resolve an email to its signup on a schedule slot
// @Description  Kiosk-style lookup at the event entrance. Distinguishes registered users, anonymous signups, slot mismatches and unknown emails.
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        projectID   path      int                        true  "Project ID"
// @Param        scheduleID  path      string                     true  "Schedule slot ID"
// @Param        input       body      request.LookupEmailRequest true  "Email to look up"
// @Success      200  {object}  domain.LookupResult
// @Failure      400  {object}  response.Err
// @Router       /projects/{projectID}/schedules/{scheduleID}/lookup [post]
func (h *AttendanceHandler) HandleLookupEmail(ctx *gin.Context) {
	projectID, err := strconv.ParseUint(ctx.Param("projectID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid project ID: %w", err)))
		return
	}
	scheduleID := ctx.Param("scheduleID")

	var req request.LookupEmailRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	result := h.lookupSvc.LookupEmailStatus(ctx.Request.Context(), uint(projectID), scheduleID, req.Email)

	// Lookup failures are reported in-band so the kiosk UI can show the
	// message without parsing error envelopes.
	ctx.JSON(http.StatusOK, result)
}

// HandleCheckInAnonymous godoc
// @Summary      Check in an anonymous participant by email
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        projectID   path      int                             true  "Project ID"
// @Param        scheduleID  path      string                          true  "Schedule slot ID"
// @Param        input       body      request.AnonymousCheckInRequest true  "Email to check in"
// @Success      200  {object}  response.CheckInResponse
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.CheckInResponse
// @Failure      500  {object}  response.Err
// @Router       /projects/{projectID}/schedules/{scheduleID}/checkin/anonymous [post]
func (h *AttendanceHandler) HandleCheckInAnonymous(ctx *gin.Context) {
	projectID, err := strconv.ParseUint(ctx.Param("projectID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid project ID: %w", err)))
		return
	}
	scheduleID := ctx.Param("scheduleID")

	var req request.AnonymousCheckInRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	result, err := h.svc.CheckInAnonymous(ctx.Request.Context(), uint(projectID), scheduleID, req.Email)
	if err != nil {
		if errors.Is(err, service.ErrAnonymousNotFound) || errors.Is(err, service.ErrSignupNotFound) {
			ctx.JSON(http.StatusNotFound, response.CheckInResponse{
				Error: "no signup found for this email on this project",
			})
			return
		}

		err = fmt.Errorf("v1.HandleCheckInAnonymous -> h.svc.CheckInAnonymous -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, checkInResponse(result))
}

// HandleCheckInSignup godoc
// @Summary      Check in a signup by ID
// @Description  Manual check-in by an organizer, or self check-in by a logged-in volunteer.
// @Tags         attendance
// @Produce      json
// @Param        signupID  path      int  true  "Signup ID"
// @Success      200  {object}  response.CheckInResponse
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /signups/{signupID}/checkin [post]
// @Security BearerAuth
func (h *AttendanceHandler) HandleCheckInSignup(ctx *gin.Context) {
	signupID, err := strconv.ParseUint(ctx.Param("signupID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid signup ID: %w", err)))
		return
	}

	result, err := h.svc.CheckInUser(ctx.Request.Context(), uint(signupID))
	if err != nil {
		if errors.Is(err, service.ErrSignupNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("signup", "ID", signupID))
			return
		}

		err = fmt.Errorf("v1.HandleCheckInSignup -> h.svc.CheckInUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, checkInResponse(result))
}

// HandleGetCheckInToken godoc
// @Summary      Issue a signed check-in token for a signup
// @Description  The token is rendered client-side as a QR code; scanning it posts the token to the QR check-in endpoint.
// @Tags         attendance
// @Produce      json
// @Param        signupID  path      int  true  "Signup ID"
// @Success      200  {object}  response.CheckInTokenResponse
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /signups/{signupID}/checkin-token [get]
// @Security BearerAuth
func (h *AttendanceHandler) HandleGetCheckInToken(ctx *gin.Context) {
	signupID, err := strconv.ParseUint(ctx.Param("signupID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid signup ID: %w", err)))
		return
	}

	signup, err := h.signups.GetSignup(ctx.Request.Context(), uint(signupID))
	if err != nil {
		if errors.Is(err, service.ErrSignupNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("signup", "ID", signupID))
			return
		}

		err = fmt.Errorf("v1.HandleGetCheckInToken -> h.signups.GetSignup -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	token, err := jwthelper.GenerateCheckInToken(h.signingKey, signup.ID, signup.ProjectID, signup.ScheduleID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetCheckInToken -> jwthelper.GenerateCheckInToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.CheckInTokenResponse{Token: token})
}

// HandleCheckInQR godoc
// @Summary      Check in by scanned QR token
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        input  body      request.QRCheckInRequest  true  "Signed check-in token"
// @Success      200  {object}  response.CheckInResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /attendance/checkin/qr [post]
func (h *AttendanceHandler) HandleCheckInQR(ctx *gin.Context) {
	var req request.QRCheckInRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	claims, err := jwthelper.ParseCheckInToken(h.signingKey, req.Token)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized("invalid or expired check-in token"))
		return
	}

	result, err := h.svc.CheckInUser(ctx.Request.Context(), claims.SignupID)
	if err != nil {
		if errors.Is(err, service.ErrSignupNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("signup", "ID", claims.SignupID))
			return
		}

		err = fmt.Errorf("v1.HandleCheckInQR -> h.svc.CheckInUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, checkInResponse(result))
}

func checkInResponse(result service.CheckInResult) response.CheckInResponse {
	t := result.CheckInTime

	return response.CheckInResponse{
		Success:          true,
		SignupID:         result.SignupID,
		CheckInTime:      &t,
		AnonSignupID:     result.AnonSignupID,
		AlreadyCheckedIn: result.AlreadyCheckedIn,
	}
}
