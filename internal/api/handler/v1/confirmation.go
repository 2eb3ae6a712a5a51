package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lets-assist/api/internal/api/handler/v1/response"
	"github.com/lets-assist/api/internal/domain"
	"github.com/lets-assist/api/internal/service"
)

type ConfirmationService interface {
	Confirm(ctx context.Context, anonymousID, token string) (service.ConfirmationState, domain.AnonymousSignup)
}

type ConfirmationHandler struct {
	svc ConfirmationService
}

func NewConfirmationHandler(svc ConfirmationService) *ConfirmationHandler {
	return &ConfirmationHandler{
		svc: svc,
	}
}

// HandleConfirm godoc
// @Summary      Confirm an anonymous signup
// @Description  Target of the emailed confirmation link. Confirming promotes the pending signup to approved; revisiting a used link is harmless.
// @Tags         signups
// @Produce      json
// @Param        anonymousID  path      string  true  "Anonymous signup ID"
// @Param        token        query     string  true  "Confirmation token"
// @Success      200  {object}  response.ConfirmationResponse
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.ConfirmationResponse
// @Failure      500  {object}  response.ConfirmationResponse
// @Router       /anonymous/{anonymousID}/confirm [get]
func (h *ConfirmationHandler) HandleConfirm(ctx *gin.Context) {
	anonymousID := ctx.Param("anonymousID")
	token := ctx.Query("token")
	if token == "" {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("missing confirmation token")))
		return
	}

	state, anon := h.svc.Confirm(ctx.Request.Context(), anonymousID, token)

	switch state {
	case service.ConfirmationSuccess:
		ctx.JSON(http.StatusOK, response.ConfirmationResponse{
			State:   string(state),
			Message: fmt.Sprintf("thanks %v, your signup is confirmed", anon.Name),
		})
	case service.ConfirmationAlreadyConfirmed:
		ctx.JSON(http.StatusOK, response.ConfirmationResponse{
			State:   string(state),
			Message: "this signup was already confirmed",
		})
	case service.ConfirmationInvalid:
		ctx.JSON(http.StatusNotFound, response.ConfirmationResponse{
			State:   string(state),
			Message: "this confirmation link is invalid",
		})
	default:
		ctx.JSON(http.StatusInternalServerError, response.ConfirmationResponse{
			State:   string(service.ConfirmationError),
			Message: "something went wrong confirming your signup, please contact the organizer",
		})
	}
}
