package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lets-assist/api/internal/api/handler/v1/response"
	"github.com/lets-assist/api/internal/domain"
)

type DashboardService interface {
	GetDashboard(ctx context.Context, userID uint) ([]domain.DashboardCard, error)
}

type DashboardHandler struct {
	svc  DashboardService
	uSvc UserService
}

func NewDashboardHandler(svc DashboardService, uSvc UserService) *DashboardHandler {
	return &DashboardHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleGetDashboard godoc
// @Summary      Get the caller's dashboard cards
// @Description  One card per active signup, classified into a render state with any progress and publication countdown the state needs.
// @Tags         dashboard
// @Produce      json
// @Success      200  {array}   domain.DashboardCard
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /dashboard [get]
// @Security BearerAuth
func (h *DashboardHandler) HandleGetDashboard(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	cards, err := h.svc.GetDashboard(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetDashboard -> h.svc.GetDashboard -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, cards)
}
