package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lets-assist/api/internal/api/handler/v1/response"
	"github.com/lets-assist/api/internal/domain"
	"github.com/lets-assist/api/internal/service"
)

type CertificateService interface {
	GetCertificate(ctx context.Context, id string) (domain.Certificate, error)
	GetCertificatesByEmail(ctx context.Context, email string) ([]domain.Certificate, error)
}

type CertificateHandler struct {
	svc  CertificateService
	uSvc UserService
}

func NewCertificateHandler(svc CertificateService, uSvc UserService) *CertificateHandler {
	return &CertificateHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleGetCertificate godoc
// @Summary      Get a certificate by ID
// @Description  Certificates are publicly shareable by their ID.
// @Tags         certificates
// @Produce      json
// @Param        certificateID  path      string  true  "Certificate ID"
// @Success      200  {object}  domain.Certificate
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /certificates/{certificateID} [get]
func (h *CertificateHandler) HandleGetCertificate(ctx *gin.Context) {
	certificateID := ctx.Param("certificateID")

	cert, err := h.svc.GetCertificate(ctx.Request.Context(), certificateID)
	if err != nil {
		if errors.Is(err, service.ErrCertificateNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("certificate", "ID", certificateID))
			return
		}

		err = fmt.Errorf("v1.HandleGetCertificate -> h.svc.GetCertificate -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, cert)
}

// HandleGetMyCertificates godoc
// @Summary      List the caller's certificates
// @Tags         certificates
// @Produce      json
// @Success      200  {array}   domain.Certificate
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /certificates [get]
// @Security BearerAuth
func (h *CertificateHandler) HandleGetMyCertificates(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	certs, err := h.svc.GetCertificatesByEmail(ctx.Request.Context(), user.Email)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetMyCertificates -> h.svc.GetCertificatesByEmail -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, certs)
}
