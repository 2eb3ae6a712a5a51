package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type LookupEmailRequest struct {
	Email string `json:"email" binding:"required"`
}

func (req *LookupEmailRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, is.Email),
	)
}

type AnonymousCheckInRequest struct {
	Email string `json:"email" binding:"required"`
}

func (req *AnonymousCheckInRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, is.Email),
	)
}

type QRCheckInRequest struct {
	Token string `json:"token" binding:"required"`
}

func (req *QRCheckInRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Token, validation.Required),
	)
}
