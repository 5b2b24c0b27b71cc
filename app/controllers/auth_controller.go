package controllers

import (
	"net/http"

	"github.com/rpradhan/stockroom/app/services"
	"github.com/rpradhan/stockroom/pkg/bind"
	"github.com/rpradhan/stockroom/pkg/middleware"
	"github.com/rpradhan/stockroom/pkg/response"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	pair, err := c.service.Login(body.Email, body.Password)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, pair)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	var body refreshRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	pair, err := c.service.Refresh(body.RefreshToken)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, pair)
}

func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	user, err := c.service.Me(id)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, user)
}
