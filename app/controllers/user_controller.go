package controllers

import (
	"net/http"

	"github.com/rpradhan/stockroom/app/services"
	"github.com/rpradhan/stockroom/pkg/bind"
	"github.com/rpradhan/stockroom/pkg/response"
)

// UserController manages operator accounts. The route table gates every
// action behind the admin role.
type UserController struct {
	service *services.UserService
}

func NewUserController(service *services.UserService) *UserController {
	return &UserController{service: service}
}

func (c *UserController) List(w http.ResponseWriter, r *http.Request) {
	users, p, err := c.service.List(queryInt(r, "page", 1), queryInt(r, "limit", 20))
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Paginated(w, users, p)
}

func (c *UserController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	user, err := c.service.Get(id)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, user)
}

func (c *UserController) Create(w http.ResponseWriter, r *http.Request) {
	var body services.UserInput
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.service.Create(body)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, user)
}

func (c *UserController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var body services.UserInput
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.service.Update(id, body)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, user)
}

func (c *UserController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	if err := c.service.Delete(id); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]string{"message": "User deleted"})
}
