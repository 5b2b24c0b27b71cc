package controllers

import (
	"net/http"

	"github.com/rpradhan/stockroom/app/services"
	"github.com/rpradhan/stockroom/pkg/bind"
	"github.com/rpradhan/stockroom/pkg/response"
)

type SupplierController struct {
	service *services.SupplierService
}

func NewSupplierController(service *services.SupplierService) *SupplierController {
	return &SupplierController{service: service}
}

func (c *SupplierController) List(w http.ResponseWriter, r *http.Request) {
	suppliers, p, err := c.service.List(
		r.URL.Query().Get("search"),
		queryInt(r, "page", 1),
		queryInt(r, "limit", 20),
	)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Paginated(w, suppliers, p)
}

func (c *SupplierController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	supplier, err := c.service.Get(id)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, supplier)
}

func (c *SupplierController) Create(w http.ResponseWriter, r *http.Request) {
	var body services.SupplierInput
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	supplier, err := c.service.Create(body)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, supplier)
}

func (c *SupplierController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var body services.SupplierInput
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	supplier, err := c.service.Update(id, body)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, supplier)
}

func (c *SupplierController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	if err := c.service.Delete(id); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]string{"message": "Supplier deleted"})
}
