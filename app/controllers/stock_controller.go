package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/rpradhan/stockroom/app/models"
	"github.com/rpradhan/stockroom/app/repositories"
	"github.com/rpradhan/stockroom/app/services"
	"github.com/rpradhan/stockroom/pkg/bind"
	"github.com/rpradhan/stockroom/pkg/response"
)

// StockController serves the catalog. Quantity never changes through these
// handlers; movements go through ReportController and the ledger.
type StockController struct {
	service *services.StockService
}

func NewStockController(service *services.StockService) *StockController {
	return &StockController{service: service}
}

func (c *StockController) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repositories.StockFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Supplier: q.Get("supplier"),
		Page:     queryInt(r, "page", 1),
		Limit:    queryInt(r, "limit", 20),
	}

	stocks, p, err := c.service.List(filter)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Paginated(w, stocks, p)
}

func (c *StockController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	stock, err := c.service.Get(id)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, stock)
}

func (c *StockController) Create(w http.ResponseWriter, r *http.Request) {
	var body services.StockInput
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	stock, err := c.service.Create(actorID(r), body)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, stock)
}

// Patch applies a partial update. Absent fields keep their value, so the
// body is decoded straight into the pointer-field patch without the
// required-field validation pass.
func (c *StockController) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var patch models.StockPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	stock, err := c.service.Patch(id, patch)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, stock)
}

func (c *StockController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	if err := c.service.Delete(id); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]string{"message": "Stock deleted"})
}
