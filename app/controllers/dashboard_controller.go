package controllers

import (
	"net/http"

	"github.com/rpradhan/stockroom/app/services"
	"github.com/rpradhan/stockroom/pkg/response"
)

type DashboardController struct {
	service *services.DashboardService
}

func NewDashboardController(service *services.DashboardService) *DashboardController {
	return &DashboardController{service: service}
}

func (c *DashboardController) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := c.service.Summary()
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, summary)
}
