package reporting

import (
	"net/http"

	"bookmyseat/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// Dashboard handles GET /admin/dashboard.
func (c *Controller) Dashboard(ctx *gin.Context) {
	report, err := c.service.Dashboard(ctx.Request.Context())
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to build dashboard", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Dashboard retrieved successfully", report)
}
