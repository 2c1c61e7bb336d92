package seats

import (
	"net/http"

	"bookmyseat/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	ledger Ledger
}

func NewController(ledger Ledger) *Controller {
	return &Controller{ledger: ledger}
}

// generate seat grid request payload
type GenerateSeatsRequest struct {
	Rows        int `json:"rows" binding:"required,min=1,max=26"`
	SeatsPerRow int `json:"seats_per_row" binding:"required,min=1,max=50"`
}

// ListSeats handles GET /theaters/:id/seats.
func (c *Controller) ListSeats(ctx *gin.Context) {
	theaterID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid theater id", nil)
		return
	}

	statuses, err := c.ledger.ListSeats(ctx.Request.Context(), theaterID)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list seats", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Seats retrieved successfully", gin.H{
		"seats": statuses,
		"count": len(statuses),
	})
}

// GenerateSeats handles POST /admin/theaters/:id/seats.
func (c *Controller) GenerateSeats(ctx *gin.Context) {
	theaterID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid theater id", nil)
		return
	}

	var req GenerateSeatsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	seats, err := c.ledger.GenerateSeats(ctx.Request.Context(), theaterID, req.Rows, req.SeatsPerRow)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to generate seats", nil)
		return
	}

	response.Success(ctx, http.StatusCreated, "Seats created successfully", gin.H{
		"count": len(seats),
	})
}
