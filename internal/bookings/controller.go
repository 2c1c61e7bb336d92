package bookings

import (
	"errors"
	"net/http"

	"bookmyseat/internal/seats"
	"bookmyseat/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	engine Engine
}

func NewController(engine Engine) *Controller {
	return &Controller{engine: engine}
}

func currentUserID(ctx *gin.Context) (uuid.UUID, bool) {
	raw, exists := ctx.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	idStr, ok := raw.(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// SelectSeats handles POST /theaters/:id/book.
func (c *Controller) SelectSeats(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	theaterID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid theater id", nil)
		return
	}

	var req SelectSeatsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	seatIDs := make([]uuid.UUID, 0, len(req.SeatIDs))
	for _, raw := range req.SeatIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(ctx, http.StatusBadRequest, "Invalid seat id", raw)
			return
		}
		seatIDs = append(seatIDs, id)
	}

	result, err := c.engine.SelectSeats(ctx.Request.Context(), userID, theaterID, seatIDs)
	if err != nil {
		var unavailable *seats.UnavailableSeatsError
		switch {
		case errors.As(err, &unavailable):
			response.Error(ctx, http.StatusConflict, "Some seats are unavailable", gin.H{
				"seat_ids": unavailable.SeatIDs,
			})
		case errors.Is(err, seats.ErrNoSeatsSelected):
			response.Error(ctx, http.StatusBadRequest, "No seats selected", nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to book seats", nil)
		}
		return
	}

	response.Success(ctx, http.StatusCreated, "Seats booked, complete payment to confirm", result)
}

// Checkout handles POST /bookings/:id/checkout.
func (c *Controller) Checkout(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid booking id", nil)
		return
	}

	booking, err := c.engine.GetBooking(ctx.Request.Context(), bookingID)
	if err != nil {
		c.respondEngineError(ctx, err)
		return
	}
	if booking.UserID != userID {
		response.Error(ctx, http.StatusNotFound, "Booking not found", nil)
		return
	}

	checkoutURL, err := c.engine.InitiatePayment(ctx.Request.Context(), bookingID)
	if err != nil {
		c.respondEngineError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Checkout session created", gin.H{
		"checkout_url": checkoutURL,
	})
}

// PaymentSuccess handles GET /payments/success/:bookingID, the gateway
// success callback. Replays of the same callback succeed without side
// effects.
func (c *Controller) PaymentSuccess(ctx *gin.Context) {
	bookingID, err := uuid.Parse(ctx.Param("bookingID"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid booking id", nil)
		return
	}

	if err := c.engine.ConfirmPayment(ctx.Request.Context(), bookingID); err != nil {
		c.respondEngineError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Payment confirmed", gin.H{
		"booking_id": bookingID,
	})
}

// PaymentFailed handles GET /payments/failed, the gateway cancel
// callback. A booking_id query param releases the held seat.
func (c *Controller) PaymentFailed(ctx *gin.Context) {
	if raw := ctx.Query("booking_id"); raw != "" {
		bookingID, err := uuid.Parse(raw)
		if err != nil {
			response.Error(ctx, http.StatusBadRequest, "Invalid booking id", nil)
			return
		}
		if err := c.engine.ReportFailure(ctx.Request.Context(), bookingID); err != nil {
			c.respondEngineError(ctx, err)
			return
		}
	}

	response.Success(ctx, http.StatusOK, "Payment was not completed", nil)
}

// Cancel handles POST /bookings/:id/cancel.
func (c *Controller) Cancel(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid booking id", nil)
		return
	}

	if err := c.engine.Cancel(ctx.Request.Context(), bookingID, userID); err != nil {
		c.respondEngineError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Booking cancelled", nil)
}

// ListMine handles GET /users/bookings.
func (c *Controller) ListMine(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	bookings, err := c.engine.ListUserBookings(ctx.Request.Context(), userID)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list bookings", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Bookings retrieved successfully", gin.H{
		"bookings": bookings,
		"count":    len(bookings),
	})
}

func (c *Controller) respondEngineError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrBookingNotFound):
		response.Error(ctx, http.StatusNotFound, "Booking not found", nil)
	case errors.Is(err, ErrBookingClosed):
		response.Error(ctx, http.StatusConflict, "Booking already paid", nil)
	default:
		response.Error(ctx, http.StatusInternalServerError, "Booking operation failed", nil)
	}
}
