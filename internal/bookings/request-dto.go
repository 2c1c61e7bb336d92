package bookings

// SelectSeatsRequest is the seat-selection payload.
type SelectSeatsRequest struct {
	SeatIDs []string `json:"seat_ids" binding:"required,min=1,dive,uuid"`
}
