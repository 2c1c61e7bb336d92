package reporting

// NameCount is one row of a ranked listing.
type NameCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// DashboardReport summarizes completed bookings for the admin
// dashboard. Revenue is derived from the flat ticket price, only paid
// bookings count.
type DashboardReport struct {
	TotalBookings     int64       `json:"total_bookings"`
	TotalRevenueMinor int64       `json:"total_revenue_minor"`
	Currency          string      `json:"currency"`
	PopularMovies     []NameCount `json:"popular_movies"`
	BusyTheaters      []NameCount `json:"busy_theaters"`
}
