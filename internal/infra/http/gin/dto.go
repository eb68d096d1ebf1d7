package ginserver

import (
	"time"

	domainbooking "stayhub/internal/domain/booking"
	domainlistings "stayhub/internal/domain/listings"
	domainreviews "stayhub/internal/domain/reviews"
	domainuser "stayhub/internal/domain/user"
)

const dateLayout = "2006-01-02"

type rangePayload struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type userProfile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  userProfile `json:"user"`
}

func newUserProfile(u *domainuser.User) userProfile {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, string(r))
	}
	return userProfile{
		ID:        string(u.ID),
		Email:     u.Email,
		Name:      u.Name,
		Roles:     roles,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type listingResponse struct {
	ID            string         `json:"id"`
	HostID        string         `json:"host_id"`
	HostName      string         `json:"host_name"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	PricePerNight string         `json:"price_per_night"`
	Capacity      int            `json:"capacity"`
	Utilities     []string       `json:"utilities"`
	Location      string         `json:"location"`
	ImageURLs     []string       `json:"image_urls"`
	Available     []rangePayload `json:"available"`
	AverageRating float64        `json:"average_rating"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func newListingResponse(l *domainlistings.Listing) listingResponse {
	open := l.Availability.Ranges()
	ranges := make([]rangePayload, 0, len(open))
	for _, r := range open {
		ranges = append(ranges, rangePayload{
			Start: r.Start.Format(dateLayout),
			End:   r.End.Format(dateLayout),
		})
	}
	return listingResponse{
		ID:            string(l.ID),
		HostID:        string(l.Host),
		HostName:      l.HostName,
		Title:         l.Title,
		Description:   l.Description,
		PricePerNight: l.PricePerNight.String(),
		Capacity:      l.Capacity,
		Utilities:     l.Utilities,
		Location:      l.Location,
		ImageURLs:     l.ImageURLs,
		Available:     ranges,
		AverageRating: l.AverageRating,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}

func newListingCatalog(items []*domainlistings.Listing) []listingResponse {
	out := make([]listingResponse, 0, len(items))
	for _, l := range items {
		out = append(out, newListingResponse(l))
	}
	return out
}

type bookingResponse struct {
	ID           string    `json:"id"`
	ListingID    string    `json:"listing_id"`
	ListingTitle string    `json:"listing_title"`
	GuestID      string    `json:"guest_id"`
	CheckIn      string    `json:"check_in"`
	CheckOut     string    `json:"check_out"`
	Nights       int       `json:"nights"`
	Guests       int       `json:"guests"`
	TotalPrice   string    `json:"total_price"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func newBookingResponse(b *domainbooking.Booking) bookingResponse {
	return bookingResponse{
		ID:           string(b.ID),
		ListingID:    string(b.ListingID),
		ListingTitle: b.ListingTitle,
		GuestID:      string(b.GuestID),
		CheckIn:      b.Range.Start.Format(dateLayout),
		CheckOut:     b.Range.End.Format(dateLayout),
		Nights:       b.Range.Nights(),
		Guests:       b.Guests,
		TotalPrice:   b.TotalPrice.String(),
		Status:       string(b.Status),
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

func newBookingList(items []*domainbooking.Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(items))
	for _, b := range items {
		out = append(out, newBookingResponse(b))
	}
	return out
}

type reviewResponse struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listing_id"`
	AuthorID  string    `json:"author_id"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func newReviewResponse(r *domainreviews.Review) reviewResponse {
	return reviewResponse{
		ID:        string(r.ID),
		ListingID: string(r.ListingID),
		AuthorID:  string(r.AuthorID),
		Rating:    r.Rating,
		Text:      r.Text,
		CreatedAt: r.CreatedAt,
	}
}

func newReviewList(items []*domainreviews.Review) []reviewResponse {
	out := make([]reviewResponse, 0, len(items))
	for _, r := range items {
		out = append(out, newReviewResponse(r))
	}
	return out
}
