package listings

import (
	"context"
	"errors"
	"strings"
	"time"

	"stayhub/internal/domain/availability"
	"stayhub/internal/domain/shared/daterange"
	"stayhub/internal/domain/shared/events"
	"stayhub/internal/domain/shared/money"
)

var (
	ErrTitleRequired    = errors.New("listings: title is required")
	ErrLocationRequired = errors.New("listings: location is required")
	ErrHostRequired     = errors.New("listings: host is required")
	ErrInvalidPrice     = errors.New("listings: price per night must be positive")
	ErrInvalidCapacity  = errors.New("listings: capacity must be positive")
	ErrNotFound         = errors.New("listings: not found")
)

type ListingID string
type HostID string

// Listing owns its availability set: open date ranges are mutated only
// through OpenDates, CloseDates and ReopenDates.
type Listing struct {
	ID            ListingID
	Host          HostID
	HostName      string
	Title         string
	Description   string
	PricePerNight money.Money
	Capacity      int
	Utilities     []string
	Location      string
	ImageURLs     []string
	Availability  availability.Set
	AverageRating float64
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id ListingID) (*Listing, error)
	Save(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id ListingID) error
	List(ctx context.Context, filter Filter) ([]*Listing, error)
}

// Filter mirrors the catalog finders: zero values mean "no constraint".
type Filter struct {
	Host        HostID
	Location    string
	PriceMin    money.Money
	PriceMax    money.Money
	CapacityMin int
	CapacityMax int
	Utility     string
}

type CreateParams struct {
	ID            ListingID
	Host          HostID
	HostName      string
	Title         string
	Description   string
	PricePerNight money.Money
	Capacity      int
	Utilities     []string
	Location      string
	ImageURLs     []string
	AvailableFor  []daterange.DateRange
	Now           time.Time
}

func NewListing(params CreateParams) (*Listing, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, errors.New("listings: id is required")
	}
	if strings.TrimSpace(string(params.Host)) == "" {
		return nil, ErrHostRequired
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(params.Location) == "" {
		return nil, ErrLocationRequired
	}
	if !params.PricePerNight.Positive() {
		return nil, ErrInvalidPrice
	}
	if params.Capacity < 1 {
		return nil, ErrInvalidCapacity
	}

	open, err := availability.NewSet(params.AvailableFor...)
	if err != nil {
		return nil, err
	}

	now := params.Now.UTC()
	listing := &Listing{
		ID:            params.ID,
		Host:          params.Host,
		HostName:      strings.TrimSpace(params.HostName),
		Title:         strings.TrimSpace(params.Title),
		Description:   strings.TrimSpace(params.Description),
		PricePerNight: params.PricePerNight,
		Capacity:      params.Capacity,
		Utilities:     normalizeTokens(params.Utilities),
		Location:      strings.TrimSpace(params.Location),
		ImageURLs:     append([]string(nil), params.ImageURLs...),
		Availability:  open,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	listing.Record(ListingCreated{ListingID: listing.ID, HostID: listing.Host, At: now})
	return listing, nil
}

type UpdateParams struct {
	Title         string
	Description   string
	PricePerNight money.Money
	Capacity      int
	Utilities     []string
	Location      string
	ImageURLs     []string
	Now           time.Time
}

func (l *Listing) UpdateAttributes(params UpdateParams) error {
	if strings.TrimSpace(params.Title) == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(params.Location) == "" {
		return ErrLocationRequired
	}
	if !params.PricePerNight.Positive() {
		return ErrInvalidPrice
	}
	if params.Capacity < 1 {
		return ErrInvalidCapacity
	}
	l.Title = strings.TrimSpace(params.Title)
	l.Description = strings.TrimSpace(params.Description)
	l.PricePerNight = params.PricePerNight
	l.Capacity = params.Capacity
	l.Utilities = normalizeTokens(params.Utilities)
	l.Location = strings.TrimSpace(params.Location)
	l.ImageURLs = append([]string(nil), params.ImageURLs...)
	l.UpdatedAt = params.Now.UTC()
	l.Record(ListingUpdated{ListingID: l.ID, At: l.UpdatedAt})
	return nil
}

// OpenDates adds a range to the availability set (host adding open dates).
func (l *Listing) OpenDates(r daterange.DateRange, now time.Time) error {
	if err := l.Availability.Insert(r); err != nil {
		return err
	}
	l.UpdatedAt = now.UTC()
	l.Record(DatesOpened{ListingID: l.ID, Range: r, At: l.UpdatedAt})
	return nil
}

// CloseDates removes a booked range from the availability set, splitting
// the surrounding open interval as needed.
func (l *Listing) CloseDates(r daterange.DateRange, now time.Time) error {
	if err := l.Availability.Remove(r); err != nil {
		return err
	}
	l.UpdatedAt = now.UTC()
	l.Record(DatesClosed{ListingID: l.ID, Range: r, At: l.UpdatedAt})
	return nil
}

// ReopenDates returns a previously closed range to the set, merging with
// any open neighbors it now touches.
func (l *Listing) ReopenDates(r daterange.DateRange, now time.Time) error {
	if err := l.Availability.Insert(r); err != nil {
		return err
	}
	l.UpdatedAt = now.UTC()
	l.Record(DatesOpened{ListingID: l.ID, Range: r, At: l.UpdatedAt})
	return nil
}

// AttachImage appends an uploaded photo URL.
func (l *Listing) AttachImage(url string, now time.Time) {
	url = strings.TrimSpace(url)
	if url == "" {
		return
	}
	l.ImageURLs = append(l.ImageURLs, url)
	l.UpdatedAt = now.UTC()
}

// SetAverageRating replaces the denormalized review average.
func (l *Listing) SetAverageRating(avg float64, now time.Time) {
	l.AverageRating = avg
	l.UpdatedAt = now.UTC()
}

func normalizeTokens(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
