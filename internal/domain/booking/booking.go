package booking

import (
	"context"
	"errors"
	"time"

	"stayhub/internal/domain/listings"
	"stayhub/internal/domain/shared/daterange"
	"stayhub/internal/domain/shared/events"
	"stayhub/internal/domain/shared/money"
	"stayhub/internal/domain/user"
)

var (
	ErrInvalidGuests    = errors.New("booking: guests count must be positive")
	ErrInvalidState     = errors.New("booking: invalid state transition")
	ErrNotFound         = errors.New("booking: not found")
	ErrCapacityExceeded = errors.New("booking: guests exceed listing capacity")
	ErrDatesUnavailable = errors.New("booking: dates are not within open availability")
	ErrDateConflict     = errors.New("booking: dates collide with another active booking")
	ErrCheckInPast      = errors.New("booking: check-in date is in the past")
)

type BookingID string

type Booking struct {
	ID           BookingID
	ListingID    listings.ListingID
	ListingTitle string
	GuestID      user.ID
	Range        daterange.DateRange
	Guests       int
	TotalPrice   money.Money
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Version      int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	Save(ctx context.Context, booking *Booking) error
	Delete(ctx context.Context, id BookingID) error
	ListByListing(ctx context.Context, listingID listings.ListingID) ([]*Booking, error)
	ListByGuest(ctx context.Context, guestID user.ID) ([]*Booking, error)
	ListAll(ctx context.Context) ([]*Booking, error)
	DeleteByListing(ctx context.Context, listingID listings.ListingID) error
}

type CreateParams struct {
	ID           BookingID
	ListingID    listings.ListingID
	ListingTitle string
	GuestID      user.ID
	Range        daterange.DateRange
	Guests       int
	TotalPrice   money.Money
	CreatedAt    time.Time
}

func NewBooking(params CreateParams) (*Booking, error) {
	if params.Guests <= 0 {
		return nil, ErrInvalidGuests
	}
	if params.GuestID == "" {
		return nil, errors.New("booking: guest id required")
	}
	if !params.TotalPrice.Positive() {
		return nil, errors.New("booking: total price must be positive")
	}
	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:           params.ID,
		ListingID:    params.ListingID,
		ListingTitle: params.ListingTitle,
		GuestID:      params.GuestID,
		Range:        params.Range,
		Guests:       params.Guests,
		TotalPrice:   params.TotalPrice,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	b.Record(BookingRequested{BookingID: b.ID, ListingID: b.ListingID, GuestID: b.GuestID, Range: b.Range, Guests: b.Guests, TotalPrice: b.TotalPrice, At: now})
	return b, nil
}

func (b *Booking) Accept(now time.Time) error {
	if !b.Status.CanTransitionTo(StatusAccepted) {
		return ErrInvalidState
	}
	b.Status = StatusAccepted
	b.UpdatedAt = now.UTC()
	b.Record(BookingAccepted{BookingID: b.ID, ListingID: b.ListingID, Range: b.Range, At: b.UpdatedAt})
	return nil
}

func (b *Booking) Reject(now time.Time) error {
	if !b.Status.CanTransitionTo(StatusRejected) {
		return ErrInvalidState
	}
	b.Status = StatusRejected
	b.UpdatedAt = now.UTC()
	b.Record(BookingRejected{BookingID: b.ID, ListingID: b.ListingID, At: b.UpdatedAt})
	return nil
}

func (b *Booking) Cancel(now time.Time) error {
	if !b.Status.CanTransitionTo(StatusCancelled) {
		return ErrInvalidState
	}
	wasAccepted := b.Status == StatusAccepted
	b.Status = StatusCancelled
	b.UpdatedAt = now.UTC()
	b.Record(BookingCancelled{BookingID: b.ID, ListingID: b.ListingID, Range: b.Range, WasAccepted: wasAccepted, At: b.UpdatedAt})
	return nil
}

// Reschedule replaces the requested fields while the booking is still
// pending. The caller must have revalidated the new values against the
// listing beforehand.
func (b *Booking) Reschedule(r daterange.DateRange, guests int, total money.Money, now time.Time) error {
	if b.Status != StatusPending {
		return ErrInvalidState
	}
	if guests <= 0 {
		return ErrInvalidGuests
	}
	b.Range = r
	b.Guests = guests
	b.TotalPrice = total
	b.UpdatedAt = now.UTC()
	b.Record(BookingRescheduled{BookingID: b.ID, ListingID: b.ListingID, Range: r, Guests: guests, TotalPrice: total, At: b.UpdatedAt})
	return nil
}

// ValidateCheckIn rejects ranges starting before today.
func ValidateCheckIn(dr daterange.DateRange, now time.Time) error {
	if dr.Start.Before(daterange.Day(now)) {
		return ErrCheckInPast
	}
	return nil
}
