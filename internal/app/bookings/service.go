package bookings

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"stayhub/internal/app/authz"
	"stayhub/internal/app/policies"
	"stayhub/internal/app/support"
	domainbooking "stayhub/internal/domain/booking"
	domainlistings "stayhub/internal/domain/listings"
	"stayhub/internal/domain/shared/daterange"
	"stayhub/internal/domain/shared/events"
	"stayhub/internal/domain/user"
)

// Service drives the booking lifecycle. Every mutation for a listing runs
// under that listing's lock so two competing requests for overlapping dates
// cannot both pass validation.
type Service struct {
	Listings domainlistings.Repository
	Bookings domainbooking.Repository
	Locks    *support.KeyedMutex
	Events   policies.EventPublisher
	Logger   *slog.Logger
	Now      func() time.Time
}

type CreateParams struct {
	ListingID string
	CheckIn   time.Time
	CheckOut  time.Time
	Guests    int
}

// Create validates the request against availability, sibling bookings and
// capacity, prices it, and stores the booking in PENDING.
func (s *Service) Create(ctx context.Context, p authz.Principal, params CreateParams) (*domainbooking.Booking, error) {
	if err := authz.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	dr, err := daterange.New(params.CheckIn, params.CheckOut)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := domainbooking.ValidateCheckIn(dr, now); err != nil {
		return nil, err
	}

	unlock := s.Locks.Lock(params.ListingID)
	defer unlock()

	listing, err := s.Listings.ByID(ctx, domainlistings.ListingID(params.ListingID))
	if err != nil {
		return nil, err
	}
	siblings, err := s.Bookings.ListByListing(ctx, listing.ID)
	if err != nil {
		return nil, err
	}
	total, err := resolve(listing, siblings, dr, params.Guests, "")
	if err != nil {
		return nil, err
	}

	b, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:           domainbooking.BookingID(uuid.NewString()),
		ListingID:    listing.ID,
		ListingTitle: listing.Title,
		GuestID:      p.ID,
		Range:        dr,
		Guests:       params.Guests,
		TotalPrice:   total,
		CreatedAt:    now,
	})
	if err != nil {
		return nil, err
	}
	if err := s.Bookings.Save(ctx, b); err != nil {
		return nil, err
	}
	s.publish(ctx, b)
	s.log().Info("booking requested", "booking_id", b.ID, "listing_id", b.ListingID, "range", b.Range.String(), "total", b.TotalPrice.String())
	return b, nil
}

// Decide accepts or rejects a pending booking. Only the listing's host may
// decide. Accepting closes the booked range in the availability set.
func (s *Service) Decide(ctx context.Context, p authz.Principal, bookingID string, accept bool) (*domainbooking.Booking, error) {
	b, err := s.Bookings.ByID(ctx, domainbooking.BookingID(bookingID))
	if err != nil {
		return nil, err
	}

	unlock := s.Locks.Lock(string(b.ListingID))
	defer unlock()

	listing, err := s.Listings.ByID(ctx, b.ListingID)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireListingHost(p, listing); err != nil {
		return nil, err
	}

	now := s.now()
	if accept {
		if err := b.Accept(now); err != nil {
			return nil, err
		}
		// Close the dates before anything is persisted; a range no longer
		// fully open means a competing booking won in the meantime.
		if err := listing.CloseDates(b.Range, now); err != nil {
			return nil, domainbooking.ErrDateConflict
		}
		if err := s.Listings.Save(ctx, listing); err != nil {
			return nil, err
		}
		s.publishListing(ctx, listing)
	} else {
		if err := b.Reject(now); err != nil {
			return nil, err
		}
	}
	if err := s.Bookings.Save(ctx, b); err != nil {
		return nil, err
	}
	s.publish(ctx, b)
	s.log().Info("booking decided", "booking_id", b.ID, "status", b.Status)
	return b, nil
}

type UpdateParams struct {
	CheckIn  time.Time
	CheckOut time.Time
	Guests   int
}

// Update reschedules a pending booking for its guest, re-running the same
// validation as Create against the new values.
func (s *Service) Update(ctx context.Context, p authz.Principal, bookingID string, params UpdateParams) (*domainbooking.Booking, error) {
	b, err := s.Bookings.ByID(ctx, domainbooking.BookingID(bookingID))
	if err != nil {
		return nil, err
	}
	if err := authz.RequireBookingGuest(p, b); err != nil {
		return nil, err
	}
	dr, err := daterange.New(params.CheckIn, params.CheckOut)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := domainbooking.ValidateCheckIn(dr, now); err != nil {
		return nil, err
	}

	unlock := s.Locks.Lock(string(b.ListingID))
	defer unlock()

	listing, err := s.Listings.ByID(ctx, b.ListingID)
	if err != nil {
		return nil, err
	}
	siblings, err := s.Bookings.ListByListing(ctx, listing.ID)
	if err != nil {
		return nil, err
	}
	total, err := resolve(listing, siblings, dr, params.Guests, b.ID)
	if err != nil {
		return nil, err
	}
	if err := b.Reschedule(dr, params.Guests, total, now); err != nil {
		return nil, err
	}
	if err := s.Bookings.Save(ctx, b); err != nil {
		return nil, err
	}
	s.publish(ctx, b)
	return b, nil
}

// Delete cancels a booking for its guest or an admin and removes the
// record. Dates held by an accepted booking are reopened.
func (s *Service) Delete(ctx context.Context, p authz.Principal, bookingID string) error {
	b, err := s.Bookings.ByID(ctx, domainbooking.BookingID(bookingID))
	if err != nil {
		return err
	}
	if err := authz.RequireBookingOwner(p, b); err != nil {
		return err
	}

	unlock := s.Locks.Lock(string(b.ListingID))
	defer unlock()

	now := s.now()
	if b.Status.Active() {
		wasAccepted := b.Status == domainbooking.StatusAccepted
		if err := b.Cancel(now); err != nil {
			return err
		}
		if wasAccepted {
			listing, err := s.Listings.ByID(ctx, b.ListingID)
			if err == nil {
				if err := listing.ReopenDates(b.Range, now); err != nil {
					s.log().Warn("could not reopen cancelled dates", "booking_id", b.ID, "error", err)
				} else if err := s.Listings.Save(ctx, listing); err != nil {
					return err
				} else {
					s.publishListing(ctx, listing)
				}
			} else if !errors.Is(err, domainlistings.ErrNotFound) {
				return err
			}
		}
	}
	if err := s.Bookings.Delete(ctx, b.ID); err != nil {
		return err
	}
	s.publish(ctx, b)
	s.log().Info("booking deleted", "booking_id", b.ID, "requester", p.ID)
	return nil
}

// ByID returns a booking to any authenticated caller.
func (s *Service) ByID(ctx context.Context, p authz.Principal, bookingID string) (*domainbooking.Booking, error) {
	if err := authz.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	return s.Bookings.ByID(ctx, domainbooking.BookingID(bookingID))
}

// ListByListing returns all bookings for a listing.
func (s *Service) ListByListing(ctx context.Context, p authz.Principal, listingID string) ([]*domainbooking.Booking, error) {
	if err := authz.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	return s.Bookings.ListByListing(ctx, domainlistings.ListingID(listingID))
}

// ListMine returns the caller's bookings.
func (s *Service) ListMine(ctx context.Context, p authz.Principal) ([]*domainbooking.Booking, error) {
	if err := authz.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	return s.Bookings.ListByGuest(ctx, p.ID)
}

// ListAll returns every booking; admin only.
func (s *Service) ListAll(ctx context.Context, p authz.Principal) ([]*domainbooking.Booking, error) {
	if err := authz.RequireAdmin(p); err != nil {
		return nil, err
	}
	return s.Bookings.ListAll(ctx)
}

// ListByUser returns an arbitrary user's bookings; admin only.
func (s *Service) ListByUser(ctx context.Context, p authz.Principal, userID string) ([]*domainbooking.Booking, error) {
	if err := authz.RequireAdmin(p); err != nil {
		return nil, err
	}
	return s.Bookings.ListByGuest(ctx, user.ID(userID))
}

func (s *Service) publish(ctx context.Context, b *domainbooking.Booking) {
	s.drain(ctx, &b.EventRecorder)
}

func (s *Service) publishListing(ctx context.Context, l *domainlistings.Listing) {
	s.drain(ctx, &l.EventRecorder)
}

func (s *Service) drain(ctx context.Context, rec *events.EventRecorder) {
	pending := rec.PendingEvents()
	rec.ClearEvents()
	if len(pending) == 0 || s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, pending...); err != nil {
		s.log().Warn("event publish failed", "error", err)
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *Service) log() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
