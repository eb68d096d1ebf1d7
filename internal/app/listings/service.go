package listings

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"stayhub/internal/app/authz"
	"stayhub/internal/app/policies"
	"stayhub/internal/app/support"
	domainbooking "stayhub/internal/domain/booking"
	domainlistings "stayhub/internal/domain/listings"
	domainreviews "stayhub/internal/domain/reviews"
	"stayhub/internal/domain/shared/daterange"
	"stayhub/internal/domain/shared/events"
	"stayhub/internal/domain/shared/money"
)

// Service owns listing CRUD, availability edits, the catalog queries and
// the cascade delete. It shares the per-listing lock registry with the
// booking service so availability edits serialize with booking creation.
type Service struct {
	Listings domainlistings.Repository
	Bookings domainbooking.Repository
	Reviews  domainreviews.Repository
	Locks    *support.KeyedMutex
	Events   policies.EventPublisher
	Photos   policies.PhotoStore
	Logger   *slog.Logger
	Now      func() time.Time
}

type CreateParams struct {
	Title         string
	Description   string
	PricePerNight money.Money
	Capacity      int
	Utilities     []string
	Location      string
	ImageURLs     []string
	AvailableFor  []daterange.DateRange
}

func (s *Service) Create(ctx context.Context, p authz.Principal, params CreateParams) (*domainlistings.Listing, error) {
	if err := authz.RequireHost(p); err != nil {
		return nil, err
	}
	listing, err := domainlistings.NewListing(domainlistings.CreateParams{
		ID:            domainlistings.ListingID(uuid.NewString()),
		Host:          domainlistings.HostID(p.ID),
		HostName:      p.Name,
		Title:         params.Title,
		Description:   params.Description,
		PricePerNight: params.PricePerNight,
		Capacity:      params.Capacity,
		Utilities:     params.Utilities,
		Location:      params.Location,
		ImageURLs:     params.ImageURLs,
		AvailableFor:  params.AvailableFor,
		Now:           s.now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Listings.Save(ctx, listing); err != nil {
		return nil, err
	}
	s.publish(ctx, &listing.EventRecorder)
	s.log().Info("listing created", "listing_id", listing.ID, "host_id", listing.Host)
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
}

func (s *Service) Update(ctx context.Context, p authz.Principal, listingID string, params UpdateParams) (*domainlistings.Listing, error) {
	unlock := s.Locks.Lock(listingID)
	defer unlock()

	listing, err := s.Listings.ByID(ctx, domainlistings.ListingID(listingID))
	if err != nil {
		return nil, err
	}
	if err := authz.RequireListingOwner(p, listing); err != nil {
		return nil, err
	}
	if err := listing.UpdateAttributes(domainlistings.UpdateParams{
		Title:         params.Title,
		Description:   params.Description,
		PricePerNight: params.PricePerNight,
		Capacity:      params.Capacity,
		Utilities:     params.Utilities,
		Location:      params.Location,
		ImageURLs:     params.ImageURLs,
		Now:           s.now(),
	}); err != nil {
		return nil, err
	}
	if err := s.Listings.Save(ctx, listing); err != nil {
		return nil, err
	}
	s.publish(ctx, &listing.EventRecorder)
	return listing, nil
}

// Delete removes a listing together with everything referencing it:
// bookings first, then reviews, then the listing itself. If a later step
// fails the earlier deletions are already consistent with a listing that is
// about to disappear, never the other way around.
func (s *Service) Delete(ctx context.Context, p authz.Principal, listingID string) error {
	unlock := s.Locks.Lock(listingID)
	defer unlock()

	id := domainlistings.ListingID(listingID)
	listing, err := s.Listings.ByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.RequireListingOwner(p, listing); err != nil {
		return err
	}

	if err := s.Bookings.DeleteByListing(ctx, id); err != nil {
		return fmt.Errorf("cascade bookings: %w", err)
	}
	if err := s.Reviews.DeleteByListing(ctx, id); err != nil {
		return fmt.Errorf("cascade reviews: %w", err)
	}
	if err := s.Listings.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	now := s.now()
	if s.Events != nil {
		if err := s.Events.Publish(ctx, domainlistings.ListingDeleted{ListingID: id, At: now}); err != nil {
			s.log().Warn("event publish failed", "error", err)
		}
	}
	s.log().Info("listing deleted with cascade", "listing_id", id, "requester", p.ID)
	return nil
}

// OpenDates adds an open range to the listing's availability set.
func (s *Service) OpenDates(ctx context.Context, p authz.Principal, listingID string, start, end time.Time) (*domainlistings.Listing, error) {
	dr, err := daterange.New(start, end)
	if err != nil {
		return nil, err
	}

	unlock := s.Locks.Lock(listingID)
	defer unlock()

	listing, err := s.Listings.ByID(ctx, domainlistings.ListingID(listingID))
	if err != nil {
		return nil, err
	}
	if err := authz.RequireListingOwner(p, listing); err != nil {
		return nil, err
	}
	if err := listing.OpenDates(dr, s.now()); err != nil {
		return nil, err
	}
	if err := s.Listings.Save(ctx, listing); err != nil {
		return nil, err
	}
	s.publish(ctx, &listing.EventRecorder)
	return listing, nil
}

func (s *Service) ByID(ctx context.Context, listingID string) (*domainlistings.Listing, error) {
	return s.Listings.ByID(ctx, domainlistings.ListingID(listingID))
}

func (s *Service) All(ctx context.Context) ([]*domainlistings.Listing, error) {
	return s.Listings.List(ctx, domainlistings.Filter{})
}

func (s *Service) ByHost(ctx context.Context, hostID string) ([]*domainlistings.Listing, error) {
	return s.Listings.List(ctx, domainlistings.Filter{Host: domainlistings.HostID(hostID)})
}

func (s *Service) Mine(ctx context.Context, p authz.Principal) ([]*domainlistings.Listing, error) {
	if err := authz.RequireHost(p); err != nil {
		return nil, err
	}
	return s.ByHost(ctx, string(p.ID))
}

func (s *Service) ByLocation(ctx context.Context, location string) ([]*domainlistings.Listing, error) {
	if location == "" {
		return nil, domainlistings.ErrLocationRequired
	}
	return s.Listings.List(ctx, domainlistings.Filter{Location: location})
}

func (s *Service) ByPriceBetween(ctx context.Context, min, max money.Money) ([]*domainlistings.Listing, error) {
	if min.Cents < 0 || max.Cents <= 0 || min.Cents > max.Cents {
		return nil, domainlistings.ErrInvalidPrice
	}
	return s.Listings.List(ctx, domainlistings.Filter{PriceMin: min, PriceMax: max})
}

func (s *Service) ByCapacityBetween(ctx context.Context, min, max int) ([]*domainlistings.Listing, error) {
	if min < 0 || max <= 0 || min > max {
		return nil, domainlistings.ErrInvalidCapacity
	}
	return s.Listings.List(ctx, domainlistings.Filter{CapacityMin: min, CapacityMax: max})
}

func (s *Service) ByUtility(ctx context.Context, utility string) ([]*domainlistings.Listing, error) {
	if utility == "" {
		return nil, fmt.Errorf("listings: utility filter must not be empty")
	}
	return s.Listings.List(ctx, domainlistings.Filter{Utility: utility})
}

// SubmitReview records a review and refreshes the listing's denormalized
// average rating.
func (s *Service) SubmitReview(ctx context.Context, p authz.Principal, listingID string, rating int, text string) (*domainreviews.Review, error) {
	if err := authz.RequireAuthenticated(p); err != nil {
		return nil, err
	}

	unlock := s.Locks.Lock(listingID)
	defer unlock()

	listing, err := s.Listings.ByID(ctx, domainlistings.ListingID(listingID))
	if err != nil {
		return nil, err
	}
	now := s.now()
	review, err := domainreviews.Submit(domainreviews.SubmitParams{
		ID:        domainreviews.ReviewID(uuid.NewString()),
		ListingID: listing.ID,
		AuthorID:  p.ID,
		Rating:    rating,
		Text:      text,
		CreatedAt: now,
	})
	if err != nil {
		return nil, err
	}
	if err := s.Reviews.Save(ctx, review); err != nil {
		return nil, err
	}
	all, err := s.Reviews.ListByListing(ctx, listing.ID)
	if err != nil {
		return nil, err
	}
	listing.SetAverageRating(domainreviews.Average(all), now)
	if err := s.Listings.Save(ctx, listing); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *Service) ReviewsFor(ctx context.Context, listingID string) ([]*domainreviews.Review, error) {
	return s.Reviews.ListByListing(ctx, domainlistings.ListingID(listingID))
}

// AttachPhoto uploads an image and appends its URL to the listing.
func (s *Service) AttachPhoto(ctx context.Context, p authz.Principal, listingID string, reader io.Reader, contentType string) (*domainlistings.Listing, error) {
	if s.Photos == nil {
		return nil, fmt.Errorf("listings: photo storage is not configured")
	}

	unlock := s.Locks.Lock(listingID)
	defer unlock()

	listing, err := s.Listings.ByID(ctx, domainlistings.ListingID(listingID))
	if err != nil {
		return nil, err
	}
	if err := authz.RequireListingOwner(p, listing); err != nil {
		return nil, err
	}
	key := fmt.Sprintf("listings/%s/%s", listing.ID, uuid.NewString())
	url, err := s.Photos.Upload(ctx, key, reader, contentType)
	if err != nil {
		return nil, err
	}
	listing.AttachImage(url, s.now())
	if err := s.Listings.Save(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (s *Service) publish(ctx context.Context, rec *events.EventRecorder) {
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
