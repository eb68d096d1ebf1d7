package listings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayhub/internal/app/authz"
	"stayhub/internal/app/support"
	"stayhub/internal/domain/availability"
	domainbooking "stayhub/internal/domain/booking"
	domainlistings "stayhub/internal/domain/listings"
	domainreviews "stayhub/internal/domain/reviews"
	"stayhub/internal/domain/shared/daterange"
	"stayhub/internal/domain/shared/money"
	domainuser "stayhub/internal/domain/user"
	"stayhub/internal/infra/storage/memory"
)

var fixedNow = time.Date(2026, time.August, 1, 12, 0, 0, 0, time.UTC)

var (
	hostPrincipal  = authz.Principal{ID: "host-1", Name: "Hana", Roles: []domainuser.Role{domainuser.RoleGuest, domainuser.RoleHost}}
	guestPrincipal = authz.Principal{ID: "guest-1", Name: "Greta", Roles: []domainuser.Role{domainuser.RoleGuest}}
	adminPrincipal = authz.Principal{ID: "admin-1", Name: "Ada", Roles: []domainuser.Role{domainuser.RoleAdmin}}
)

func sep(d int) time.Time {
	return time.Date(2026, time.September, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	service  *Service
	listings *memory.ListingRepository
	bookings *memory.BookingRepository
	reviews  *memory.ReviewRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		listings: memory.NewListingRepository(),
		bookings: memory.NewBookingRepository(),
		reviews:  memory.NewReviewRepository(),
	}
	f.service = &Service{
		Listings: f.listings,
		Bookings: f.bookings,
		Reviews:  f.reviews,
		Locks:    support.NewKeyedMutex(),
		Now:      func() time.Time { return fixedNow },
	}
	return f
}

func (f *fixture) createListing(t *testing.T, p authz.Principal, title, location string) *domainlistings.Listing {
	t.Helper()
	listing, err := f.service.Create(context.Background(), p, CreateParams{
		Title:         title,
		Description:   "A place to stay",
		PricePerNight: money.MustParse("100.00"),
		Capacity:      4,
		Utilities:     []string{"WiFi", "Sauna"},
		Location:      location,
		AvailableFor:  []daterange.DateRange{daterange.MustNew(sep(1), sep(30))},
	})
	require.NoError(t, err)
	return listing
}

func TestCreateListing(t *testing.T) {
	f := newFixture(t)
	listing := f.createListing(t, hostPrincipal, "Cabin", "Oslo")

	assert.Equal(t, domainlistings.HostID("host-1"), listing.Host)
	assert.Equal(t, "Hana", listing.HostName)
	assert.Equal(t, []string{"wifi", "sauna"}, listing.Utilities)
	assert.Equal(t, []daterange.DateRange{daterange.MustNew(sep(1), sep(30))}, listing.Availability.Ranges())
}

func TestCreateRequiresHostRole(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.Create(context.Background(), guestPrincipal, CreateParams{
		Title: "Cabin", Location: "Oslo", PricePerNight: money.MustParse("100.00"), Capacity: 2,
	})
	assert.ErrorIs(t, err, authz.ErrUnauthorized)
}

func TestCreateRejectsOverlappingInitialRanges(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.Create(context.Background(), hostPrincipal, CreateParams{
		Title:         "Cabin",
		Location:      "Oslo",
		PricePerNight: money.MustParse("100.00"),
		Capacity:      2,
		AvailableFor: []daterange.DateRange{
			daterange.MustNew(sep(1), sep(10)),
			daterange.MustNew(sep(5), sep(15)),
		},
	})
	assert.ErrorIs(t, err, availability.ErrOverlappingRange)
}

func TestUpdateListing(t *testing.T) {
	f := newFixture(t)
	listing := f.createListing(t, hostPrincipal, "Cabin", "Oslo")

	updated, err := f.service.Update(context.Background(), hostPrincipal, string(listing.ID), UpdateParams{
		Title:         "Bigger cabin",
		PricePerNight: money.MustParse("150.00"),
		Capacity:      6,
		Location:      "Bergen",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bigger cabin", updated.Title)
	assert.Equal(t, "150.00", updated.PricePerNight.String())
	assert.Equal(t, "Bergen", updated.Location)
}

func TestUpdateByStrangerDenied(t *testing.T) {
	f := newFixture(t)
	listing := f.createListing(t, hostPrincipal, "Cabin", "Oslo")

	_, err := f.service.Update(context.Background(), guestPrincipal, string(listing.ID), UpdateParams{
		Title: "Taken over", Location: "Oslo", PricePerNight: money.MustParse("1.00"), Capacity: 1,
	})
	assert.ErrorIs(t, err, authz.ErrUnauthorized)
}

func TestUpdateByAdminAllowed(t *testing.T) {
	f := newFixture(t)
	listing := f.createListing(t, hostPrincipal, "Cabin", "Oslo")

	_, err := f.service.Update(context.Background(), adminPrincipal, string(listing.ID), UpdateParams{
		Title: "Moderated", Location: "Oslo", PricePerNight: money.MustParse("100.00"), Capacity: 4,
	})
	assert.NoError(t, err)
}

func TestOpenDatesMergesWithNeighbors(t *testing.T) {
	f := newFixture(t)
	listing := f.createListing(t, hostPrincipal, "Cabin", "Oslo")

	oct := func(d int) time.Time { return time.Date(2026, time.October, d, 0, 0, 0, 0, time.UTC) }
	updated, err := f.service.OpenDates(context.Background(), hostPrincipal, string(listing.ID), sep(30), oct(10))
	require.NoError(t, err)
	assert.Equal(t, []daterange.DateRange{daterange.MustNew(sep(1), oct(10))}, updated.Availability.Ranges())
}

func TestOpenDatesRejectsOverlap(t *testing.T) {
	f := newFixture(t)
	listing := f.createListing(t, hostPrincipal, "Cabin", "Oslo")

	_, err := f.service.OpenDates(context.Background(), hostPrincipal, string(listing.ID), sep(5), sep(10))
	assert.ErrorIs(t, err, availability.ErrOverlappingRange)
}

func TestDeleteCascadesBookingsAndReviews(t *testing.T) {
	f := newFixture(t)
	listing := f.createListing(t, hostPrincipal, "Cabin", "Oslo")

	b, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:         "b-1",
		ListingID:  listing.ID,
		GuestID:    "guest-1",
		Range:      daterange.MustNew(sep(1), sep(5)),
		Guests:     2,
		TotalPrice: money.MustParse("400.00"),
		CreatedAt:  fixedNow,
	})
	require.NoError(t, err)
	require.NoError(t, f.bookings.Save(context.Background(), b))

	_, err = f.service.SubmitReview(context.Background(), guestPrincipal, string(listing.ID), 5, "Great stay")
	require.NoError(t, err)

	require.NoError(t, f.service.Delete(context.Background(), hostPrincipal, string(listing.ID)))

	_, err = f.listings.ByID(context.Background(), listing.ID)
	assert.ErrorIs(t, err, domainlistings.ErrNotFound)

	bookings, err := f.bookings.ListByListing(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.Empty(t, bookings)

	reviews, err := f.reviews.ListByListing(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.Empty(t, reviews)
}

func TestCatalogQueries(t *testing.T) {
	f := newFixture(t)
	f.createListing(t, hostPrincipal, "Cabin", "Oslo")
	f.createListing(t, hostPrincipal, "Loft", "Bergen")

	all, err := f.service.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byLocation, err := f.service.ByLocation(context.Background(), "oslo")
	require.NoError(t, err)
	require.Len(t, byLocation, 1)
	assert.Equal(t, "Cabin", byLocation[0].Title)

	byHost, err := f.service.ByHost(context.Background(), "host-1")
	require.NoError(t, err)
	assert.Len(t, byHost, 2)

	byUtility, err := f.service.ByUtility(context.Background(), "WIFI")
	require.NoError(t, err)
	assert.Len(t, byUtility, 2)
}

func TestPriceAndCapacityQueriesValidateBounds(t *testing.T) {
	f := newFixture(t)
	f.createListing(t, hostPrincipal, "Cabin", "Oslo")

	_, err := f.service.ByPriceBetween(context.Background(), money.MustParse("200.00"), money.MustParse("100.00"))
	assert.ErrorIs(t, err, domainlistings.ErrInvalidPrice)

	_, err = f.service.ByCapacityBetween(context.Background(), 5, 2)
	assert.ErrorIs(t, err, domainlistings.ErrInvalidCapacity)

	inRange, err := f.service.ByPriceBetween(context.Background(), money.MustParse("50.00"), money.MustParse("150.00"))
	require.NoError(t, err)
	assert.Len(t, inRange, 1)

	outOfRange, err := f.service.ByPriceBetween(context.Background(), money.MustParse("150.00"), money.MustParse("250.00"))
	require.NoError(t, err)
	assert.Empty(t, outOfRange)
}

func TestSubmitReviewRefreshesAverage(t *testing.T) {
	f := newFixture(t)
	listing := f.createListing(t, hostPrincipal, "Cabin", "Oslo")

	_, err := f.service.SubmitReview(context.Background(), guestPrincipal, string(listing.ID), 5, "Loved it")
	require.NoError(t, err)
	_, err = f.service.SubmitReview(context.Background(), guestPrincipal, string(listing.ID), 2, "Cold water")
	require.NoError(t, err)

	stored, err := f.listings.ByID(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, stored.AverageRating, 0.0001)
}

func TestSubmitReviewRejectsBadRating(t *testing.T) {
	f := newFixture(t)
	listing := f.createListing(t, hostPrincipal, "Cabin", "Oslo")

	_, err := f.service.SubmitReview(context.Background(), guestPrincipal, string(listing.ID), 6, "")
	assert.ErrorIs(t, err, domainreviews.ErrInvalidRating)
}
