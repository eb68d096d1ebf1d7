package bookings

import (
	"stayhub/internal/domain/booking"
	"stayhub/internal/domain/listings"
	"stayhub/internal/domain/shared/daterange"
	"stayhub/internal/domain/shared/money"
)

// resolve validates a booking request against the listing and its sibling
// bookings and computes the total price. Pure: no I/O, no mutation. The
// caller holds the per-listing lock and supplies a consistent snapshot.
//
// exclude skips one booking id from the collision check so an update does
// not collide with itself.
func resolve(l *listings.Listing, siblings []*booking.Booking, r daterange.DateRange, guests int, exclude booking.BookingID) (money.Money, error) {
	if guests <= 0 {
		return money.Money{}, booking.ErrInvalidGuests
	}
	if guests > l.Capacity {
		return money.Money{}, booking.ErrCapacityExceeded
	}
	if !l.Availability.Covers(r) {
		return money.Money{}, booking.ErrDatesUnavailable
	}
	for _, sibling := range siblings {
		if sibling.ID == exclude {
			continue
		}
		if !sibling.Status.Active() {
			continue
		}
		if sibling.Range.Overlaps(r) {
			return money.Money{}, booking.ErrDateConflict
		}
	}
	return l.PricePerNight.MulNights(r.Nights()), nil
}
