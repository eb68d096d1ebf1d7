package authz

import (
	"errors"

	"stayhub/internal/domain/booking"
	"stayhub/internal/domain/listings"
	"stayhub/internal/domain/user"
)

var ErrUnauthorized = errors.New("authz: operation not permitted for requester")

// Principal is the authenticated caller as resolved by the identity layer.
type Principal struct {
	ID    user.ID
	Name  string
	Roles []user.Role
}

func (p Principal) HasRole(role user.Role) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (p Principal) IsAdmin() bool {
	return p.HasRole(user.RoleAdmin)
}

// RequireAuthenticated rejects the zero principal.
func RequireAuthenticated(p Principal) error {
	if p.ID == "" {
		return ErrUnauthorized
	}
	return nil
}

// RequireHost gates listing creation: host or admin.
func RequireHost(p Principal) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if p.HasRole(user.RoleHost) || p.IsAdmin() {
		return nil
	}
	return ErrUnauthorized
}

// RequireAdmin gates platform-wide queries and overrides.
func RequireAdmin(p Principal) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if p.IsAdmin() {
		return nil
	}
	return ErrUnauthorized
}

// RequireListingOwner permits the listing's host, or an admin. Used for
// listing update, delete and availability edits.
func RequireListingOwner(p Principal, l *listings.Listing) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if p.IsAdmin() {
		return nil
	}
	if string(l.Host) == string(p.ID) {
		return nil
	}
	return ErrUnauthorized
}

// RequireListingHost permits only the listing's host, with no admin
// override. Accepting or rejecting a booking is the host's decision alone.
func RequireListingHost(p Principal, l *listings.Listing) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if string(l.Host) == string(p.ID) {
		return nil
	}
	return ErrUnauthorized
}

// RequireBookingOwner permits the booking's guest, or an admin. Used for
// booking deletion.
func RequireBookingOwner(p Principal, b *booking.Booking) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if p.IsAdmin() {
		return nil
	}
	if b.GuestID == p.ID {
		return nil
	}
	return ErrUnauthorized
}

// RequireBookingGuest permits only the booking's guest. Used for updates:
// rescheduling someone else's request is never legitimate, admin included.
func RequireBookingGuest(p Principal, b *booking.Booking) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if b.GuestID == p.ID {
		return nil
	}
	return ErrUnauthorized
}
