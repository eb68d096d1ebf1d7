package reviews

import (
	"context"
	"errors"
	"strings"
	"time"

	"stayhub/internal/domain/listings"
	"stayhub/internal/domain/user"
)

var (
	ErrInvalidRating = errors.New("reviews: rating must be between 1 and 5")
	ErrNotFound      = errors.New("reviews: not found")
)

type ReviewID string

type Review struct {
	ID        ReviewID
	ListingID listings.ListingID
	AuthorID  user.ID
	Rating    int
	Text      string
	CreatedAt time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ReviewID) (*Review, error)
	Save(ctx context.Context, review *Review) error
	ListByListing(ctx context.Context, listingID listings.ListingID) ([]*Review, error)
	DeleteByListing(ctx context.Context, listingID listings.ListingID) error
}

type SubmitParams struct {
	ID        ReviewID
	ListingID listings.ListingID
	AuthorID  user.ID
	Rating    int
	Text      string
	CreatedAt time.Time
}

func Submit(params SubmitParams) (*Review, error) {
	if params.Rating < 1 || params.Rating > 5 {
		return nil, ErrInvalidRating
	}
	return &Review{
		ID:        params.ID,
		ListingID: params.ListingID,
		AuthorID:  params.AuthorID,
		Rating:    params.Rating,
		Text:      strings.TrimSpace(params.Text),
		CreatedAt: params.CreatedAt.UTC(),
	}, nil
}

// Average computes the mean rating of a review batch; zero when empty.
func Average(items []*Review) float64 {
	if len(items) == 0 {
		return 0
	}
	var sum int
	for _, r := range items {
		sum += r.Rating
	}
	return float64(sum) / float64(len(items))
}
