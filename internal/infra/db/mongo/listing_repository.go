package mongo

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"stayhub/internal/domain/availability"
	domainlistings "stayhub/internal/domain/listings"
	"stayhub/internal/domain/shared/daterange"
	"stayhub/internal/domain/shared/money"
)

type ListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{col: db.Collection("listings")}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	var doc listingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainlistings.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate()
}

// Save writes the listing with an optimistic version check; losing the
// check means another writer got there first.
func (r *ListingRepository) Save(ctx context.Context, l *domainlistings.Listing) error {
	doc := newListingDocument(l)
	filter := bson.M{"_id": doc.ID, "version": l.Version}
	doc.Version = l.Version + 1
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	l.Version = doc.Version
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id domainlistings.ListingID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainlistings.ErrNotFound
	}
	return nil
}

func (r *ListingRepository) List(ctx context.Context, filter domainlistings.Filter) ([]*domainlistings.Listing, error) {
	query := bson.M{}
	if filter.Host != "" {
		query["host_id"] = string(filter.Host)
	}
	if filter.Location != "" {
		query["location"] = bson.M{"$regex": "^" + regexp.QuoteMeta(filter.Location) + "$", "$options": "i"}
	}
	if filter.PriceMin.Cents > 0 || filter.PriceMax.Cents > 0 {
		price := bson.M{}
		if filter.PriceMin.Cents > 0 {
			price["$gte"] = filter.PriceMin.Cents
		}
		if filter.PriceMax.Cents > 0 {
			price["$lte"] = filter.PriceMax.Cents
		}
		query["price_cents"] = price
	}
	if filter.CapacityMin > 0 || filter.CapacityMax > 0 {
		capacity := bson.M{}
		if filter.CapacityMin > 0 {
			capacity["$gte"] = filter.CapacityMin
		}
		if filter.CapacityMax > 0 {
			capacity["$lte"] = filter.CapacityMax
		}
		query["capacity"] = capacity
	}
	if filter.Utility != "" {
		query["utilities"] = strings.ToLower(strings.TrimSpace(filter.Utility))
	}

	cursor, err := r.col.Find(ctx, query, options.Find().SetSort(bson.M{"created_at": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var result []*domainlistings.Listing
	for cursor.Next(ctx) {
		var doc listingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		listing, err := doc.toAggregate()
		if err != nil {
			return nil, err
		}
		result = append(result, listing)
	}
	return result, cursor.Err()
}

type listingDocument struct {
	ID            string          `bson:"_id"`
	Host          string          `bson:"host_id"`
	HostName      string          `bson:"host_name"`
	Title         string          `bson:"title"`
	Description   string          `bson:"description"`
	PriceCents    int64           `bson:"price_cents"`
	Capacity      int             `bson:"capacity"`
	Utilities     []string        `bson:"utilities"`
	Location      string          `bson:"location"`
	ImageURLs     []string        `bson:"image_urls"`
	Available     []rangeDocument `bson:"available"`
	AverageRating float64         `bson:"average_rating"`
	CreatedAt     int64           `bson:"created_at"`
	UpdatedAt     int64           `bson:"updated_at"`
	Version       int64           `bson:"version"`
}

type rangeDocument struct {
	Start int64 `bson:"start"`
	End   int64 `bson:"end"`
}

func newListingDocument(l *domainlistings.Listing) listingDocument {
	open := l.Availability.Ranges()
	ranges := make([]rangeDocument, 0, len(open))
	for _, r := range open {
		ranges = append(ranges, rangeDocument{Start: r.Start.UnixMilli(), End: r.End.UnixMilli()})
	}
	return listingDocument{
		ID:            string(l.ID),
		Host:          string(l.Host),
		HostName:      l.HostName,
		Title:         l.Title,
		Description:   l.Description,
		PriceCents:    l.PricePerNight.Cents,
		Capacity:      l.Capacity,
		Utilities:     l.Utilities,
		Location:      l.Location,
		ImageURLs:     l.ImageURLs,
		Available:     ranges,
		AverageRating: l.AverageRating,
		CreatedAt:     l.CreatedAt.UnixMilli(),
		UpdatedAt:     l.UpdatedAt.UnixMilli(),
		Version:       l.Version,
	}
}

func (d listingDocument) toAggregate() (*domainlistings.Listing, error) {
	ranges := make([]daterange.DateRange, 0, len(d.Available))
	for _, rd := range d.Available {
		ranges = append(ranges, daterange.DateRange{Start: timestampToTime(rd.Start), End: timestampToTime(rd.End)})
	}
	// Stored ranges are already normalized; NewSet re-applies the same rules.
	open, err := availability.NewSet(ranges...)
	if err != nil {
		return nil, err
	}
	return &domainlistings.Listing{
		ID:            domainlistings.ListingID(d.ID),
		Host:          domainlistings.HostID(d.Host),
		HostName:      d.HostName,
		Title:         d.Title,
		Description:   d.Description,
		PricePerNight: money.FromCents(d.PriceCents),
		Capacity:      d.Capacity,
		Utilities:     d.Utilities,
		Location:      d.Location,
		ImageURLs:     d.ImageURLs,
		Availability:  open,
		AverageRating: d.AverageRating,
		Version:       d.Version,
		CreatedAt:     timestampToTime(d.CreatedAt),
		UpdatedAt:     timestampToTime(d.UpdatedAt),
	}, nil
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
