package listings

import (
	"time"

	"stayhub/internal/domain/shared/daterange"
)

type ListingCreated struct {
	ListingID ListingID
	HostID    HostID
	At        time.Time
}

func (e ListingCreated) EventName() string     { return "listing.created" }
func (e ListingCreated) AggregateID() string   { return string(e.ListingID) }
func (e ListingCreated) OccurredAt() time.Time { return e.At }

type ListingUpdated struct {
	ListingID ListingID
	At        time.Time
}

func (e ListingUpdated) EventName() string     { return "listing.updated" }
func (e ListingUpdated) AggregateID() string   { return string(e.ListingID) }
func (e ListingUpdated) OccurredAt() time.Time { return e.At }

type ListingDeleted struct {
	ListingID ListingID
	At        time.Time
}

func (e ListingDeleted) EventName() string     { return "listing.deleted" }
func (e ListingDeleted) AggregateID() string   { return string(e.ListingID) }
func (e ListingDeleted) OccurredAt() time.Time { return e.At }

type DatesOpened struct {
	ListingID ListingID
	Range     daterange.DateRange
	At        time.Time
}

func (e DatesOpened) EventName() string     { return "listing.dates_opened" }
func (e DatesOpened) AggregateID() string   { return string(e.ListingID) }
func (e DatesOpened) OccurredAt() time.Time { return e.At }

type DatesClosed struct {
	ListingID ListingID
	Range     daterange.DateRange
	At        time.Time
}

func (e DatesClosed) EventName() string     { return "listing.dates_closed" }
func (e DatesClosed) AggregateID() string   { return string(e.ListingID) }
func (e DatesClosed) OccurredAt() time.Time { return e.At }
