package domain

import (
	"fmt"
	"strconv"
	"strings"
)

type PayStatus string

const (
	PayStatusUnpaid PayStatus = "unpaid"
	PayStatusPaid   PayStatus = "paid"
)

type CancellationStatus string

const (
	CancellationStatusActive   CancellationStatus = "active"
	CancellationStatusCanceled CancellationStatus = "canceled"
)

// User is an account holder. Usernames are stored normalized lowercase
// and the balance is kept in minor currency units.
type User struct {
	Username string
	Digest   []byte
	Salt     []byte
	Balance  int64
}

// Reservation is one booked itinerary. Rows are never deleted, so
// reservation IDs are never reused even after cancellation.
type Reservation struct {
	ID                 int64
	Username           string
	FlightIDs          string
	DayOfMonth         int
	Cost               int64
	PayStatus          PayStatus
	CancellationStatus CancellationStatus
}

// JoinFlightIDs encodes the legs of an itinerary for storage: a single
// fid, or "fid1-fid2" preserving leg order.
func JoinFlightIDs(legs []Flight) string {
	ids := make([]string, len(legs))
	for i, leg := range legs {
		ids[i] = strconv.FormatInt(leg.FID, 10)
	}
	return strings.Join(ids, "-")
}

// LegIDs decodes the stored flight id list back into fids.
func (r Reservation) LegIDs() ([]int64, error) {
	parts := strings.Split(r.FlightIDs, "-")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse flight id %q: %w", p, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
