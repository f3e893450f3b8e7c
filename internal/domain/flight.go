package domain

// Flight is a single sellable flight row. The flights table is read-only
// from this service's point of view.
type Flight struct {
	FID        int64  `json:"fid"`
	DayOfMonth int    `json:"day_of_month"`
	CarrierID  string `json:"carrier_id"`
	FlightNum  string `json:"flight_num"`
	OriginCity string `json:"origin_city"`
	DestCity   string `json:"dest_city"`
	Duration   int    `json:"duration_minutes"`
	Capacity   int    `json:"capacity"`
	Price      int64  `json:"price"`
	Canceled   bool   `json:"canceled"`
}

// Itinerary is one travel option from a search: one direct leg or two
// connecting legs. Index is the handle a later booking refers to and is
// only valid against the session's most recent search.
type Itinerary struct {
	Index         int      `json:"index"`
	Legs          []Flight `json:"legs"`
	TotalDuration int      `json:"total_duration"`
	Bookable      bool     `json:"bookable"`
}

// NewItinerary derives total duration and bookability from the legs.
// An itinerary with a zero-capacity leg keeps its index in the result
// set but cannot be booked.
func NewItinerary(index int, legs ...Flight) Itinerary {
	it := Itinerary{Index: index, Legs: legs, Bookable: true}
	for _, leg := range legs {
		it.TotalDuration += leg.Duration
		if leg.Capacity == 0 {
			it.Bookable = false
		}
	}
	return it
}

// TotalPrice is the booking cost of the itinerary.
func (it Itinerary) TotalPrice() int64 {
	var total int64
	for _, leg := range it.Legs {
		total += leg.Price
	}
	return total
}
