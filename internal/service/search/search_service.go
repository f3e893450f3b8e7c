package search

import (
	"context"

	"github.com/mpetrov/flightdesk/internal/domain"
	"github.com/mpetrov/flightdesk/internal/repository"
	"github.com/mpetrov/flightdesk/internal/session"
)

type SearchUseCase interface {
	Search(ctx context.Context, sess *session.Session, q Query) ([]domain.Itinerary, error)
}

// Cache holds search results keyed by the full query. Flights are
// read-only in this system, so cached results never go stale on content,
// only on capacity, which is advisory in search output anyway.
type Cache interface {
	GetItineraries(ctx context.Context, q domain.SearchKey) ([]domain.Itinerary, error)
	SetItineraries(ctx context.Context, q domain.SearchKey, results []domain.Itinerary) error
}

type Query struct {
	Origin     string `json:"origin" form:"origin"`
	Dest       string `json:"dest" form:"dest"`
	DirectOnly bool   `json:"direct" form:"direct"`
	Day        int    `json:"day" form:"day"`
	Limit      int    `json:"limit" form:"limit"`
}

func (q Query) validate() error {
	if q.Origin == "" || q.Dest == "" || q.Day < 1 || q.Day > 31 || q.Limit <= 0 {
		return domain.ErrInvalidSearch
	}
	return nil
}

func (q Query) key() domain.SearchKey {
	return domain.SearchKey{
		Origin:     q.Origin,
		Dest:       q.Dest,
		DirectOnly: q.DirectOnly,
		Day:        q.Day,
		Limit:      q.Limit,
	}
}

type SearchService struct {
	flights repository.FlightRepository
	cache   Cache
}

func NewSearchService(flights repository.FlightRepository, cache Cache) *SearchService {
	return &SearchService{flights: flights, cache: cache}
}

// Search produces up to q.Limit itineraries ordered by total duration,
// assigns them indices 0..n-1 and stores them as the session's current
// result set. Itineraries with a zero-capacity leg keep their index but
// are flagged non-bookable.
func (s *SearchService) Search(ctx context.Context, sess *session.Session, q Query) ([]domain.Itinerary, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if cached, err := s.cache.GetItineraries(ctx, q.key()); err == nil && cached != nil {
			sess.SetSearchResults(cached)
			return cached, nil
		}
	}

	direct, err := s.flights.Direct(ctx, q.Origin, q.Dest, q.Day, q.Limit)
	if err != nil {
		return nil, err
	}

	var results []domain.Itinerary
	if q.DirectOnly {
		results = directOnly(direct, q.Limit)
	} else {
		connecting, err := s.flights.Connecting(ctx, q.Origin, q.Dest, q.Day, q.Limit)
		if err != nil {
			return nil, err
		}
		results = merge(direct, connecting, q.Limit)
	}

	if s.cache != nil {
		_ = s.cache.SetItineraries(ctx, q.key(), results)
	}
	sess.SetSearchResults(results)
	return results, nil
}

func directOnly(direct []domain.Flight, limit int) []domain.Itinerary {
	if len(direct) > limit {
		direct = direct[:limit]
	}
	results := make([]domain.Itinerary, 0, len(direct))
	for i, f := range direct {
		results = append(results, domain.NewItinerary(i, f))
	}
	return results
}

// merge combines the two already-sorted candidate streams into one list
// ordered by total duration. Ties go to the direct stream. Both inputs
// are capped at limit by the storage query; the output is capped here.
func merge(direct []domain.Flight, connecting [][2]domain.Flight, limit int) []domain.Itinerary {
	results := make([]domain.Itinerary, 0, limit)
	d, c := 0, 0
	for len(results) < limit && (d < len(direct) || c < len(connecting)) {
		takeDirect := false
		switch {
		case c >= len(connecting):
			takeDirect = true
		case d >= len(direct):
			takeDirect = false
		default:
			takeDirect = direct[d].Duration <= connecting[c][0].Duration+connecting[c][1].Duration
		}
		if takeDirect {
			results = append(results, domain.NewItinerary(len(results), direct[d]))
			d++
		} else {
			results = append(results, domain.NewItinerary(len(results), connecting[c][0], connecting[c][1]))
			c++
		}
	}
	return results
}

var _ SearchUseCase = (*SearchService)(nil)
