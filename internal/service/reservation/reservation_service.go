package reservation

import (
	"context"
	"log"

	"github.com/mpetrov/flightdesk/internal/domain"
	"github.com/mpetrov/flightdesk/internal/kafka"
	"github.com/mpetrov/flightdesk/internal/repository"
	"github.com/mpetrov/flightdesk/internal/session"
)

type ReservationUseCase interface {
	Book(ctx context.Context, sess *session.Session, itineraryIndex int) (int64, error)
	Pay(ctx context.Context, sess *session.Session, reservationID int64) (int64, error)
	Cancel(ctx context.Context, sess *session.Session, reservationID int64) error
	List(ctx context.Context, sess *session.Session) ([]View, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// View is one reservation with its legs resolved for presentation.
type View struct {
	ReservationID int64           `json:"reservation_id"`
	Paid          bool            `json:"paid"`
	Legs          []domain.Flight `json:"legs"`
}

type ReservationService struct {
	reservations       repository.ReservationRepository
	flights            repository.FlightRepository
	producer           Producer
	eventsTopic        string
	notificationsTopic string
}

type Option func(*ReservationService)

func WithProducer(producer Producer, topic string) Option {
	return func(s *ReservationService) {
		s.producer = producer
		s.eventsTopic = topic
	}
}

func WithNotificationsTopic(topic string) Option {
	return func(s *ReservationService) {
		s.notificationsTopic = topic
	}
}

func NewReservationService(reservations repository.ReservationRepository, flights repository.FlightRepository, opts ...Option) *ReservationService {
	s := &ReservationService{reservations: reservations, flights: flights}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Book turns an itinerary index from the session's most recent search
// into a reservation. Preconditions are checked in a fixed order:
// authentication, index validity, leg capacity. The same-day rule and
// the ID assignment are enforced inside the repository's serializable
// transaction.
func (s *ReservationService) Book(ctx context.Context, sess *session.Session, itineraryIndex int) (int64, error) {
	username, ok := sess.User()
	if !ok {
		return 0, domain.ErrNotLoggedIn
	}
	it, err := sess.ItineraryAt(itineraryIndex)
	if err != nil {
		return 0, err
	}
	if !it.Bookable {
		return 0, domain.ErrBookingFailed
	}
	for _, leg := range it.Legs {
		if leg.Capacity < 1 {
			return 0, domain.ErrBookingFailed
		}
	}

	res := &domain.Reservation{
		Username:   username,
		FlightIDs:  domain.JoinFlightIDs(it.Legs),
		DayOfMonth: it.Legs[0].DayOfMonth,
		Cost:       it.TotalPrice(),
	}
	if err := s.reservations.Create(ctx, res); err != nil {
		return 0, err
	}

	s.publish(ctx, "reservation_booked", res)
	return res.ID, nil
}

// Pay debits the cost from the owner's balance and marks the
// reservation paid, both in one transaction at the store.
func (s *ReservationService) Pay(ctx context.Context, sess *session.Session, reservationID int64) (int64, error) {
	username, ok := sess.User()
	if !ok {
		return 0, domain.ErrNotLoggedIn
	}
	res, remaining, err := s.reservations.Pay(ctx, username, reservationID)
	if err != nil {
		return 0, err
	}

	s.publish(ctx, "reservation_paid", res)
	return remaining, nil
}

// Cancel soft-cancels an active reservation. The ID is retired, never
// reused and never payable again.
func (s *ReservationService) Cancel(ctx context.Context, sess *session.Session, reservationID int64) error {
	username, ok := sess.User()
	if !ok {
		return domain.ErrNotLoggedIn
	}
	res, err := s.reservations.Cancel(ctx, username, reservationID)
	if err != nil {
		return err
	}

	s.publish(ctx, "reservation_cancelled", res)
	return nil
}

// List returns the user's active reservations ordered by ID with legs
// resolved from the flights table.
func (s *ReservationService) List(ctx context.Context, sess *session.Session) ([]View, error) {
	username, ok := sess.User()
	if !ok {
		return nil, domain.ErrNotLoggedIn
	}
	reservations, err := s.reservations.ListActive(ctx, username)
	if err != nil {
		return nil, err
	}
	if len(reservations) == 0 {
		return nil, domain.ErrNoReservations
	}

	views := make([]View, 0, len(reservations))
	for _, res := range reservations {
		ids, err := res.LegIDs()
		if err != nil {
			return nil, err
		}
		view := View{ReservationID: res.ID, Paid: res.PayStatus == domain.PayStatusPaid}
		for _, fid := range ids {
			flight, err := s.flights.GetByID(ctx, fid)
			if err != nil {
				return nil, err
			}
			view.Legs = append(view.Legs, *flight)
		}
		views = append(views, view)
	}
	return views, nil
}

// publish is best effort: a broker outage must not fail an operation
// that already committed.
func (s *ReservationService) publish(ctx context.Context, eventType string, res *domain.Reservation) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.ReservationEvent{
		Type:          eventType,
		ReservationID: res.ID,
		Username:      res.Username,
		FlightIDs:     res.FlightIDs,
		Day:           res.DayOfMonth,
		Cost:          res.Cost,
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, event.Key(), event); err != nil {
		log.Printf("publish %s event for reservation %d: %v", eventType, res.ID, err)
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, event.Key(), event); err != nil {
			log.Printf("publish %s notification for reservation %d: %v", eventType, res.ID, err)
		}
	}
}

var _ ReservationUseCase = (*ReservationService)(nil)
