package email

import (
	"context"
	"fmt"

	"github.com/mpetrov/flightdesk/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.ReservationEvent) error {
	fmt.Printf("send email to %s about %s for reservation %d\n", event.Username, event.Type, event.ReservationID)
	return nil
}
