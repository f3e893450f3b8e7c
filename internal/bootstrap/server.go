package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mpetrov/flightdesk/api"
	"github.com/mpetrov/flightdesk/config"
	"github.com/mpetrov/flightdesk/internal/service/account"
	"github.com/mpetrov/flightdesk/internal/service/reservation"
	"github.com/mpetrov/flightdesk/internal/service/search"
	"github.com/mpetrov/flightdesk/internal/session"
)

// NewRouter wires the session middleware and all handlers onto one gin
// engine.
func NewRouter(manager *session.Manager, accountSvc account.AccountUseCase, searchSvc search.SearchUseCase, reservationSvc reservation.ReservationUseCase) *gin.Engine {
	router := gin.Default()
	group := router.Group("/")
	group.Use(api.SessionMiddleware(manager))

	api.NewAccountHandler(accountSvc).Register(group)
	api.NewFlightHandler(searchSvc).Register(group)
	api.NewReservationHandler(reservationSvc).Register(group)
	return router
}

// Run serves HTTP until the context is canceled or the server fails.
func Run(ctx context.Context, cfg *config.Config, router *gin.Engine) error {
	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
