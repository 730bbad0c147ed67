// internal/service/commerce/reservation.go
package commerce

import (
	"context"
	"fmt"
	"strings"

	"fittech-client/internal/domain/commerce"
	xerrors "fittech-client/internal/pkg/errors"
	"fittech-client/internal/storage"
	"fittech-client/internal/store"

	"go.uber.org/zap"
)

const reservationCounter = "reservationId"

type ReservationService struct {
	st     storage.Storage
	ids    *store.Generator
	logger *zap.Logger
}

func NewReservationService(st storage.Storage, ids *store.Generator, logger *zap.Logger) *ReservationService {
	return &ReservationService{st: st, ids: ids, logger: logger}
}

func (s *ReservationService) reservations(email string) *store.Collection[commerce.Reservation, *commerce.Reservation] {
	key := store.UserKey(store.KeyReservations, email)
	return store.NewCollection[commerce.Reservation](s.st, s.ids, key, reservationCounter, s.logger)
}

func (s *ReservationService) List(ctx context.Context, email string) []commerce.Reservation {
	return s.reservations(email).All(ctx, nil)
}

func (s *ReservationService) Get(ctx context.Context, email string, id int64) (commerce.Reservation, error) {
	return s.reservations(email).Get(ctx, id)
}

// Create books a reservation in the pending state.
func (s *ReservationService) Create(ctx context.Context, email, date, timeSlot, notes string) (commerce.Reservation, error) {
	if strings.TrimSpace(date) == "" || strings.TrimSpace(timeSlot) == "" {
		return commerce.Reservation{}, xerrors.Wrap(xerrors.ErrInvalidInput, "reservation date and time are required")
	}
	created, err := s.reservations(email).Create(ctx, commerce.Reservation{
		Date:   date,
		Time:   timeSlot,
		Status: commerce.ReservationPending,
		Notes:  notes,
	})
	if err != nil {
		return commerce.Reservation{}, err
	}
	s.logger.Info("reservation created",
		zap.Int64("reservation_id", created.ID),
		zap.String("date", date),
	)
	return created, nil
}

// UpdateStatus moves a reservation through its lifecycle, rejecting
// transitions out of terminal states.
func (s *ReservationService) UpdateStatus(ctx context.Context, email string, id int64, next commerce.ReservationStatus) (commerce.Reservation, error) {
	coll := s.reservations(email)
	current, err := coll.Get(ctx, id)
	if err != nil {
		return commerce.Reservation{}, err
	}
	if !current.CanTransitionTo(next) {
		return commerce.Reservation{}, xerrors.Wrap(xerrors.ErrInvalidInput,
			fmt.Sprintf("cannot move reservation from %s to %s", current.Status, next))
	}
	return coll.Update(ctx, id, map[string]commerce.ReservationStatus{"status": next})
}

func (s *ReservationService) Confirm(ctx context.Context, email string, id int64) (commerce.Reservation, error) {
	return s.UpdateStatus(ctx, email, id, commerce.ReservationConfirmed)
}

func (s *ReservationService) Complete(ctx context.Context, email string, id int64) (commerce.Reservation, error) {
	return s.UpdateStatus(ctx, email, id, commerce.ReservationCompleted)
}

func (s *ReservationService) Cancel(ctx context.Context, email string, id int64) (commerce.Reservation, error) {
	return s.UpdateStatus(ctx, email, id, commerce.ReservationCancelled)
}
