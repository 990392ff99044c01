package service

import (
	"context"

	"github.com/leadmap/leadmap/database"
	"github.com/leadmap/leadmap/database/model"
	"github.com/leadmap/leadmap/util/common"
	"github.com/leadmap/leadmap/web/entity"

	"github.com/pkg/errors"
)

// ReservationService manages area reservations. Each area can be held by one
// reservation per date.
type ReservationService struct{}

func (s *ReservationService) ListReservations(ctx context.Context, date string) ([]entity.ReservationView, error) {
	q := database.GetDB().WithContext(ctx).
		Table("reservations AS r").
		Select("r.*, u.username").
		Joins("LEFT JOIN users AS u ON r.user_id = u.id")
	if date != "" {
		q = q.Where("r.reservation_date = ?", date)
	}

	var rows []entity.ReservationView
	if err := q.Order("r.reservation_date DESC").Order("r.id DESC").Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "list reservations")
	}
	if rows == nil {
		rows = []entity.ReservationView{}
	}
	return rows, nil
}

func (s *ReservationService) AddReservation(ctx context.Context, userId int, form entity.ReservationForm) (int, error) {
	if !entity.ValidDate(form.ReservationDate) {
		return 0, common.NewValidationError("reservation_date must be formatted as YYYY-MM-DD")
	}

	reservation := &model.Reservation{
		AreaName:        form.AreaName,
		AreaLat:         *form.AreaLat,
		AreaLng:         *form.AreaLng,
		UserId:          userId,
		ReservationDate: form.ReservationDate,
	}
	err := database.GetDB().WithContext(ctx).Create(reservation).Error
	if database.IsDuplicateKey(err) {
		return 0, common.NewConflictError("Area already reserved for this date")
	} else if err != nil {
		return 0, errors.Wrap(err, "create reservation")
	}
	return reservation.Id, nil
}

func (s *ReservationService) DeleteReservation(ctx context.Context, id int) error {
	err := database.GetDB().WithContext(ctx).Delete(&model.Reservation{}, id).Error
	return errors.Wrap(err, "delete reservation")
}
