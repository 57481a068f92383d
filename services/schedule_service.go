package services

import (
	"fmt"
	"time"

	"github.com/Strmly-Technologies/Delivery-Page-sub000/entity"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/pkg/apperr"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/pkg/timeslot"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/repository"

	"gorm.io/gorm"
)

// ScheduleService is the mutation guard over a day's time slot after
// checkout. Today is always frozen; tomorrow freezes at the daily cutoff;
// anything later stays editable.
type ScheduleService struct {
	DB     *gorm.DB
	Orders *repository.OrderRepository

	CutoffHour   int // daily cutoff for tomorrow's deliveries
	CutoffMinute int

	Now func() time.Time
}

func NewScheduleService(db *gorm.DB, orders *repository.OrderRepository) *ScheduleService {
	return &ScheduleService{DB: db, Orders: orders, CutoffHour: 23, CutoffMinute: 59, Now: time.Now}
}

// lockReason returns the user-facing reason a day is frozen, or "" when the
// edit may proceed.
func (s *ScheduleService) lockReason(dayDate, now time.Time) string {
	today := dateOnly(now)
	tomorrow := today.AddDate(0, 0, 1)
	d := dateOnly(dayDate)

	switch {
	case d.Before(today):
		return "this delivery date has passed"
	case d.Equal(today):
		return "today's schedule can no longer be changed"
	case d.Equal(tomorrow):
		cutoff := time.Date(today.Year(), today.Month(), today.Day(), s.CutoffHour, s.CutoffMinute, 0, 0, now.Location())
		if !now.Before(cutoff) {
			return fmt.Sprintf("tomorrow's schedule locked at %02d:%02d", s.CutoffHour, s.CutoffMinute)
		}
	}
	return ""
}

// UpdateDaySlot rewrites the slot on the day and on every item of that day
// in one transaction; per-item slots within a day are not a thing.
func (s *ScheduleService) UpdateDaySlot(userID, dayID uint, slotCode string) (*entity.PlanDay, error) {
	if _, ok := timeslot.ByCode(slotCode); !ok {
		return nil, &apperr.Validation{Msg: "unknown time slot " + slotCode}
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		day, err := s.Orders.GetDay(tx, dayID)
		if err != nil {
			return err
		}
		owner, err := s.Orders.GetOrder(tx, day.OrderID)
		if err != nil {
			return err
		}
		if owner.UserID != userID {
			return apperr.ErrNotFound
		}
		if day.Terminal() {
			return &apperr.ScheduleLocked{Reason: "this delivery is already finalized"}
		}
		if reason := s.lockReason(day.Date, s.Now()); reason != "" {
			return &apperr.ScheduleLocked{Reason: reason}
		}
		affected, err := s.Orders.UpdateDaySlot(tx, dayID, slotCode)
		if err != nil {
			return err
		}
		if affected == 0 {
			return &apperr.ScheduleLocked{Reason: "this delivery is already with the courier"}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Orders.GetDay(s.DB, dayID)
}
