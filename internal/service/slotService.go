package service

import (
	"context"
	"time"

	repository "github.com/constructai/demobooking/internal/database/postgres"
	"github.com/constructai/demobooking/internal/entity"
	"github.com/constructai/demobooking/internal/slots"
)

type slotService struct {
	bookingRepo repository.BookingRepository
	slotCfg     slots.Config
	now         func() time.Time
}

// NewSlotService создает новый экземпляр SlotService
func NewSlotService(bookingRepo repository.BookingRepository, slotCfg slots.Config) SlotService {
	return &slotService{
		bookingRepo: bookingRepo,
		slotCfg:     slotCfg,
		now:         time.Now,
	}
}

// ListAvailableSlots строит сетку слотов на окно бронирования и
// помечает занятые. Одно обращение к хранилищу на всё окно.
func (s *slotService) ListAvailableSlots(ctx context.Context) (*entity.SlotListing, error) {
	now := s.now()
	list := slots.Generate(now, s.slotCfg)

	active, err := s.bookingRepo.GetActiveInRange(ctx, now, slots.HorizonEnd(now, s.slotCfg))
	if err != nil {
		return nil, passError("get active bookings", err)
	}
	slots.Annotate(list, s.slotCfg.Duration(), active)

	available := 0
	for _, slot := range list {
		if slot.Available {
			available++
		}
	}

	return &entity.SlotListing{
		Timezone:       s.slotCfg.Location.String(),
		BusinessHours:  s.slotCfg.BusinessHoursString(),
		TotalSlots:     len(list),
		AvailableSlots: available,
		Slots:          list,
	}, nil
}
