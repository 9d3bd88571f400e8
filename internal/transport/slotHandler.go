package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/constructai/demobooking/internal/service"
)

type SlotHandler struct {
	slotService service.SlotService
}

func NewSlotHandler(slotService service.SlotService) *SlotHandler {
	return &SlotHandler{slotService: slotService}
}

// ListAvailableSlots возвращает сетку слотов на окно бронирования.
// Доступность рекомендательная: финальную проверку делает вставка.
func (h *SlotHandler) ListAvailableSlots(c *gin.Context) {
	listing, err := h.slotService.ListAvailableSlots(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "available slots",
		Data:    listing,
	})
}
