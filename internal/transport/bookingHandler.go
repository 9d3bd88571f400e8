package transport

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/constructai/demobooking/internal/entity"
	"github.com/constructai/demobooking/internal/service"
)

type BookingHandler struct {
	bookingService service.BookingService
	contactService service.ContactService
}

func NewBookingHandler(bookingService service.BookingService, contactService service.ContactService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		contactService: contactService,
	}
}

// SuccessResponse представляет успешный ответ
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// CancelBookingRequest представляет запрос на отмену бронирования
type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// UpdateStatusRequest представляет запрос на смену статуса
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes" binding:"max=2000"`
}

// RescheduleRequest представляет запрос на перенос демо
type RescheduleRequest struct {
	SlotID string `json:"slot_id" binding:"required"`
}

// statusForError переводит доменную ошибку в HTTP статус.
// Детали сбоев хранилища наружу не выходят.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, entity.ErrBookingNotFound),
		errors.Is(err, entity.ErrContactNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, entity.ErrSlotConflict):
		return http.StatusConflict, err.Error()
	case errors.Is(err, entity.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, entity.ErrInvalidSlotFormat),
		errors.Is(err, entity.ErrSlotOutsideWindow),
		errors.Is(err, entity.ErrInvalidStatus),
		errors.Is(err, entity.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func respondError(c *gin.Context, err error) {
	status, msg := statusForError(err)
	c.JSON(status, ErrorResponse{Success: false, Error: msg})
}

// ScheduleDemo бронирует слот демо
func (h *BookingHandler) ScheduleDemo(c *gin.Context) {
	var req service.ScheduleDemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: err.Error()})
		return
	}

	booking, err := h.bookingService.ScheduleDemo(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Success: true,
		Message: "demo scheduled",
		Data:    booking,
	})
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "invalid booking id"})
		return
	}

	booking, contact, err := h.bookingService.GetBookingWithContact(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "booking found",
		Data: entity.BookingWithContact{
			Booking: *booking,
			Contact: contact,
		},
	})
}

// ListBookings возвращает страницу бронирований с фильтрами
func (h *BookingHandler) ListBookings(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	filter := &service.BookingListFilter{
		Status:       c.Query("status"),
		ContactEmail: c.Query("email"),
		Limit:        limit,
		Offset:       offset,
	}

	list, err := h.bookingService.ListBookings(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "bookings listed",
		Data:    list.Bookings,
		Meta: gin.H{
			"total":  list.Total,
			"limit":  list.Limit,
			"offset": list.Offset,
		},
	})
}

// UpdateStatus переводит бронирование в новый статус
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "invalid booking id"})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: err.Error()})
		return
	}

	status, err := entity.ParseBookingStatus(req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	booking, err := h.bookingService.UpdateBookingStatus(c.Request.Context(), id, status, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "booking status updated",
		Data:    booking,
	})
}

// CancelBooking отменяет бронирование. Это смена статуса:
// запись остаётся в истории, слот освобождается.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "invalid booking id"})
		return
	}

	var req CancelBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: err.Error()})
			return
		}
	}

	booking, err := h.bookingService.CancelBooking(c.Request.Context(), id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "booking cancelled",
		Data:    booking,
	})
}

// Reschedule переносит демо на другой слот
func (h *BookingHandler) Reschedule(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "invalid booking id"})
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: err.Error()})
		return
	}

	booking, err := h.bookingService.RescheduleBooking(c.Request.Context(), id, req.SlotID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "booking rescheduled",
		Data:    booking,
	})
}

// GetStats возвращает сводную статистику бронирований
func (h *BookingHandler) GetStats(c *gin.Context) {
	stats, err := h.bookingService.GetBookingStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "booking stats",
		Data:    stats,
	})
}

// RegisterContact заводит контакт в справочнике
func (h *BookingHandler) RegisterContact(c *gin.Context) {
	var req service.RegisterContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: err.Error()})
		return
	}

	contact, err := h.contactService.RegisterContact(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Success: true,
		Message: "contact registered",
		Data:    contact,
	})
}
