package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	bookingrepo "onetracker/database/repository/booking"
	bookingsvc "onetracker/services/booking"
	"onetracker/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateBookingRequest is the external booking-creation payload. The datetime
// must be RFC3339 and therefore carries an explicit offset.
type CreateBookingRequest struct {
	Name            string    `json:"name" binding:"required"`
	BusinessName    string    `json:"business_name" binding:"required"`
	WorkEmail       string    `json:"work_email" binding:"required,email"`
	ContactNumber   string    `json:"contact_number" binding:"required"`
	BookingDatetime time.Time `json:"booking_datetime" binding:"required"`
	Message         *string   `json:"message"`
	Timezone        string    `json:"timezone"`
}

type BookingHandler struct {
	Svc bookingsvc.Service
}

func NewBookingHandler(svc bookingsvc.Service) *BookingHandler {
	return &BookingHandler{Svc: svc}
}

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	booking, err := h.Svc.Create(c.Request.Context(), bookingsvc.CreateBookingInput{
		Name:            req.Name,
		BusinessName:    req.BusinessName,
		WorkEmail:       req.WorkEmail,
		ContactNumber:   req.ContactNumber,
		BookingDatetime: req.BookingDatetime,
		Message:         req.Message,
		Timezone:        req.Timezone,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookingsvc.ErrMissingZone):
			utils.JSONError(c, http.StatusBadRequest, "Timezone required", "")
		case errors.Is(err, bookingsvc.ErrPastBooking):
			utils.JSONError(c, http.StatusBadRequest, "Past booking not allowed", "")
		case errors.Is(err, bookingsvc.ErrInvalidSlot):
			utils.JSONError(c, http.StatusBadRequest, "Invalid time slot", "")
		case errors.Is(err, bookingrepo.ErrSlotTaken):
			utils.JSONError(c, http.StatusConflict, "Slot already booked", "")
		default:
			utils.GetLogger().Error("booking creation failed", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "")
		}
		return
	}

	utils.JSONSuccess(c, http.StatusCreated, "Booking created successfully", booking)
}

func (h *BookingHandler) List(c *gin.Context) {
	bookings, err := h.Svc.List(c.Request.Context())
	if err != nil {
		utils.GetLogger().Error("failed to list bookings", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Bookings fetched successfully", bookings)
}

func (h *BookingHandler) ListPaginated(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		utils.JSONError(c, http.StatusBadRequest, "invalid page", "")
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > 100 {
		utils.JSONError(c, http.StatusBadRequest, "invalid limit", "")
		return
	}

	result, err := h.Svc.ListPaginated(c.Request.Context(), page, limit)
	if err != nil {
		utils.GetLogger().Error("failed to list bookings paginated", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Paginated bookings fetched successfully", result)
}

func (h *BookingHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid booking id", "")
		return
	}

	booking, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, bookingrepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Booking not found", "")
			return
		}
		utils.GetLogger().Error("failed to fetch booking", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Booking fetched successfully", booking)
}

func (h *BookingHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid booking id", "")
		return
	}

	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, bookingrepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Booking not found", "")
			return
		}
		utils.GetLogger().Error("failed to delete booking", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Booking deleted successfully", nil)
}
