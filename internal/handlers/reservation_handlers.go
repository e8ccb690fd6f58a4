package handlers

import (
	"errors"
	"net/http"

	"restaurant_ops_backend/internal/models"
	"restaurant_ops_backend/internal/services"
	"restaurant_ops_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ReservationHandler holds the reservation service.
type ReservationHandler struct {
	reservationService services.ReservationService
}

// NewReservationHandler creates a new ReservationHandler.
func NewReservationHandler(rs services.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationService: rs}
}

// CreateReservation handles reservation creation.
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	var req services.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	reservation, err := h.reservationService.CreateReservation(currentUserID(c), req)
	if err != nil {
		utils.LogError(err, "CreateReservation: Error from reservationService.CreateReservation")
		h.respondReservationError(c, err, "Failed to create reservation.")
		return
	}
	c.JSON(http.StatusCreated, reservation)
}

// GetReservations lists reservations with optional filters and pagination.
func (h *ReservationHandler) GetReservations(c *gin.Context) {
	var filters models.ReservationFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 20
	}

	reservations, totalCount, err := h.reservationService.GetReservations(filters)
	if err != nil {
		utils.LogError(err, "GetReservations: Error from reservationService.GetReservations")
		respondStorageOrInternal(c, err, "Failed to retrieve reservations.")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":        reservations,
		"total_count": totalCount,
		"page":        filters.Page,
		"page_size":   filters.PageSize,
	})
}

// GetReservationByID retrieves a single reservation.
func (h *ReservationHandler) GetReservationByID(c *gin.Context) {
	reservationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	reservation, err := h.reservationService.GetReservationByID(reservationID)
	if err != nil {
		utils.LogError(err, "GetReservationByID: Error from reservationService.GetReservationByID")
		h.respondReservationError(c, err, "Failed to retrieve reservation.")
		return
	}
	c.JSON(http.StatusOK, reservation)
}

// SeatReservation marks the party as arrived.
func (h *ReservationHandler) SeatReservation(c *gin.Context) {
	h.transition(c, h.reservationService.SeatReservation, "SeatReservation")
}

// CompleteReservation closes out a seated reservation.
func (h *ReservationHandler) CompleteReservation(c *gin.Context) {
	h.transition(c, h.reservationService.CompleteReservation, "CompleteReservation")
}

// CancelReservation cancels a confirmed reservation.
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	h.transition(c, h.reservationService.CancelReservation, "CancelReservation")
}

// MarkNoShow records that the party never arrived.
func (h *ReservationHandler) MarkNoShow(c *gin.Context) {
	h.transition(c, h.reservationService.MarkNoShow, "MarkNoShow")
}

func (h *ReservationHandler) transition(c *gin.Context, op func(int64) (*models.Reservation, error), opName string) {
	reservationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	reservation, err := op(reservationID)
	if err != nil {
		utils.LogError(err, opName+": Error from reservationService")
		h.respondReservationError(c, err, "Failed to update reservation.")
		return
	}
	c.JSON(http.StatusOK, reservation)
}

func (h *ReservationHandler) respondReservationError(c *gin.Context, err error, publicMsg string) {
	switch {
	case errors.Is(err, services.ErrReservationNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Reservation not found.", err.Error()))
	case errors.Is(err, services.ErrTableNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Table not found.", err.Error()))
	case errors.Is(err, services.ErrInvalidTimeWindow),
		errors.Is(err, services.ErrPartyTooLarge),
		errors.Is(err, services.ErrTableInactive):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid reservation request.", err.Error()))
	case errors.Is(err, services.ErrReservationOverlap),
		errors.Is(err, services.ErrReservationFinalized),
		errors.Is(err, services.ErrReservationNotSeated),
		errors.Is(err, services.ErrReservationNotPending):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Reservation state does not permit this operation.", err.Error()))
	default:
		respondStorageOrInternal(c, err, publicMsg)
	}
}
