package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restodash/internal/domain"
)

// Reservation handlers
type reservationReq struct {
	CustomerName string `json:"customer_name"`
	Phone        string `json:"phone"`
	Date         string `json:"date"` // YYYY-MM-DD
	Time         string `json:"time"` // HH:MM
	People       int64  `json:"people"`
	TableNumber  string `json:"table_number"`
	Status       string `json:"status"`
	Observations string `json:"observations"`
}

func (r reservationReq) toDomain(id int64) domain.Reservation {
	return domain.Reservation{
		ID:           id,
		CustomerName: r.CustomerName,
		Phone:        r.Phone,
		Date:         r.Date,
		Time:         r.Time,
		People:       r.People,
		TableNumber:  r.TableNumber,
		Status:       r.Status,
		Observations: r.Observations,
	}
}

// @Summary List reservations
// @Tags reservations
// @Produce json
// @Success 200 {array} domain.Reservation
// @Router /reservations [get]
func (s *Server) listReservations(c *gin.Context) {
	list, err := s.reservations.List(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary List decoded calendar events for the next 30 days
// @Tags reservations
// @Produce json
// @Success 200 {array} domain.Event
// @Failure 503 {object} map[string]string
// @Router /reservations/calendar-events [get]
func (s *Server) listCalendarEvents(c *gin.Context) {
	events, err := s.reservations.ListEvents(c)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, events)
}

// @Summary Create reservation
// @Tags reservations
// @Accept json
// @Produce json
// @Param input body reservationReq true "Reservation"
// @Success 201 {object} domain.Reservation
// @Failure 400 {object} map[string]string
// @Router /reservations [post]
func (s *Server) createReservation(c *gin.Context) {
	var req reservationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	r, err := s.reservations.Create(c, req.toDomain(0))
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, r)
}

// @Summary Get reservation by id
// @Tags reservations
// @Produce json
// @Param id path int true "Reservation ID"
// @Success 200 {object} domain.Reservation
// @Failure 404 {object} map[string]string
// @Router /reservations/{id} [get]
func (s *Server) getReservation(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	r, err := s.reservations.GetByID(c, id)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, r)
}

// @Summary Update reservation
// @Tags reservations
// @Accept json
// @Produce json
// @Param id path int true "Reservation ID"
// @Param input body reservationReq true "Reservation"
// @Success 200 {object} domain.Reservation
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reservations/{id} [put]
func (s *Server) updateReservation(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req reservationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	r, err := s.reservations.Update(c, req.toDomain(id))
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, r)
}

// @Summary Delete reservation
// @Tags reservations
// @Param id path int true "Reservation ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /reservations/{id} [delete]
func (s *Server) deleteReservation(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := s.reservations.Delete(c, id); err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
