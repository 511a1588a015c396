package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"restodash/internal/config"
	"restodash/internal/domain"
	"restodash/internal/repository"
	"restodash/internal/service"
)

// Pinger проверка доступности базы для health-чека
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options побочные зависимости сервера, не участвующие в CRUD
type Options struct {
	Config *config.Config
	DB     Pinger // nil допустим в тестах
	// CalendarInit выполняет живую инициализацию клиента календаря,
	// используется эндпоинтом /api/debug/calendar-init
	CalendarInit func(ctx context.Context) error
}

type Server struct {
	engine       *gin.Engine
	menu         *service.MenuService
	orders       *service.OrderService
	reservations *service.ReservationService
	opts         Options
}

func NewServer(menu *service.MenuService, orders *service.OrderService, reservations *service.ReservationService, opts Options) *Server {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	s := &Server{engine: r, menu: menu, orders: orders, reservations: reservations, opts: opts}
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes() {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := s.engine.Group("/api")
	{
		menu := api.Group("/menu")
		menu.GET("", s.listMenu)
		menu.POST("", s.createMenuItem)
		menu.GET(":id", s.getMenuItem)
		menu.PUT(":id", s.updateMenuItem)
		menu.DELETE(":id", s.deleteMenuItem)

		orders := api.Group("/orders")
		orders.GET("", s.listOrders)
		orders.POST("", s.createOrder)
		orders.GET(":id", s.getOrder)
		orders.PUT(":id", s.updateOrder)
		orders.PATCH(":id", s.patchOrderStatus)
		orders.DELETE(":id", s.deleteOrder)

		res := api.Group("/reservations")
		res.GET("", s.listReservations)
		res.GET("calendar-events", s.listCalendarEvents)
		res.POST("", s.createReservation)
		res.GET(":id", s.getReservation)
		res.PUT(":id", s.updateReservation)
		res.DELETE(":id", s.deleteReservation)

		api.GET("/health", s.healthCheck)
		api.GET("/debug/calendar", s.debugCalendar)
		api.GET("/debug/calendar-init", s.debugCalendarInit)
	}

	s.registerStatic()
}

// Menu handlers
type menuItemReq struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Stock       int64   `json:"stock"`
}

// @Summary List menu items
// @Tags menu
// @Produce json
// @Param category query string false "Category"
// @Param all query bool false "Include zero-priced items"
// @Success 200 {array} domain.MenuItem
// @Router /menu [get]
func (s *Server) listMenu(c *gin.Context) {
	f := repository.MenuFilter{
		Category:        c.Query("category"),
		IncludeUnpriced: c.Query("all") != "",
	}
	list, err := s.menu.List(c, f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Create menu item
// @Tags menu
// @Accept json
// @Produce json
// @Param input body menuItemReq true "Menu item"
// @Success 201 {object} domain.MenuItem
// @Failure 400 {object} map[string]string
// @Router /menu [post]
func (s *Server) createMenuItem(c *gin.Context) {
	var req menuItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	m, err := s.menu.Create(c, domain.MenuItem{Name: req.Name, Price: req.Price, Category: req.Category, Description: req.Description, Stock: req.Stock})
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, m)
}

// @Summary Get menu item by id
// @Tags menu
// @Produce json
// @Param id path int true "Menu item ID"
// @Success 200 {object} domain.MenuItem
// @Failure 404 {object} map[string]string
// @Router /menu/{id} [get]
func (s *Server) getMenuItem(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	m, err := s.menu.GetByID(c, id)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, m)
}

// @Summary Update menu item
// @Tags menu
// @Accept json
// @Produce json
// @Param id path int true "Menu item ID"
// @Param input body menuItemReq true "Update"
// @Success 200 {object} domain.MenuItem
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /menu/{id} [put]
func (s *Server) updateMenuItem(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req menuItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	m, err := s.menu.Update(c, domain.MenuItem{ID: id, Name: req.Name, Price: req.Price, Category: req.Category, Description: req.Description, Stock: req.Stock})
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, m)
}

// @Summary Delete menu item
// @Tags menu
// @Param id path int true "Menu item ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /menu/{id} [delete]
func (s *Server) deleteMenuItem(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := s.menu.Delete(c, id); err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// Order handlers
type orderReq struct {
	CustomerName string             `json:"customer_name"`
	Phone        string             `json:"phone"`
	Address      string             `json:"address"`
	Items        []domain.OrderItem `json:"items"`
	Total        float64            `json:"total"`
	Status       string             `json:"status"`
}

type patchOrderReq struct {
	Status string `json:"status"`
}

// @Summary List orders
// @Tags orders
// @Produce json
// @Param from query string false "Created from (YYYY-MM-DD)"
// @Param to query string false "Created to (YYYY-MM-DD)"
// @Success 200 {array} domain.Order
// @Router /orders [get]
func (s *Server) listOrders(c *gin.Context) {
	var f repository.OrderFilter
	if v := c.Query("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
			return
		}
		f.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
			return
		}
		// inclusive end of day
		t = t.Add(24*time.Hour - time.Nanosecond)
		f.To = &t
	}
	list, err := s.orders.List(c, f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Create order
// @Tags orders
// @Accept json
// @Produce json
// @Param input body orderReq true "Order"
// @Success 201 {object} domain.Order
// @Failure 400 {object} map[string]string
// @Router /orders [post]
func (s *Server) createOrder(c *gin.Context) {
	var req orderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	o, err := s.orders.Create(c, domain.Order{
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Address:      req.Address,
		Items:        req.Items,
		Total:        req.Total,
		Status:       req.Status,
	})
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, o)
}

// @Summary Get order by id
// @Tags orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} domain.Order
// @Failure 404 {object} map[string]string
// @Router /orders/{id} [get]
func (s *Server) getOrder(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	o, err := s.orders.GetByID(c, id)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, o)
}

// @Summary Update order
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param input body orderReq true "Order"
// @Success 200 {object} domain.Order
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/{id} [put]
func (s *Server) updateOrder(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req orderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	o, err := s.orders.Update(c, domain.Order{
		ID:           id,
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Address:      req.Address,
		Items:        req.Items,
		Total:        req.Total,
		Status:       req.Status,
	})
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, o)
}

// @Summary Update order status
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param input body patchOrderReq true "Status"
// @Success 200 {object} domain.Order
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/{id} [patch]
func (s *Server) patchOrderStatus(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req patchOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	o, err := s.orders.UpdateStatus(c, id, req.Status)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, o)
}

// @Summary Delete order
// @Tags orders
// @Param id path int true "Order ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /orders/{id} [delete]
func (s *Server) deleteOrder(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := s.orders.Delete(c, id); err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrCalendarDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
