package httpapi

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// @Summary Health check: datastore connectivity and configuration report
// @Tags system
// @Produce json
// @Success 200 {object} map[string]any
// @Router /health [get]
func (s *Server) healthCheck(c *gin.Context) {
	dbConnected := false
	dbError := ""
	if s.opts.DB != nil {
		if err := s.opts.DB.Ping(c); err != nil {
			dbError = err.Error()
		} else {
			dbConnected = true
		}
	}

	cfg := s.opts.Config
	calendarID := "No configurado"
	configured := false
	env := "development"
	missing := []string{}
	if cfg != nil {
		env = cfg.Environment
		configured = cfg.CalendarConfigured()
		if cfg.Calendar.CalendarID != "" {
			calendarID = cfg.Calendar.CalendarID
		}
		missing = cfg.Missing()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "OK",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"environment": env,
		"database": gin.H{
			"connected": dbConnected,
			"error":     dbError,
		},
		"services": gin.H{
			"googleCalendar": gin.H{
				"configured": configured,
				"calendarId": calendarID,
			},
		},
		"missing_env": missing,
	})
}

// @Summary Report presence of calendar credentials
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /debug/calendar [get]
func (s *Server) debugCalendar(c *gin.Context) {
	flag := func(v string) string {
		if v != "" {
			return "Configured"
		}
		return "Missing"
	}
	cfg := s.opts.Config
	if cfg == nil {
		c.JSON(http.StatusOK, gin.H{"calendar_id": "Missing", "service_account_email": "Missing", "private_key": "Missing"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"calendar_id":           flag(cfg.Calendar.CalendarID),
		"service_account_email": flag(cfg.Calendar.Email),
		"private_key":           flag(cfg.Calendar.PrivateKey),
		"key_path":              flag(cfg.Calendar.KeyPath),
		"environment":           cfg.Environment,
	})
}

// @Summary Attempt a live calendar client initialization
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /debug/calendar-init [get]
func (s *Server) debugCalendarInit(c *gin.Context) {
	if s.opts.CalendarInit == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "calendar is not configured"})
		return
	}
	if err := s.opts.CalendarInit(c); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Google Calendar service initialized successfully"})
}

// registerStatic раздаёт дашборд; неизвестные не-API пути падают в
// index.html (SPA)
func (s *Server) registerStatic() {
	s.engine.NoRoute(func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
			return
		}
		dir := ""
		if s.opts.Config != nil {
			dir = s.opts.Config.StaticDir
		}
		if dir == "" {
			c.Status(http.StatusNotFound)
			return
		}
		file := filepath.Join(dir, filepath.Clean("/"+path))
		if fi, err := os.Stat(file); err == nil && !fi.IsDir() {
			c.File(file)
			return
		}
		c.File(filepath.Join(dir, "index.html"))
	})
}
