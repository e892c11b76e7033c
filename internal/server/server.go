package server

// HTTP surface of the chart
// Page with the live SVG chart and the values panel, plus a small JSON API
// All mutations go through values.Control so the bot and the page stay in sync

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"math"
	"net/http"
	"strconv"
	"time"

	"line-chart/internal/features/chart"
	"line-chart/internal/features/render"
	"line-chart/internal/features/values"
	"line-chart/internal/infra/fs"
	logging "line-chart/internal/infra/log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	control *values.Control
	view    *chart.View
	svgOpts render.SVGOptions
	engine  *gin.Engine
}

// valueJSON is the API form of a point. Date uses the storage layout.
type valueJSON struct {
	Index int     `json:"index"`
	Value float64 `json:"value"`
	Date  string  `json:"date"`
	Label string  `json:"label"`
}

type valuesResponse struct {
	Values  []valueJSON `json:"values"`
	LogAxis bool        `json:"log_axis"`
}

type addValueRequest struct {
	// Value is either a number or text that gets coerced.
	Value any `json:"value"`
}

type logAxisRequest struct {
	Enabled bool `json:"enabled"`
}

type resizeRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func New(control *values.Control, view *chart.View) *Server {
	s := &Server{
		control: control,
		view:    view,
		svgOpts: render.DefaultSVGOptions(),
		engine:  gin.New(),
	}
	s.engine.Use(gin.Recovery(), requestLogger())
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/", s.handlePage)
	s.engine.GET("/chart.svg", s.handleChartSVG)
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	s.engine.POST("/values", s.handleFormAdd)
	s.engine.POST("/values/:index/remove", s.handleFormRemove)
	s.engine.POST("/log-axis", s.handleFormLogAxis)

	api := s.engine.Group("/api")
	{
		api.GET("/values", s.handleListValues)
		api.POST("/values", s.handleAddValue)
		api.DELETE("/values/:index", s.handleRemoveValue)
		api.PUT("/log-axis", s.handleSetLogAxis)
		api.POST("/resize", s.handleResize)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.LogInfo("HTTP server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logging.LogInfo("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	logging.LogSuccess("HTTP server stopped")
	return nil
}

func (s *Server) handlePage(c *gin.Context) {
	snap := s.control.Snapshot()
	data := pageData{
		Chart:   template.HTML(s.currentSVG()),
		LogAxis: snap.LogAxis,
		Input:   values.DefaultInput,
		Rows:    make([]pageRow, 0, len(snap.Points)),
	}
	for i, p := range snap.Points {
		data.Rows = append(data.Rows, pageRow{
			Index: i,
			Time:  values.TimeLabel(p.Date),
			Value: strconv.FormatFloat(p.Value, 'f', -1, 64),
		})
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := pageTemplate.Execute(c.Writer, data); err != nil {
		logging.LogError("Failed to render page", zap.Error(err))
	}
}

func (s *Server) handleChartSVG(c *gin.Context) {
	width, wok := sizeParam(c.Query("width"))
	height, hok := sizeParam(c.Query("height"))
	if c.Query("width") != "" && !wok || c.Query("height") != "" && !hok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "width and height must be non-negative numbers"})
		return
	}

	out := s.currentSVG()
	if wok || hok {
		surface := s.view.Surface()
		if wok {
			surface.Width = width
		}
		if hok {
			surface.Height = height
		}
		out = render.SVG(s.view.GeometryFor(surface), surface, s.svgOpts)
	}
	c.Data(http.StatusOK, "image/svg+xml; charset=utf-8", []byte(out))
}

func (s *Server) currentSVG() string {
	return render.SVG(s.view.Geometry(), s.view.Surface(), s.svgOpts)
}

func (s *Server) handleListValues(c *gin.Context) {
	snap := s.control.Snapshot()
	resp := valuesResponse{Values: make([]valueJSON, 0, len(snap.Points)), LogAxis: snap.LogAxis}
	for i, p := range snap.Points {
		resp.Values = append(resp.Values, valueJSON{
			Index: i,
			Value: p.Value,
			Date:  p.Date.UTC().Format(fs.ISOLayout),
			Label: values.TimeLabel(p.Date),
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleAddValue(c *gin.Context) {
	var req addValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var (
		index int
		point chart.DataPoint
		err   error
	)
	switch v := req.Value.(type) {
	case float64:
		index, point, err = s.control.Add(v)
	case string:
		index, point, err = s.control.Submit(v)
	default:
		index, point, err = s.control.Add(0)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, valueJSON{
		Index: index,
		Value: point.Value,
		Date:  point.Date.UTC().Format(fs.ISOLayout),
		Label: values.TimeLabel(point.Date),
	})
}

func (s *Server) handleRemoveValue(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must be an integer"})
		return
	}
	if err := s.control.Remove(index); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleSetLogAxis(c *gin.Context) {
	var req logAxisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.control.SetLogAxis(req.Enabled)
	c.JSON(http.StatusOK, gin.H{"log_axis": s.control.LogAxis()})
}

func (s *Server) handleResize(c *gin.Context) {
	var req resizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !validSize(req.Width) || !validSize(req.Height) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "width and height must be non-negative numbers"})
		return
	}
	s.view.Resize(chart.Surface{Width: req.Width, Height: req.Height})
	c.Status(http.StatusAccepted)
}

func (s *Server) handleFormAdd(c *gin.Context) {
	if _, _, err := s.control.Submit(c.PostForm("value")); err != nil {
		c.String(http.StatusInternalServerError, "failed to add value: %v", err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleFormRemove(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.String(http.StatusBadRequest, "invalid index")
		return
	}
	if err := s.control.Remove(index); err != nil {
		c.String(http.StatusInternalServerError, "failed to remove value: %v", err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleFormLogAxis(c *gin.Context) {
	// unchecked boxes are not submitted
	s.control.SetLogAxis(c.PostForm("enabled") != "")
	c.Redirect(http.StatusSeeOther, "/")
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := logging.GenerateRequestID()
		start := time.Now()
		logging.LogRequest(requestID, c.Request.Method, c.Request.URL.Path,
			zap.String("clientIP", c.ClientIP()))

		c.Next()

		logging.LogResponse(requestID, c.Writer.Status(), time.Since(start).Milliseconds(),
			zap.Int("size", c.Writer.Size()))
	}
}

func sizeParam(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !validSize(v) {
		return 0, false
	}
	return v, true
}

func validSize(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
