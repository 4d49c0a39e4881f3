package httpserver

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tinytelemetry/loglens/internal/logparse"
	"github.com/tinytelemetry/loglens/internal/model"
	"github.com/tinytelemetry/loglens/internal/render"
)

// Server provides a read-only HTTP API over a finished aggregation.
type Server struct {
	addr      string
	summaries model.SummaryReader
	topN      int
	server    *http.Server
	listener  net.Listener
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates a new HTTP API server. topN is the ranking size used when
// a request does not pass ?top=.
func NewServer(addr string, summaries model.SummaryReader, topN int) *Server {
	if addr == "" {
		addr = "127.0.0.1:3000"
	}
	if topN < 1 {
		topN = model.DefaultTopN
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:      addr,
		summaries: summaries,
		topN:      topN,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/api/health", s.handleHealth)
	r.GET("/api/summary", s.handleSummary)
	r.GET("/api/levels", s.handleLevels)
	r.GET("/api/levels/:level", s.handleLevel)
	return r
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)

	s.server = &http.Server{
		Handler:           s.routes(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = listener

	s.startTime = time.Now()

	go s.server.Serve(listener)
	return nil
}

// Addr returns the bound listen address once started, else the configured one.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"uptime":      time.Since(s.startTime).String(),
		"total_lines": s.summaries.TotalLines(),
	})
}

func (s *Server) handleSummary(c *gin.Context) {
	topN := s.topN
	if raw, ok := c.GetQuery("top"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "top must be a positive integer"})
			return
		}
		topN = n
	}

	c.JSON(http.StatusOK, render.NewReport(s.summaries.Finalize(topN)))
}

func (s *Server) handleLevels(c *gin.Context) {
	c.JSON(http.StatusOK, render.NewReport(s.summaries.Finalize(0)).LevelCounts)
}

// handleLevel accepts common spellings (warning, err, fatal) for a level name.
func (s *Server) handleLevel(c *gin.Context) {
	name := strings.TrimSpace(c.Param("level"))
	canonical := logparse.NormalizeSeverity(name)
	if canonical == model.LevelUnknown.String() && !strings.EqualFold(name, canonical) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown level " + strconv.Quote(name)})
		return
	}
	level := model.ParseLevel(canonical)

	c.JSON(http.StatusOK, gin.H{
		"level": level.String(),
		"count": s.summaries.Finalize(0).LevelCounts[level],
	})
}
