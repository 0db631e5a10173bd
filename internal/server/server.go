// Package server publishes a shared mesh over HTTP and WebSocket. Connected
// WebSocket clients receive the point positions as a JSON array of [x,y,z]
// triples every broadcast interval.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/soypat/pointmesh"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	writeTimeout    = 5 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Options configures a Server.
type Options struct {
	// Interval between broadcasts. Must be positive.
	Interval time.Duration
	// StaticDir is served under /static when it exists. May be empty.
	StaticDir  string
	Production bool
}

// Server serves mesh snapshots to HTTP and WebSocket clients.
type Server struct {
	log      *zap.Logger
	mesh     *pointmesh.Shared
	interval time.Duration
	router   *gin.Engine
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[uuid.UUID]*client
}

type client struct {
	id uuid.UUID
	// wmu serializes writes, gorilla connections support one concurrent writer.
	wmu  sync.Mutex
	conn *websocket.Conn
}

func (c *client) send(data []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// New returns a server publishing mesh.
func New(log *zap.Logger, mesh *pointmesh.Shared, opts Options) *Server {
	if opts.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	s := &Server{
		log:      log,
		mesh:     mesh,
		interval: opts.Interval,
		router:   gin.New(),
		upgrader: websocket.Upgrader{
			// Accept any origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[uuid.UUID]*client),
	}
	s.router.Use(ginLogger(log))
	s.router.Use(gin.Recovery())

	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.router.GET("/ws", s.handleWS)
	api := s.router.Group("/api")
	{
		api.GET("/points", s.handlePoints)
		api.GET("/stats", s.handleStats)
	}
	if opts.StaticDir != "" {
		if info, err := os.Stat(opts.StaticDir); err == nil && info.IsDir() {
			s.router.Static("/static", opts.StaticDir)
			index := filepath.Join(opts.StaticDir, "index.html")
			if _, err := os.Stat(index); err == nil {
				s.router.StaticFile("/", index)
			}
		} else {
			log.Debug("static directory not served", zap.String("dir", opts.StaticDir))
		}
	}
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler { return s.router }

// Clients returns the number of connected WebSocket clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Run listens on addr and serves until ctx is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln and broadcasts to WebSocket clients
// until ctx is done. It then closes every client and shuts the HTTP
// server down. A nil error is returned on a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if s.interval <= 0 {
		ln.Close()
		return errors.New("broadcast interval must be positive")
	}
	srv := &http.Server{Handler: s.router}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("serving", zap.String("addr", ln.Addr().String()))
		err := srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		s.broadcastLoop(ctx)
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		// Hijacked WebSocket connections are not tracked by Shutdown.
		return multierr.Combine(s.Close(), srv.Shutdown(shutdownCtx))
	})
	return g.Wait()
}

func (s *Server) broadcastLoop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.Clients() == 0 {
				continue
			}
			if err := s.Broadcast(); err != nil {
				s.log.Warn("broadcast", zap.Error(err))
			}
		}
	}
}

// Broadcast sends one snapshot of the mesh to every client. The mesh lock
// is only held while copying positions. Clients that fail to receive are
// disconnected and their errors returned combined.
func (s *Server) Broadcast() error {
	data, err := marshalPoints(s.mesh.Positions())
	if err != nil {
		return err
	}
	s.mu.Lock()
	clients := make([]*client, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	var errs error
	for _, c := range clients {
		if err := c.send(data); err != nil {
			errs = multierr.Append(errs, err)
			s.drop(c)
		}
	}
	return errs
}

// Close disconnects every WebSocket client.
func (s *Server) Close() error {
	s.mu.Lock()
	clients := s.clients
	s.clients = make(map[uuid.UUID]*client)
	s.mu.Unlock()
	var errs error
	for _, c := range clients {
		errs = multierr.Append(errs, c.conn.Close())
	}
	return errs
}

func (s *Server) drop(c *client) {
	s.mu.Lock()
	_, ok := s.clients[c.id]
	delete(s.clients, c.id)
	s.mu.Unlock()
	if ok {
		c.conn.Close()
		s.log.Debug("client disconnected", zap.Stringer("id", c.id))
	}
}

func (s *Server) handleWS(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		s.log.Warn("websocket upgrade", zap.Error(err))
		return
	}
	cl := &client{id: uuid.New(), conn: conn}
	s.mu.Lock()
	s.clients[cl.id] = cl
	s.mu.Unlock()
	s.log.Debug("client connected", zap.Stringer("id", cl.id), zap.String("ip", c.ClientIP()))

	// Any incoming message requests an immediate snapshot.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.drop(cl)
			return
		}
		data, err := marshalPoints(s.mesh.Positions())
		if err == nil {
			err = cl.send(data)
		}
		if err != nil {
			s.log.Warn("send snapshot", zap.Stringer("id", cl.id), zap.Error(err))
			s.drop(cl)
			return
		}
	}
}

func (s *Server) handlePoints(c *gin.Context) {
	c.JSON(http.StatusOK, triples(s.mesh.Positions()))
}

type statsResponse struct {
	Points        int     `json:"points"`
	Edges         int     `json:"edges"`
	AverageDegree float64 `json:"average_degree"`
	Isolated      int     `json:"isolated"`
	MaxDegree     int     `json:"max_degree"`
}

func (s *Server) handleStats(c *gin.Context) {
	st, err := s.mesh.Stats()
	if errors.Is(err, pointmesh.ErrUndefinedStatistic) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	} else if err != nil {
		s.log.Error("statistics", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute statistics"})
		return
	}
	c.JSON(http.StatusOK, statsResponse{
		Points:        st.Points,
		Edges:         st.Edges,
		AverageDegree: st.AverageDegree,
		Isolated:      st.Isolated,
		MaxDegree:     st.MaxDegree,
	})
}

// ginLogger logs every request through log.
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}
		c.Next()
		log.Debug("http request",
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}
