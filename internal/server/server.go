// internal/server/server.go

package server

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/soyuz43/svninfo-go/internal/svn"
	"github.com/soyuz43/svninfo-go/internal/utils"
)

const (
	shutdownGracePeriod = 5 * time.Second
	readHeaderTimeout   = 10 * time.Second
)

// Client is the part of *svn.Client the server exposes.
type Client interface {
	QueryInfo(ctx context.Context, path string, args svn.Arguments) (svn.Info, error)
	GetRevisionNumber(ctx context.Context, path string, creds svn.Credentials) (int, error)
	GetRepositoryRoot(ctx context.Context, path string, creds svn.Credentials) (string, error)
	GetRepositoryURL(ctx context.Context, path string, creds svn.Credentials) (string, error)
	GetLastChangedAuthor(ctx context.Context, path string, creds svn.Credentials) (string, error)
}

// Config controls the listener and its lifetime.
type Config struct {
	Listen string
	// IdleTimeout shuts the server down after this long without requests.
	// Zero disables it.
	IdleTimeout time.Duration
	// PortFile, if set, receives the bound port while the server runs.
	PortFile string
	// Credentials are used when a request carries none.
	Credentials svn.Credentials
	// QueryTimeout bounds each svn call. Zero means none.
	QueryTimeout time.Duration
}

// Request types
type (
	QueryRequest struct {
		Path     string `json:"path"`
		Username string `json:"username,omitempty"`
		Password string `json:"password,omitempty"`
	}

	ValueResponse struct {
		Value any `json:"value"`
	}

	InfoResponse struct {
		Fields map[string]string `json:"fields"`
	}
)

// Server binds the svn accessors to loopback HTTP for build engines.
type Server struct {
	client   Client
	cfg      Config
	logger   *logrus.Entry
	activity chan struct{}
	inFlight atomic.Int64
}

// New returns a Server. A nil logger logs through the logrus standard logger.
func New(client Client, cfg Config, logger *logrus.Entry) *Server {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Server{
		client:   client,
		cfg:      cfg,
		logger:   logger.WithField("component", "server"),
		activity: make(chan struct{}, 1),
	}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	router := http.NewServeMux()
	router.HandleFunc("/revision", JSONHandler(s.logger, s.revision))
	router.HandleFunc("/repository-root", JSONHandler(s.logger, s.stringField(s.client.GetRepositoryRoot)))
	router.HandleFunc("/repository-url", JSONHandler(s.logger, s.stringField(s.client.GetRepositoryURL)))
	router.HandleFunc("/last-changed-author", JSONHandler(s.logger, s.stringField(s.client.GetLastChangedAuthor)))
	router.HandleFunc("/info", JSONHandler(s.logger, s.info))
	return s.touch(router)
}

// touch records activity for the idle timer when a request starts and when
// it ends. The timer never fires while a request is in flight.
func (s *Server) touch(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.inFlight.Add(1)
		s.markActive()
		defer func() {
			s.inFlight.Add(-1)
			s.markActive()
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) markActive() {
	select {
	case s.activity <- struct{}{}:
	default:
	}
}

func (s *Server) credentials(req QueryRequest) svn.Credentials {
	if req.Username == "" && req.Password == "" {
		return s.cfg.Credentials
	}
	return svn.Credentials{Username: req.Username, Password: req.Password}
}

func (s *Server) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.QueryTimeout > 0 {
		return context.WithTimeout(ctx, s.cfg.QueryTimeout)
	}
	return context.WithCancel(ctx)
}

func validate(req QueryRequest) error {
	if strings.TrimSpace(req.Path) == "" {
		return badRequest("path is required")
	}
	return nil
}

func (s *Server) revision(ctx context.Context, req QueryRequest) (any, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	rev, err := s.client.GetRevisionNumber(ctx, req.Path, s.credentials(req))
	if err != nil {
		return nil, err
	}
	return ValueResponse{Value: rev}, nil
}

func (s *Server) stringField(get func(context.Context, string, svn.Credentials) (string, error)) func(context.Context, QueryRequest) (any, error) {
	return func(ctx context.Context, req QueryRequest) (any, error) {
		if err := validate(req); err != nil {
			return nil, err
		}
		ctx, cancel := s.queryContext(ctx)
		defer cancel()
		v, err := get(ctx, req.Path, s.credentials(req))
		if err != nil {
			return nil, err
		}
		return ValueResponse{Value: v}, nil
	}
}

func (s *Server) info(ctx context.Context, req QueryRequest) (any, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	info, err := s.client.QueryInfo(ctx, req.Path, s.credentials(req).Arguments())
	if err != nil {
		return nil, err
	}
	return InfoResponse{Fields: info.Fields}, nil
}

// Run listens and serves until ctx is done or the idle timeout fires.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return errors.Wrap(err, "failed to create listener")
	}

	if s.cfg.PortFile != "" {
		port := listener.Addr().(*net.TCPAddr).Port
		if err := utils.WritePortFile(s.cfg.PortFile, port); err != nil {
			listener.Close()
			return errors.Wrap(err, "port file write failed")
		}
		defer func() {
			if err := utils.DeletePortFile(s.cfg.PortFile); err != nil {
				s.logger.WithError(err).Warn("could not remove port file")
			}
		}()
	}

	return s.serve(ctx, listener)
}

// serve runs the HTTP server on listener until shutdown. If serving fails,
// the shutdown goroutine is stopped before returning.
func (s *Server) serve(ctx context.Context, listener net.Listener) error {
	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		reason := s.waitForShutdown(ctx)
		s.logger.WithField("reason", reason).Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.logger.WithField("addr", listener.Addr().String()).Info("server listening")
	if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
		cancel()
		<-done
		return errors.Wrap(err, "server error")
	}
	<-done
	s.logger.Info("server shutdown completed")
	return nil
}

func (s *Server) waitForShutdown(ctx context.Context) string {
	if s.cfg.IdleTimeout <= 0 {
		<-ctx.Done()
		return "shutdown signal"
	}

	timer := time.NewTimer(s.cfg.IdleTimeout)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return "shutdown signal"
		case <-s.activity:
			timer.Reset(s.cfg.IdleTimeout)
		case <-timer.C:
			if s.inFlight.Load() > 0 {
				timer.Reset(s.cfg.IdleTimeout)
				continue
			}
			return "inactivity timeout reached"
		}
	}
}
