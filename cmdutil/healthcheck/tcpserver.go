// Package healthcheck answers health checks from TCP routers and load
// balancers that only open a connection to the service.
package healthcheck

import (
	"net"
	"sync"
	"time"

	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/provider"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/heroku/hsts/cmdutil"
)

// TCPServer writes "OK\n" to every connection it accepts and closes it.
type TCPServer struct {
	logger  logrus.FieldLogger
	addr    string
	listen  cmdutil.Listener
	counter metrics.Counter

	mu      sync.Mutex
	ln      net.Listener
	stopped bool
}

// NewTCPServer initializes a health-check server on addr. Each check
// increments the "health" counter.
func NewTCPServer(logger logrus.FieldLogger, p provider.Provider, addr string) *TCPServer {
	return &TCPServer{
		logger:  logger,
		addr:    addr,
		listen:  cmdutil.TCPListener,
		counter: p.NewCounter("health"),
	}
}

// Run listens on the configured address and serves health checks until
// stopped.
func (s *TCPServer) Run() error {
	ln, err := s.start()
	if err != nil || ln == nil {
		return err
	}

	return s.serve(ln)
}

// Stop closes the listener. It implements cmdutil.Server.
func (s *TCPServer) Stop(error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	if s.ln != nil {
		s.ln.Close()
	}
}

// Addr returns the bound address once Run has started listening.
func (s *TCPServer) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

func (s *TCPServer) start() (net.Listener, error) {
	s.logger.WithFields(logrus.Fields{
		"at":   "binding",
		"addr": s.addr,
	}).Info()

	ln, err := s.listen(s.addr)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		ln.Close()
		return nil, nil
	}
	s.ln = ln
	return ln, nil
}

func (s *TCPServer) serve(ln net.Listener) error {
	const retryDelay = 50 * time.Millisecond

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}

			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				s.logger.
					WithField("at", "accept").
					WithError(err).
					Errorf("retrying in %s", retryDelay)

				time.Sleep(retryDelay)
				continue
			}

			return err
		}

		go s.serveConn(conn)
	}
}

func (s *TCPServer) serveConn(conn net.Conn) {
	defer conn.Close()

	s.counter.Add(1)

	if _, err := conn.Write([]byte("OK\n")); err != nil {
		s.logger.WithField("at", "write").WithError(err).Error()
	}
}
