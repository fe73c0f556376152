// Package cmdutil provides the pieces a service main function is assembled
// from: servers that can be run together in an oklog/run.Group and stopped as
// one.
package cmdutil

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/oklog/run"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ShutdownTimeout bounds how long an HTTP server waits for in-flight requests
// when stopped.
const ShutdownTimeout = 5 * time.Second

// A Server can be run synchronously and return an error.
//
// Servers are typically used with oklog/run.Group.
type Server interface {
	Run() error
	Stop(error)
}

// ServerFuncs implements the Server interface with provided functions.
type ServerFuncs struct {
	RunFunc  func() error
	StopFunc func(error)
}

// Run calls RunFunc and returns any errors.
func (sf ServerFuncs) Run() error {
	return sf.RunFunc()
}

// Stop calls StopFunc, if it's non-nil.
func (sf ServerFuncs) Stop(err error) {
	if sf.StopFunc != nil {
		sf.StopFunc(err)
	}
}

// NewContextServer returns a Server that runs fn with a context that is
// canceled when the Server is stopped.
func NewContextServer(fn func(context.Context) error) Server {
	ctx, cancel := context.WithCancel(context.Background())

	return ServerFuncs{
		RunFunc:  func() error { return fn(ctx) },
		StopFunc: func(error) { cancel() },
	}
}

// MultiServer returns a Server which runs all of srvs until one of them
// returns or the MultiServer is stopped, and then stops the rest.
func MultiServer(srvs ...Server) Server {
	var g run.Group

	s := NewContextServer(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	g.Add(s.Run, s.Stop)

	for _, srv := range srvs {
		g.Add(srv.Run, srv.Stop)
	}

	return ServerFuncs{
		RunFunc:  g.Run,
		StopFunc: s.Stop,
	}
}

// Listener opens the listener an HTTP server serves on.
type Listener func(addr string) (net.Listener, error)

// TCPListener listens on addr over tcp.
func TCPListener(addr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrap(err, "listening to tcp addr")
	}
	return ln, nil
}

// NewHTTPServer adapts srv to a Server. Run serves on the listener returned
// by listen, or a plain tcp listener when listen is nil. Stop shuts srv down
// gracefully, waiting at most ShutdownTimeout.
func NewHTTPServer(l logrus.FieldLogger, srv *http.Server, listen Listener) Server {
	if listen == nil {
		listen = TCPListener
	}

	return ServerFuncs{
		RunFunc: func() error {
			l.WithFields(logrus.Fields{
				"at":   "binding",
				"addr": srv.Addr,
			}).Info()

			ln, err := listen(srv.Addr)
			if err != nil {
				return err
			}
			defer ln.Close()

			if err := srv.Serve(ln); err != http.ErrServerClosed {
				return err
			}
			return nil
		},
		StopFunc: func(error) { gracefulShutdown(l, srv) },
	}
}

func gracefulShutdown(l logrus.FieldLogger, s *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	l.WithFields(logrus.Fields{"at": "graceful-shutdown", "addr": s.Addr}).Info()
	if err := s.Shutdown(ctx); err != nil {
		l.WithField("at", "graceful-shutdown").WithError(err).Warn()
		s.Close()
	}
}
