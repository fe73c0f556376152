package cmdutil

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/heroku/hsts/testing/testlog"
)

func TestServerFuncs(t *testing.T) {
	err := errors.New("this is an error")
	var stopErr error

	sf := ServerFuncs{
		RunFunc:  func() error { return err },
		StopFunc: func(e error) { stopErr = e },
	}

	if got := sf.Run(); got != err {
		t.Fatalf("got Run err %+v, want %+v", got, err)
	}

	sf.Stop(err)
	if stopErr != err {
		t.Fatalf("got Stop err %+v, want %+v", stopErr, err)
	}

	// Should not blow up if StopFunc is nil.
	sf.StopFunc = nil
	sf.Stop(err)
}

func TestNewContextServer(t *testing.T) {
	var gotCtx context.Context

	s := NewContextServer(func(ctx context.Context) error {
		gotCtx = ctx
		return nil
	})
	if err := s.Run(); err != nil {
		t.Fatal(err)
	}
	if err := gotCtx.Err(); err != nil {
		t.Fatalf("got context err %+v, want none", err)
	}

	s.Stop(nil)
	<-gotCtx.Done()

	if err := gotCtx.Err(); err != context.Canceled {
		t.Fatalf("got context err %+v, want context.Canceled", err)
	}
}

// TestMultiServer_InnerStop tests that when any one of the servers inside the
// MultiServer stops, the entire MultiServer stops.
func TestMultiServer_InnerStop(t *testing.T) {
	s1 := newStoppingServer()
	s2 := newStoppingServer()
	ms := MultiServer(s1, s2)

	done := make(chan error)
	go func() { done <- ms.Run() }()

	s1.Stop(nil)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("MultiServer did not stop")
	}

	if !s1.stopped() || !s2.stopped() {
		t.Fatal("want both servers stopped")
	}
}

func TestHTTPServer(t *testing.T) {
	logger, hook := testlog.New()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	srv := &http.Server{
		Addr: ln.Addr().String(),
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "ok")
		}),
	}
	s := NewHTTPServer(logger, srv, func(string) (net.Listener, error) { return ln, nil })

	done := make(chan error)
	go func() { done <- s.Run() }()

	resp, err := http.Get("http://" + ln.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}

	s.Stop(nil)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("want clean shutdown, got %v", err)
		}
	case <-time.After(2 * ShutdownTimeout):
		t.Fatal("server did not shut down")
	}

	hook.CheckFields(t, logrus.Fields{"at": "binding", "addr": srv.Addr})
	hook.CheckFields(t, logrus.Fields{"at": "graceful-shutdown"})
}

func TestHTTPServerListenError(t *testing.T) {
	logger, _ := testlog.New()
	boom := errors.New("boom")

	s := NewHTTPServer(logger, &http.Server{Addr: ":0"}, func(string) (net.Listener, error) { return nil, boom })
	if err := s.Run(); err != boom {
		t.Fatalf("want %v, got %v", boom, err)
	}
}

type stoppingServer struct {
	done chan struct{}
	Server
}

func (s *stoppingServer) stopped() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func newStoppingServer() *stoppingServer {
	s := &stoppingServer{done: make(chan struct{})}
	s.Server = NewContextServer(func(ctx context.Context) error {
		<-ctx.Done()
		close(s.done)
		return ctx.Err()
	})
	return s
}

func ExampleMultiServer() {
	done := make(chan struct{})
	s := MultiServer(
		ServerFuncs{
			RunFunc: func() error {
				fmt.Println("A")
				<-done
				fmt.Println("B")
				return nil
			},
			StopFunc: func(err error) {
				fmt.Println(err)
				close(done)
			},
		},
	)
	go func() {
		time.Sleep(100 * time.Millisecond)
		s.Stop(io.EOF)
	}()
	if err := s.Run(); err != nil && err != context.Canceled {
		panic(err)
	}
	// Output: A
	// context canceled
	// B
}
