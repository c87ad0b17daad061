package utils

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	defaultReadTimeout    = 30 * time.Second
	defaultWriteTimeout   = 60 * time.Second
	defaultShutdownWindow = 30 * time.Second

	gracefulEnvKey     = "FOLIO_GRACEFUL"
	gracefulEnvValue   = gracefulEnvKey + "=1"
	gracefulListenerFD = 3
)

// Server wraps http.Server with signal driven shutdown and zero-downtime restart.
// SIGINT/SIGTERM drain connections and exit; SIGUSR2 hands the listener to a
// fresh copy of the binary before draining.
type Server struct {
	*http.Server

	listener   net.Listener
	inherited  bool
	signals    chan os.Signal
	done       chan struct{}
	onShutdown []func(context.Context)
}

// NewServer creates a Server with timeouts and handler.
func NewServer(addr string, handler http.Handler) *Server {
	return &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       defaultReadTimeout,
			WriteTimeout:      defaultWriteTimeout,
		},
		inherited: os.Getenv(gracefulEnvKey) != "",
		signals:   make(chan os.Signal, 1),
		done:      make(chan struct{}),
	}
}

// OnShutdown registers fn to run after the HTTP server has drained.
func (srv *Server) OnShutdown(fn func(context.Context)) {
	srv.onShutdown = append(srv.onShutdown, fn)
}

// ListenAndServe serves until a shutdown signal has been fully handled.
func (srv *Server) ListenAndServe() error {
	ln, err := srv.listen()
	if err != nil {
		return err
	}
	srv.listener = ln

	signal.Notify(srv.signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR2)
	go srv.handleSignals()

	err = srv.Serve(ln)
	if err == http.ErrServerClosed {
		<-srv.done
		return nil
	}
	return err
}

func (srv *Server) listen() (net.Listener, error) {
	if srv.inherited {
		ln, err := net.FileListener(os.NewFile(gracefulListenerFD, ""))
		if err != nil {
			return nil, fmt.Errorf("inherit listener: %w", err)
		}
		return ln, nil
	}
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", srv.Addr, err)
	}
	return ln, nil
}

func (srv *Server) handleSignals() {
	for sig := range srv.signals {
		switch sig {
		case syscall.SIGUSR2:
			pid, err := srv.fork()
			if err != nil {
				Sugar.Errorf("restart failed, continue serving: %v", err)
				continue
			}
			Sugar.Infof("restarted as pid=%d, draining old server", pid)
		default:
			Sugar.Infof("received %s, draining HTTP server", sig)
		}
		srv.shutdown()
		return
	}
}

func (srv *Server) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownWindow)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		Sugar.Errorf("HTTP server shutdown error: %v", err)
	}
	for _, fn := range srv.onShutdown {
		fn(ctx)
	}
	Sugar.Info("HTTP server stopped")
	close(srv.done)
}

func (srv *Server) fork() (int, error) {
	tcpLn, ok := srv.listener.(*net.TCPListener)
	if !ok {
		return 0, fmt.Errorf("listener is not *net.TCPListener")
	}
	file, err := tcpLn.File()
	if err != nil {
		return 0, fmt.Errorf("get listener file: %w", err)
	}

	env := []string{}
	for _, e := range os.Environ() {
		if e != gracefulEnvValue {
			env = append(env, e)
		}
	}
	env = append(env, gracefulEnvValue)

	return syscall.ForkExec(os.Args[0], os.Args, &syscall.ProcAttr{
		Env:   env,
		Files: []uintptr{os.Stdin.Fd(), os.Stdout.Fd(), os.Stderr.Fd(), file.Fd()},
	})
}
