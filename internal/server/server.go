package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"studentms/internal/conn_registry"
	"studentms/internal/dispatch"
	"studentms/internal/log_service"
	"studentms/internal/protocol"
	"studentms/internal/session"
	"studentms/internal/store"
)

// Server accepts TCP connections and runs one handling goroutine per
// connection. Each connection carries strictly serialized framed
// request/response pairs; there is no pipelining and no request IDs.
type Server struct {
	addr     string
	st       store.Store
	ls       log_service.LogService
	table    *dispatch.Table
	registry *conn_registry.Registry

	listener net.Listener
	running  atomic.Bool
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
}

func New(addr string, st store.Store, ls log_service.LogService) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		addr:     addr,
		st:       st,
		ls:       ls,
		table:    dispatch.NewTable(),
		registry: conn_registry.NewRegistry(),
		ctx:      ctx,
		cancel:   cancel,
	}
	s.registerActions()
	return s
}

// Table exposes the action table so callers can register extra actions
// before Start.
func (s *Server) Table() *dispatch.Table {
	return s.table
}

func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.ls.Error(log_service.LogEvent{
			Message:  "Failed to listen",
			Metadata: map[string]any{"address": s.addr, "error": err.Error()},
		})
		return fmt.Errorf("%w: %v", ErrServerStartFailed, err)
	}
	s.listener = ln
	s.running.Store(true)

	s.ls.Info(log_service.LogEvent{
		Message:  "Server listening",
		Metadata: map[string]any{"address": ln.Addr().String()},
	})

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

// Addr returns the bound listen address, useful when the configured
// port was 0.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Stop flips the running flag, closes the listener and every live
// connection, then waits for the handling goroutines to drain. A
// goroutine blocked inside a handler finishes its current request
// first; there is no forced cancellation.
func (s *Server) Stop() error {
	if !s.running.Swap(false) {
		return nil
	}
	s.cancel()

	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}
	s.registry.CloseAll()
	s.wg.Wait()

	s.ls.Info(log_service.LogEvent{Message: "Server stopped"})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServerStopFailed, err)
	}
	return nil
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if !s.running.Load() {
				return
			}
			s.ls.Error(log_service.LogEvent{
				Message:  "Accept failed",
				Metadata: map[string]any{"error": err.Error()},
			})
			continue
		}

		id := s.registry.Add(conn)
		s.ls.Info(log_service.LogEvent{
			Message:  "Client connected",
			Metadata: map[string]any{"conn": id, "remote": conn.RemoteAddr().String()},
		})

		s.wg.Add(1)
		go s.handleConn(id, conn)
	}
}

// handleConn owns one connection and its session for the connection's
// whole life. Framing errors end the connection; everything else is
// reported to the peer as a failure response.
func (s *Server) handleConn(id string, conn net.Conn) {
	defer func() {
		conn.Close()
		s.registry.Remove(id)
		s.wg.Done()
		s.ls.Info(log_service.LogEvent{
			Message:  "Client disconnected",
			Metadata: map[string]any{"conn": id},
		})
	}()

	sess := session.New()

	for s.running.Load() {
		var req protocol.Request
		if err := protocol.Decode(conn, &req); err != nil {
			if !errors.Is(err, io.EOF) && s.running.Load() {
				s.ls.Warn(log_service.LogEvent{
					Message:  "Dropping connection",
					Metadata: map[string]any{"conn": id, "error": err.Error()},
				})
			}
			return
		}

		resp := s.table.Dispatch(s.ctx, sess.Current(), &req)
		s.applySessionTransition(sess, req.Action, resp)

		if err := protocol.Write(conn, resp); err != nil {
			s.ls.Error(log_service.LogEvent{
				Message:  "Failed to send response",
				Metadata: map[string]any{"conn": id, "action": req.Action, "error": err.Error()},
			})
			return
		}
	}
}

// applySessionTransition is the only place session state changes.
// Handlers stay pure; the loop applies the outcome of login/logout
// right after dispatch, before the next request can be read.
func (s *Server) applySessionTransition(sess *session.Session, action string, resp *protocol.Response) {
	if !resp.Success {
		return
	}
	switch action {
	case ActionLogin:
		if user, ok := resp.Data["user"].(*session.Identity); ok {
			sess.Login(user)
		}
	case ActionLogout:
		sess.Logout()
	}
}
