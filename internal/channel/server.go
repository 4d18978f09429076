package channel

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/openpower/hiobridge/internal/hiomap"
)

// Handler processes one inbound HIOMAP envelope. req is the raw envelope
// bytes; resp has room for hiomap.MaxResponseLen bytes. It returns the
// response length and the completion code.
type Handler func(req, resp []byte) (int, hiomap.Status)

// Server owns the host side of the command channel. One host connection is
// active at a time; a new connection displaces the previous one. Inbound
// request frames go to the registered handler; event frames flow the other
// way via SendEvent.
type Server struct {
	network      string
	addr         string
	handler      Handler
	limits       Limits
	writeTimeout time.Duration

	mu   sync.Mutex
	conn net.Conn
}

func NewServer(network, addr string, handler Handler) *Server {
	return &Server{
		network:      network,
		addr:         addr,
		handler:      handler,
		limits:       DefaultLimits(),
		writeTimeout: 5 * time.Second,
	}
}

// Serve accepts host connections until ctx is done. Connections are served
// one after another; the command channel is a single-host link.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen(s.network, s.addr)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	log.Info().Str("network", s.network).Str("addr", s.addr).Msg("command channel listening")

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		s.setConn(conn)
		s.ServeConn(conn)
		s.clearConn(conn)
	}
}

// ServeConn reads request frames from conn until it fails or closes.
func (s *Server) ServeConn(conn net.Conn) {
	for {
		f, err := ReadFrame(conn, s.limits)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Warn().Err(err).Msg("command channel read failed")
			}
			return
		}
		if f.Header.Type != TypeRequest {
			log.Warn().Uint8("type", f.Header.Type).Msg("unexpected frame type on command channel")
			continue
		}

		resp := make([]byte, hiomap.MaxResponseLen)
		n, cc := s.handler(f.Payload, resp)

		payload := make([]byte, 0, 1+n)
		payload = append(payload, byte(cc))
		payload = append(payload, resp[:n]...)

		if err := s.writeFrame(conn, Frame{
			Header:  Header{Type: TypeResponse},
			Payload: payload,
		}); err != nil {
			log.Warn().Err(err).Msg("command channel write failed")
			return
		}
	}
}

// SendEvent implements hiomap.EventSender: it pushes the event command and
// status byte to the connected host, best effort. With no host attached the
// push is reported undelivered; nothing is queued or retried.
func (s *Server) SendEvent(cmd uint8, events uint8, done func(delivered bool)) {
	conn := s.currentConn()
	if conn == nil {
		done(false)
		return
	}

	err := s.writeFrame(conn, Frame{
		Header:  Header{Type: TypeEvent},
		Payload: []byte{cmd, events},
	})
	done(err == nil)
}

// writeFrame serializes writes: responses and event pushes share the
// connection.
func (s *Server) writeFrame(conn net.Conn, f Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	}
	return WriteFrame(conn, f, s.limits)
}

func (s *Server) setConn(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		_ = s.conn.Close()
	}
	s.conn = conn
}

func (s *Server) clearConn(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = conn.Close()
	if s.conn == conn {
		s.conn = nil
	}
}

func (s *Server) currentConn() net.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}
