package server

import (
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/netutil"

	"lqd/internal/config"
	"lqd/internal/index"
)

func New(cfg *config.Config, idx index.Index) (*Server, error) {
	s := &Server{
		addr:          cfg.Addr(),
		idx:           idx,
		maxQueryBytes: cfg.MaxQueryBytes,
		maxConns:      cfg.MaxConns,
		grace:         cfg.ShutdownGrace,
		verbose:       cfg.Verbose,
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
	}
	if cfg.SSLEnabled {
		tlsConf, err := buildTLSConfig(cfg.CertPath, cfg.KeyPath)
		if err != nil {
			return nil, err
		}
		s.tlsConf = tlsConf
	}
	return s, nil
}

// Listen binds the address. Connections beyond maxConns queue in the OS
// listen backlog behind the limit listener.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}
	ln = netutil.LimitListener(ln, s.maxConns)
	if s.tlsConf != nil {
		ln = tls.NewListener(ln, s.tlsConf)
	}
	s.listener = ln

	log.Info().Msgf("Lookup server listening on TCP %s (tls=%v)", ln.Addr(), s.tlsConf != nil)
	return nil
}

// Serve runs the accept loop until Shutdown closes the listener.
func (s *Server) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.stopCh:
				// Hold the caller until Shutdown has drained the
				// in-flight handlers; returning earlier would let
				// main exit before the grace period plays out.
				<-s.doneCh
				return nil
			default:
			}
			log.Err(err).Msg("Error accepting connection:")
			continue
		}

		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

func (s *Server) Start() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

// Addr reports the bound address, useful when the configured port is 0.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Shutdown stops accepting, waits for in-flight handlers up to the grace
// period, then force-closes whatever is left.
func (s *Server) Shutdown() {
	s.stopOnce.Do(s.shutdown)
}

func (s *Server) shutdown() {
	close(s.stopCh)
	if s.listener != nil {
		s.listener.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(s.grace):
		log.Warn().Msg("Grace period exceeded, closing remaining connections")
		s.conns.Range(func(key, _ any) bool {
			key.(net.Conn).Close()
			return true
		})
		<-done
	}
	close(s.doneCh)
	log.Info().Msg("Server stopped")
}
