package server

import (
	"bufio"
	"errors"
	"io"
	"net"
	"time"

	"github.com/rs/zerolog/log"

	"lqd/internal/index"
	"lqd/internal/metrics"
)

// A client gets this long to deliver its single query and read the response.
const connTimeout = 30 * time.Second

var errOversized = errors.New("query exceeds maximum length")

// handleConn serves one connection: read a single query, answer it, close.
// Every failure here is local to the connection; nothing propagates to the
// accept loop or to other connections.
func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	s.conns.Store(conn, struct{}{})
	defer s.conns.Delete(conn)

	metrics.ActiveConnections.Inc()
	defer metrics.ActiveConnections.Dec()

	remote := conn.RemoteAddr().String()
	start := time.Now()

	conn.SetDeadline(time.Now().Add(connTimeout))

	r := bufio.NewReaderSize(conn, s.maxQueryBytes+1)
	query, err := s.readQuery(r)
	switch {
	case err == nil:
	case errors.Is(err, errOversized):
		// Answer NotFound without looking anything up. The rest of the
		// line is drained (bounded) so the close stays clean.
		log.Warn().Str("client", remote).Int("max_bytes", s.maxQueryBytes).Msg("Query exceeds maximum length")
		metrics.ErrorsTotal.WithLabelValues(metrics.ErrorTypeOversized).Inc()
		drainLine(r)
	case errors.Is(err, io.EOF) && len(query) == 0:
		// Client went away without sending anything.
		return
	default:
		// TLS handshake failures land here too: the handshake runs on
		// first read of the wrapped conn.
		log.Err(err).Str("client", remote).Msg("Error reading query:")
		metrics.ErrorsTotal.WithLabelValues(metrics.ErrorTypeRead).Inc()
		return
	}

	outcome := index.NotFound
	if err == nil {
		var lerr error
		outcome, lerr = s.idx.Lookup(query)
		if lerr != nil {
			log.Err(lerr).Str("client", remote).Msg("Error reading search file:")
			metrics.ErrorsTotal.WithLabelValues(metrics.ErrorTypeIndex).Inc()
		}
	}

	resp := ResponseNotFound
	if outcome == index.Found {
		resp = ResponseExists
	}
	if _, werr := conn.Write([]byte(resp)); werr != nil {
		log.Err(werr).Str("client", remote).Msg("Error writing response:")
		metrics.ErrorsTotal.WithLabelValues(metrics.ErrorTypeWrite).Inc()
		return
	}

	elapsed := time.Since(start)
	metrics.RequestsTotal.WithLabelValues(s.idx.Mode(), outcome.String()).Inc()
	metrics.RequestDuration.WithLabelValues(s.idx.Mode(), outcome.String()).Observe(elapsed.Seconds())

	evt := log.Debug()
	if s.verbose {
		evt = log.Info()
	}
	evt.Str("client", remote).
		Bytes("query", index.Trim(query)).
		Str("outcome", outcome.String()).
		Dur("elapsed", elapsed).
		Msg("Query handled")
}

// readQuery reads one newline-terminated query of at most maxQueryBytes.
// A stream that ends without a newline is accepted: whatever arrived is
// the query. Filling the buffer before a newline shows up means the query
// is oversized.
func (s *Server) readQuery(r *bufio.Reader) ([]byte, error) {
	line, err := r.ReadSlice('\n')
	switch {
	case err == nil:
	case errors.Is(err, bufio.ErrBufferFull):
		return line, errOversized
	case errors.Is(err, io.EOF):
		if len(line) == 0 {
			return nil, io.EOF
		}
	default:
		return nil, err
	}
	return line, nil
}

// drainLine discards the remainder of an oversized line, giving up after
// a fixed number of buffers so a client streaming garbage forever cannot
// hold the handler past its deadline.
func drainLine(r *bufio.Reader) {
	for i := 0; i < 64; i++ {
		if _, err := r.ReadSlice('\n'); !errors.Is(err, bufio.ErrBufferFull) {
			return
		}
	}
}
