package server

import (
	"crypto/tls"
	"net"
	"sync"
	"time"

	"lqd/internal/index"
)

// Literal wire responses, newline terminated.
const (
	ResponseExists   = "STRING EXISTS\n"
	ResponseNotFound = "STRING NOT FOUND\n"
)

type Server struct {
	addr          string
	idx           index.Index
	maxQueryBytes int
	maxConns      int
	grace         time.Duration
	tlsConf       *tls.Config
	verbose       bool

	listener net.Listener
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	conns    sync.Map // net.Conn -> struct{}, force-closed when the grace period expires
}
