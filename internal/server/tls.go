package server

import (
	"crypto/tls"
	"fmt"
)

// buildTLSConfig loads the server certificate and key once at startup; a
// load failure here is fatal. Per-connection handshake failures surface
// later as read errors on the wrapped conn and drop only that connection.
func buildTLSConfig(certPath, keyPath string) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return nil, fmt.Errorf("loading key pair: %w", err)
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}
