// Package client implements the query side of the wire protocol: one
// connection per query, newline-terminated, single response line.
package client

import (
	"bufio"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

type Client struct {
	addr    string
	useTLS  bool
	timeout time.Duration
}

func New(addr string, useTLS bool) *Client {
	return &Client{
		addr:    addr,
		useTLS:  useTLS,
		timeout: 10 * time.Second,
	}
}

// Query opens a connection, sends one newline-terminated query and reads
// the single response line. The server closes the connection after it.
func (c *Client) Query(query string) (string, error) {
	conn, err := c.dial()
	if err != nil {
		return "", fmt.Errorf("connecting to %s: %w", c.addr, err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	if _, err := fmt.Fprintf(conn, "%s\n", query); err != nil {
		return "", fmt.Errorf("sending query: %w", err)
	}

	resp, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading response: %w", err)
	}
	return strings.TrimRight(resp, "\r\n"), nil
}

func (c *Client) dial() (net.Conn, error) {
	d := &net.Dialer{Timeout: c.timeout}
	if c.useTLS {
		// Servers typically run with self-signed certificates, so skip
		// chain verification like the stock client does.
		return tls.DialWithDialer(d, "tcp", c.addr, &tls.Config{InsecureSkipVerify: true})
	}
	return d.Dial("tcp", c.addr)
}
