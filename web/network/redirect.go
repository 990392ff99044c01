// Package network lets one TCP port serve HTTPS while answering plain HTTP
// requests with a redirect to the https URL.
package network

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"sync"
)

// tlsRecordHandshake is the first byte of every TLS ClientHello.
const tlsRecordHandshake = 0x16

var errRedirected = errors.New("plain http request redirected to https")

// RedirectListener wraps the TCP listener underneath a tls.Listener.
type RedirectListener struct {
	net.Listener
}

func NewRedirectListener(l net.Listener) net.Listener {
	return &RedirectListener{Listener: l}
}

func (l *RedirectListener) Accept() (net.Conn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}
	return &sniffConn{Conn: conn, r: bufio.NewReader(conn)}, nil
}

// sniffConn peeks at the first byte of the stream. TLS traffic passes through
// untouched; anything else is parsed as an HTTP request, redirected and closed.
type sniffConn struct {
	net.Conn
	r    *bufio.Reader
	once sync.Once
	err  error
}

func (c *sniffConn) Read(b []byte) (int, error) {
	c.once.Do(c.sniff)
	if c.err != nil {
		return 0, c.err
	}
	return c.r.Read(b)
}

func (c *sniffConn) sniff() {
	first, err := c.r.Peek(1)
	if err != nil || first[0] == tlsRecordHandshake {
		return
	}

	req, err := http.ReadRequest(c.r)
	if err != nil {
		c.err = err
		_ = c.Conn.Close()
		return
	}
	resp := &http.Response{
		StatusCode: http.StatusTemporaryRedirect,
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header: http.Header{
			"Location":   {"https://" + req.Host + req.URL.RequestURI()},
			"Connection": {"close"},
		},
	}
	_ = resp.Write(c.Conn)
	_ = c.Conn.Close()
	c.err = errRedirected
}
