// Package admin exposes the Server actor's console over a second TCP
// listener, multiplexing any number of remote console sessions onto one
// accepted connection via yamux (SPEC_FULL.md DOMAIN STACK:
// github.com/hashicorp/yamux), so a remote operator doesn't need a raw
// unauthenticated port per console session.
//
// Grounded on dmitrymodder-minewire/handler.go's yamux.Server(mc, nil)
// followed by a session.Accept loop; that repo multiplexes proxy targets
// per stream, this package multiplexes console sessions per stream
// instead.
package admin

import (
	"bufio"
	"log/slog"
	"net"

	"github.com/hashicorp/yamux"
)

// ConsoleSink is the narrow view of pkg/server.Server this package needs:
// somewhere to forward one line of console input.
type ConsoleSink interface {
	ConsoleLine(line string)
}

// Listener accepts raw TCP connections and multiplexes each one into any
// number of line-oriented console streams.
type Listener struct {
	ln   net.Listener
	sink ConsoleSink
	log  *slog.Logger
}

// Listen binds addr for admin console connections.
func Listen(addr string, sink ConsoleSink, log *slog.Logger) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Listener{ln: ln, sink: sink, log: log}, nil
}

// Close stops accepting new admin connections.
func (l *Listener) Close() error { return l.ln.Close() }

// Run accepts connections until the listener is closed.
func (l *Listener) Run() {
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			return
		}
		go l.serve(conn)
	}
}

// serve turns one accepted TCP connection into a yamux session and hands
// every multiplexed stream off to serveStream.
func (l *Listener) serve(conn net.Conn) {
	session, err := yamux.Server(conn, nil)
	if err != nil {
		l.log.Warn("admin: yamux handshake failed", "err", err)
		conn.Close()
		return
	}
	defer session.Close()

	for {
		stream, err := session.Accept()
		if err != nil {
			return
		}
		go l.serveStream(stream)
	}
}

// serveStream reads newline-delimited console commands off one stream and
// forwards each to the sink. The stream carries no responses; console
// output goes to the server's own log, same as stdin-driven commands.
func (l *Listener) serveStream(stream net.Conn) {
	defer stream.Close()
	sc := bufio.NewScanner(stream)
	for sc.Scan() {
		l.sink.ConsoleLine(sc.Text())
	}
}
