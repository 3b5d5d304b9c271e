package server

import (
	"log/slog"
	"net"

	"github.com/ironclad-mc/mcserver/pkg/shutdown"
)

// Acceptor is the network acceptor (component I): bind once, then spawn one
// Connection actor per accepted socket until shutdown closes the listener.
type Acceptor struct {
	ln     net.Listener
	server ServerHandle
	bus    *shutdown.Bus
	log    *slog.Logger
}

// Listen binds addr and returns an Acceptor ready to Run.
func Listen(addr string, server ServerHandle, bus *shutdown.Bus, log *slog.Logger) (*Acceptor, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Acceptor{ln: ln, server: server, bus: bus, log: log}, nil
}

// Run accepts connections until shutdown closes the listener. Any other
// accept error is logged and the loop keeps accepting. Spawns a goroutine
// that closes the listener as soon as shutdown is signaled, unblocking
// Accept.
func (a *Acceptor) Run() {
	go func() {
		<-a.bus.Done()
		a.ln.Close()
	}()

	for {
		conn, err := a.ln.Accept()
		if err != nil {
			select {
			case <-a.bus.Done():
				return
			default:
			}
			a.log.Warn("acceptor: accept error", "err", err)
			continue
		}

		if tcp, ok := conn.(*net.TCPConn); ok {
			tcp.SetNoDelay(true)
		}

		handle := a.bus.Handle()
		c := NewConnection(conn, a.server, handle, a.log)
		go c.Run()
	}
}
