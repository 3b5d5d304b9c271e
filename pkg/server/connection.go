package server

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/ironclad-mc/mcserver/pkg/chat"
	"github.com/ironclad-mc/mcserver/pkg/dispatch"
	"github.com/ironclad-mc/mcserver/pkg/frame"
	"github.com/ironclad-mc/mcserver/pkg/netio"
	"github.com/ironclad-mc/mcserver/pkg/protocol"
)

// keepAliveTimeout is the Connection actor's keep-alive constant (spec
// §4.G): the server pings once per keepAliveBroadcastInterval (server.go)
// via the Server actor's broadcast tick; a connection that hasn't reset its
// own timer within keepAliveTimeout of the last reset is disconnected.
const keepAliveTimeout = 30 * time.Second

// encodable is any clientbound packet struct from pkg/protocol: a known
// wire size plus a writer that never fails as long as Size was honest.
type encodable interface {
	Size() int
	Encode(w *protocol.Writer) error
}

// inboundPacket is one deframed, decrypted payload handed from the reader
// goroutine to the actor loop, still id-prefixed.
type inboundPacket struct {
	payload []byte
	err     error
}

// Connection is the per-socket actor (component G): single-threaded state
// machine cooperatively scheduled with I/O, a task queue, and a shutdown
// watch, grounded on the select-loop structure the teacher's connection
// handling used for its own (single-protocol) client loop, generalized
// here across phases and protocol revisions via a per-connection dispatch
// table instead of a hand-written switch.
type Connection struct {
	raw    net.Conn
	conn   *netio.Conn
	reader *frame.Reader
	writer *frame.Writer

	state *protocol.NetworkState
	table *dispatch.Table

	tasks  chan connTask
	exited chan struct{}

	server ServerHandle
	shut   shutdownHandle

	log *slog.Logger

	compressionThreshold int32

	lastKeepAliveSent int64
	keepAliveTimer    *time.Timer

	loginUsername string

	closeOnce bool
}

// shutdownHandle is the narrow view Connection needs of pkg/shutdown.Handle
// (Done/Release), declared as an interface so shutdown.Handle and a test
// fake both satisfy it.
type shutdownHandle interface {
	Done() <-chan struct{}
	Release()
}

// NewConnection wraps an accepted socket and builds its private dispatch
// table (spec §4.E: one table per connection since handler closures carry
// per-connection state).
func NewConnection(raw net.Conn, server ServerHandle, shut shutdownHandle, log *slog.Logger) *Connection {
	conn := netio.NewConn(raw)
	c := &Connection{
		raw:    raw,
		conn:   conn,
		reader: frame.NewReader(conn),
		writer: frame.NewWriter(conn),
		state:  protocol.NewNetworkState(),
		tasks:  make(chan connTask, 32),
		exited: make(chan struct{}),
		server: server,
		shut:   shut,
		log:    log,
		compressionThreshold: frame.NoCompression,
	}
	t := dispatch.NewTable()
	dispatch.RegisterWireIDs(t)
	dispatch.RegisterIngress(t, c.playHandlers())
	c.table = t.Seal()
	return c
}

// handle returns the submission handle other actors use to reach this
// connection; the zero handle (tasks == nil) is never observed once the
// connection has started running.
func (c *Connection) handle() ConnHandle {
	return ConnHandle{tasks: c.tasks, exited: c.exited}
}

// Run is the actor's select loop (spec §4.G "select semantics"), executed
// on its own goroutine. It returns once the connection has torn down.
func (c *Connection) Run() {
	defer c.teardown()

	inbound := make(chan inboundPacket, 8)
	stopReader := make(chan struct{})
	go c.readLoop(inbound, stopReader)
	defer close(stopReader)

	keepAlive := time.NewTimer(keepAliveTimeout)
	c.keepAliveTimer = keepAlive
	defer keepAlive.Stop()

	for {
		select {
		case <-c.shut.Done():
			return

		case <-keepAlive.C:
			if c.state.Phase == protocol.Play {
				c.disconnect("Did not receive Keep alive packet!")
				return
			}
			keepAlive.Reset(keepAliveTimeout)

		case task := <-c.tasks:
			task(c)
			if c.state.Phase == protocol.Disconnected {
				return
			}

		case pkt, ok := <-inbound:
			if !ok {
				return
			}
			if pkt.err != nil {
				if !errors.Is(pkt.err, io.EOF) {
					c.log.Debug("connection read error", "err", pkt.err)
				}
				return
			}
			c.dispatch(pkt.payload)
			if c.state.Phase == protocol.Disconnected {
				return
			}
		}
	}
}

// readLoop blocks on frame.Reader.ReadPacket and forwards each decoded
// payload to inbound; it owns no actor state and exits as soon as either
// the socket errs or stopReader is closed by Run's defer.
//
// A dedicated reader goroutine feeding a channel is this Go port's
// rendering of the spec's non-blocking "readable" suspension point (same
// rationale as pkg/frame's package doc): Run's select loop still sees
// exactly one inbound packet per iteration, it just arrives over a channel
// instead of a poll.
func (c *Connection) readLoop(out chan<- inboundPacket, stop <-chan struct{}) {
	defer close(out)
	for {
		payload, err := c.reader.ReadPacket()
		select {
		case out <- inboundPacket{payload: payload, err: err}:
		case <-stop:
			return
		}
		if err != nil {
			return
		}
	}
}

func (c *Connection) dispatch(payload []byte) {
	r := protocol.NewReader(payload)
	id, err := r.VarInt()
	if err != nil {
		c.log.Debug("malformed packet id", "err", err)
		return
	}
	h, ok := c.table.Lookup(c.state.Phase, c.state.Protocol, id)
	if !ok {
		switch c.state.Phase {
		case protocol.Login:
			c.disconnectLogin("Unsupported version!")
		case protocol.Status:
			c.disconnectLogin("Unsupported version!")
		default:
			// Play: unrecognized ids are silently skipped (spec §7
			// "Unsupported version" — "silent skip in Play").
		}
		return
	}
	if err := h(r); err != nil {
		c.log.Debug("packet handler error", "phase", c.state.Phase, "id", id, "err", err)
	}
}

// send resolves kind to its wire id for the connection's negotiated
// protocol and frames p.
func (c *Connection) send(kind dispatch.Kind, p encodable) error {
	id, ok := c.table.EgressID(kind, c.state.Protocol)
	if !ok {
		return fmt.Errorf("connection: no egress id for kind=%d protocol=%d", kind, c.state.Protocol)
	}
	w := protocol.NewWriter(p.Size())
	if err := p.Encode(w); err != nil {
		return err
	}
	return c.writer.WritePacket(id, w.Bytes())
}

// disconnect performs the Disconnected-phase teardown operation spec §4.G
// describes: enqueue the phase-appropriate disconnect packet, then mark
// Disconnected so Run's next branch check exits the loop.
func (c *Connection) disconnect(reason string) {
	msg := chat.ColoredForProtocol(c.state.Protocol, reason, "red")
	switch c.state.Phase {
	case protocol.Play:
		c.send(dispatch.KindPlayDisconnect, &protocol.DisconnectPlayPacket{Reason: msg})
	default:
		c.send(dispatch.KindLoginDisconnect, &protocol.LoginDisconnectPacket{Reason: msg})
	}
	c.state.Phase = protocol.Disconnected
}

// disconnectLogin always frames a login-phase disconnect regardless of the
// connection's current phase, used for the Status/Login "unsupported
// version" path where Status has no disconnect packet of its own (S1/S2
// share this helper; Status simply never calls it on the happy path).
func (c *Connection) disconnectLogin(reason string) {
	c.send(dispatch.KindLoginDisconnect, &protocol.LoginDisconnectPacket{Reason: chat.ColoredForProtocol(c.state.Protocol, reason, "red")})
	c.state.Phase = protocol.Disconnected
}

// teardown runs once Run's loop exits for any reason: submit player_leave
// if a player had logged in, release this connection's shutdown-bus slot,
// and close the socket so the reader goroutine unblocks.
func (c *Connection) teardown() {
	if c.closeOnce {
		return
	}
	c.closeOnce = true
	close(c.exited)
	c.raw.Close()
	if c.state.HasPlayerUUID {
		uuid := c.state.PlayerUUID
		c.server.Submit(func(s *Server) { s.PlayerLeave(uuid) })
	}
	c.shut.Release()
}

// playHandlers builds the closures dispatch.RegisterIngress wires into
// this connection's table. Each closure decodes its packet and either
// reacts locally (status ping, keep-alive reset) or submits a task to the
// Server actor for anything that touches shared state (spec §4.H
// "Handlers invoked by connections").
func (c *Connection) playHandlers() dispatch.PlayHandlers {
	return dispatch.PlayHandlers{
		Handshake: func(r *protocol.Reader) error {
			pkt, err := protocol.DecodeHandshake(r)
			if err != nil {
				return err
			}
			c.state.Protocol = pkt.ProtocolVersion
			c.state.Phase = protocol.Phase(pkt.NextState)
			return nil
		},
		StatusRequest: func(r *protocol.Reader) error {
			if _, err := protocol.DecodeStatusRequest(r); err != nil {
				return err
			}
			handle := c.handle()
			c.server.Submit(func(s *Server) { s.RequestStatus(c.state.Protocol, handle) })
			return nil
		},
		StatusPing: func(r *protocol.Reader) error {
			pkt, err := protocol.DecodeStatusPing(r)
			if err != nil {
				return err
			}
			if err := c.send(dispatch.KindStatusPong, &protocol.StatusPongPacket{Payload: pkt.Payload}); err != nil {
				return err
			}
			c.state.Phase = protocol.Disconnected
			return nil
		},
		LoginStart: func(r *protocol.Reader) error {
			pkt, err := protocol.DecodeLoginStart(r)
			if err != nil {
				return err
			}
			c.loginUsername = pkt.Username
			proto := c.state.Protocol
			handle := c.handle()
			c.server.Submit(func(s *Server) { s.PlayerLogin(pkt.Username, proto, handle) })
			return nil
		},
		KeepAlive: func(r *protocol.Reader) error {
			decode := protocol.DecodeKeepAliveServerbound(c.state.Protocol)
			pkt, err := decode(r)
			if err != nil {
				return err
			}
			if pkt.ID == c.lastKeepAliveSent && c.keepAliveTimer != nil {
				if !c.keepAliveTimer.Stop() {
					select {
					case <-c.keepAliveTimer.C:
					default:
					}
				}
				c.keepAliveTimer.Reset(keepAliveTimeout)
			}
			return nil
		},
		ChatMessage: func(r *protocol.Reader) error {
			pkt, err := protocol.DecodeChatMessageServerbound(r)
			if err != nil {
				return err
			}
			if !c.state.HasPlayerUUID {
				return nil
			}
			uuid := c.state.PlayerUUID
			c.server.Submit(func(s *Server) { s.PlayerChat(uuid, pkt.Message) })
			return nil
		},
		PlayerPosition: func(r *protocol.Reader) error {
			pkt, err := protocol.DecodePlayerPosition(r)
			if err != nil {
				return err
			}
			c.submitPosLook(&pkt.X, &pkt.Y, &pkt.Z, nil, nil, pkt.OnGround)
			return nil
		},
		PlayerLook: func(r *protocol.Reader) error {
			pkt, err := protocol.DecodePlayerLook(r)
			if err != nil {
				return err
			}
			c.submitPosLook(nil, nil, nil, &pkt.Yaw, &pkt.Pitch, pkt.OnGround)
			return nil
		},
		PlayerPositionAndLook: func(r *protocol.Reader) error {
			pkt, err := protocol.DecodePlayerPositionAndLookServerbound(r)
			if err != nil {
				return err
			}
			c.submitPosLook(&pkt.X, &pkt.Y, &pkt.Z, &pkt.Yaw, &pkt.Pitch, pkt.OnGround)
			return nil
		},
		ClientSettings: func(r *protocol.Reader) error {
			pkt, err := protocol.DecodeClientSettings(r)
			if err != nil {
				return err
			}
			if !c.state.HasPlayerUUID {
				return nil
			}
			uuid := c.state.PlayerUUID
			vd := int32(pkt.ViewDistance)
			c.server.Submit(func(s *Server) { s.PlayerUpdateViewDistance(uuid, vd) })
			return nil
		},
		PlayerAbilities: func(r *protocol.Reader) error {
			_, err := protocol.DecodePlayerAbilitiesServerbound(r)
			return err
		},
	}
}

func (c *Connection) submitPosLook(x, y, z *float64, yaw, pitch *float32, onGround bool) {
	if !c.state.HasPlayerUUID {
		return
	}
	uuid := c.state.PlayerUUID
	c.server.Submit(func(s *Server) { s.PlayerUpdatePosLook(uuid, x, y, z, yaw, pitch, onGround) })
}

// sendKeepAlive is invoked by the Server actor's broadcast tick (spec §4.H
// "asks each connection to send a Keep-Alive packet with the current
// elapsed-seconds as the id"), via task submission so the write happens on
// this connection's own goroutine.
func (c *Connection) sendKeepAlive(id int64) {
	c.lastKeepAliveSent = id
	pkt := &protocol.KeepAliveClientboundPacket{ID: id, Protocol: c.state.Protocol}
	if err := c.send(dispatch.KindKeepAlive, pkt); err != nil {
		c.log.Debug("keep-alive send failed", "err", err)
	}
}
