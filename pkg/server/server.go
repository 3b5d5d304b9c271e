// Package server implements components G (Connection actor), H (Server
// actor), and I (network acceptor): the cooperative per-connection state
// machines, the single actor owning the world and player registry, and the
// listener that spawns one Connection per accepted socket.
package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/ironclad-mc/mcserver/internal/config"
	"github.com/ironclad-mc/mcserver/pkg/chat"
	"github.com/ironclad-mc/mcserver/pkg/dispatch"
	"github.com/ironclad-mc/mcserver/pkg/protocol"
	"github.com/ironclad-mc/mcserver/pkg/shutdown"
	"github.com/ironclad-mc/mcserver/pkg/world"
)

// gameTickInterval and keepAliveBroadcastInterval are the Server actor's
// two timers (spec §4.H: "a 50 ms game tick and a 12 s keep-alive
// broadcast").
const (
	gameTickInterval          = 50 * time.Millisecond
	keepAliveBroadcastInterval = 12 * time.Second
)

// Server is the single-threaded actor owning the world, the player
// registry, and the console (spec §4.H "Server actor"). Every method
// exported for cross-actor use is a Submit target — nothing outside Run's
// goroutine calls the unexported handlers directly.
type Server struct {
	cfg     *config.Config
	world   *world.World
	catalog *world.Catalog
	log     *slog.Logger

	players         map[uuid.UUID]*Player
	nextEntityID    int32
	defaultGamemode byte

	cache *chunkCache
	cron  *cron.Cron

	tasks   chan serverTask
	console chan string

	bus    *shutdown.Bus
	self   shutdown.Handle
	exited chan struct{}

	tickCount  int64
	shouldStop bool
	startedAt  time.Time
}

// New constructs a Server over w, seeded from cfg and cat. The returned
// Server does nothing until Run is called on its own goroutine.
func New(cfg *config.Config, w *world.World, cat *world.Catalog, bus *shutdown.Bus, log *slog.Logger) *Server {
	gamemode, ok := ParseGamemode(cfg.DefaultGamemode)
	if !ok {
		gamemode = GamemodeSurvival
	}
	return &Server{
		cfg:             cfg,
		world:           w,
		catalog:         cat,
		log:             log,
		players:         make(map[uuid.UUID]*Player),
		defaultGamemode: gamemode,
		cache:           newChunkCache(),
		tasks:           make(chan serverTask, 256),
		console:         make(chan string, 16),
		bus:             bus,
		self:            bus.Handle(),
		exited:          make(chan struct{}),
	}
}

// Handle returns the submission handle Connections use to reach this
// Server.
func (s *Server) Handle() ServerHandle {
	return ServerHandle{tasks: s.tasks, exited: s.exited}
}

// ConsoleLine enqueues one line of console input (from stdin or an admin
// stream) for the Server actor to parse on its next game tick. Dropped
// silently once shutdown has begun.
func (s *Server) ConsoleLine(line string) {
	select {
	case s.console <- line:
	case <-s.bus.Done():
	}
}

// Run is the Server actor's select loop (spec §4.H). It returns once
// shutdown has been observed.
func (s *Server) Run() {
	defer close(s.exited)
	defer s.self.Release()
	defer s.stopAnnouncements()

	s.startedAt = time.Now()
	s.startAnnouncements()

	gameTick := time.NewTicker(gameTickInterval)
	defer gameTick.Stop()
	keepAlive := time.NewTicker(keepAliveBroadcastInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-s.bus.Done():
			return

		case <-keepAlive.C:
			s.broadcastKeepAlive(int64(time.Since(s.startedAt).Seconds()))

		case <-gameTick.C:
			s.tickCount++
			s.drainPending()
			if s.shouldStop {
				return
			}
		}
	}
}

// drainPending runs every server task and console command queued since the
// last game tick (spec §4.H "On each game tick it drains all pending
// server tasks and console commands").
func (s *Server) drainPending() {
	for {
		select {
		case task := <-s.tasks:
			task(s)
		case line := <-s.console:
			s.handleConsoleLine(line)
		default:
			return
		}
	}
}

func (s *Server) broadcastKeepAlive(id int64) {
	for _, p := range s.players {
		conn := p.Conn
		conn.Submit(func(c *Connection) { c.sendKeepAlive(id) })
	}
}

func (s *Server) broadcastChat(message string) {
	for _, p := range s.players {
		conn := p.Conn
		conn.Submit(func(c *Connection) {
			msg := chat.NewForProtocol(c.state.Protocol, message)
			c.send(dispatch.KindChatMessage, &protocol.ChatMessageClientboundPacket{Message: msg, Position: 0})
		})
	}
}

// RequestStatus answers the Status phase's request_status handler (spec
// §4.H): build the status JSON and send it, once, through conn.
func (s *Server) RequestStatus(proto int32, conn ConnHandle) {
	resp := s.statusJSON(proto)
	conn.Submit(func(c *Connection) {
		c.send(dispatch.KindStatusResponse, &protocol.StatusResponsePacket{JSON: resp})
	})
}

type statusVersion struct {
	Name     string `json:"name"`
	Protocol int32  `json:"protocol"`
}

type statusPlayers struct {
	Max    int `json:"max"`
	Online int `json:"online"`
}

type statusBody struct {
	Version     statusVersion `json:"version"`
	Players     statusPlayers `json:"players"`
	Description string        `json:"description"`
}

func (s *Server) statusJSON(proto int32) string {
	body := statusBody{
		Version:     statusVersion{Name: protocol.VersionName(proto), Protocol: proto},
		Players:     statusPlayers{Max: s.cfg.MaxPlayers, Online: len(s.players)},
		Description: s.cfg.MOTD,
	}
	b, err := json.Marshal(body)
	if err != nil {
		return `{"version":{"name":"unknown","protocol":0},"players":{"max":0,"online":0},"description":""}`
	}
	return string(b)
}

// PlayerLogin answers the Login phase's player_login handler (spec §4.H):
// reject an excluded or duplicate-logged-in client, otherwise assign a v3
// UUID from the username, allocate a Player, and walk conn through the
// LoginSuccess -> JoinGame -> ... -> PositionAndLook sequence (spec
// scenario S3).
func (s *Server) PlayerLogin(name string, proto int32, conn ConnHandle) {
	if !protocol.IsSupported(proto) || s.cfg.Excludes(proto) {
		conn.Submit(func(c *Connection) { c.disconnectLogin("Unsupported version!") })
		return
	}
	if s.cfg.MaxPlayers >= 0 && len(s.players) >= s.cfg.MaxPlayers {
		conn.Submit(func(c *Connection) { c.disconnectLogin("The server is full.") })
		return
	}

	id := uuid.NewMD5(uuid.NameSpaceDNS, []byte(name))
	if _, dup := s.players[id]; dup {
		conn.Submit(func(c *Connection) { c.disconnectLogin("You are already connected to the server.") })
		return
	}

	entityID := s.nextEntityID
	s.nextEntityID++

	radius := clampViewDistance(7, int32(s.cfg.MaxViewDistance))
	centerChunk := world.ChunkPosOf(s.cfg.SpawnPos.X, s.cfg.SpawnPos.Z)

	p := &Player{
		Username: name,
		UUID:     id,
		EntityID: entityID,
		Gamemode: s.defaultGamemode,
		Abilities: AbilityFlags{
			AllowFlying:  s.cfg.AllowFlight,
			CreativeMode: s.defaultGamemode == GamemodeCreative,
			Flying:       s.cfg.AllowFlight && s.defaultGamemode == GamemodeCreative,
		},
		X: s.cfg.SpawnPos.X, Y: s.cfg.SpawnPos.Y, Z: s.cfg.SpawnPos.Z,
		Yaw: s.cfg.SpawnLook.Yaw, Pitch: s.cfg.SpawnLook.Pitch,
		ViewDistance: radius,
		Protocol:     proto,
		Conn:         conn,
	}
	s.players[id] = p

	threshold := s.cfg.CompressionThresh
	defaultGamemode := s.defaultGamemode
	difficulty := byte(1) // easy
	maxPlayers := s.cfg.MaxPlayers
	load, _ := world.SquareDelta(world.ChunkPos{}, centerChunk, radius, false)
	codec := buildDimensionCodec()

	conn.Submit(func(c *Connection) {
		c.state.Phase = protocol.Play
		c.state.PlayerUUID = id
		c.state.HasPlayerUUID = true

		if threshold >= 0 {
			c.send(dispatch.KindSetCompression, &protocol.SetCompressionPacket{Threshold: threshold})
			c.reader.SetCompression(threshold)
			c.writer.SetCompression(threshold)
			c.compressionThreshold = threshold
		}

		c.send(dispatch.KindLoginSuccess, &protocol.LoginSuccessPacket{UUID: id, Username: name})

		c.send(dispatch.KindJoinGame, &protocol.JoinGamePacket{
			Protocol:       proto,
			EntityID:       entityID,
			Gamemode:       defaultGamemode,
			Dimension:      0,
			Difficulty:     difficulty,
			MaxPlayers:     byte(clampByte(maxPlayers)),
			LevelType:      "default",
			ViewDistance:   radius,
			ReducedDebug:   false,
			DimensionCodec: codec,
			DimensionName:  "minecraft:overworld",
			WorldName:      "world",
			HashedSeed:     0,
		})
		c.send(dispatch.KindServerDifficulty, &protocol.ServerDifficultyPacket{Difficulty: difficulty, Locked: false, Protocol: proto})
		c.send(dispatch.KindPlayerAbilities, &protocol.PlayerAbilitiesPacket{
			Invulnerable: defaultGamemode == GamemodeCreative || defaultGamemode == GamemodeSpectator,
			Flying:       false,
			AllowFlying:  s.cfg.AllowFlight || defaultGamemode == GamemodeCreative,
			CreativeMode: defaultGamemode == GamemodeCreative,
			FlyingSpeed:  0.05,
			FOVModifier:  0.1,
		})
	})

	s.sendChunkDelta(conn, proto, load, nil)
	p.Chunk = centerChunk
	p.HasChunk = true

	x, y, z, yaw, pitch := p.X, p.Y, p.Z, p.Yaw, p.Pitch
	conn.Submit(func(c *Connection) {
		c.send(dispatch.KindPlayerPositionAndLook, &protocol.PlayerPositionAndLookClientboundPacket{
			X: x, Y: y, Z: z, Yaw: yaw, Pitch: pitch, Flags: 0, TeleportID: 0, Protocol: proto,
		})
	})

	s.log.Info("player joined", "username", name, "uuid", id, "protocol", proto)
}

// PlayerLeave answers the player_leave handler (spec §4.H): remove the
// player from the registry and log it.
func (s *Server) PlayerLeave(id uuid.UUID) {
	p, ok := s.players[id]
	if !ok {
		return
	}
	delete(s.players, id)
	s.log.Info("player left", "username", p.Username, "uuid", id)
}

// PlayerChat broadcasts a chat message from id's player to every connected
// player.
func (s *Server) PlayerChat(id uuid.UUID, message string) {
	p, ok := s.players[id]
	if !ok {
		return
	}
	s.broadcastChat(fmt.Sprintf("<%s> %s", p.Username, message))
}

// PlayerUpdatePosLook answers the player_update_pos_look handler (spec
// §4.H): update the player in place and, if it crossed into a new chunk,
// emit the view-position update plus load/unload deltas (spec scenario
// S5).
func (s *Server) PlayerUpdatePosLook(id uuid.UUID, x, y, z *float64, yaw, pitch *float32, onGround bool) {
	p, ok := s.players[id]
	if !ok {
		return
	}
	if x != nil {
		p.X = *x
	}
	if y != nil {
		p.Y = *y
	}
	if z != nil {
		p.Z = *z
	}
	if yaw != nil {
		p.Yaw = *yaw
	}
	if pitch != nil {
		p.Pitch = *pitch
	}
	p.OnGround = onGround

	newChunk := world.ChunkPosOf(p.X, p.Z)
	if p.HasChunk && newChunk == p.Chunk {
		return
	}

	load, unload := world.SquareDelta(p.Chunk, newChunk, p.ViewDistance, p.HasChunk)
	if protocol.HasViewDistanceMechanics(p.Protocol) {
		conn := p.Conn
		conn.Submit(func(c *Connection) {
			c.send(dispatch.KindUpdateViewPosition, &protocol.UpdateViewPositionPacket{ChunkX: newChunk.X, ChunkZ: newChunk.Z})
		})
	}
	s.sendChunkDelta(p.Conn, p.Protocol, load, unload)

	p.Chunk = newChunk
	p.HasChunk = true
}

// PlayerUpdateViewDistance answers the player_update_view_distance handler
// (spec §4.H): clamp to config.max_view_distance then emit the chunk
// load/unload delta for the radius change around the player's current
// chunk.
func (s *Server) PlayerUpdateViewDistance(id uuid.UUID, requested int32) {
	p, ok := s.players[id]
	if !ok {
		return
	}
	clamped := clampViewDistance(requested, int32(s.cfg.MaxViewDistance))
	if clamped == p.ViewDistance {
		return
	}
	old := p.ViewDistance
	p.ViewDistance = clamped

	if !p.HasChunk {
		return
	}

	toSet := make(map[world.ChunkPos]bool)
	for _, cp := range world.ChunksInSquare(p.Chunk, clamped) {
		toSet[cp] = true
	}
	fromSet := make(map[world.ChunkPos]bool)
	for _, cp := range world.ChunksInSquare(p.Chunk, old) {
		fromSet[cp] = true
	}
	var load, unload []world.ChunkPos
	for cp := range toSet {
		if !fromSet[cp] {
			load = append(load, cp)
		}
	}
	for cp := range fromSet {
		if !toSet[cp] {
			unload = append(unload, cp)
		}
	}
	s.sendChunkDelta(p.Conn, p.Protocol, load, unload)
}

// sendChunkDelta sends ChunkData for every chunk in load and unloads every
// chunk in unload, using a dedicated UnloadChunk packet from 1.14 on and an
// empty ChunkData payload on earlier protocols (spec §4.F "block-entity
// list is empty" + §9 design note on pre-1.14 unload).
func (s *Server) sendChunkDelta(conn ConnHandle, proto int32, load, unload []world.ChunkPos) {
	for _, cp := range load {
		b := s.encodedChunk(cp, proto)
		conn.Submit(func(c *Connection) { c.send(dispatch.KindChunkData, rawEncodable(b)) })
	}
	for _, cp := range unload {
		cpCopy := cp
		if protocol.HasDedicatedUnloadChunk(proto) {
			conn.Submit(func(c *Connection) {
				c.send(dispatch.KindUnloadChunk, &protocol.UnloadChunkPacket{ChunkX: cpCopy.X, ChunkZ: cpCopy.Z})
			})
			continue
		}
		b := s.emptyChunkBytes(cpCopy, proto)
		conn.Submit(func(c *Connection) { c.send(dispatch.KindChunkData, rawEncodable(b)) })
	}
}

// encodedChunk returns the cached (or freshly serialized) ChunkData packet
// bytes for one column on proto.
func (s *Server) encodedChunk(cp world.ChunkPos, proto int32) []byte {
	return s.cache.getOrEncode(cp.X, cp.Z, proto, func() []byte {
		c, _ := s.world.ExistingChunkAt(cp)
		ids, _ := s.catalog.For(proto)
		payload, bitmask, heightmap := world.EncodeChunk(c, proto, ids)
		pkt := &protocol.ChunkDataPacket{ChunkX: cp.X, ChunkZ: cp.Z, BitMask: bitmask, Heightmap: heightmap, Payload: payload, Protocol: proto}
		w := protocol.NewWriter(pkt.Size())
		_ = pkt.Encode(w)
		return w.Bytes()
	})
}

// emptyChunkBytes builds an all-air ChunkData payload (bitmask 0) for cp,
// the pre-1.14 client-side unload signal.
func (s *Server) emptyChunkBytes(cp world.ChunkPos, proto int32) []byte {
	ids, _ := s.catalog.For(proto)
	payload, bitmask, heightmap := world.EncodeChunk(nil, proto, ids)
	pkt := &protocol.ChunkDataPacket{ChunkX: cp.X, ChunkZ: cp.Z, BitMask: bitmask, Heightmap: heightmap, Payload: payload, Protocol: proto}
	w := protocol.NewWriter(pkt.Size())
	_ = pkt.Encode(w)
	return w.Bytes()
}

// InvalidateChunk drops cached encodings of (x, z) across every protocol —
// the hook spec §6 requires future world-mutation code to call after a
// SetBlock.
func (s *Server) InvalidateChunk(x, z int32) {
	s.cache.invalidate(x, z)
}

func clampViewDistance(v, max int32) int32 {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

func clampByte(v int) int {
	if v < 0 || v > 255 {
		return 255
	}
	return v
}
