package dispatch

import "github.com/ironclad-mc/mcserver/pkg/protocol"

// eraIDs describes the packet-id numbering for one stretch of Supported
// protocols that renumber together. Minecraft's id churn doesn't line up
// release to release, so rather than one id per exact protocol we group
// the Supported set into the five numbering eras it actually falls into.
type eraIDs struct {
	protocols []int32

	keepAliveIn, keepAliveOut int32
	joinGame                  int32
	serverDifficulty          int32
	playerAbilitiesOut        int32
	playerPosLookOut          int32
	chatIn, chatOut           int32
	chunkData                 int32
	unloadChunk               int32
	updateViewPosition        int32
	playDisconnect            int32
	playerPosIn               int32
	playerLookIn              int32
	playerPosLookIn           int32
	clientSettings            int32
	playerAbilitiesIn         int32
}

// eras covers every protocol in protocol.Supported. Ids are the numbering
// each release actually shipped; where a packet doesn't exist yet on an
// era (e.g. UnloadChunk pre-1.14) the field is left at -1 and RegisterEgress
// for it is simply skipped for that era.
var eras = []eraIDs{
	{ // 1.8.9
		protocols: []int32{47},
		keepAliveIn: 0x00, keepAliveOut: 0x00,
		joinGame: 0x01, serverDifficulty: 0x41,
		playerAbilitiesOut: 0x39, playerPosLookOut: 0x08,
		chatIn: 0x01, chatOut: 0x02,
		chunkData: 0x21, unloadChunk: -1, updateViewPosition: -1,
		playDisconnect: 0x40,
		playerPosIn: 0x04, playerLookIn: 0x05, playerPosLookIn: 0x06,
		clientSettings: 0x15, playerAbilitiesIn: 0x13,
	},
	{ // 1.12.2
		protocols: []int32{340},
		keepAliveIn: 0x0B, keepAliveOut: 0x1F,
		joinGame: 0x23, serverDifficulty: 0x0D,
		playerAbilitiesOut: 0x2C, playerPosLookOut: 0x2F,
		chatIn: 0x02, chatOut: 0x0F,
		chunkData: 0x20, unloadChunk: -1, updateViewPosition: -1,
		playDisconnect: 0x1A,
		playerPosIn: 0x0C, playerLookIn: 0x0D, playerPosLookIn: 0x0E,
		clientSettings: 0x04, playerAbilitiesIn: 0x19,
	},
	{ // 1.14 / 1.14.4
		protocols: []int32{477, 498},
		keepAliveIn: 0x0F, keepAliveOut: 0x21,
		joinGame: 0x25, serverDifficulty: 0x0D,
		playerAbilitiesOut: 0x2E, playerPosLookOut: 0x32,
		chatIn: 0x03, chatOut: 0x0E,
		chunkData: 0x22, unloadChunk: 0x1F, updateViewPosition: 0x40,
		playDisconnect: 0x1B,
		playerPosIn: 0x10, playerLookIn: 0x11, playerPosLookIn: 0x12,
		clientSettings: 0x05, playerAbilitiesIn: 0x1A,
	},
	{ // 1.15.2
		protocols: []int32{573},
		keepAliveIn: 0x0F, keepAliveOut: 0x21,
		joinGame: 0x26, serverDifficulty: 0x0D,
		playerAbilitiesOut: 0x2F, playerPosLookOut: 0x33,
		chatIn: 0x03, chatOut: 0x0E,
		chunkData: 0x22, unloadChunk: 0x1F, updateViewPosition: 0x40,
		playDisconnect: 0x1B,
		playerPosIn: 0x11, playerLookIn: 0x12, playerPosLookIn: 0x13,
		clientSettings: 0x05, playerAbilitiesIn: 0x1A,
	},
	{ // 1.16.1
		protocols: []int32{736},
		keepAliveIn: 0x10, keepAliveOut: 0x20,
		joinGame: 0x25, serverDifficulty: 0x0D,
		playerAbilitiesOut: 0x2D, playerPosLookOut: 0x34,
		chatIn: 0x03, chatOut: 0x0E,
		chunkData: 0x22, unloadChunk: 0x1D, updateViewPosition: 0x49,
		playDisconnect: 0x19,
		playerPosIn: 0x12, playerLookIn: 0x13, playerPosLookIn: 0x14,
		clientSettings: 0x05, playerAbilitiesIn: 0x1B,
	},
}

// Handshake, Status and Login ids are stable across every Supported protocol.
const (
	idHandshake = 0x00

	idStatusRequest  = 0x00
	idStatusPing     = 0x01
	idStatusResponse = 0x00
	idStatusPong     = 0x01

	idLoginStart       = 0x00
	idLoginDisconnect  = 0x00
	idLoginSuccess     = 0x02
	idSetCompression   = 0x03
)

// RegisterWireIDs fills t's egress table with every Kind/protocol pair
// known to this core. It does not register ingress handlers (callers own
// decode/handle closures — see Handshake/Status/Login/Play registration
// helpers below); it only fixes the numbering those closures dispatch by.
func RegisterWireIDs(t *Table) {
	t.RegisterEgress(KindStatusResponse, -1, idStatusResponse)
	t.RegisterEgress(KindStatusPong, -1, idStatusPong)
	t.RegisterEgress(KindLoginDisconnect, -1, idLoginDisconnect)
	t.RegisterEgress(KindLoginSuccess, -1, idLoginSuccess)
	t.RegisterEgress(KindSetCompression, -1, idSetCompression)

	for _, era := range eras {
		for _, proto := range era.protocols {
			t.RegisterEgress(KindJoinGame, proto, era.joinGame)
			t.RegisterEgress(KindServerDifficulty, proto, era.serverDifficulty)
			t.RegisterEgress(KindPlayerAbilities, proto, era.playerAbilitiesOut)
			t.RegisterEgress(KindPlayerPositionAndLook, proto, era.playerPosLookOut)
			t.RegisterEgress(KindChatMessage, proto, era.chatOut)
			t.RegisterEgress(KindKeepAlive, proto, era.keepAliveOut)
			t.RegisterEgress(KindChunkData, proto, era.chunkData)
			t.RegisterEgress(KindPlayDisconnect, proto, era.playDisconnect)
			if era.unloadChunk >= 0 {
				t.RegisterEgress(KindUnloadChunk, proto, era.unloadChunk)
			}
			if era.updateViewPosition >= 0 {
				t.RegisterEgress(KindUpdateViewPosition, proto, era.updateViewPosition)
			}
		}
	}
}

// eraFor returns the numbering era containing proto, or nil if proto isn't
// in protocol.Supported.
func eraFor(proto int32) *eraIDs {
	for i := range eras {
		for _, p := range eras[i].protocols {
			if p == proto {
				return &eras[i]
			}
		}
	}
	return nil
}

// RegisterIngress wires every serverbound packet id known to this core,
// for every protocol in protocol.Supported, to the handler closures built
// by the caller (typically the connection actor, which closes over
// per-connection session state). Handshake/Status/Login ingress ids are
// stable across Supported so they're registered once with proto -1; Play
// ingress ids renumber per era so they're registered per protocol.
func RegisterIngress(t *Table, h PlayHandlers) {
	t.Register(protocol.Handshake, -1, idHandshake, h.Handshake)
	t.Register(protocol.Status, -1, idStatusRequest, h.StatusRequest)
	t.Register(protocol.Status, -1, idStatusPing, h.StatusPing)
	t.Register(protocol.Login, -1, idLoginStart, h.LoginStart)

	for _, proto := range protocol.Supported {
		era := eraFor(proto)
		if era == nil {
			continue
		}
		t.Register(protocol.Play, proto, era.keepAliveIn, h.KeepAlive)
		t.Register(protocol.Play, proto, era.chatIn, h.ChatMessage)
		t.Register(protocol.Play, proto, era.playerPosIn, h.PlayerPosition)
		t.Register(protocol.Play, proto, era.playerLookIn, h.PlayerLook)
		t.Register(protocol.Play, proto, era.playerPosLookIn, h.PlayerPositionAndLook)
		t.Register(protocol.Play, proto, era.clientSettings, h.ClientSettings)
		t.Register(protocol.Play, proto, era.playerAbilitiesIn, h.PlayerAbilities)
	}
}

// PlayHandlers groups the per-session closures RegisterIngress wires into
// the table. A connection actor builds one of these (closing over its own
// NetworkState and outbound channel) per accepted socket.
type PlayHandlers struct {
	Handshake             Handler
	StatusRequest         Handler
	StatusPing            Handler
	LoginStart            Handler
	KeepAlive             Handler
	ChatMessage           Handler
	PlayerPosition        Handler
	PlayerLook            Handler
	PlayerPositionAndLook Handler
	ClientSettings        Handler
	PlayerAbilities       Handler
}
