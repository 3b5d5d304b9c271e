// Package chat models Minecraft's JSON chat components. The protocol core
// treats chat as an opaque serializable value (spec §1 non-goals); callers
// only need a "with protocol version" constructor since component layout
// shifted slightly across the supported era.
package chat

import "encoding/json"

// Message represents a Minecraft JSON chat message.
type Message struct {
	Text          string    `json:"text"`
	Bold          bool      `json:"bold,omitempty"`
	Italic        bool      `json:"italic,omitempty"`
	Underlined    bool      `json:"underlined,omitempty"`
	Strikethrough bool      `json:"strikethrough,omitempty"`
	Obfuscated    bool      `json:"obfuscated,omitempty"`
	Color         string    `json:"color,omitempty"`
	Extra         []Message `json:"extra,omitempty"`
}

// String serializes the message to JSON.
func (m Message) String() string {
	b, _ := json.Marshal(m)
	return string(b)
}

// Text creates a simple text message.
func Text(text string) Message {
	return Message{Text: text}
}

// Colored creates a colored text message.
func Colored(text, color string) Message {
	return Message{Text: text, Color: color}
}

// Translatef creates a simple formatted message.
func Translatef(format string, args ...Message) Message {
	msg := Message{Text: format}
	if len(args) > 0 {
		msg.Extra = args
	}
	return msg
}

// legacyChatCutoff is the first protocol id (1.13, wiki.vg 393) this core
// treats as a "modern" client for chat purposes. Clients below it are old
// enough that a nested JSON component with bold/italic/color fields is
// best avoided in favor of a flat string carrying legacy "§"-style
// formatting codes, the form those clients were originally built against.
const legacyChatCutoff = 393

// legacyColorCodes maps the named colors this package emits to their
// classic formatting-code letters/digits (wiki.vg "Chat#Colors").
var legacyColorCodes = map[string]byte{
	"black":        '0',
	"dark_blue":    '1',
	"dark_green":   '2',
	"dark_aqua":    '3',
	"dark_red":     '4',
	"dark_purple":  '5',
	"gold":         '6',
	"gray":         '7',
	"dark_gray":    '8',
	"blue":         '9',
	"green":        'a',
	"aqua":         'b',
	"red":          'c',
	"light_purple": 'd',
	"yellow":       'e',
	"white":        'f',
}

// NewForProtocol builds a plain-text message the way a given protocol
// revision expects it: pre-1.13 clients (protocol < legacyChatCutoff) get
// a bare Text field with no Extra/markup nesting, since that's all those
// clients were ever asked to parse; 1.13+ clients get the same value the
// unversioned Text constructor produces.
func NewForProtocol(protocol int32, text string) Message {
	if protocol < legacyChatCutoff {
		return Message{Text: text}
	}
	return Text(text)
}

// ColoredForProtocol is Colored's version-aware counterpart: pre-1.13
// clients receive the color baked into Text as a legacy formatting code
// instead of the "color" JSON field, matching NewForProtocol's split.
func ColoredForProtocol(protocol int32, text, color string) Message {
	if protocol < legacyChatCutoff {
		if code, ok := legacyColorCodes[color]; ok {
			text = "§" + string(code) + text
		}
		return Message{Text: text}
	}
	return Colored(text, color)
}
