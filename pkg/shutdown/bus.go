// Package shutdown implements component J: a handle every actor (Connection
// or Server) clones, that fans a stop signal out to all of them and fans
// "everyone finished" back in to whoever initiated it. The lifecycle idiom
// (a stopCh closed exactly once via sync.Once) is the one
// nishisan-dev-n-backup/internal/agent/control_channel.go uses for its own
// actor shutdown; this generalizes it to a clonable handle so main doesn't
// need to know how many connections are outstanding.
package shutdown

import "sync"

// Bus owns the broadcast signal and the completion count. Construct one
// with New, hand out a Handle per actor with Handle, and call Shutdown plus
// Wait from main once it's time to stop.
type Bus struct {
	signal chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

// New returns a Bus with nothing signaled and no outstanding handles.
func New() *Bus {
	return &Bus{signal: make(chan struct{})}
}

// Handle is cloned into every Connection and the Server actor. Done fires
// once Shutdown has been called on the owning Bus; Release must be called
// exactly once, when the holder's actor loop exits, or Wait never returns.
type Handle struct {
	bus *Bus
}

// Handle mints a new outstanding handle, counted against Wait.
func (b *Bus) Handle() Handle {
	b.wg.Add(1)
	return Handle{bus: b}
}

// Done returns the channel that closes when Shutdown is called, for
// code that only needs to observe the broadcast without being counted
// against Wait (spec §4.J "wait_for_shutdown() awaits the broadcast").
func (b *Bus) Done() <-chan struct{} { return b.signal }

// Done returns the channel that closes when Shutdown is called.
func (h Handle) Done() <-chan struct{} { return h.bus.signal }

// Release marks this handle's actor as finished. Safe to call once.
func (h Handle) Release() { h.bus.wg.Done() }

// Shutdown broadcasts the stop signal to every outstanding Handle. It is
// safe to call more than once; only the first call has an effect.
func (b *Bus) Shutdown() {
	b.once.Do(func() { close(b.signal) })
}

// Wait blocks until every Handle minted so far has been Released. Callers
// normally call Shutdown first; Wait on its own just waits for natural
// exit of all actors.
func (b *Bus) Wait() {
	b.wg.Wait()
}
