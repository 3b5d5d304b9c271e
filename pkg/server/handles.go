package server

// connTask is a closure the Connection actor runs with exclusive access to
// its own state (spec §4.G "task intake": "FnOnce(&mut Connection)").
type connTask func(*Connection)

// ConnHandle is the only way code outside a Connection's own goroutine may
// affect it: submit a closure, never touch its fields directly (spec §5).
// The zero value is a handle to no connection and silently drops anything
// submitted to it, which is convenient for a Player record that hasn't
// finished logging in yet.
type ConnHandle struct {
	tasks  chan<- connTask
	exited <-chan struct{}
}

// Submit enqueues fn to run on the connection's own goroutine. If the
// connection has already exited, fn is silently dropped — spec §7: "Task
// submission failures are ignored because they imply the target actor has
// already exited."
func (h ConnHandle) Submit(fn func(*Connection)) {
	if h.tasks == nil {
		return
	}
	select {
	case h.tasks <- fn:
	case <-h.exited:
	}
}

// serverTask is a closure the Server actor runs with exclusive access to
// the world and player registry (spec §4.H).
type serverTask func(*Server)

// ServerHandle lets a Connection reach the Server actor only by
// submission, mirroring ConnHandle in the other direction.
type ServerHandle struct {
	tasks  chan<- serverTask
	exited <-chan struct{}
}

// Submit enqueues fn to run on the Server actor's goroutine.
func (h ServerHandle) Submit(fn func(*Server)) {
	if h.tasks == nil {
		return
	}
	select {
	case h.tasks <- fn:
	case <-h.exited:
	}
}
