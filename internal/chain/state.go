package chain

import "fmt"

// ConnectState encodes the connection lifecycle in one counter:
//
//	1            connected
//	<= 0         disconnected, counting down one per step
//	<= -lifetime dead, free to seek a new target
//
// Values above 1 never occur.
type ConnectState int

const connected ConnectState = 1

func (c ConnectState) Connected() bool    { return c == connected }
func (c ConnectState) Disconnected() bool { return c <= 0 }

func (c ConnectState) Dead(lifetime int) bool {
	return int(c) <= -lifetime
}

func (c *ConnectState) Arm()   { *c = connected }
func (c *ConnectState) Break() { *c = 0 }
func (c *ConnectState) Decay() { *c-- }

// Kill sets the counter straight to dead.
func (c *ConnectState) Kill(lifetime int) { *c = ConnectState(-lifetime) }

func (c ConnectState) Label(lifetime int) string {
	switch {
	case c.Connected():
		return "connected"
	case c.Dead(lifetime):
		return "dead"
	case c.Disconnected():
		return "broken"
	}
	return fmt.Sprintf("state(%d)", int(c))
}
