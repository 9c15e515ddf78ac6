package session

import "context"

// Channel is one live bidirectional text connection. Frames are raw UTF-8
// text with no envelope, one logical message per frame.
type Channel interface {
	// ReadMessage blocks until the next text frame arrives or the channel
	// fails; a non-nil error means the channel is dead.
	ReadMessage() (string, error)
	WriteMessage(text string) error
	Close() error
}

// Dialer opens a Channel to the given URL. The manager appends the session
// identity as the final path segment before dialing.
type Dialer interface {
	Dial(ctx context.Context, url string) (Channel, error)
}

// DialerFunc adapts a function to the Dialer interface.
type DialerFunc func(ctx context.Context, url string) (Channel, error)

func (f DialerFunc) Dial(ctx context.Context, url string) (Channel, error) {
	return f(ctx, url)
}
