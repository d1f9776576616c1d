package core

// Frame is one encoded wire message, ready to write to a socket.
type Frame []byte

// SignalConnection abstracts for a system messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	// TrySend enqueues a frame without blocking. It returns an error
	// when the connection is closed or its outbound buffer is full;
	// callers treat both as a best-effort miss.
	TrySend(Frame) error
	Close()
}
