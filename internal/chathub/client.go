package chathub

import "unilink/backend/internal/models"

// Client is the interface for one live connection. It abstracts the
// underlying transport so the hub can manage connections uniformly and
// tests can substitute fakes.
type Client interface {
	// GetConnID returns the unique identifier of this connection. A user
	// may hold several connections at once (multiple tabs/devices).
	GetConnID() string
	// GetUserID returns the authenticated user behind the connection.
	GetUserID() string

	// GetSendChannel returns the channel the hub writes outgoing events
	// to. It is a send-only channel.
	GetSendChannel() chan<- models.ChatEvent

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts down the client's connection and channels. Safe to
	// call more than once.
	Close()
}
