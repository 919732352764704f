// Package delivery is the outbound contact channel. The scheduler treats it
// as one blocking send with an error outcome.
package delivery

import "context"

// Channel sends one message to one address.
type Channel interface {
	Send(ctx context.Context, address, subject, body string) error
}
