// Package render is the presentation collaborator: anything that can
// drive a client session and show its responses. The server knows
// nothing about it.
package render

import "context"

type Renderer interface {
	// Run drives the interaction until the user quits or ctx is
	// cancelled.
	Run(ctx context.Context) error
}
