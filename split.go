package handshake

import "context"

// Sink is the request-ingress handle of a Handshaker: it only submits
// outbound handshake requests. Obtain one from Split.
type Sink struct {
	h *Handshaker
}

// Initiate submits an outbound handshake request. See Handshaker.Initiate.
func (s *Sink) Initiate(ctx context.Context, msg InitiateMessage) error {
	return s.h.Initiate(ctx, msg)
}

// Stream is the result-egress handle of a Handshaker: it only yields
// validated connections. Obtain one from Split.
type Stream struct {
	h *Handshaker
}

// Completed returns the egress stream. See Handshaker.Completed.
func (s *Stream) Completed() <-chan CompleteMessage {
	return s.h.Completed()
}
