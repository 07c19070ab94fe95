// Package gate decides whether a user may use gated bot features.
package gate

import (
	"context"

	"github.com/Proton-105/gatebot/internal/membership"
	"github.com/Proton-105/gatebot/pkg/metrics"
)

// StatusVerifier resolves a user's channel membership.
type StatusVerifier interface {
	Verify(ctx context.Context, userID int64) membership.Status
}

// Gate re-checks membership on every call; decisions are never cached
// because a user may leave the channel at any time.
type Gate struct {
	verifier StatusVerifier
}

// New creates a Gate backed by verifier.
func New(verifier StatusVerifier) *Gate {
	return &Gate{verifier: verifier}
}

// IsAllowed reports whether userID is a member, administrator or creator of the channel.
func (g *Gate) IsAllowed(ctx context.Context, userID int64) bool {
	if g == nil || g.verifier == nil {
		return false
	}

	allowed := g.verifier.Verify(ctx, userID).Subscribed()
	metrics.RecordGateDecision(allowed)

	return allowed
}
