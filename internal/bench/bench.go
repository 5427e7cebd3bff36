// Package bench provides structured debug logging around a resolve call:
// how big the arena grew, how long resolution took, and which resolver was
// used. It exists so a caller like cmd/foldlinefmt can opt into visibility
// over the resolver's behaviour without the resolver package itself taking
// a logging dependency.
package bench

import (
	"log/slog"
	"time"

	"github.com/foldline/foldline/docarena"
)

// Report logs one resolve call's statistics at debug level: the resolver
// name, the arena size before and after (interning grows monotonically, so
// the delta approximates how much new memoised structure the resolve
// produced), and wall-clock duration.
func Report(log *slog.Logger, resolverName string, arena *docarena.Arena, before time.Time, beforeLen int) {
	log.Debug("resolve completed",
		slog.String("resolver", resolverName),
		slog.Int("arena_nodes_before", beforeLen),
		slog.Int("arena_nodes_after", arena.Len()),
		slog.Duration("elapsed", time.Since(before)),
	)
}
