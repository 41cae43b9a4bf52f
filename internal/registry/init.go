package registry

import (
	"context"
	"fmt"

	"github.com/vk/opmix/internal/ctxlog"
)

// InitGroups runs every registered group's OnReady initializer, one at
// a time, in registration order, so initializer side effects are
// observed deterministically. The first failure halts the pass and is
// returned; groups after it are never run. Groups without an OnReady
// are skipped. On success the Registry itself is returned for chaining.
//
// Concurrent InitGroups calls on the same Registry are not safe;
// callers keep at most one pass in flight.
func (r *Registry) InitGroups(ctx context.Context, args ...any) (*Registry, error) {
	logger := ctxlog.FromContext(ctx)

	for pair := r.groups.Oldest(); pair != nil; pair = pair.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		g := pair.Value
		if g.OnReady == nil {
			continue
		}

		logger.Debug("Running group initializer.", "group", pair.Key)
		if err := g.OnReady(ctx, g, args...); err != nil {
			return nil, fmt.Errorf("group %q: initializer failed: %w", pair.Key, err)
		}
	}

	logger.Debug("All group initializers completed.", "groups", r.groups.Len())
	return r, nil
}
