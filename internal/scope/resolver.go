package scope

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/yildizemre/visapa/internal/domain"
	"github.com/yildizemre/visapa/internal/repository"
)

// Resolver maps a caller onto its scope using the user store, with an optional
// read-through cache in front of it.
type Resolver struct {
	store repository.ScopeStore
	cache repository.ScopeCache
	log   *zap.Logger
}

// NewResolver creates a new Resolver. cache may be nil.
func NewResolver(store repository.ScopeStore, cache repository.ScopeCache, log *zap.Logger) *Resolver {
	return &Resolver{
		store: store,
		cache: cache,
		log:   log,
	}
}

// Resolve returns the caller followed by its managed stores in link-creation
// order. Unknown callers and callers without links resolve to themselves only.
// Failures of the user store are returned to the caller.
func (r *Resolver) Resolve(ctx context.Context, caller int64) (Scope, error) {
	if caller <= 0 {
		return Scope{}, domain.ErrUnauthenticated
	}

	if owners, ok := r.cached(ctx, caller); ok {
		return Scope{Caller: caller, Owners: owners}, nil
	}

	user, err := r.store.GetUser(ctx, caller)
	if errors.Is(err, domain.ErrUserNotFound) {
		r.log.Debug("Caller has no user row, using single-owner scope", zap.Int64("caller", caller))
		return Single(caller), nil
	}
	if err != nil {
		return Scope{}, fmt.Errorf("failed to load user %d: %w", caller, err)
	}

	owners := []int64{caller}
	if user.IsManager() {
		stores, err := r.store.ListManagedStores(ctx, caller)
		if err != nil {
			return Scope{}, fmt.Errorf("failed to list managed stores for %d: %w", caller, err)
		}
		owners = dedupe(append(owners, stores...))
	}

	r.remember(ctx, caller, owners)

	return Scope{Caller: caller, Owners: owners}, nil
}

func (r *Resolver) cached(ctx context.Context, caller int64) ([]int64, bool) {
	if r.cache == nil {
		return nil, false
	}
	owners, ok, err := r.cache.GetScope(ctx, caller)
	if err != nil {
		r.log.Warn("Scope cache read failed, falling back to store",
			zap.Int64("caller", caller),
			zap.Error(err))
		return nil, false
	}
	if !ok || len(owners) == 0 || owners[0] != caller {
		return nil, false
	}
	return owners, true
}

func (r *Resolver) remember(ctx context.Context, caller int64, owners []int64) {
	if r.cache == nil {
		return
	}
	if err := r.cache.SetScope(ctx, caller, owners); err != nil {
		r.log.Warn("Failed to cache resolved scope",
			zap.Int64("caller", caller),
			zap.Error(err))
	}
}
