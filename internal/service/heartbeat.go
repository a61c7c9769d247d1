package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/yildizemre/visapa/internal/domain"
	"github.com/yildizemre/visapa/internal/dto"
	"github.com/yildizemre/visapa/internal/repository"
)

const (
	heartbeatAlive   = "Mağaza servisi ayakta"
	heartbeatStale   = "Servisten uzun süredir ping gelmiyor. Sistem çökmüş olabilir."
	heartbeatMissing = "Henüz heartbeat gelmedi. Mağaza scripti çalışıyor mu?"
)

// HeartbeatService records and reports the liveness of each store's edge service
type HeartbeatService struct {
	store    repository.HeartbeatStore
	resolver ScopeResolver
	timeout  time.Duration
	log      *zap.Logger
	now      func() time.Time
}

// NewHeartbeatService creates a new heartbeat service
func NewHeartbeatService(store repository.HeartbeatStore, resolver ScopeResolver, timeout time.Duration, log *zap.Logger) *HeartbeatService {
	return &HeartbeatService{
		store:    store,
		resolver: resolver,
		timeout:  timeout,
		log:      log,
		now:      time.Now,
	}
}

// Ping records a heartbeat for the calling store
func (s *HeartbeatService) Ping(ctx context.Context, caller int64) (time.Time, error) {
	if caller <= 0 {
		return time.Time{}, domain.ErrUnauthenticated
	}

	at := s.now().UTC()
	if err := s.store.Touch(ctx, caller, at); err != nil {
		return time.Time{}, unavailable(err)
	}
	return at, nil
}

// Status reports whether the store's edge service pinged within the timeout.
// A manager may ask about any store in its scope.
func (s *HeartbeatService) Status(ctx context.Context, caller int64, storeID int64) (*dto.HeartbeatStatusResponse, error) {
	owner := caller
	if storeID != 0 && storeID != caller {
		sc, err := s.resolver.Resolve(ctx, caller)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthenticated) {
				return nil, err
			}
			return nil, unavailable(err)
		}
		if !sc.Contains(storeID) {
			return nil, domain.ErrScopeViolation
		}
		owner = storeID
	}
	if owner <= 0 {
		return nil, domain.ErrUnauthenticated
	}

	last, ok, err := s.store.LastSeen(ctx, owner)
	if err != nil {
		return nil, unavailable(err)
	}
	if !ok {
		return &dto.HeartbeatStatusResponse{IsAlive: false, Message: heartbeatMissing}, nil
	}

	alive := !last.Before(s.now().Add(-s.timeout))
	stamp := last.UTC().Format(time.RFC3339)
	resp := &dto.HeartbeatStatusResponse{IsAlive: alive, LastPingAt: &stamp, Message: heartbeatStale}
	if alive {
		resp.Message = heartbeatAlive
	}
	return resp, nil
}
