// Package boltstore persists per-driver route snapshots in a local bbolt
// database. Routes are working state rather than a system of record: they can
// be replanned from the orders table at any time, so an embedded key-value
// file keeps them off the hot path of the relational database.
package boltstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"routesync/internal/core/domain/model/kernel"
	"routesync/internal/core/domain/model/route"
	"routesync/internal/pkg/errs"

	bolt "go.etcd.io/bbolt"
)

var routesBucket = []byte("routes")

// stopDTO mirrors route.Stop in the stored snapshot.
type stopDTO struct {
	OrderID     string `json:"order_id"`
	Sequence    int    `json:"sequence"`
	CanStart    bool   `json:"can_start"`
	CanDeliver  bool   `json:"can_deliver"`
	CanComplete bool   `json:"can_complete"`
}

// snapshotDTO is the JSON value stored per driver. SavedAt drives staleness:
// snapshots are considered gone once older than the configured horizon.
type snapshotDTO struct {
	RouteID   string    `json:"route_id"`
	DriverID  string    `json:"driver_id"`
	Stops     []stopDTO `json:"stops"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	IsActive  bool      `json:"is_active"`
	SavedAt   time.Time `json:"saved_at"`
}

// BoltRouteStore implements ports.RouteStore on top of a bbolt file.
// One bucket holds all snapshots, keyed by driver ID.
type BoltRouteStore struct {
	db         *bolt.DB
	staleAfter time.Duration
}

// Open opens (creating if needed) the bbolt file at path and ensures the
// routes bucket exists. Snapshots older than staleAfter are treated as absent
// by Load and removed by CleanupStale.
func Open(path string, staleAfter time.Duration) (*BoltRouteStore, error) {
	if path == "" {
		return nil, errs.NewValueIsRequiredError("path")
	}
	if staleAfter <= 0 {
		return nil, errs.NewValueIsInvalidError("staleAfter")
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open route store %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, bucketErr := tx.CreateBucketIfNotExists(routesBucket)
		return bucketErr
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create routes bucket: %w", err)
	}

	return &BoltRouteStore{db: db, staleAfter: staleAfter}, nil
}

// Close releases the underlying bbolt file.
func (s *BoltRouteStore) Close() error {
	return s.db.Close()
}

// Save persists the route as the driver's current snapshot, replacing any
// existing one.
func (s *BoltRouteStore) Save(ctx context.Context, aggregate *route.Route) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	stops := aggregate.Stops()
	dto := snapshotDTO{
		RouteID:   aggregate.ID().String(),
		DriverID:  aggregate.DriverID().String(),
		Stops:     make([]stopDTO, 0, len(stops)),
		CreatedAt: aggregate.CreatedAt(),
		UpdatedAt: aggregate.UpdatedAt(),
		IsActive:  aggregate.IsActive(),
		SavedAt:   time.Now().UTC(),
	}
	for _, stop := range stops {
		dto.Stops = append(dto.Stops, stopDTO{
			OrderID:     stop.OrderID.String(),
			Sequence:    stop.Sequence,
			CanStart:    stop.CanStart,
			CanDeliver:  stop.CanDeliver,
			CanComplete: stop.CanComplete,
		})
	}

	value, err := json.Marshal(dto)
	if err != nil {
		return fmt.Errorf("encode route snapshot: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(routesBucket).Put([]byte(dto.DriverID), value)
	})
}

// Load retrieves the driver's current route. A missing or stale snapshot is
// reported as errs.ObjectNotFoundError.
func (s *BoltRouteStore) Load(ctx context.Context, driverID kernel.UUID) (*route.Route, error) {
	if err := driverID.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if value := tx.Bucket(routesBucket).Get([]byte(driverID.String())); value != nil {
			raw = make([]byte, len(value))
			copy(raw, value)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errs.NewObjectNotFoundError("route", driverID.String())
	}

	var dto snapshotDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, fmt.Errorf("decode route snapshot: %w", err)
	}

	if time.Since(dto.SavedAt) > s.staleAfter {
		return nil, errs.NewObjectNotFoundError("route", driverID.String())
	}

	return toDomain(dto)
}

// Clear removes the driver's snapshot. Clearing an absent snapshot succeeds.
func (s *BoltRouteStore) Clear(ctx context.Context, driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(routesBucket).Delete([]byte(driverID.String()))
	})
}

// CleanupStale deletes snapshots older than maxAge and reports how many were
// removed. Undecodable values are removed as well, since they can never be
// loaded again.
func (s *BoltRouteStore) CleanupStale(ctx context.Context, maxAge time.Duration) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	cutoff := time.Now().UTC().Add(-maxAge)
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		cursor := tx.Bucket(routesBucket).Cursor()
		for key, value := cursor.First(); key != nil; key, value = cursor.Next() {
			var dto snapshotDTO
			if decodeErr := json.Unmarshal(value, &dto); decodeErr == nil && dto.SavedAt.After(cutoff) {
				continue
			}
			if deleteErr := cursor.Delete(); deleteErr != nil {
				return deleteErr
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return removed, nil
}

func toDomain(dto snapshotDTO) (*route.Route, error) {
	routeID, err := kernel.UUIDFromString(dto.RouteID)
	if err != nil {
		return nil, err
	}
	driverID, err := kernel.UUIDFromString(dto.DriverID)
	if err != nil {
		return nil, err
	}

	stops := make([]route.Stop, 0, len(dto.Stops))
	for _, s := range dto.Stops {
		orderID, idErr := kernel.UUIDFromString(s.OrderID)
		if idErr != nil {
			return nil, idErr
		}
		stops = append(stops, route.Stop{
			OrderID:     orderID,
			Sequence:    s.Sequence,
			CanStart:    s.CanStart,
			CanDeliver:  s.CanDeliver,
			CanComplete: s.CanComplete,
		})
	}

	return route.RestoreRoute(routeID, driverID, stops, dto.CreatedAt, dto.UpdatedAt, dto.IsActive)
}
