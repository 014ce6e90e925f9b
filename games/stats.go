package games

import "sync/atomic"

// Stats counts coordinator activity for the /stats endpoint.
type Stats struct {
	RoomsCreated    atomic.Int64
	Joins           atomic.Int64
	JoinsRejected   atomic.Int64
	Moves           atomic.Int64
	Disconnects     atomic.Int64
	RandomReveals   atomic.Int64
	RiggedReveals   atomic.Int64
	RevealsAborted  atomic.Int64
	WatchesAccepted atomic.Int64
	AdminRejected   atomic.Int64
}

// Snapshot returns a point-in-time copy suitable for JSON output.
func (s *Stats) Snapshot() map[string]int64 {
	return map[string]int64{
		"rooms_created":    s.RoomsCreated.Load(),
		"joins":            s.Joins.Load(),
		"joins_rejected":   s.JoinsRejected.Load(),
		"moves":            s.Moves.Load(),
		"disconnects":      s.Disconnects.Load(),
		"random_reveals":   s.RandomReveals.Load(),
		"rigged_reveals":   s.RiggedReveals.Load(),
		"reveals_aborted":  s.RevealsAborted.Load(),
		"watches_accepted": s.WatchesAccepted.Load(),
		"admin_rejected":   s.AdminRejected.Load(),
	}
}
