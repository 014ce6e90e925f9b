package games

import (
	"slices"
	"strings"
)

const (
	MaxPlayers = 10
	TeamSize   = MaxPlayers / 2
)

// Player holds the data we store server-side
type Player struct {
	ID    string
	Name  string
	Color Color
	X     float64
	Y     float64
}

// Room is one isolated game session. Players are kept in join order.
type Room struct {
	id        string
	players   []*Player
	adminName string
}

func (r *Room) full() bool {
	return len(r.players) >= MaxPlayers
}

// nameTaken compares names ignoring case.
func (r *Room) nameTaken(name string) bool {
	for _, p := range r.players {
		if strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}

// playerByName compares names exactly.
func (r *Room) playerByName(name string) *Player {
	for _, p := range r.players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (r *Room) playerBySession(sessionID string) *Player {
	i := r.indexOf(sessionID)
	if i < 0 {
		return nil
	}
	return r.players[i]
}

func (r *Room) indexOf(sessionID string) int {
	return slices.IndexFunc(r.players, func(p *Player) bool {
		return p.ID == sessionID
	})
}

func (r *Room) add(p *Player) {
	r.players = append(r.players, p)
}

func (r *Room) removeAt(i int) *Player {
	p := r.players[i]
	r.players = slices.Delete(r.players, i, i+1)
	return p
}

// views copies the player list for sending.
func (r *Room) views() []PlayerView {
	out := make([]PlayerView, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, PlayerView{
			ID:    p.ID,
			Name:  p.Name,
			Color: p.Color,
			X:     p.X,
			Y:     p.Y,
			Admin: r.adminName != "" && p.Name == r.adminName,
		})
	}
	return out
}

// Store maps room IDs to rooms. It is not safe for concurrent use; the
// Coordinator only touches it from its run loop.
type Store struct {
	rooms map[string]*Room
	order []string
}

func NewStore() *Store {
	return &Store{rooms: make(map[string]*Room)}
}

func (s *Store) get(id string) (*Room, bool) {
	r, ok := s.rooms[id]
	return r, ok
}

// insert adds a room that already holds at least one player.
func (s *Store) insert(r *Room) {
	if _, ok := s.rooms[r.id]; !ok {
		s.order = append(s.order, r.id)
	}
	s.rooms[r.id] = r
}

func (s *Store) remove(id string) {
	if _, ok := s.rooms[id]; !ok {
		return
	}
	delete(s.rooms, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
}

// findSession returns the first room, in creation order, holding a player
// for the session.
func (s *Store) findSession(sessionID string) (*Room, int) {
	for _, id := range s.order {
		r := s.rooms[id]
		if i := r.indexOf(sessionID); i >= 0 {
			return r, i
		}
	}
	return nil, -1
}

func (s *Store) Len() int {
	return len(s.rooms)
}
