package games

import (
	"context"
	"crypto/subtle"
	"errors"
	"math/rand/v2"
	"strings"
	"time"

	"go.uber.org/zap"
)

const DefaultRevealDelay = 6 * time.Second

const (
	notEnoughPlayers     = "Not enough players (need 10)."
	notEnoughPlayersLeft = "Not enough players left (need 10)."
)

var ErrStopped = errors.New("games: coordinator is not running")

var errRoomMissing = &Error{Code: CodeRoomNotFound, Message: "Room does not exist."}

var errRepeatedName = &Error{Code: CodeInvalidTeamSize, Message: "Teams must name ten different players."}

// Scheduler runs f once after d. The callback may run on any goroutine.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

type Option func(*Coordinator)

// WithAdminPassword sets the secret for watching rooms and rigging teams.
// An empty password disables both.
func WithAdminPassword(password string) Option {
	return func(c *Coordinator) { c.password = password }
}

func WithRevealDelay(d time.Duration) Option {
	return func(c *Coordinator) { c.revealDelay = d }
}

func WithRand(rng *rand.Rand) Option {
	return func(c *Coordinator) { c.rng = rng }
}

func WithScheduler(s Scheduler) Option {
	return func(c *Coordinator) { c.sched = s }
}

func WithLogger(log *zap.SugaredLogger) Option {
	return func(c *Coordinator) { c.log = log }
}

// Coordinator owns every room and runs all operations on them one at a
// time on the goroutine that called Run. Public methods block until their
// operation has been applied.
type Coordinator struct {
	store *Store
	hub   *hub
	stats *Stats

	tasks chan func()
	done  chan struct{}

	password    string
	revealDelay time.Duration
	rng         *rand.Rand
	sched       Scheduler
	log         *zap.SugaredLogger
}

func NewCoordinator(opts ...Option) *Coordinator {
	c := &Coordinator{
		store:       NewStore(),
		hub:         newHub(),
		stats:       &Stats{},
		tasks:       make(chan func()),
		done:        make(chan struct{}),
		revealDelay: DefaultRevealDelay,
		rng:         rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		sched:       timerScheduler{},
		log:         zap.NewNop().Sugar(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Run processes operations until ctx is done. It must be called exactly
// once; operations issued before Run starts wait for it.
func (c *Coordinator) Run(ctx context.Context) {
	defer close(c.done)

	c.log.Debugw("coordinator started", "reveal_delay", c.revealDelay)

	for {
		select {
		case <-ctx.Done():
			c.log.Debugw("coordinator stopped", "rooms", c.store.Len())
			return
		case task := <-c.tasks:
			task()
		}
	}
}

// do runs f on the loop and waits for it to finish.
func (c *Coordinator) do(f func()) error {
	finished := make(chan struct{})

	select {
	case c.tasks <- func() { f(); close(finished) }:
	case <-c.done:
		return ErrStopped
	}

	<-finished

	return nil
}

// post queues f on the loop without waiting for it.
func (c *Coordinator) post(f func()) {
	select {
	case c.tasks <- f:
	case <-c.done:
	}
}

// later runs f on the loop once the reveal delay has passed.
func (c *Coordinator) later(f func()) {
	c.sched.AfterFunc(c.revealDelay, func() { c.post(f) })
}

func (c *Coordinator) authorized(password string) bool {
	if c.password == "" || password == "" {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(password), []byte(c.password)) == 1
}

func (c *Coordinator) broadcastPlayers(r *Room) {
	c.hub.publish(r.id, Event{Type: EventUpdatePlayers, Data: r.views()})
}

// Join adds the session to a room as a new player, creating the room if
// needed. Failures are also sent to the session as joinError.
func (c *Coordinator) Join(s Session, req JoinRequest) error {
	var err error

	if runErr := c.do(func() {
		err = c.join(s, req)
		if err != nil {
			c.stats.JoinsRejected.Add(1)
			s.Send(Event{Type: EventJoinError, Data: err})
		}
	}); runErr != nil {
		return runErr
	}

	return err
}

func (c *Coordinator) join(s Session, req JoinRequest) error {
	if req.RoomID == "" || strings.TrimSpace(req.PlayerName) == "" {
		return ErrInvalidRequest
	}

	// A session holds at most one player across all rooms.
	if prev, _ := c.store.findSession(s.ID()); prev != nil {
		return ErrAlreadyJoined
	}

	room, exists := c.store.get(req.RoomID)
	if !exists {
		room = &Room{id: req.RoomID}
	}

	if room.full() {
		return ErrRoomFull
	}

	if room.nameTaken(req.PlayerName) {
		return ErrNameTaken
	}

	if !exists {
		c.store.insert(room)
		c.stats.RoomsCreated.Add(1)
		c.log.Infow("room created", "room", room.id)
	}

	switch {
	case room.adminName == "":
		room.adminName = req.PlayerName
		c.log.Debugw("admin assigned", "room", room.id, "player", req.PlayerName)
	case req.IsHost && room.adminName == req.PlayerName:
		c.log.Debugw("admin reaffirmed", "room", room.id, "player", req.PlayerName)
	}

	room.add(&Player{
		ID:    s.ID(),
		Name:  req.PlayerName,
		Color: randomColor(c.rng),
	})
	c.hub.subscribe(room.id, s)
	c.stats.Joins.Add(1)

	c.log.Infow("player joined", "room", room.id, "player", req.PlayerName, "players", len(room.players))

	c.broadcastPlayers(room)

	return nil
}

// Move records the session's cursor position. Unknown rooms and sessions
// without a player in the room are ignored.
func (c *Coordinator) Move(s Session, req MoveRequest) {
	_ = c.do(func() {
		room, ok := c.store.get(req.RoomID)
		if !ok {
			return
		}

		p := room.playerBySession(s.ID())
		if p == nil {
			return
		}

		p.X, p.Y = req.X, req.Y
		c.stats.Moves.Add(1)

		c.broadcastPlayers(room)
	})
}

// Disconnect removes the session's player, if any, and unsubscribes it
// from every room.
func (c *Coordinator) Disconnect(sessionID string) {
	_ = c.do(func() {
		c.hub.leaveAll(sessionID)

		room, i := c.store.findSession(sessionID)
		if room == nil {
			return
		}

		removed := room.removeAt(i)
		c.stats.Disconnects.Add(1)

		if room.adminName == removed.Name {
			room.adminName = ""
		}

		c.log.Infow("player left", "room", room.id, "player", removed.Name, "players", len(room.players))

		if len(room.players) == 0 {
			c.store.remove(room.id)
			c.log.Infow("room removed", "room", room.id)
			return
		}

		c.broadcastPlayers(room)
	})
}

// Watch subscribes a password holder to a room's updates without adding a
// player. Failures are also sent to the session as rigError.
func (c *Coordinator) Watch(s Session, req WatchRequest) error {
	var err error

	if runErr := c.do(func() {
		err = c.watch(s, req)
		if err != nil {
			c.stats.AdminRejected.Add(1)
			s.Send(Event{Type: EventRigError, Data: err})
		}
	}); runErr != nil {
		return runErr
	}

	return err
}

func (c *Coordinator) watch(s Session, req WatchRequest) error {
	if !c.authorized(req.Password) {
		c.log.Warnw("admin watch rejected", "room", req.RoomID, "session", s.ID())
		return ErrInvalidPassword
	}

	room, ok := c.store.get(req.RoomID)
	if !ok {
		return errRoomMissing
	}

	c.hub.subscribe(room.id, s)
	c.stats.WatchesAccepted.Add(1)

	s.Send(Event{Type: EventUpdatePlayers, Data: room.views()})

	c.log.Infow("admin watching", "room", room.id, "session", s.ID())

	return nil
}

// RigTeams starts a drumroll and reveals the given teams after the reveal
// delay. Names must match current players exactly. Failures are sent to
// the session as rigError and nothing is broadcast.
func (c *Coordinator) RigTeams(s Session, req RigRequest) error {
	var err error

	if runErr := c.do(func() {
		err = c.rig(s, req)
		if err != nil {
			c.stats.AdminRejected.Add(1)
			s.Send(Event{Type: EventRigError, Data: err})
		}
	}); runErr != nil {
		return runErr
	}

	return err
}

func (c *Coordinator) rig(s Session, req RigRequest) error {
	if !c.authorized(req.Password) {
		c.log.Warnw("rig request rejected", "room", req.RoomID, "session", s.ID())
		return ErrInvalidPassword
	}

	room, ok := c.store.get(req.RoomID)
	if !ok || len(room.players) < MaxPlayers {
		return ErrRoomNotFound
	}

	if len(req.TeamA) != TeamSize || len(req.TeamB) != TeamSize {
		return ErrInvalidTeamSize
	}

	if !distinct(req.TeamA, req.TeamB) {
		return errRepeatedName
	}

	teamA, okA := resolveTeam(room, req.TeamA)
	teamB, okB := resolveTeam(room, req.TeamB)
	if !okA || !okB {
		return ErrUnknownPlayer
	}

	roomID := room.id
	c.hub.publish(roomID, Event{Type: EventStartDrumroll})

	c.log.Infow("rigged teams scheduled", "room", roomID, "delay", c.revealDelay)

	c.later(func() {
		c.hub.publish(roomID, Event{
			Type: EventTeamsGenerated,
			Data: TeamsResult{TeamA: teamA, TeamB: teamB},
		})
		c.stats.RiggedReveals.Add(1)
		s.Send(Event{Type: EventRigTeamsSuccess, Data: rigSuccessMessage})

		c.log.Infow("rigged teams revealed", "room", roomID)
	})

	return nil
}

// StartRandomTeams starts a drumroll and, after the reveal delay, splits
// whoever is in the room at that moment into two random teams. A room with
// too few players gets a teamsGenerated error instead.
func (c *Coordinator) StartRandomTeams(s Session, roomID string) {
	_ = c.do(func() {
		room, ok := c.store.get(roomID)
		if !ok {
			return
		}

		if len(room.players) < MaxPlayers {
			c.hub.publish(roomID, Event{
				Type: EventTeamsGenerated,
				Data: TeamsResult{Error: notEnoughPlayers},
			})
			return
		}

		c.hub.publish(roomID, Event{Type: EventStartDrumroll})

		c.log.Infow("random teams scheduled", "room", roomID, "session", s.ID(), "delay", c.revealDelay)

		c.later(func() { c.revealRandomTeams(roomID) })
	})
}

func (c *Coordinator) revealRandomTeams(roomID string) {
	room, ok := c.store.get(roomID)
	if !ok {
		c.stats.RevealsAborted.Add(1)
		c.log.Infow("random teams dropped, room is gone", "room", roomID)
		return
	}

	if len(room.players) < MaxPlayers {
		c.stats.RevealsAborted.Add(1)
		c.hub.publish(roomID, Event{
			Type: EventTeamsGenerated,
			Data: TeamsResult{Error: notEnoughPlayersLeft},
		})
		c.log.Infow("random teams aborted", "room", roomID, "players", len(room.players))
		return
	}

	teamA, teamB := splitTeams(room.players, c.rng)

	c.hub.publish(roomID, Event{
		Type: EventTeamsGenerated,
		Data: TeamsResult{TeamA: teamA, TeamB: teamB},
	})
	c.stats.RandomReveals.Add(1)

	c.log.Infow("random teams revealed", "room", roomID)
}

// Players returns a snapshot of a room's players in join order.
func (c *Coordinator) Players(roomID string) ([]PlayerView, bool) {
	var (
		views []PlayerView
		found bool
	)

	_ = c.do(func() {
		room, ok := c.store.get(roomID)
		if !ok {
			return
		}
		views, found = room.views(), true
	})

	return views, found
}

// AdminName reports the room's current admin, if it has one.
func (c *Coordinator) AdminName(roomID string) (string, bool) {
	var name string

	_ = c.do(func() {
		if room, ok := c.store.get(roomID); ok {
			name = room.adminName
		}
	})

	return name, name != ""
}

func (c *Coordinator) Exists(roomID string) bool {
	_, ok := c.Players(roomID)
	return ok
}

func (c *Coordinator) RoomCount() int {
	var n int

	_ = c.do(func() { n = c.store.Len() })

	return n
}

func (c *Coordinator) Stats() *Stats {
	return c.stats
}
