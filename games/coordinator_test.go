package games

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const testPassword = "hunter2"

type fakeSession struct {
	id string

	mu     sync.Mutex
	events []Event
}

func newFakeSession(id string) *fakeSession {
	return &fakeSession{id: id}
}

func (s *fakeSession) ID() string { return s.id }

func (s *fakeSession) Send(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, ev)
}

func (s *fakeSession) all() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Event(nil), s.events...)
}

func (s *fakeSession) ofType(typ string) []Event {
	var out []Event
	for _, ev := range s.all() {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

func (s *fakeSession) last(typ string) (Event, bool) {
	evs := s.ofType(typ)
	if len(evs) == 0 {
		return Event{}, false
	}
	return evs[len(evs)-1], true
}

func (s *fakeSession) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = nil
}

// manualScheduler holds callbacks until fire is called.
type manualScheduler struct {
	mu      sync.Mutex
	pending []func()
	delays  []time.Duration
}

func (m *manualScheduler) AfterFunc(d time.Duration, f func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pending = append(m.pending, f)
	m.delays = append(m.delays, d)
}

func (m *manualScheduler) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.pending)
}

func (m *manualScheduler) fire() {
	m.mu.Lock()
	pending := m.pending
	m.pending = nil
	m.mu.Unlock()

	for _, f := range pending {
		f()
	}
}

type harness struct {
	c     *Coordinator
	sched *manualScheduler
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()

	sched := &manualScheduler{}
	base := []Option{
		WithAdminPassword(testPassword),
		WithScheduler(sched),
		WithRand(rand.New(rand.NewPCG(1, 2))),
		WithLogger(zaptest.NewLogger(t).Sugar()),
	}

	c := NewCoordinator(append(base, opts...)...)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	return &harness{c: c, sched: sched}
}

// fire runs pending reveals and waits until the loop has applied them.
func (h *harness) fire() {
	h.sched.fire()
	h.c.RoomCount()
}

func (h *harness) fill(t *testing.T, roomID string, n int) []*fakeSession {
	t.Helper()

	sessions := make([]*fakeSession, 0, n)
	for i := range n {
		s := newFakeSession(fmt.Sprintf("%s-s%d", roomID, i))
		require.NoError(t, h.c.Join(s, JoinRequest{RoomID: roomID, PlayerName: fmt.Sprintf("P%d", i)}))
		sessions = append(sessions, s)
	}

	return sessions
}

func playersOf(t *testing.T, ev Event) []PlayerView {
	t.Helper()

	players, ok := ev.Data.([]PlayerView)
	require.True(t, ok, "updatePlayers payload is %T", ev.Data)

	return players
}

func teamsOf(t *testing.T, ev Event) TeamsResult {
	t.Helper()

	res, ok := ev.Data.(TeamsResult)
	require.True(t, ok, "teamsGenerated payload is %T", ev.Data)

	return res
}

func TestJoinRejectsCaseInsensitiveDuplicate(t *testing.T) {
	h := newHarness(t)

	alice := newFakeSession("a")
	bob := newFakeSession("b")
	imposter := newFakeSession("c")

	require.NoError(t, h.c.Join(alice, JoinRequest{RoomID: "R1", PlayerName: "Alice"}))
	require.NoError(t, h.c.Join(bob, JoinRequest{RoomID: "R1", PlayerName: "bob"}))

	err := h.c.Join(imposter, JoinRequest{RoomID: "R1", PlayerName: "ALICE"})
	require.ErrorIs(t, err, ErrNameTaken)

	ev, ok := imposter.last(EventJoinError)
	require.True(t, ok)
	assert.Equal(t, ErrNameTaken, ev.Data)
	assert.Empty(t, imposter.ofType(EventUpdatePlayers))

	players, ok := h.c.Players("R1")
	require.True(t, ok)
	assert.Len(t, players, 2)

	// The rejected session was never subscribed to the room.
	require.NoError(t, h.c.Join(newFakeSession("d"), JoinRequest{RoomID: "R1", PlayerName: "Carol"}))
	assert.Empty(t, imposter.ofType(EventUpdatePlayers))
}

func TestJoinBroadcastsFullList(t *testing.T) {
	h := newHarness(t)

	sessions := h.fill(t, "room", 3)

	for _, s := range sessions {
		ev, ok := s.last(EventUpdatePlayers)
		require.True(t, ok)

		players := playersOf(t, ev)
		require.Len(t, players, 3)
		assert.Equal(t, []string{"P0", "P1", "P2"}, []string{players[0].Name, players[1].Name, players[2].Name})
	}
}

func TestJoinAssignsColorInRange(t *testing.T) {
	h := newHarness(t)

	h.fill(t, "colors", MaxPlayers)

	players, ok := h.c.Players("colors")
	require.True(t, ok)

	for _, p := range players {
		for _, ch := range []uint8{p.Color.R, p.Color.G, p.Color.B} {
			assert.GreaterOrEqual(t, ch, uint8(colorMin))
			assert.Less(t, ch, uint8(colorMax))
		}
	}
}

func TestJoinRoomFull(t *testing.T) {
	h := newHarness(t)

	h.fill(t, "full", MaxPlayers)

	late := newFakeSession("late")
	err := h.c.Join(late, JoinRequest{RoomID: "full", PlayerName: "Late"})
	require.ErrorIs(t, err, ErrRoomFull)

	players, _ := h.c.Players("full")
	assert.Len(t, players, MaxPlayers)
	assert.Equal(t, int64(1), h.c.Stats().JoinsRejected.Load())
}

func TestJoinInvalidRequest(t *testing.T) {
	h := newHarness(t)

	s := newFakeSession("s")
	require.ErrorIs(t, h.c.Join(s, JoinRequest{RoomID: "", PlayerName: "x"}), ErrInvalidRequest)
	require.ErrorIs(t, h.c.Join(s, JoinRequest{RoomID: "r", PlayerName: "  "}), ErrInvalidRequest)

	assert.Equal(t, 0, h.c.RoomCount())
}

func TestFailedJoinDoesNotCreateRoom(t *testing.T) {
	h := newHarness(t)

	err := h.c.Join(newFakeSession("s"), JoinRequest{RoomID: "ghost", PlayerName: ""})
	require.Error(t, err)

	assert.False(t, h.c.Exists("ghost"))
}

func TestJoinRejectsSecondJoinFromSameSession(t *testing.T) {
	h := newHarness(t)

	s := newFakeSession("s1")
	require.NoError(t, h.c.Join(s, JoinRequest{RoomID: "A", PlayerName: "Alice"}))

	err := h.c.Join(s, JoinRequest{RoomID: "A", PlayerName: "Alice2"})
	require.ErrorIs(t, err, ErrAlreadyJoined)

	err = h.c.Join(s, JoinRequest{RoomID: "B", PlayerName: "Ghost"})
	require.ErrorIs(t, err, ErrAlreadyJoined)

	assert.Len(t, s.ofType(EventJoinError), 2)
	assert.False(t, h.c.Exists("B"), "a rejected join creates no room")

	players, ok := h.c.Players("A")
	require.True(t, ok)
	assert.Len(t, players, 1)

	h.c.Disconnect(s.ID())

	assert.False(t, h.c.Exists("A"))
	assert.Equal(t, 0, h.c.RoomCount())

	// After leaving, the same session may join again.
	require.NoError(t, h.c.Join(s, JoinRequest{RoomID: "B", PlayerName: "Back"}))
}

func TestAdminFollowsName(t *testing.T) {
	h := newHarness(t)

	first := newFakeSession("first")
	second := newFakeSession("second")

	require.NoError(t, h.c.Join(first, JoinRequest{RoomID: "adm", PlayerName: "Host"}))
	require.NoError(t, h.c.Join(second, JoinRequest{RoomID: "adm", PlayerName: "Guest", IsHost: true}))

	name, ok := h.c.AdminName("adm")
	require.True(t, ok)
	assert.Equal(t, "Host", name, "joining as host must not displace an existing admin")

	h.c.Disconnect(first.ID())

	_, ok = h.c.AdminName("adm")
	assert.False(t, ok, "admin is cleared when its holder leaves")

	// The next joiner claims the vacant admin slot.
	require.NoError(t, h.c.Join(newFakeSession("third"), JoinRequest{RoomID: "adm", PlayerName: "Host", IsHost: true}))

	name, ok = h.c.AdminName("adm")
	require.True(t, ok)
	assert.Equal(t, "Host", name)

	players, _ := h.c.Players("adm")
	require.Len(t, players, 2)
	assert.False(t, players[0].Admin)
	assert.True(t, players[1].Admin)
}

func TestMove(t *testing.T) {
	h := newHarness(t)

	sessions := h.fill(t, "mv", 2)
	for _, s := range sessions {
		s.reset()
	}

	h.c.Move(sessions[1], MoveRequest{RoomID: "mv", X: 12.5, Y: -3})

	for _, s := range sessions {
		ev, ok := s.last(EventUpdatePlayers)
		require.True(t, ok)

		players := playersOf(t, ev)
		require.Len(t, players, 2)
		assert.Equal(t, 12.5, players[1].X)
		assert.Equal(t, -3.0, players[1].Y)
	}
}

func TestMoveIgnoresUnknownRoomAndSession(t *testing.T) {
	h := newHarness(t)

	sessions := h.fill(t, "mv", 1)
	sessions[0].reset()

	h.c.Move(sessions[0], MoveRequest{RoomID: "nowhere", X: 1, Y: 1})
	h.c.Move(newFakeSession("stranger"), MoveRequest{RoomID: "mv", X: 1, Y: 1})

	assert.Empty(t, sessions[0].all())
	assert.Equal(t, int64(0), h.c.Stats().Moves.Load())
}

func TestDisconnectBroadcastsToRemaining(t *testing.T) {
	h := newHarness(t)

	sessions := h.fill(t, "dc", 3)
	for _, s := range sessions {
		s.reset()
	}

	h.c.Disconnect(sessions[0].ID())

	assert.Empty(t, sessions[0].all(), "departing session receives nothing")

	for _, s := range sessions[1:] {
		ev, ok := s.last(EventUpdatePlayers)
		require.True(t, ok)
		assert.Len(t, playersOf(t, ev), 2)
	}
}

func TestLastDisconnectRemovesRoom(t *testing.T) {
	h := newHarness(t)

	solo := newFakeSession("solo")
	require.NoError(t, h.c.Join(solo, JoinRequest{RoomID: "R9", PlayerName: "Solo"}))

	h.c.Disconnect(solo.ID())

	assert.False(t, h.c.Exists("R9"))
	assert.Equal(t, 0, h.c.RoomCount())

	require.NoError(t, h.c.Join(newFakeSession("fresh"), JoinRequest{RoomID: "R9", PlayerName: "Fresh"}))

	name, ok := h.c.AdminName("R9")
	require.True(t, ok)
	assert.Equal(t, "Fresh", name, "a recreated room starts without the old admin")
}

func TestDisconnectUnknownSession(t *testing.T) {
	h := newHarness(t)

	h.fill(t, "r", 2)
	h.c.Disconnect("nobody")

	players, _ := h.c.Players("r")
	assert.Len(t, players, 2)
}

func TestWatch(t *testing.T) {
	h := newHarness(t)

	sessions := h.fill(t, "w", 2)
	viewer := newFakeSession("viewer")

	require.NoError(t, h.c.Watch(viewer, WatchRequest{RoomID: "w", Password: testPassword}))

	ev, ok := viewer.last(EventUpdatePlayers)
	require.True(t, ok)
	assert.Len(t, playersOf(t, ev), 2)

	players, _ := h.c.Players("w")
	assert.Len(t, players, 2, "watching does not add a player")

	h.c.Move(sessions[0], MoveRequest{RoomID: "w", X: 5, Y: 5})
	assert.Len(t, viewer.ofType(EventUpdatePlayers), 2, "viewer receives later broadcasts")

	h.c.Disconnect(viewer.ID())
	h.c.Move(sessions[0], MoveRequest{RoomID: "w", X: 6, Y: 6})
	assert.Len(t, viewer.ofType(EventUpdatePlayers), 2)
}

func TestWatchErrors(t *testing.T) {
	h := newHarness(t)

	h.fill(t, "w", 1)
	viewer := newFakeSession("viewer")

	require.ErrorIs(t, h.c.Watch(viewer, WatchRequest{RoomID: "w", Password: "wrong"}), ErrInvalidPassword)
	require.ErrorIs(t, h.c.Watch(viewer, WatchRequest{RoomID: "w"}), ErrInvalidPassword)
	require.ErrorIs(t, h.c.Watch(viewer, WatchRequest{RoomID: "missing", Password: testPassword}), ErrRoomNotFound)

	assert.Len(t, viewer.ofType(EventRigError), 3)
	assert.Empty(t, viewer.ofType(EventUpdatePlayers))
}

func TestWatchDisabledWithoutPassword(t *testing.T) {
	h := newHarness(t, WithAdminPassword(""))

	h.fill(t, "w", 1)

	err := h.c.Watch(newFakeSession("viewer"), WatchRequest{RoomID: "w", Password: ""})
	require.ErrorIs(t, err, ErrInvalidPassword)
}

func TestStartRandomTeamsNotEnoughPlayers(t *testing.T) {
	h := newHarness(t)

	sessions := h.fill(t, "R2", 9)

	h.c.StartRandomTeams(sessions[0], "R2")

	for _, s := range sessions {
		assert.Empty(t, s.ofType(EventStartDrumroll))

		ev, ok := s.last(EventTeamsGenerated)
		require.True(t, ok)
		assert.Equal(t, "Not enough players (need 10).", teamsOf(t, ev).Error)
	}

	assert.Equal(t, 0, h.sched.count())
}

func TestStartRandomTeamsUnknownRoom(t *testing.T) {
	h := newHarness(t)

	s := newFakeSession("s")
	h.c.StartRandomTeams(s, "nowhere")

	assert.Empty(t, s.all())
	assert.Equal(t, 0, h.sched.count())
}

func TestStartRandomTeams(t *testing.T) {
	h := newHarness(t)

	sessions := h.fill(t, "rand", MaxPlayers)
	for _, s := range sessions {
		s.reset()
	}

	h.c.StartRandomTeams(sessions[3], "rand")

	for _, s := range sessions {
		assert.Len(t, s.ofType(EventStartDrumroll), 1)
		assert.Empty(t, s.ofType(EventTeamsGenerated))
	}

	require.Equal(t, 1, h.sched.count())
	assert.Equal(t, DefaultRevealDelay, h.sched.delays[0])

	h.fire()

	var reference TeamsResult
	for i, s := range sessions {
		ev, ok := s.last(EventTeamsGenerated)
		require.True(t, ok)

		res := teamsOf(t, ev)
		require.Empty(t, res.Error)
		require.Len(t, res.TeamA, TeamSize)
		require.Len(t, res.TeamB, TeamSize)

		if i == 0 {
			reference = res
			continue
		}
		assert.Equal(t, reference, res, "every session sees the same teams")
	}

	seen := make(map[string]bool)
	for _, m := range append(reference.TeamA, reference.TeamB...) {
		assert.False(t, seen[m.Name], "%s assigned twice", m.Name)
		seen[m.Name] = true
	}
	assert.Len(t, seen, MaxPlayers)

	assert.Equal(t, int64(1), h.c.Stats().RandomReveals.Load())
}

func TestStartRandomTeamsRereadsPlayersAtReveal(t *testing.T) {
	h := newHarness(t)

	sessions := h.fill(t, "race", MaxPlayers)

	h.c.StartRandomTeams(sessions[0], "race")

	h.c.Disconnect(sessions[9].ID())

	h.fire()

	ev, ok := sessions[0].last(EventTeamsGenerated)
	require.True(t, ok)

	res := teamsOf(t, ev)
	assert.Equal(t, "Not enough players left (need 10).", res.Error)
	assert.Empty(t, res.TeamA)
	assert.Equal(t, int64(1), h.c.Stats().RevealsAborted.Load())
}

func TestStartRandomTeamsUsesPlayersPresentAtReveal(t *testing.T) {
	h := newHarness(t)

	sessions := h.fill(t, "swap", MaxPlayers)

	h.c.StartRandomTeams(sessions[0], "swap")

	h.c.Disconnect(sessions[9].ID())
	require.NoError(t, h.c.Join(newFakeSession("sub"), JoinRequest{RoomID: "swap", PlayerName: "Sub"}))

	h.fire()

	ev, ok := sessions[0].last(EventTeamsGenerated)
	require.True(t, ok)

	res := teamsOf(t, ev)
	names := make(map[string]bool)
	for _, m := range append(res.TeamA, res.TeamB...) {
		names[m.Name] = true
	}
	assert.True(t, names["Sub"])
	assert.False(t, names["P9"])
}

func TestStartRandomTeamsRoomGoneAtReveal(t *testing.T) {
	h := newHarness(t)

	sessions := h.fill(t, "gone", MaxPlayers)
	h.c.StartRandomTeams(sessions[0], "gone")

	for _, s := range sessions {
		h.c.Disconnect(s.ID())
	}
	require.False(t, h.c.Exists("gone"))

	h.fire()

	for _, s := range sessions {
		assert.Empty(t, s.ofType(EventTeamsGenerated))
	}
}

func rigRequest(roomID string) RigRequest {
	return RigRequest{
		RoomID:   roomID,
		Password: testPassword,
		TeamA:    []string{"P0", "P2", "P4", "P6", "P8"},
		TeamB:    []string{"P1", "P3", "P5", "P7", "P9"},
	}
}

func TestRigTeams(t *testing.T) {
	h := newHarness(t)

	sessions := h.fill(t, "R3", MaxPlayers)
	for _, s := range sessions {
		s.reset()
	}

	admin := newFakeSession("admin")
	require.NoError(t, h.c.RigTeams(admin, rigRequest("R3")))

	for _, s := range sessions {
		assert.Len(t, s.ofType(EventStartDrumroll), 1)
		assert.Empty(t, s.ofType(EventTeamsGenerated))
	}
	assert.Empty(t, admin.ofType(EventRigTeamsSuccess), "success arrives with the reveal")

	players, _ := h.c.Players("R3")
	colors := make(map[string]Color, len(players))
	for _, p := range players {
		colors[p.Name] = p.Color
	}

	h.fire()

	ev, ok := sessions[0].last(EventTeamsGenerated)
	require.True(t, ok)

	res := teamsOf(t, ev)
	require.Len(t, res.TeamA, TeamSize)
	require.Len(t, res.TeamB, TeamSize)

	for i, m := range res.TeamA {
		assert.Equal(t, rigRequest("R3").TeamA[i], m.Name)
		assert.Equal(t, colors[m.Name], m.Color)
	}
	for i, m := range res.TeamB {
		assert.Equal(t, rigRequest("R3").TeamB[i], m.Name)
		assert.Equal(t, colors[m.Name], m.Color)
	}

	success, ok := admin.last(EventRigTeamsSuccess)
	require.True(t, ok)
	assert.Equal(t, "Teams rigged successfully!", success.Data)
	assert.Empty(t, admin.ofType(EventTeamsGenerated), "requester is not subscribed to the room")
}

func TestRigTeamsKeepsResolvedTeamsAfterDeparture(t *testing.T) {
	h := newHarness(t)

	sessions := h.fill(t, "stale", MaxPlayers)
	require.NoError(t, h.c.RigTeams(newFakeSession("admin"), rigRequest("stale")))

	h.c.Disconnect(sessions[0].ID())
	h.fire()

	ev, ok := sessions[1].last(EventTeamsGenerated)
	require.True(t, ok)
	assert.Equal(t, "P0", teamsOf(t, ev).TeamA[0].Name)
}

func TestRigTeamsErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RigRequest)
		players int
		want    error
	}{
		{
			name:    "wrong password",
			mutate:  func(r *RigRequest) { r.Password = "nope" },
			players: MaxPlayers,
			want:    ErrInvalidPassword,
		},
		{
			name:    "missing password",
			mutate:  func(r *RigRequest) { r.Password = "" },
			players: MaxPlayers,
			want:    ErrInvalidPassword,
		},
		{
			name:    "missing room",
			mutate:  func(r *RigRequest) { r.RoomID = "elsewhere" },
			players: MaxPlayers,
			want:    ErrRoomNotFound,
		},
		{
			name:    "not enough players",
			mutate:  func(r *RigRequest) {},
			players: MaxPlayers - 1,
			want:    ErrRoomNotFound,
		},
		{
			name:    "short team",
			mutate:  func(r *RigRequest) { r.TeamA = r.TeamA[:4] },
			players: MaxPlayers,
			want:    ErrInvalidTeamSize,
		},
		{
			name:    "long team",
			mutate:  func(r *RigRequest) { r.TeamB = append(r.TeamB, "P0") },
			players: MaxPlayers,
			want:    ErrInvalidTeamSize,
		},
		{
			name:    "unknown name",
			mutate:  func(r *RigRequest) { r.TeamB[4] = "Nobody" },
			players: MaxPlayers,
			want:    ErrUnknownPlayer,
		},
		{
			name:    "name on both teams",
			mutate:  func(r *RigRequest) { r.TeamB[4] = "P0" },
			players: MaxPlayers,
			want:    ErrInvalidTeamSize,
		},
		{
			name:    "name twice in one team",
			mutate:  func(r *RigRequest) { r.TeamA[1] = "P0" },
			players: MaxPlayers,
			want:    ErrInvalidTeamSize,
		},
		{
			name:    "case mismatch",
			mutate:  func(r *RigRequest) { r.TeamA[0] = "p0" },
			players: MaxPlayers,
			want:    ErrUnknownPlayer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)

			sessions := h.fill(t, "rig", tt.players)
			for _, s := range sessions {
				s.reset()
			}

			admin := newFakeSession("admin")
			req := rigRequest("rig")
			tt.mutate(&req)

			err := h.c.RigTeams(admin, req)
			require.ErrorIs(t, err, tt.want)

			ev, ok := admin.last(EventRigError)
			require.True(t, ok)

			raw, jerr := json.Marshal(ev.Data)
			require.NoError(t, jerr)
			assert.Contains(t, string(raw), string(tt.want.(*Error).Code))

			for _, s := range sessions {
				assert.Empty(t, s.all(), "no broadcast on failure")
			}
			assert.Equal(t, 0, h.sched.count())
		})
	}
}

func TestMembershipCountMatchesBroadcast(t *testing.T) {
	h := newHarness(t)

	sessions := h.fill(t, "count", 6)

	h.c.Disconnect(sessions[2].ID())
	h.c.Move(sessions[4], MoveRequest{RoomID: "count", X: 1, Y: 2})
	require.NoError(t, h.c.Join(newFakeSession("extra"), JoinRequest{RoomID: "count", PlayerName: "Extra"}))
	h.c.Disconnect(sessions[0].ID())

	players, ok := h.c.Players("count")
	require.True(t, ok)

	for _, s := range []*fakeSession{sessions[1], sessions[3], sessions[4], sessions[5]} {
		ev, ok := s.last(EventUpdatePlayers)
		require.True(t, ok)
		assert.Len(t, playersOf(t, ev), len(players))
	}
}

func TestStoppedCoordinator(t *testing.T) {
	c := NewCoordinator()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	cancel()
	<-done

	err := c.Join(newFakeSession("s"), JoinRequest{RoomID: "r", PlayerName: "n"})
	require.ErrorIs(t, err, ErrStopped)
}

func TestRealSchedulerReveal(t *testing.T) {
	c := NewCoordinator(WithRevealDelay(10 * time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go c.Run(ctx)

	var sessions []*fakeSession
	for i := range MaxPlayers {
		s := newFakeSession(fmt.Sprintf("s%d", i))
		require.NoError(t, c.Join(s, JoinRequest{RoomID: "live", PlayerName: fmt.Sprintf("N%d", i)}))
		sessions = append(sessions, s)
	}

	c.StartRandomTeams(sessions[0], "live")

	require.Eventually(t, func() bool {
		_, ok := sessions[0].last(EventTeamsGenerated)
		return ok
	}, 2*time.Second, 5*time.Millisecond)
}
