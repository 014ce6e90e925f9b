package games

import "encoding/json"

// Inbound event types.
const (
	EventJoinRoom         = "joinRoom"
	EventCursorMove       = "cursorMove"
	EventStartRandomTeams = "startRandomTeams"
	EventRigTeamsRequest  = "rigTeamsRequest"
	EventAdminWatchRoom   = "adminWatchRoom"
)

// Outbound event types.
const (
	EventUpdatePlayers   = "updatePlayers"
	EventJoinError       = "joinError"
	EventStartDrumroll   = "startDrumroll"
	EventTeamsGenerated  = "teamsGenerated"
	EventRigTeamsSuccess = "rigTeamsSuccess"
	EventRigError        = "rigError"
)

// Event is the envelope for every frame, in both directions.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Envelope is an inbound Event whose payload has not been decoded yet.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type JoinRequest struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
	IsHost     bool   `json:"isHost"`
}

type MoveRequest struct {
	RoomID string  `json:"roomId"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

type WatchRequest struct {
	RoomID   string `json:"roomId"`
	Password string `json:"password"`
}

type RigRequest struct {
	RoomID   string   `json:"roomId"`
	Password string   `json:"password"`
	TeamA    []string `json:"teamA"`
	TeamB    []string `json:"teamB"`
}

// PlayerView is a player as seen by clients.
type PlayerView struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Color Color   `json:"color"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Admin bool    `json:"admin,omitempty"`
}

type TeamMember struct {
	Name  string `json:"name"`
	Color Color  `json:"color"`
}

// TeamsResult carries either both teams or an error message.
type TeamsResult struct {
	TeamA []TeamMember `json:"teamA,omitempty"`
	TeamB []TeamMember `json:"teamB,omitempty"`
	Error string       `json:"error,omitempty"`
}

const rigSuccessMessage = "Teams rigged successfully!"
