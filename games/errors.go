package games

// Code names a failure reported back to the session that caused it.
type Code string

const (
	CodeInvalidRequest  Code = "InvalidRequest"
	CodeRoomFull        Code = "RoomFull"
	CodeNameTaken       Code = "NameTaken"
	CodeInvalidPassword Code = "InvalidPassword"
	CodeRoomNotFound    Code = "RoomNotFound"
	CodeInvalidTeamSize Code = "InvalidTeamSize"
	CodeUnknownPlayer   Code = "UnknownPlayer"
	CodeAlreadyJoined   Code = "AlreadyJoined"
)

// Error is a user-facing failure. It is sent to the requesting session
// as-is and never broadcast.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

// Is matches on Code, so wrapped or copied errors still compare equal to
// the sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e.Code == t.Code
}

var (
	ErrInvalidRequest  = &Error{Code: CodeInvalidRequest, Message: "Room and nickname are required."}
	ErrRoomFull        = &Error{Code: CodeRoomFull, Message: "Room is full (max 10)."}
	ErrNameTaken       = &Error{Code: CodeNameTaken, Message: "Nickname already taken."}
	ErrInvalidPassword = &Error{Code: CodeInvalidPassword, Message: "Invalid password."}
	ErrRoomNotFound    = &Error{Code: CodeRoomNotFound, Message: "Room not found or not enough players (need 10)."}
	ErrInvalidTeamSize = &Error{Code: CodeInvalidTeamSize, Message: "Each team must have exactly 5 players."}
	ErrUnknownPlayer   = &Error{Code: CodeUnknownPlayer, Message: "Some names not found in the room."}
	ErrAlreadyJoined   = &Error{Code: CodeAlreadyJoined, Message: "You have already joined a room."}
)
