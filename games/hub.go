package games

// Session is one connected client. Send must not block; implementations
// queue the event or drop the session.
type Session interface {
	ID() string
	Send(Event)
}

// hub tracks which sessions receive broadcasts for each room. Channel
// membership outlives the Room itself: a watcher stays subscribed when a
// room empties and sees it again if it is recreated under the same ID.
type hub struct {
	channels map[string]map[string]Session
}

func newHub() *hub {
	return &hub{channels: make(map[string]map[string]Session)}
}

func (h *hub) subscribe(roomID string, s Session) {
	members, ok := h.channels[roomID]
	if !ok {
		members = make(map[string]Session)
		h.channels[roomID] = members
	}
	members[s.ID()] = s
}

// leaveAll drops the session from every channel.
func (h *hub) leaveAll(sessionID string) {
	for roomID, members := range h.channels {
		delete(members, sessionID)
		if len(members) == 0 {
			delete(h.channels, roomID)
		}
	}
}

func (h *hub) publish(roomID string, ev Event) {
	for _, s := range h.channels[roomID] {
		s.Send(ev)
	}
}
