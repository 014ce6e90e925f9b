// Package games coordinates drumroll party rooms.
//
// Players join a room by name and stream their cursor position to everyone
// else in it. Once ten players are present, anyone can ask for a random
// split into two teams of five; the reveal is preceded by a drumroll and
// lands a few seconds later. Holders of the admin password can watch a room
// without joining it and pick the teams themselves.
//
// How to play
// - The first player to join a room becomes its admin (tracked by name)
// - Every player gets a random color and a cursor on the shared board
// - Names are unique within a room, ignoring case
// - Rooms disappear as soon as their last player leaves
//
// All room state is owned by a Coordinator and mutated on a single
// goroutine, so operations never observe each other half-applied.
package games
