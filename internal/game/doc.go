// Package game is the authoritative simulation of one snake lobby: snakes
// moving on a toroidal grid, simultaneous collision resolution, food, and the
// round/game lifecycle driven by timers.
//
// A Lobby is safe for concurrent use. It never talks to a network connection;
// it publishes Events to an EventSink and leaves delivery to the caller.
package game
