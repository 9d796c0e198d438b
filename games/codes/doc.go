// Package codes runs the two-sided word guessing game.
//
// Two sides share one 5x5 grid of words. Each side holds a private key that
// splits the grid into green (safe, 9), black (fatal, 3) and white (neutral, 13).
// The sides take turns: the side that is not guessing gives a free-text hint,
// then the guessing side picks words and checks them against its own key.
//   - A green word is revealed for everyone and the round goes on.
//   - A white word is revealed for the guessing side and the turn passes.
//   - A black word ends the game.
//
// The guessing side may also give up, which passes the turn without a guess.
// Players can only join or leave between rounds, while no hint is active.
//
// Sessions live in a Store keyed by an opaque id. Every accepted change bumps
// the session version; clients poll the version and only fetch the board when
// it moves.
package codes
