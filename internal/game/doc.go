// Package game implements the table/hand engine for a single hand of
// no-limit Texas Hold'em against automated opponents.
//
// The main type is Table, which composes seat and position assignment, the
// betting-round state machine, stage progression from preflop through
// showdown, pot settlement and the action log. One human seat (the hero) is
// pinned to a fixed seat per table size; positions rotate randomly around
// the ring each hand.
//
// A hand runs through StartHand and repeated ProcessAction calls:
//
//	t, _ := game.NewTable(game.Config{TableSize: 6, RNG: randutil.New(42)})
//	t.StartHand()
//	for !t.HandOver() {
//	    err := t.ProcessAction(game.Action{Type: game.Call})
//	    // ...
//	}
//
// All operations are synchronous and run to completion; the engine performs
// no locking. Injecting a seeded RNG makes whole hands replayable.
package game
