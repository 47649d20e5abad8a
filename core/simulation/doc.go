// Package simulation implements the rush-hour discrete-event simulator: one
// synthetic arrival stream replayed through the FIFO and SMART policies to
// quantify the improvement of weighted scheduling. The simulator is fully
// self-contained and never touches live scheduler state.
package simulation
