// Package conv provides overflow-checked integer conversions.
//
// Every conversion either returns the exact same numeric value in the target
// type or an *OverflowError. Nothing is truncated, wrapped or sign-flipped.
//
// Use cases:
//   - Turning length fields read from a file into Go ints (Len)
//   - Turning len(slice) into the width of a length field before writing it (To)
//
// For conversions that are provably safe by domain constraints (loop indices,
// bounded counters), use direct type casts instead.
package conv
