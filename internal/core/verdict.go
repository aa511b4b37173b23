// Package core defines core types.
package core

// Verdict is the outcome of a hook invocation for one packet.
type Verdict uint8

const (
	// VerdictPass lets the packet continue through the normal path.
	// It is also the unconditional fallback for every decode failure.
	VerdictPass Verdict = iota
	// VerdictDrop silently discards the packet.
	VerdictDrop
	// VerdictReflect transmits the packet back out the interface it
	// arrived on, bypassing normal routing.
	VerdictReflect
)

func (v Verdict) String() string {
	switch v {
	case VerdictDrop:
		return "drop"
	case VerdictReflect:
		return "reflect"
	default:
		return "pass"
	}
}
