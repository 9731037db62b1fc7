// Package gesture holds the core gesture-to-event logic: the gesture
// vocabulary, the action mapping, the factory reset guard and the router
// that ties them together. Everything here is hardware free.
package gesture

import "fmt"

// Kind names a classified button gesture.
type Kind string

const (
	Single Kind = "single"
	Double Kind = "double"
	Triple Kind = "triple"
	Long   Kind = "long"

	// Unknown is emitted by the classifier for press bursts it cannot
	// name. It is routed like any unmapped gesture and never appears
	// in configuration.
	Unknown Kind = "unknown"
)

// ParseKind validates a configured gesture name.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Single, Double, Triple, Long:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown gesture kind %q", s)
}

// Mapping assigns switch event codes to gesture kinds. Kinds absent
// from the mapping are rejected by the router.
type Mapping map[Kind]int
