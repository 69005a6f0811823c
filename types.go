package csvskema

// UnknownPolicy controls how unknown keys are handled.
type UnknownPolicy int

const (
	UnknownStrict      UnknownPolicy = iota // Reject unknown keys with an error.
	UnknownStrip                            // Drop unknown keys.
	UnknownPassthrough                      // Preserve unknown keys (optionally storing them elsewhere).
)

// String renders the policy the way contracts spell it.
func (p UnknownPolicy) String() string {
	switch p {
	case UnknownStrip:
		return "strip"
	case UnknownPassthrough:
		return "passthrough"
	default:
		return "strict"
	}
}

// ParseOpt bundles parsing options.
type ParseOpt struct {
	// FailFast stops validation at the first issue instead of collecting all.
	FailFast bool
}
