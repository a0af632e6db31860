package rbac

// Decision is the tri-state outcome of permission resolution. How it
// maps to a final permit depends on the mode: whitelist permits only
// Allowed, blacklist permits everything except Denied.
type Decision int

const (
	// Unspecified means no rule matched the request.
	Unspecified Decision = iota
	// Allowed means an allow rule matched and no deny rule did.
	Allowed
	// Denied means a deny rule matched. Deny always wins over allow.
	Denied
)

// String returns the lowercase name of the decision.
func (d Decision) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case Denied:
		return "denied"
	default:
		return "unspecified"
	}
}

// Mode selects how an Unspecified decision is interpreted.
type Mode int

const (
	// Blacklist is default-allow: a request is permitted unless a deny
	// rule matches. This is the default mode.
	Blacklist Mode = iota
	// Whitelist is default-deny: a request is permitted only when an
	// allow rule matches and no deny rule does.
	Whitelist
)

// String returns the lowercase name of the mode.
func (m Mode) String() string {
	if m == Whitelist {
		return "whitelist"
	}
	return "blacklist"
}

// Permits applies the mode's interpretation to a decision.
func (m Mode) Permits(d Decision) bool {
	if m == Whitelist {
		return d == Allowed
	}
	return d != Denied
}
