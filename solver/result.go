package solver

// Result is the outcome of a solvability search.
type Result int

const (
	Winnable Result = iota
	Unwinnable
	// Timeout means the time budget ran out before a definite answer.
	Timeout
)

func (r Result) String() string {
	switch r {
	case Winnable:
		return "winnable"
	case Unwinnable:
		return "unwinnable"
	case Timeout:
		return "timeout"
	}
	return "unknown"
}

// Definite is true for Winnable and Unwinnable.
func (r Result) Definite() bool {
	return r == Winnable || r == Unwinnable
}

// ParseResult is the inverse of String.
func ParseResult(s string) (Result, bool) {
	for _, r := range []Result{Winnable, Unwinnable, Timeout} {
		if r.String() == s {
			return r, true
		}
	}
	return 0, false
}
