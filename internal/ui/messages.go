package ui

// holdEndMsg ends an input hold. seq guards against a stale tick ending a
// newer hold.
type holdEndMsg struct {
	seq int
}

// statusClearMsg expires the status line set with the same seq.
type statusClearMsg struct {
	seq int
}
