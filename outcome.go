package noderesolve

type OutcomeKind int

const (
	// OutcomeNone: every candidate failed. Not an error at this layer; the
	// host's own resolver chain decides whether that is fatal.
	OutcomeNone OutcomeKind = iota

	// OutcomeResolved carries an absolute path (or virtual-module id) with
	// the preserved query suffix reattached.
	OutcomeResolved

	// OutcomeExternal marks the specifier as not to be bundled.
	OutcomeExternal

	// OutcomeRejected: the specifier is out of policy scope. Not an error.
	OutcomeRejected

	// OutcomeDeferred hands an entry-point specifier back to the host so its
	// own default resolution can claim it.
	OutcomeDeferred
)

// Outcome is the core's decision for one request.
type Outcome struct {
	Kind OutcomeKind

	// ID is the resolved absolute path plus preserved query suffix, or the
	// external specifier as written.
	ID string
}
