package doctree

// BuilderMode selects which page builder family a document belongs to.
// It is threaded explicitly into the components that need it rather than
// read from process-wide state.
type BuilderMode string

const (
	ModeBreakdance BuilderMode = "breakdance"
	ModeOxygen     BuilderMode = "oxygen"
)

// ParseBuilderMode maps a configured string onto a mode, defaulting to
// breakdance for anything unrecognized.
func ParseBuilderMode(s string) BuilderMode {
	if BuilderMode(s) == ModeOxygen {
		return ModeOxygen
	}
	return ModeBreakdance
}

// KeyPrefix is the storage/cache key prefix for this mode.
func (m BuilderMode) KeyPrefix() string {
	if m == ModeOxygen {
		return "oxygen"
	}
	return "breakdance"
}
