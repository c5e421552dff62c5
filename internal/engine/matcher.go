package engine

import "github.com/mesh-intelligence/tangram/pkg/types"

// Matcher decides whether a live pose lands on an admissible pose and, if
// so, docks the slot.
type Matcher struct {
	narrowing *Narrowing
	tol       types.Tolerance
}

// NewMatcher returns a Matcher docking into n with tolerance tol.
func NewMatcher(n *Narrowing, tol types.Tolerance) *Matcher {
	return &Matcher{narrowing: n, tol: tol}
}

// Tolerance returns the matcher's tolerance.
func (m *Matcher) Tolerance() types.Tolerance { return m.tol }

// TryDock checks live against every admissible candidate for slot s in
// order. The first candidate within tolerance wins: the slot is docked at
// that candidate's catalog index and the candidate pose is returned as the
// snapped pose. With no match, or when s is already docked, live is
// returned unchanged with false.
func (m *Matcher) TryDock(s types.Slot, live types.Pose) (types.Pose, bool) {
	s.MustValid()
	if m.narrowing.IsDocked(s) {
		return live, false
	}
	for _, c := range m.narrowing.AdmissiblePoses(s) {
		if !c.Pose.Within(live, m.tol) {
			continue
		}
		m.narrowing.Dock(s, c.Index)
		return c.Pose, true
	}
	return live, false
}

// TryUndock frees slot s if it is docked and reports whether it was.
func (m *Matcher) TryUndock(s types.Slot) bool {
	return m.narrowing.Undock(s)
}
