package layout

import "fmt"

// renderPhase is the pagination controller's state. A table render walks
//
//	idle -> headerPending -> bodyRendering -> pageBreak -> headerPending ...
//	                                       -> done
//
// Transitions are funneled through renderState methods so an illegal move is
// an error instead of a silently inconsistent flag, and the headers-emitted
// bookkeeping cannot be forgotten on a new page.
type renderPhase uint8

const (
	phaseIdle renderPhase = iota
	phaseHeaderPending
	phaseBodyRendering
	phasePageBreak
	phaseDone
)

func (p renderPhase) String() string {
	switch p {
	case phaseIdle:
		return "Idle"
	case phaseHeaderPending:
		return "HeaderPending"
	case phaseBodyRendering:
		return "BodyRendering"
	case phasePageBreak:
		return "PageBreak"
	case phaseDone:
		return "Done"
	}
	return fmt.Sprintf("renderPhase(%d)", uint8(p))
}

// renderState is the pagination bookkeeping for a single RenderTable call.
// It is created at the start of the call and discarded at the end; it is
// never shared between renders.
type renderState struct {
	phase           renderPhase
	nextRow         int
	rendered        int
	headerEmissions int  // total header emissions; the title bar draws on the first only
	headersEmitted  bool // headers drawn on the current page
	freshPage       bool // current page was opened by this render and holds no body row yet
}

func (st *renderState) transition(from, to renderPhase) error {
	if st.phase != from {
		return fmt.Errorf("layout: illegal pagination transition %s -> %s", st.phase, to)
	}
	st.phase = to
	return nil
}

// begin starts the render on the first page.
func (st *renderState) begin() error {
	return st.transition(phaseIdle, phaseHeaderPending)
}

// headersDrawn records that the title/header block is on the current page.
func (st *renderState) headersDrawn() error {
	if err := st.transition(phaseHeaderPending, phaseBodyRendering); err != nil {
		return err
	}
	st.headersEmitted = true
	return nil
}

// requestBreak marks that the next pending row does not fit.
func (st *renderState) requestBreak() error {
	return st.transition(phaseBodyRendering, phasePageBreak)
}

// pageStarted records that a continuation page is open and headers are due
// again.
func (st *renderState) pageStarted() error {
	if err := st.transition(phasePageBreak, phaseHeaderPending); err != nil {
		return err
	}
	st.headersEmitted = false
	st.freshPage = true
	return nil
}

// rowRendered advances past a fully drawn body row.
func (st *renderState) rowRendered() {
	st.nextRow++
	st.rendered++
	st.freshPage = false
}

// finish completes the render once every row is consumed.
func (st *renderState) finish() error {
	return st.transition(phaseBodyRendering, phaseDone)
}
