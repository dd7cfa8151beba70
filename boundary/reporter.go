package boundary

import "sync"

// Reporter injects errors from non rendering code into whatever boundary
// encloses the component that evaluates it. The component calls Check once
// per render and returns whatever it yields, the enclosing boundary then
// captures it through the ordinary render path. Code anywhere else, including
// other goroutines, calls Report to arm the next evaluation.
//
// The reporter owns no reset or comparison logic, it is a one value mailbox
// in front of a boundary.
type Reporter struct {
	mu     sync.Mutex
	stored error
}

func NewReporter() *Reporter { return &Reporter{} }

// Report stores err for the next evaluation. The last write before an
// evaluation wins. A nil err clears the mailbox.
func (r *Reporter) Report(err error) {
	r.mu.Lock()
	r.stored = err
	r.mu.Unlock()
}

// Check is one evaluation. A non nil direct error is raised immediately and
// bypasses the mailbox, which stays untouched. Otherwise a stored error is
// raised and consumed, so one Report produces exactly one raise no matter how
// many render passes follow.
func (r *Reporter) Check(direct error) error {
	if direct != nil {
		return direct
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	err := r.stored
	r.stored = nil
	return err
}

// Clear drops any stored error without raising it.
func (r *Reporter) Clear() {
	r.mu.Lock()
	r.stored = nil
	r.mu.Unlock()
}
