package confirm

import (
	"errors"
	"sync"
)

// ErrConfirmationPending is returned by Ask while another confirmation is
// still unresolved.
var ErrConfirmationPending = errors.New("a confirmation is already pending")

// Variant selects the visual treatment of a confirmation prompt
type Variant string

const (
	VariantDanger  Variant = "danger"
	VariantWarning Variant = "warning"
	VariantInfo    Variant = "info"
)

// Request is one pending confirmation prompt
type Request struct {
	Title        string
	Message      string
	Variant      Variant
	ConfirmLabel string
	CancelLabel  string

	done chan bool
}

// Result yields exactly one boolean once the operator confirms or cancels.
// There is no timeout.
func (r *Request) Result() <-chan bool {
	return r.done
}

// Gate suspends destructive actions until the operator confirms or cancels.
// At most one confirmation can be pending at a time.
type Gate struct {
	mu      sync.Mutex
	pending *Request
}

// NewGate creates a confirmation gate
func NewGate() *Gate {
	return &Gate{}
}

// Ask opens a confirmation prompt and returns its request. While a prompt is
// already pending it returns ErrConfirmationPending instead of stranding the
// earlier caller.
func (g *Gate) Ask(title, message string, variant Variant, confirmLabel, cancelLabel string) (*Request, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending != nil {
		return nil, ErrConfirmationPending
	}

	req := &Request{
		Title:        title,
		Message:      message,
		Variant:      variant,
		ConfirmLabel: confirmLabel,
		CancelLabel:  cancelLabel,
		done:         make(chan bool, 1),
	}
	g.pending = req
	return req, nil
}

// Pending returns the active request, nil when none is outstanding
func (g *Gate) Pending() *Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending
}

// Confirm resolves the pending request to true
func (g *Gate) Confirm() {
	g.resolve(true)
}

// Cancel resolves the pending request to false
func (g *Gate) Cancel() {
	g.resolve(false)
}

func (g *Gate) resolve(ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending == nil {
		return
	}
	g.pending.done <- ok
	g.pending = nil
}
