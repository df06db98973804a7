package picker

import (
	"context"
	"errors"

	"github.com/flowpilot-dev/flowpilot/pkg/flow"
)

// Mode controls what happens to a session after a selection is written.
type Mode string

const (
	// ReplaceAndClose writes the selector and immediately ends the session.
	ReplaceAndClose Mode = "replaceAndClose"
	// StayOpenForInteraction writes the selector, confirms, and keeps the
	// session open so the user can scroll the captured page and pick again.
	StayOpenForInteraction Mode = "stayOpenForInteraction"
)

// ErrNoSession is returned by operations that need an open session.
var ErrNoSession = errors.New("no picker session open")

// Session binds one pending selection target to a captured page. At most
// one target is pending at a time.
type Session struct {
	TargetStepIndex int
	TargetFieldName string
	Mode            Mode

	ViewportSize Size
	Screenshot   string
	Elements     []Element
	PageURL      string
}

// Picker brokers element selection between a capture backend and the step
// collection. All selection writes funnel through the collection's update
// operation, which is the collection's sole write path.
type Picker struct {
	col     *flow.Collection
	backend Backend
	session *Session

	// onConfirm is invoked after a write in StayOpenForInteraction mode,
	// as a non-blocking confirmation to the user.
	onConfirm func(selector string)
}

// New creates a picker writing into col and capturing through backend.
func New(col *flow.Collection, backend Backend) *Picker {
	return &Picker{col: col, backend: backend}
}

// OnConfirm registers the confirmation hook for StayOpenForInteraction
// selections.
func (p *Picker) OnConfirm(fn func(selector string)) { p.onConfirm = fn }

// Session returns the open session, or nil.
func (p *Picker) Session() *Session { return p.session }

// OpenSession starts a selection session targeting the given step field.
// Opening a new session while one is active discards the previous target.
func (p *Picker) OpenSession(stepIndex int, fieldName string, mode Mode) *Session {
	p.session = &Session{
		TargetStepIndex: stepIndex,
		TargetFieldName: fieldName,
		Mode:            mode,
	}
	return p.session
}

// LoadPage captures url through the backend and attaches the snapshot to
// the open session.
func (p *Picker) LoadPage(ctx context.Context, url string) (*Capture, error) {
	if p.session == nil {
		return nil, ErrNoSession
	}
	capture, err := p.backend.LoadPage(ctx, url)
	if err != nil {
		return nil, err
	}
	p.session.PageURL = url
	p.attach(capture)
	return capture, nil
}

// Scroll moves the captured page and refreshes the session's snapshot, so
// the user can reach elements outside the original viewport.
func (p *Picker) Scroll(ctx context.Context, direction string, amount int) (*Capture, error) {
	if p.session == nil {
		return nil, ErrNoSession
	}
	capture, err := p.backend.Scroll(ctx, direction, amount)
	if err != nil {
		return nil, err
	}
	p.attach(capture)
	return capture, nil
}

func (p *Picker) attach(capture *Capture) {
	if capture.ViewportSize.Width > 0 && capture.ViewportSize.Height > 0 {
		p.session.ViewportSize = capture.ViewportSize
	}
	p.session.Screenshot = capture.Screenshot
	p.session.Elements = capture.Elements
}

// OverlayBoxes projects the session's element boxes into overlay space for
// a screenshot displayed at the given size.
func (p *Picker) OverlayBoxes(displayed Size) []BoundingBox {
	if p.session == nil {
		return nil
	}
	t := ComputeOverlayTransform(displayed, p.session.ViewportSize)
	out := make([]BoundingBox, len(p.session.Elements))
	for i, el := range p.session.Elements {
		out[i] = ProjectBoundingBox(el.Box, t)
	}
	return out
}

// SelectElement writes selector into the session's target step field. In
// ReplaceAndClose mode the session ends after the write; in
// StayOpenForInteraction mode it stays open and the confirmation hook
// fires.
func (p *Picker) SelectElement(ctx context.Context, selector string) error {
	if p.session == nil {
		return ErrNoSession
	}
	s := p.session
	if err := p.col.Update(s.TargetStepIndex, s.TargetFieldName, selector); err != nil {
		return err
	}
	if s.Mode == ReplaceAndClose {
		return p.CloseSession(ctx)
	}
	if p.onConfirm != nil {
		p.onConfirm(selector)
	}
	return nil
}

// CloseSession ends the session and releases the backend's browser. Closing
// with no session open is a no-op.
func (p *Picker) CloseSession(ctx context.Context) error {
	if p.session == nil {
		return nil
	}
	p.session = nil
	return p.backend.Close(ctx)
}
