package modal

import (
	"html"
	"sync"
)

// Escape is the key name that dismisses a visible dialog.
const Escape = "Escape"

// Presenter renders dialog state changes.
type Presenter interface {
	Present(d Snapshot)
}

// Snapshot is the visible state of the dialog at one point in time.
type Snapshot struct {
	Title   string
	Body    string
	IsHTML  bool
	Visible bool
}

// Markup returns the body as HTML. Plain text bodies are escaped.
func (s Snapshot) Markup() string {
	if s.IsHTML {
		return s.Body
	}
	return html.EscapeString(s.Body)
}

// Dialog is the single modal dialog shared by the controllers of a page.
type Dialog struct {
	mu        sync.Mutex
	state     Snapshot
	presenter Presenter
}

// New returns a hidden dialog. presenter may be nil.
func New(presenter Presenter) *Dialog {
	return &Dialog{presenter: presenter}
}

// Show replaces the dialog content and makes it visible.
func (d *Dialog) Show(title, content string, isHTML bool) {
	d.mu.Lock()
	d.state = Snapshot{Title: title, Body: content, IsHTML: isHTML, Visible: true}
	s := d.state
	d.mu.Unlock()
	d.present(s)
}

// ShowText shows a plain text dialog.
func (d *Dialog) ShowText(title, content string) {
	d.Show(title, content, false)
}

// Hide hides the dialog. It is safe to call on a hidden dialog.
func (d *Dialog) Hide() {
	d.mu.Lock()
	wasVisible := d.state.Visible
	d.state.Visible = false
	s := d.state
	d.mu.Unlock()
	if wasVisible {
		d.present(s)
	}
}

// CloseButton handles the header close control.
func (d *Dialog) CloseButton() { d.Hide() }

// ModalCloseButton handles the footer close control.
func (d *Dialog) ModalCloseButton() { d.Hide() }

// ClickBackdrop handles a click anywhere in the window. Only clicks whose
// target is the backdrop itself dismiss the dialog.
func (d *Dialog) ClickBackdrop(onBackdrop bool) {
	if onBackdrop {
		d.Hide()
	}
}

// KeyDown handles a key press.
func (d *Dialog) KeyDown(key string) {
	if key == Escape && d.Visible() {
		d.Hide()
	}
}

func (d *Dialog) Visible() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state.Visible
}

// State returns the current dialog state.
func (d *Dialog) State() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Dialog) present(s Snapshot) {
	if d.presenter != nil {
		d.presenter.Present(s)
	}
}
