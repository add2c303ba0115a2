package ui

import (
	"sync"
	"time"
)

// Control is a button-like element with an enabled flag and a label.
type Control struct {
	mu           sync.Mutex
	defaultLabel string
	label        string
	disabled     bool
}

// NewControl returns an enabled control showing label.
func NewControl(label string) *Control {
	return &Control{defaultLabel: label, label: label}
}

// Busy disables the control and shows label until Restore is called.
func (c *Control) Busy(label string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disabled = true
	c.label = label
}

// Restore re-enables the control with its default label.
func (c *Control) Restore() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disabled = false
	c.label = c.defaultLabel
}

func (c *Control) SetDisabled(disabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disabled = disabled
}

func (c *Control) Disabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disabled
}

func (c *Control) Label() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.label
}

// Element is a node in the ancestry chain of an event target.
type Element struct {
	Class  string
	Parent *Element
}

// Closest walks from e up through its ancestors and returns the first
// element carrying class, or nil.
func (e *Element) Closest(class string) *Element {
	for el := e; el != nil; el = el.Parent {
		if el.Class == class {
			return el
		}
	}
	return nil
}

// Navigator moves the front end to another view.
type Navigator interface {
	Navigate(url string)
	Reload()
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(message string) bool
}

// Clock schedules deferred UI work.
type Clock interface {
	AfterFunc(d time.Duration, f func())
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// RealClock schedules work with time.AfterFunc.
func RealClock() Clock {
	return realClock{}
}
