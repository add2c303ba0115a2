package editor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lehigh-university-libraries/pagegrid/internal/api"
	"github.com/lehigh-university-libraries/pagegrid/internal/modal"
	"github.com/lehigh-university-libraries/pagegrid/internal/ui"
)

// DefaultDownloadDelay is how long the download control stays disabled
// after navigating to the download. There is no completion signal.
const DefaultDownloadDelay = 2 * time.Second

// Element classes that make up a page card.
const (
	CardClass     = "page-card"
	DeleteClass   = "btn-delete"
	CheckboxClass = "page-select"
)

const (
	deleteSelectedLabel = "Delete Selected"
	validateLabel       = "✓ Validate Questions"
	extractLabel        = "📤 Extract Questions"
	downloadLabel       = "📥 Download Merged PDF"
)

// Backend is the subset of the server API the editor calls.
type Backend interface {
	DeletePage(ctx context.Context, pageID string) (*api.DeletePageResponse, error)
	Validate(ctx context.Context) (*api.ValidateResponse, error)
	Extract(ctx context.Context) (*api.ExtractResponse, error)
	DownloadURL() string
}

// Deps are the collaborators of a Controller.
type Deps struct {
	Backend       Backend
	Dialog        *modal.Dialog
	Navigator     ui.Navigator
	Confirmer     ui.Confirmer
	Clock         ui.Clock
	DownloadDelay time.Duration
}

// Card is one rendered page of the merged document.
type Card struct {
	ID       string
	Selected bool
}

// Controller owns the page grid of the editor view. Cards are rendered by
// the server before the controller is created.
type Controller struct {
	deps Deps

	mu        sync.Mutex
	cards     []*Card
	selection *Selection
	pageCount int

	DeleteSelectedButton *ui.Control
	ValidateButton       *ui.Control
	ExtractButton        *ui.Control
	DownloadButton       *ui.Control
}

// New registers a card for each page id, in grid order.
func New(pageIDs []string, deps Deps) *Controller {
	if deps.Clock == nil {
		deps.Clock = ui.RealClock()
	}

	c := &Controller{
		deps:                 deps,
		selection:            NewSelection(),
		pageCount:            len(pageIDs),
		DeleteSelectedButton: ui.NewControl(deleteSelectedLabel),
		ValidateButton:       ui.NewControl(validateLabel),
		ExtractButton:        ui.NewControl(extractLabel),
		DownloadButton:       ui.NewControl(downloadLabel),
	}
	for _, id := range pageIDs {
		c.cards = append(c.cards, &Card{ID: id})
	}
	return c
}

// Cards returns a copy of the cards currently in the grid.
func (c *Controller) Cards() []Card {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Card, len(c.cards))
	for i, card := range c.cards {
		out[i] = *card
	}
	return out
}

// Selected returns the selected page ids in selection order.
func (c *Controller) Selected() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection.IDs()
}

// PageCount is the remaining-page count shown to the user.
func (c *Controller) PageCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pageCount
}

// SelectionInfo reports whether the selection block is shown and the count
// it displays.
func (c *Controller) SelectionInfo() (bool, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.selection.Len()
	return n > 0, n
}

// ToggleSelect handles a change of a card's checkbox.
func (c *Controller) ToggleSelect(pageID string, checked bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	card := c.cardLocked(pageID)
	if card == nil {
		return
	}
	card.Selected = checked
	if checked {
		c.selection.Add(pageID)
	} else {
		c.selection.Remove(pageID)
	}
}

// ClickCard toggles selection of the card unless the click started on its
// delete control or checkbox, which have handlers of their own.
func (c *Controller) ClickCard(pageID string, target *ui.Element) {
	if target.Closest(DeleteClass) != nil || target.Closest(CheckboxClass) != nil {
		return
	}

	c.mu.Lock()
	card := c.cardLocked(pageID)
	checked := card != nil && !card.Selected
	c.mu.Unlock()

	if card != nil {
		c.ToggleSelect(pageID, checked)
	}
}

// ClickDelete deletes a single page after confirmation.
func (c *Controller) ClickDelete(ctx context.Context, pageID string) {
	if !c.deps.Confirmer.Confirm("Are you sure you want to remove this page?") {
		return
	}

	resp, err := c.deps.Backend.DeletePage(ctx, pageID)
	if err != nil {
		slog.Error("Delete error", "page_id", pageID, "error", err)
		c.deps.Dialog.ShowText("Error", "Failed to delete page: "+err.Error())
		return
	}

	c.mu.Lock()
	c.removeCardLocked(pageID)
	c.pageCount = resp.RemainingPages
	c.mu.Unlock()

	if resp.RemainingPages == 0 {
		c.deps.Navigator.Reload()
	}
}

// DeleteSelected deletes every selected page, one request at a time in
// selection order. A failed page does not stop the batch.
func (c *Controller) DeleteSelected(ctx context.Context) {
	if c.DeleteSelectedButton.Disabled() {
		return
	}

	ids := c.Selected()
	if len(ids) == 0 {
		return
	}
	if !c.deps.Confirmer.Confirm(fmt.Sprintf("Are you sure you want to remove %d page(s)?", len(ids))) {
		return
	}

	c.DeleteSelectedButton.Busy("Deleting...")
	result := c.deleteEach(ctx, ids)

	c.mu.Lock()
	c.selection.Clear()
	for _, card := range c.cards {
		card.Selected = false
	}
	remaining := c.pageCount
	c.mu.Unlock()

	c.DeleteSelectedButton.Restore()

	slog.Info("Bulk delete finished", "deleted", result.Deleted, "failed", result.Failed)
	if result.Failed > 0 {
		c.deps.Dialog.ShowText("Deletion Complete", result.Summary())
	}

	if remaining == 0 {
		c.deps.Navigator.Reload()
	}
}

func (c *Controller) deleteEach(ctx context.Context, ids []string) BulkResult {
	var result BulkResult
	for _, id := range ids {
		resp, err := c.deps.Backend.DeletePage(ctx, id)
		if err != nil {
			slog.Error("Delete error", "page_id", id, "error", err)
			result.Failed++
			continue
		}

		c.mu.Lock()
		c.removeCardLocked(id)
		c.pageCount = resp.RemainingPages
		c.mu.Unlock()
		result.Deleted++
	}
	return result
}

// Validate asks the server to check question numbering and shows the report.
func (c *Controller) Validate(ctx context.Context) {
	if c.ValidateButton.Disabled() {
		return
	}
	c.ValidateButton.Busy("⏳ Validating...")
	defer c.ValidateButton.Restore()

	resp, err := c.deps.Backend.Validate(ctx)
	if err != nil {
		slog.Error("Validation error", "error", err)
		c.deps.Dialog.ShowText("Error", "Validation failed: "+err.Error())
		return
	}
	c.deps.Dialog.Show("Question Validation", ValidationReport(resp), true)
}

// Extract asks the server for the extraction preview and shows it.
func (c *Controller) Extract(ctx context.Context) {
	if c.ExtractButton.Disabled() {
		return
	}
	c.ExtractButton.Busy("⏳ Extracting...")
	defer c.ExtractButton.Restore()

	resp, err := c.deps.Backend.Extract(ctx)
	if err != nil {
		slog.Error("Extraction error", "error", err)
		c.deps.Dialog.ShowText("Error", "Extraction failed: "+err.Error())
		return
	}
	c.deps.Dialog.Show("Question Extraction Report", ExtractionReport(resp.Report), true)
}

// Download navigates to the merged PDF and re-enables the control after the
// download delay, whether or not a file arrived.
func (c *Controller) Download() {
	if c.DownloadButton.Disabled() {
		return
	}
	c.DownloadButton.Busy("⏳ Preparing...")
	c.deps.Navigator.Navigate(c.deps.Backend.DownloadURL())
	c.deps.Clock.AfterFunc(c.deps.DownloadDelay, c.DownloadButton.Restore)
}

func (c *Controller) cardLocked(pageID string) *Card {
	for _, card := range c.cards {
		if card.ID == pageID {
			return card
		}
	}
	return nil
}

// removeCardLocked drops the card and its selection entry together so the
// selection never names a page that is gone.
func (c *Controller) removeCardLocked(pageID string) {
	for i, card := range c.cards {
		if card.ID == pageID {
			c.cards = append(c.cards[:i], c.cards[i+1:]...)
			break
		}
	}
	c.selection.Remove(pageID)
}
