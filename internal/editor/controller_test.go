package editor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lehigh-university-libraries/pagegrid/internal/api"
	"github.com/lehigh-university-libraries/pagegrid/internal/apitest"
	"github.com/lehigh-university-libraries/pagegrid/internal/modal"
	"github.com/lehigh-university-libraries/pagegrid/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	mu        sync.Mutex
	remaining int
	fail      map[string]error
	calls     []string
	inFlight  int
	overlap   bool
	validate  *api.ValidateResponse
	extract   *api.ExtractResponse
	err       error
}

func (b *fakeBackend) DeletePage(_ context.Context, id string) (*api.DeletePageResponse, error) {
	b.mu.Lock()
	b.inFlight++
	if b.inFlight > 1 {
		b.overlap = true
	}
	b.calls = append(b.calls, id)
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.inFlight--
		b.mu.Unlock()
	}()

	if err := b.fail[id]; err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.remaining--
	return &api.DeletePageResponse{Envelope: api.Envelope{Success: true}, RemainingPages: b.remaining}, nil
}

func (b *fakeBackend) Validate(context.Context) (*api.ValidateResponse, error) {
	return b.validate, b.err
}

func (b *fakeBackend) Extract(context.Context) (*api.ExtractResponse, error) {
	return b.extract, b.err
}

func (b *fakeBackend) DownloadURL() string { return "/download" }

type fakeNavigator struct {
	urls    []string
	reloads int
}

func (n *fakeNavigator) Navigate(url string) { n.urls = append(n.urls, url) }
func (n *fakeNavigator) Reload()             { n.reloads++ }

type confirmer struct {
	answer   bool
	messages []string
}

func (c *confirmer) Confirm(msg string) bool {
	c.messages = append(c.messages, msg)
	return c.answer
}

type fakeClock struct {
	delays  []time.Duration
	pending []func()
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) {
	c.delays = append(c.delays, d)
	c.pending = append(c.pending, f)
}

func (c *fakeClock) Fire() {
	for _, f := range c.pending {
		f()
	}
	c.pending = nil
}

type fixture struct {
	ctrl    *Controller
	backend Backend
	dialog  *modal.Dialog
	nav     *fakeNavigator
	confirm *confirmer
	clock   *fakeClock
}

func newFixture(backend Backend, ids ...string) *fixture {
	f := &fixture{
		backend: backend,
		dialog:  modal.New(nil),
		nav:     &fakeNavigator{},
		confirm: &confirmer{answer: true},
		clock:   &fakeClock{},
	}
	f.ctrl = New(ids, Deps{
		Backend:       backend,
		Dialog:        f.dialog,
		Navigator:     f.nav,
		Confirmer:     f.confirm,
		Clock:         f.clock,
		DownloadDelay: DefaultDownloadDelay,
	})
	return f
}

func cardIDs(cards []Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func TestClickCardTogglesSelection(t *testing.T) {
	f := newFixture(&fakeBackend{}, "p1", "p2")
	card := &ui.Element{Class: CardClass}

	f.ctrl.ClickCard("p1", card)
	assert.Equal(t, []string{"p1"}, f.ctrl.Selected())
	assert.True(t, f.ctrl.Cards()[0].Selected)

	visible, n := f.ctrl.SelectionInfo()
	assert.True(t, visible)
	assert.Equal(t, 1, n)

	f.ctrl.ClickCard("p1", &ui.Element{Class: "thumbnail", Parent: card})
	assert.Empty(t, f.ctrl.Selected())

	visible, _ = f.ctrl.SelectionInfo()
	assert.False(t, visible)
}

func TestClickCardIgnoresNestedControls(t *testing.T) {
	f := newFixture(&fakeBackend{}, "p1")
	card := &ui.Element{Class: CardClass}
	button := &ui.Element{Class: DeleteClass, Parent: card}

	f.ctrl.ClickCard("p1", button)
	f.ctrl.ClickCard("p1", &ui.Element{Class: "icon", Parent: button})
	f.ctrl.ClickCard("p1", &ui.Element{Class: CheckboxClass, Parent: card})

	assert.Empty(t, f.ctrl.Selected())
}

func TestDeleteOnePage(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	srv.SetPages("p1", "p2", "p3", "p4")

	f := newFixture(api.NewClient(srv.URL, 0), "p1", "p2", "p3", "p4")
	f.ctrl.ToggleSelect("p2", true)
	f.ctrl.ToggleSelect("p3", true)

	f.ctrl.ClickDelete(context.Background(), "p2")

	assert.Equal(t, []string{"p1", "p3", "p4"}, cardIDs(f.ctrl.Cards()))
	assert.Equal(t, []string{"p3"}, f.ctrl.Selected())
	assert.Equal(t, 3, f.ctrl.PageCount())
	assert.Zero(t, f.nav.reloads)
	assert.Equal(t, []string{"Are you sure you want to remove this page?"}, f.confirm.messages)
}

func TestDeleteLastPageReloads(t *testing.T) {
	f := newFixture(&fakeBackend{remaining: 1}, "p1")
	f.ctrl.ClickDelete(context.Background(), "p1")

	assert.Empty(t, f.ctrl.Cards())
	assert.Equal(t, 0, f.ctrl.PageCount())
	assert.Equal(t, 1, f.nav.reloads)
}

func TestDeleteOnePageDeclined(t *testing.T) {
	backend := &fakeBackend{remaining: 2}
	f := newFixture(backend, "p1", "p2")
	f.confirm.answer = false

	f.ctrl.ClickDelete(context.Background(), "p1")
	assert.Empty(t, backend.calls)
	assert.Len(t, f.ctrl.Cards(), 2)
}

func TestDeleteOnePageFailureKeepsCard(t *testing.T) {
	backend := &fakeBackend{remaining: 2, fail: map[string]error{"p1": &api.ServerError{Message: "Page is locked"}}}
	f := newFixture(backend, "p1", "p2")

	f.ctrl.ClickDelete(context.Background(), "p1")

	assert.Len(t, f.ctrl.Cards(), 2)
	assert.Equal(t, 2, f.ctrl.PageCount())
	assert.Equal(t, "Failed to delete page: Page is locked", f.dialog.State().Body)
}

func TestDeleteSelectedPartialFailure(t *testing.T) {
	backend := &fakeBackend{remaining: 4, fail: map[string]error{"p2": errors.New("network down")}}
	f := newFixture(backend, "p1", "p2", "p3", "p4")
	f.ctrl.ToggleSelect("p3", true)
	f.ctrl.ToggleSelect("p1", true)
	f.ctrl.ToggleSelect("p2", true)

	f.ctrl.DeleteSelected(context.Background())

	assert.Equal(t, []string{"p3", "p1", "p2"}, backend.calls, "requests follow selection order")
	assert.False(t, backend.overlap, "requests are never concurrent")
	assert.Equal(t, []string{"p2", "p4"}, cardIDs(f.ctrl.Cards()))
	assert.Empty(t, f.ctrl.Selected())
	assert.Equal(t, 2, f.ctrl.PageCount())
	assert.Equal(t, []string{"Are you sure you want to remove 3 page(s)?"}, f.confirm.messages)

	s := f.dialog.State()
	assert.Equal(t, "Deletion Complete", s.Title)
	assert.Equal(t, "Deleted 2 page(s). 1 failed.", s.Body)

	assert.False(t, f.ctrl.DeleteSelectedButton.Disabled())
	assert.Equal(t, "Delete Selected", f.ctrl.DeleteSelectedButton.Label())
	assert.Zero(t, f.nav.reloads)
}

func TestDeleteSelectedAgainstServer(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	srv.SetPages("a", "b", "c")
	srv.FailDeletes["b"] = true

	f := newFixture(api.NewClient(srv.URL, 0), "a", "b", "c")
	for _, id := range []string{"a", "b", "c"} {
		f.ctrl.ToggleSelect(id, true)
	}

	f.ctrl.DeleteSelected(context.Background())

	assert.Equal(t, []string{"a", "b", "c"}, srv.Deleted())
	assert.Equal(t, []string{"b"}, cardIDs(f.ctrl.Cards()))
	assert.Equal(t, "Deleted 2 page(s). 1 failed.", f.dialog.State().Body)
	assert.Equal(t, 1, f.ctrl.PageCount())
}

func TestDeleteSelectedAllSucceedReloadsWhenEmpty(t *testing.T) {
	backend := &fakeBackend{remaining: 2}
	f := newFixture(backend, "p1", "p2")
	f.ctrl.ToggleSelect("p1", true)
	f.ctrl.ToggleSelect("p2", true)

	f.ctrl.DeleteSelected(context.Background())

	assert.False(t, f.dialog.Visible(), "no summary without failures")
	assert.Equal(t, 1, f.nav.reloads)
}

func TestDeleteSelectedNothingSelected(t *testing.T) {
	backend := &fakeBackend{remaining: 1}
	f := newFixture(backend, "p1")

	f.ctrl.DeleteSelected(context.Background())
	assert.Empty(t, f.confirm.messages)
	assert.Empty(t, backend.calls)
}

func TestValidateReports(t *testing.T) {
	tests := []struct {
		name     string
		resp     *api.ValidateResponse
		contains []string
	}{
		{
			name: "valid",
			resp: &api.ValidateResponse{Envelope: api.Envelope{Success: true}, IsValid: true, MaxQuestion: 12, TotalPages: 14},
			contains: []string{
				"Validation Passed",
				"All questions from 1 to 12 are present.",
				"Total pages: 14",
			},
		},
		{
			name: "missing questions",
			resp: &api.ValidateResponse{Envelope: api.Envelope{Success: true}, MissingQuestions: []int{3, 7}, MaxQuestion: 10, TotalPages: 8},
			contains: []string{
				"Validation Failed",
				"<strong>3, 7</strong>",
				"Expected questions: 1 to 10",
				"Total pages: 8",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(&fakeBackend{validate: tt.resp}, "p1")
			f.ctrl.Validate(context.Background())

			s := f.dialog.State()
			require.True(t, s.Visible)
			assert.True(t, s.IsHTML)
			assert.Equal(t, "Question Validation", s.Title)
			for _, want := range tt.contains {
				assert.Contains(t, s.Body, want)
			}
			assert.False(t, f.ctrl.ValidateButton.Disabled())
			assert.Equal(t, "✓ Validate Questions", f.ctrl.ValidateButton.Label())
		})
	}
}

func TestValidateFailureRestoresControl(t *testing.T) {
	f := newFixture(&fakeBackend{err: &api.ServerError{Message: "No pages to validate"}}, "p1")
	f.ctrl.Validate(context.Background())

	assert.Equal(t, "Validation failed: No pages to validate", f.dialog.State().Body)
	assert.False(t, f.ctrl.ValidateButton.Disabled())
}

func TestExtractEscapesReport(t *testing.T) {
	f := newFixture(&fakeBackend{extract: &api.ExtractResponse{
		Envelope: api.Envelope{Success: true},
		Report:   "Questions Found: 3\n<script>alert(1)</script>",
	}}, "p1")

	f.ctrl.Extract(context.Background())

	s := f.dialog.State()
	assert.Equal(t, "Question Extraction Report", s.Title)
	assert.Contains(t, s.Body, "<pre>Questions Found: 3\n&lt;script&gt;alert(1)&lt;/script&gt;</pre>")
	assert.Contains(t, s.Body, "This is a preview.")
	assert.NotContains(t, s.Body, "<script>")
	assert.Equal(t, "📤 Extract Questions", f.ctrl.ExtractButton.Label())
}

func TestExtractFailure(t *testing.T) {
	f := newFixture(&fakeBackend{err: errors.New("timeout")}, "p1")
	f.ctrl.Extract(context.Background())

	assert.Equal(t, "Extraction failed: timeout", f.dialog.State().Body)
	assert.False(t, f.ctrl.ExtractButton.Disabled())
}

func TestDownloadReenablesAfterDelay(t *testing.T) {
	f := newFixture(&fakeBackend{}, "p1")

	f.ctrl.Download()
	assert.Equal(t, []string{"/download"}, f.nav.urls)
	assert.True(t, f.ctrl.DownloadButton.Disabled())
	assert.Equal(t, "⏳ Preparing...", f.ctrl.DownloadButton.Label())

	// A second click while disabled does nothing.
	f.ctrl.Download()
	assert.Len(t, f.nav.urls, 1)

	assert.Equal(t, []time.Duration{DefaultDownloadDelay}, f.clock.delays)
	f.clock.Fire()
	assert.False(t, f.ctrl.DownloadButton.Disabled())
	assert.Equal(t, "📥 Download Merged PDF", f.ctrl.DownloadButton.Label())
}

func TestDownloadZeroDelay(t *testing.T) {
	f := newFixture(&fakeBackend{}, "p1")
	f.ctrl.deps.DownloadDelay = 0

	f.ctrl.Download()
	assert.Equal(t, []time.Duration{0}, f.clock.delays)
}
