package finder

import (
	"fmt"
	"sync"
	"time"

	"github.com/Nixie-Tech-LLC/phcfinder/internal/filter"
	"github.com/Nixie-Tech-LLC/phcfinder/internal/metrics"
	"github.com/Nixie-Tech-LLC/phcfinder/internal/model"
	"github.com/Nixie-Tech-LLC/phcfinder/internal/render"
)

// Input is one change coming from the search box or a selector.
type Input struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

const (
	FieldQuery = "q"
	FieldWard  = "ward"
	FieldDay   = "day"
)

// Binder keeps the selection of one user and re-renders everything on each
// change. Calls are serialized; each completes before the next starts.
type Binder struct {
	mu     sync.Mutex
	snap   *model.Snapshot
	sel    model.Selection
	widget *render.MapWidget
}

func NewBinder(st *State) *Binder {
	return &Binder{
		snap:   st.Snapshot,
		widget: render.NewMapWidget(st.Viewport),
	}
}

func (b *Binder) SetQuery(q string) (*render.Result, error) {
	return b.update("query", func(s *model.Selection) { s.Query = q })
}

func (b *Binder) SetWard(ward string) (*render.Result, error) {
	return b.update("ward", func(s *model.Selection) { s.Ward = ward })
}

func (b *Binder) SetDay(day string) (*render.Result, error) {
	return b.update("day", func(s *model.Selection) { s.Day = day })
}

// Apply replaces the whole selection.
func (b *Binder) Apply(sel model.Selection) (*render.Result, error) {
	return b.update("apply", func(s *model.Selection) { *s = sel })
}

// Handle dispatches an Input to the matching setter.
func (b *Binder) Handle(in Input) (*render.Result, error) {
	switch in.Field {
	case FieldQuery, "query":
		return b.SetQuery(in.Value)
	case FieldWard:
		return b.SetWard(in.Value)
	case FieldDay:
		return b.SetDay(in.Value)
	default:
		return nil, fmt.Errorf("unknown input field %q", in.Field)
	}
}

func (b *Binder) Selection() model.Selection {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sel
}

func (b *Binder) Version() string {
	return b.snap.Version
}

func (b *Binder) update(trigger string, change func(*model.Selection)) (*render.Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	change(&b.sel)
	sel := b.sel.Normalize()

	start := time.Now()
	rows := filter.Apply(b.snap, sel)
	res, err := render.Pass(b.snap, sel, rows, b.widget)
	if err != nil {
		return nil, err
	}
	metrics.ObserveRender(trigger, start, res.Count)
	return res, nil
}
