package finder

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/phcfinder/internal/filter"
	"github.com/Nixie-Tech-LLC/phcfinder/internal/metrics"
	"github.com/Nixie-Tech-LLC/phcfinder/internal/model"
	"github.com/Nixie-Tech-LLC/phcfinder/internal/render"
)

// ErrNotLoaded is returned before the first successful load.
var ErrNotLoaded = errors.New("datasets not loaded")

// Loader produces a complete snapshot or an error.
type Loader interface {
	Load(ctx context.Context) (*model.Snapshot, error)
}

// State is everything derived from one snapshot at load time.
type State struct {
	Snapshot *model.Snapshot
	Wards    []string
	Viewport render.Viewport
	Initial  *render.Result
}

// App holds the current state. Reads are lock-free; a reload swaps the
// whole state at once.
type App struct {
	loader Loader

	state   atomic.Pointer[State]
	lastErr atomic.Pointer[error]

	mu        sync.Mutex
	listeners []func(*State)
}

func NewApp(l Loader) *App {
	return &App{loader: l}
}

// OnReload registers fn to run after every successful load.
func (a *App) OnReload(fn func(*State)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, fn)
}

// Init performs the first load. On failure the app stays unloaded and
// State reports the failure.
func (a *App) Init(ctx context.Context) error {
	_, err := a.Reload(ctx)
	return err
}

// Reload loads the datasets again. A failed reload keeps the previous state.
func (a *App) Reload(ctx context.Context) (*State, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	start := time.Now()
	snap, err := a.loader.Load(ctx)
	metrics.ObserveLoad(start, err)
	if err != nil {
		a.lastErr.Store(&err)
		return nil, err
	}

	st, err := prepare(snap)
	if err != nil {
		a.lastErr.Store(&err)
		return nil, err
	}
	a.state.Store(st)
	a.lastErr.Store(nil)
	metrics.FacilitiesLoaded.Set(float64(len(snap.Facilities)))

	for _, fn := range a.listeners {
		fn(st)
	}
	return st, nil
}

// State returns the current state. Without one it returns the last load
// error, or ErrNotLoaded.
func (a *App) State() (*State, error) {
	if st := a.state.Load(); st != nil {
		return st, nil
	}
	if errp := a.lastErr.Load(); errp != nil {
		return nil, *errp
	}
	return nil, ErrNotLoaded
}

// LastError is the error of the most recent load attempt, if it failed.
func (a *App) LastError() error {
	if errp := a.lastErr.Load(); errp != nil {
		return *errp
	}
	return nil
}

// Search runs one stateless pass for sel, starting from the initial viewport.
func (a *App) Search(sel model.Selection) (*render.Result, *State, error) {
	st, err := a.State()
	if err != nil {
		return nil, nil, err
	}
	res, err := NewBinder(st).Apply(sel)
	return res, st, err
}

// prepare runs the start-up sequence in order: wards, then the initial
// viewport, then the first render.
func prepare(snap *model.Snapshot) (*State, error) {
	st := &State{Snapshot: snap}
	st.Wards = filter.Wards(snap.Facilities)
	st.Viewport = render.InitialViewport(snap)

	start := time.Now()
	facilities := filter.Apply(snap, model.Selection{})
	first, err := render.Pass(snap, model.Selection{}, facilities, render.NewMapWidget(st.Viewport))
	if err != nil {
		return nil, err
	}
	metrics.ObserveRender("init", start, first.Count)
	st.Initial = first

	log.Info().
		Str("version", snap.Version).
		Int("wards", len(st.Wards)).
		Int("geocoded", snap.GeocodedCount()).
		Msg("finder ready")
	return st, nil
}
