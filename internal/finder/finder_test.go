package finder

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/phcfinder/internal/model"
)

func ptr(v float64) *float64 { return &v }

type stubLoader struct {
	snaps []*model.Snapshot
	errs  []error
	calls int
}

func (s *stubLoader) Load(context.Context) (*model.Snapshot, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	return s.snaps[i], nil
}

func sagamu(version string) *model.Snapshot {
	return &model.Snapshot{
		Version: version,
		Facilities: []model.Facility{
			{Name: "Ogijo PHC", Ward: "Ogijo", Lat: ptr(6.85), Lng: ptr(3.65)},
			{Name: "Sabo Health Centre", Ward: "Sabo", Lat: ptr(6.84), Lng: ptr(3.64)},
			{Name: "Isote Health Post", Ward: "Isote"},
		},
		Settings: model.Settings{
			OpeningHours: map[string]string{"Mon": "8am-4pm", "Tue": "8am-4pm"},
		},
		Clinics: model.ClinicSchedule{
			"Sabo": {Antenatal: []string{"Sat"}},
		},
	}
}

func TestAppInit(t *testing.T) {
	app := NewApp(&stubLoader{snaps: []*model.Snapshot{sagamu("v1")}})

	_, err := app.State()
	assert.ErrorIs(t, err, ErrNotLoaded)

	require.NoError(t, app.Init(context.Background()))
	st, err := app.State()
	require.NoError(t, err)

	assert.Equal(t, []string{"Isote", "Ogijo", "Sabo"}, st.Wards)
	require.NotNil(t, st.Viewport.Bounds)
	assert.Equal(t, 3, st.Initial.Count)
	assert.Len(t, st.Initial.Map.Markers, 2)
	assert.Equal(t, st.Viewport, st.Initial.Map.Viewport)
	assert.NoError(t, app.LastError())
}

func TestAppInitFailure(t *testing.T) {
	loadErr := errors.New("load phcs.json: dataset not found")
	app := NewApp(&stubLoader{errs: []error{loadErr}})

	err := app.Init(context.Background())
	assert.ErrorIs(t, err, loadErr)

	_, err = app.State()
	assert.ErrorIs(t, err, loadErr)
	assert.ErrorIs(t, app.LastError(), loadErr)
}

func TestAppReloadKeepsStateOnFailure(t *testing.T) {
	loadErr := errors.New("timeout")
	app := NewApp(&stubLoader{
		snaps: []*model.Snapshot{sagamu("v1"), nil, sagamu("v3")},
		errs:  []error{nil, loadErr, nil},
	})

	var reloaded []string
	app.OnReload(func(st *State) { reloaded = append(reloaded, st.Snapshot.Version) })

	require.NoError(t, app.Init(context.Background()))

	_, err := app.Reload(context.Background())
	assert.ErrorIs(t, err, loadErr)
	st, err := app.State()
	require.NoError(t, err)
	assert.Equal(t, "v1", st.Snapshot.Version)
	assert.ErrorIs(t, app.LastError(), loadErr)

	st, err = app.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v3", st.Snapshot.Version)
	assert.NoError(t, app.LastError())

	assert.Equal(t, []string{"v1", "v3"}, reloaded)
}

func TestAppSearch(t *testing.T) {
	app := NewApp(&stubLoader{snaps: []*model.Snapshot{sagamu("v1")}})
	_, _, err := app.Search(model.Selection{})
	assert.ErrorIs(t, err, ErrNotLoaded)

	require.NoError(t, app.Init(context.Background()))
	res, st, err := app.Search(model.Selection{Ward: " Sabo "})
	require.NoError(t, err)
	assert.Equal(t, "v1", st.Snapshot.Version)
	assert.Equal(t, "Sabo", res.Selection.Ward)
	require.Equal(t, 1, res.Count)
	assert.Equal(t, "Sabo Health Centre", res.Cards[0].Name)
}

func newBinder(t *testing.T) *Binder {
	t.Helper()
	app := NewApp(&stubLoader{snaps: []*model.Snapshot{sagamu("v1")}})
	require.NoError(t, app.Init(context.Background()))
	st, err := app.State()
	require.NoError(t, err)
	return NewBinder(st)
}

func TestBinderCombinesInputs(t *testing.T) {
	b := newBinder(t)

	res, err := b.SetDay("Sat")
	require.NoError(t, err)
	require.Equal(t, 1, res.Count)
	assert.Equal(t, "Sabo Health Centre", res.Cards[0].Name)

	res, err = b.SetWard("Ogijo")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count)
	assert.Empty(t, res.Map.Markers)

	res, err = b.SetDay("")
	require.NoError(t, err)
	require.Equal(t, 1, res.Count)
	assert.Equal(t, "Ogijo PHC", res.Cards[0].Name)

	assert.Equal(t, model.Selection{Ward: "Ogijo"}, b.Selection())
	assert.Equal(t, "v1", b.Version())
}

func TestBinderKeepsViewportWhenNothingIsGeocoded(t *testing.T) {
	b := newBinder(t)

	before, err := b.SetWard("Sabo")
	require.NoError(t, err)
	after, err := b.SetWard("Isote")
	require.NoError(t, err)

	assert.Equal(t, 1, after.Count)
	assert.Empty(t, after.Map.Markers)
	assert.Equal(t, before.Map.Viewport, after.Map.Viewport)
}

func TestBinderHandle(t *testing.T) {
	b := newBinder(t)

	res, err := b.Handle(Input{Field: FieldQuery, Value: "ogijo"})
	require.NoError(t, err)
	require.NotZero(t, res.Count)
	assert.Equal(t, "Ogijo PHC", res.Cards[0].Name)

	_, err = b.Handle(Input{Field: "query", Value: ""})
	require.NoError(t, err)
	_, err = b.Handle(Input{Field: FieldWard, Value: "Sabo"})
	require.NoError(t, err)
	res, err = b.Handle(Input{Field: FieldDay, Value: "Mon"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)

	_, err = b.Handle(Input{Field: "colour", Value: "red"})
	assert.Error(t, err)
	assert.Equal(t, model.Selection{Ward: "Sabo", Day: "Mon"}, b.Selection())
}

func TestBindersAreIndependent(t *testing.T) {
	app := NewApp(&stubLoader{snaps: []*model.Snapshot{sagamu("v1")}})
	require.NoError(t, app.Init(context.Background()))
	st, _ := app.State()

	a, b := NewBinder(st), NewBinder(st)
	_, err := a.SetWard("Sabo")
	require.NoError(t, err)

	res, err := b.Apply(model.Selection{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Count)
	assert.Equal(t, model.Selection{Ward: "Sabo"}, a.Selection())
}
