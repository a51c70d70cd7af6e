package render

import (
	"bytes"
	"html/template"
	"sync"

	"github.com/Nixie-Tech-LLC/phcfinder/internal/model"
)

const (
	// BoundsPadding is added around the fitted markers on every side.
	BoundsPadding = 0.2

	FallbackZoom = 12
)

// FallbackCenter is roughly Sagamu, used when nothing can be placed on the map.
var FallbackCenter = model.LatLng{Lat: 6.848, Lng: 3.646}

type Marker struct {
	Position model.LatLng  `json:"position"`
	Name     string        `json:"name"`
	Popup    template.HTML `json:"popup"`
}

// Viewport is either a box to fit or a centre and zoom.
type Viewport struct {
	Bounds *model.Bounds `json:"bounds,omitempty"`
	Center model.LatLng  `json:"center"`
	Zoom   int           `json:"zoom,omitempty"`
}

type MapView struct {
	Markers  []Marker `json:"markers"`
	Viewport Viewport `json:"viewport"`
}

var popupTemplate = template.Must(template.New("popup").Parse(`<div><strong>{{.Name}}</strong></div>
<div><em>Ward:</em> {{.Ward}}</div>
<div><em>Address:</em> {{.Address}}</div>
<div><em>Directions:</em> {{.Directions}}</div>
<div style="margin-top:4px;"><a href="{{.MapsLink}}" target="_blank" rel="noopener">Open in Maps</a></div>`))

// InitialViewport fits every geocoded facility, or falls back to a fixed
// centre when there are none.
func InitialViewport(snap *model.Snapshot) Viewport {
	if vp, ok := fitViewport(snap.Facilities); ok {
		return vp
	}
	return Viewport{Center: FallbackCenter, Zoom: FallbackZoom}
}

// MapWidget owns a marker layer and viewport. Each Render replaces the
// markers; the viewport only moves when there is something to fit.
type MapWidget struct {
	mu       sync.Mutex
	markers  []Marker
	viewport Viewport
}

func NewMapWidget(initial Viewport) *MapWidget {
	return &MapWidget{markers: []Marker{}, viewport: initial}
}

func (w *MapWidget) Render(snap *model.Snapshot, facilities []model.Facility) (MapView, error) {
	markers := make([]Marker, 0, len(facilities))
	for _, f := range facilities {
		pos, ok := f.Coordinates()
		if !ok {
			continue
		}
		popup, err := popupHTML(f)
		if err != nil {
			return MapView{}, err
		}
		markers = append(markers, Marker{Position: pos, Name: f.DisplayName(), Popup: popup})
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.markers = markers
	if vp, ok := fitViewport(facilities); ok {
		w.viewport = vp
	}
	return MapView{Markers: w.markers, Viewport: w.viewport}, nil
}

func (w *MapWidget) View() MapView {
	w.mu.Lock()
	defer w.mu.Unlock()
	return MapView{Markers: w.markers, Viewport: w.viewport}
}

func fitViewport(facilities []model.Facility) (Viewport, bool) {
	points := make([]model.LatLng, 0, len(facilities))
	for _, f := range facilities {
		if pos, ok := f.Coordinates(); ok {
			points = append(points, pos)
		}
	}
	b, ok := model.BoundsOf(points)
	if !ok {
		return Viewport{}, false
	}
	padded := b.Pad(BoundsPadding)
	return Viewport{Bounds: &padded, Center: padded.Center()}, true
}

func popupHTML(f model.Facility) (template.HTML, error) {
	var buf bytes.Buffer
	err := popupTemplate.Execute(&buf, struct {
		Name, Ward, Address, Directions, MapsLink string
	}{f.DisplayName(), f.DisplayWard(), f.DisplayAddress(), f.DisplayDirections(), f.MapsLink()})
	if err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
