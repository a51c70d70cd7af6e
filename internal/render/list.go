package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/Nixie-Tech-LLC/phcfinder/internal/model"
)

// Card is the list entry for one facility. Fallbacks are already applied.
type Card struct {
	Name       string   `json:"name"`
	Ward       string   `json:"ward"`
	Address    string   `json:"address"`
	Directions string   `json:"directions"`
	Services   []string `json:"services"`
	Clinics    []string `json:"clinics"`
	Hours      string   `json:"hours"`
	PhoneLink  string   `json:"phone_link,omitempty"`
	MapsLink   string   `json:"maps_link,omitempty"`
}

// tel: is not on html/template's URL allow list; the scheme is fixed by
// model.Facility.PhoneLink so only the number comes from the dataset.
var listTemplate = template.Must(template.New("list").Funcs(template.FuncMap{
	"telURL": func(s string) template.URL { return template.URL(s) },
}).Parse(`{{range .}}<div class="card">
  <h3>{{.Name}}</h3>
  <div class="meta"><strong>Ward:</strong> {{.Ward}}</div>
  <div class="meta"><strong>Address:</strong> {{.Address}}</div>
  <div class="meta"><strong>Directions:</strong> {{.Directions}}</div>
  <div class="badges">{{range .Services}}<span class="badge">{{.}}</span> {{end}}</div>
  <div class="badges">{{range .Clinics}}<span class="badge">{{.}}</span> {{end}}</div>
  <div class="meta"><strong>Opening hours:</strong> {{.Hours}}</div>
  <div class="actions">{{if .PhoneLink}}<a href="{{telURL .PhoneLink}}">Call</a>{{end}}{{if .MapsLink}} <a href="{{.MapsLink}}" target="_blank" rel="noopener">Open in Maps</a>{{end}}</div>
</div>
{{end}}`))

// Cards projects facilities into list cards in the given order.
func Cards(snap *model.Snapshot, facilities []model.Facility) []Card {
	services := snap.Settings.Services
	if services == nil {
		services = []string{}
	}
	hours := snap.Settings.HoursLine()

	cards := make([]Card, 0, len(facilities))
	for _, f := range facilities {
		clinics := snap.Clinics.For(f.Ward).Lines()
		if clinics == nil {
			clinics = []string{}
		}
		cards = append(cards, Card{
			Name:       f.DisplayName(),
			Ward:       f.DisplayWard(),
			Address:    f.DisplayAddress(),
			Directions: f.DisplayDirections(),
			Services:   services,
			Clinics:    clinics,
			Hours:      hours,
			PhoneLink:  f.PhoneLink(),
			MapsLink:   f.MapsLink(),
		})
	}
	return cards
}

// ListHTML renders the whole list region. Callers replace the region with
// the result; there is no incremental update.
func ListHTML(cards []Card) (template.HTML, error) {
	var buf bytes.Buffer
	if err := listTemplate.Execute(&buf, cards); err != nil {
		return "", fmt.Errorf("render list: %w", err)
	}
	return template.HTML(buf.String()), nil
}
