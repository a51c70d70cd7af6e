package render

import (
	"html/template"

	"github.com/Nixie-Tech-LLC/phcfinder/internal/model"
)

// Result is one full pass of the list and map renderers over a filtered set.
type Result struct {
	Selection model.Selection `json:"selection"`
	Count     int             `json:"count"`
	Cards     []Card          `json:"cards"`
	ListHTML  template.HTML   `json:"list_html"`
	Map       MapView         `json:"map"`
}

// Pass renders facilities to the list and to widget.
func Pass(snap *model.Snapshot, sel model.Selection, facilities []model.Facility, widget *MapWidget) (*Result, error) {
	cards := Cards(snap, facilities)
	list, err := ListHTML(cards)
	if err != nil {
		return nil, err
	}
	mv, err := widget.Render(snap, facilities)
	if err != nil {
		return nil, err
	}
	return &Result{
		Selection: sel,
		Count:     len(facilities),
		Cards:     cards,
		ListHTML:  list,
		Map:       mv,
	}, nil
}
