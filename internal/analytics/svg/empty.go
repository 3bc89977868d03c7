package svg

import (
	"fmt"
	"html/template"
)

// EmptyMessage is shown when a chart has nothing to draw.
const EmptyMessage = "No data for the current filters"

// Empty renders the placeholder drawn instead of a chart with no marks.
func Empty(width, height int, title string) template.HTML {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	id := makeID(title, "empty")
	return template.HTML(fmt.Sprintf(
		"<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\" role=\"img\" aria-labelledby=\"%s\" class=\"chart-empty\"><title id=\"%s\">%s</title><text x=\"%d\" y=\"%d\" fill=\"#94a3b8\" font-size=\"14\" text-anchor=\"middle\">%s</text></svg>",
		width, height, id, id, template.HTMLEscapeString(title), width/2, height/2, EmptyMessage,
	))
}
