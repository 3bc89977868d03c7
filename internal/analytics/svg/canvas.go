package svg

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"math"
	"strings"

	svgo "github.com/ajstarks/svgo"
)

// document renders an svgo canvas and returns it ready for inline use in
// HTML, without the XML prolog svgo writes.
func document(width, height int, title, desc string, draw func(canvas *svgo.SVG)) template.HTML {
	var buf bytes.Buffer
	canvas := svgo.New(&buf)
	canvas.Start(width, height, fmt.Sprintf(`viewBox="0 0 %d %d"`, width, height), `role="img"`)
	canvas.Title(title)
	canvas.Desc(desc)
	_, _ = io.WriteString(canvas.Writer, hoverStyle)
	draw(canvas)
	canvas.End()
	out := buf.String()
	if idx := strings.Index(out, "<svg"); idx > 0 {
		out = out[idx:]
	}
	return template.HTML(out)
}

// tooltipMark opens a hoverable group whose <title> is the tooltip. Callers
// close it with canvas.Gend.
func tooltipMark(canvas *svgo.SVG, class, tooltip string) {
	canvas.Group(fmt.Sprintf(`class="mark %s"`, class))
	canvas.Title(tooltip)
}

func px(v float64) int {
	return int(math.Round(v))
}

func attr(name, value string) string {
	return fmt.Sprintf(`%s="%s"`, name, template.HTMLEscapeString(value))
}
