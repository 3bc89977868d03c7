package svg

import (
	"strings"
	"testing"
)

func TestLineProducesSVG(t *testing.T) {
	html, err := Line(400, 200, []float64{12, 30, 18}, []string{"2016", "2017", "2018"}, LineOpts{
		Title:       "Insights by year",
		Description: "Records per start year",
		ShowDots:    true,
	})
	if err != nil {
		t.Fatalf("line renderer error: %v", err)
	}
	output := string(html)
	if !strings.HasPrefix(output, "<svg") {
		t.Fatalf("expected svg output, got %s", output)
	}
	if !strings.Contains(output, "<path") {
		t.Fatalf("expected path element in svg")
	}
	if !strings.Contains(output, `role="img"`) || !strings.Contains(output, "<title>Insights by year</title>") {
		t.Fatalf("expected accessibility attributes")
	}
	if !strings.Contains(output, "<title>2017: 30</title>") {
		t.Fatalf("expected dot tooltip")
	}
	if strings.Count(output, "r=\"5\"") != 3 {
		t.Fatalf("expected one dot per year")
	}
}

func TestLineEscapesLabels(t *testing.T) {
	html, err := Line(400, 200, []float64{1}, []string{`<script>"x"</script>`}, LineOpts{ShowDots: true})
	if err != nil {
		t.Fatalf("line renderer error: %v", err)
	}
	if strings.Contains(string(html), "<script>") {
		t.Fatalf("label was not escaped: %s", html)
	}
}

func TestLineEmptyAndMismatch(t *testing.T) {
	html, err := Line(0, 0, nil, nil, LineOpts{Title: "Years"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(html), EmptyMessage) {
		t.Fatalf("expected empty state, got %s", html)
	}
	if _, err := Line(0, 0, []float64{1}, nil, LineOpts{}); err == nil {
		t.Fatalf("expected length mismatch error")
	}
}
