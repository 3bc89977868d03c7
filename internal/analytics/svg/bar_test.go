package svg

import (
	"strings"
	"testing"
)

func TestBarsProducesSVG(t *testing.T) {
	html, err := Bars(420, 220, []Datum{
		{Label: "2", Value: 5, Color: "#60a5fa"},
		{Label: "6", Value: 9, Color: "#2563eb", Tooltip: "Intensity 6: 9 insights"},
	}, BarOpts{Title: "Intensity", Description: "Records per intensity", ShowValues: true})
	if err != nil {
		t.Fatalf("bars renderer error: %v", err)
	}
	output := string(html)
	if !strings.HasPrefix(output, "<svg") {
		t.Fatalf("expected svg output, got %s", output)
	}
	if strings.Count(output, "<rect") != 2 {
		t.Fatalf("expected one rect per datum")
	}
	if !strings.Contains(output, "<title>2: 5</title>") || !strings.Contains(output, "Intensity 6: 9 insights") {
		t.Fatalf("expected tooltips, got %s", output)
	}
	if !strings.Contains(output, ".bar:hover") {
		t.Fatalf("expected hover styling")
	}
}

func TestBarsHorizontalEscapesLabels(t *testing.T) {
	html, err := Bars(0, 0, []Datum{{Label: "Food & Agriculture", Value: 3}}, BarOpts{Title: "Sectors", Horizontal: true})
	if err != nil {
		t.Fatalf("bars renderer error: %v", err)
	}
	output := string(html)
	if !strings.Contains(output, "Food &amp; Agriculture") {
		t.Fatalf("expected escaped label")
	}
	if strings.Contains(output, "Food & Agriculture") {
		t.Fatalf("label was not escaped")
	}
}

func TestBarsEmpty(t *testing.T) {
	html, err := Bars(0, 0, nil, BarOpts{Title: "Sectors"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(html), EmptyMessage) {
		t.Fatalf("expected empty state")
	}
}
