package observability

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type alertRule struct {
	Alert       string            `yaml:"alert"`
	Expr        string            `yaml:"expr"`
	For         string            `yaml:"for"`
	Labels      map[string]string `yaml:"labels"`
	Annotations map[string]string `yaml:"annotations"`
}

type alertGroup struct {
	Name  string      `yaml:"name"`
	Rules []alertRule `yaml:"rules"`
}

type alertSpec struct {
	Groups []alertGroup `yaml:"groups"`
}

func TestDashboardAlertRules(t *testing.T) {
	path := filepath.Join("..", "..", "deploy", "prometheus", "alerts", "insightboard.yml")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read alert file: %v", err)
	}

	var spec alertSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		t.Fatalf("failed to unmarshal alert file: %v", err)
	}

	if len(spec.Groups) == 0 {
		t.Fatal("expected at least one alert group")
	}

	var group *alertGroup
	for i := range spec.Groups {
		if spec.Groups[i].Name == "insightboard" {
			group = &spec.Groups[i]
			break
		}
	}
	if group == nil {
		t.Fatal("insightboard alert group missing")
	}

	expected := map[string]struct {
		severity string
		runbook  string
	}{
		"HighErrorRate":  {severity: "critical", runbook: "docs/runbook.md#high-error-rate"},
		"HighLatency":    {severity: "warning", runbook: "docs/runbook.md#high-latency"},
		"CacheMissSpike": {severity: "warning", runbook: "docs/runbook.md#cache-miss-spike"},
		"WarmupFailing":  {severity: "warning", runbook: "docs/runbook.md#warmup-failing"},
	}

	runbookPath := filepath.Join("..", "..", "docs", "runbook.md")
	runbook, err := os.ReadFile(runbookPath)
	if err != nil {
		t.Fatalf("failed to read runbook: %v", err)
	}
	anchors := runbookAnchors(string(runbook))

	if len(group.Rules) != len(expected) {
		t.Fatalf("expected %d rules, got %d", len(expected), len(group.Rules))
	}

	for _, rule := range group.Rules {
		want, ok := expected[rule.Alert]
		if !ok {
			t.Fatalf("unexpected rule %q", rule.Alert)
		}
		if rule.Labels["severity"] != want.severity {
			t.Fatalf("rule %s severity mismatch: %s", rule.Alert, rule.Labels["severity"])
		}
		if rule.Annotations["runbook"] != want.runbook {
			t.Fatalf("rule %s runbook mismatch: %s", rule.Alert, rule.Annotations["runbook"])
		}
		file, anchor, _ := strings.Cut(want.runbook, "#")
		if file != "docs/runbook.md" || !anchors[anchor] {
			t.Fatalf("rule %s runbook anchor %q has no matching section", rule.Alert, anchor)
		}
		if rule.Annotations["summary"] == "" || rule.Annotations["description"] == "" {
			t.Fatalf("rule %s must include summary and description annotations", rule.Alert)
		}
		if !strings.Contains(rule.Expr, "insightboard_") {
			t.Fatalf("rule %s must reference application metrics", rule.Alert)
		}
		if rule.Expr == "" {
			t.Fatalf("rule %s must define an expression", rule.Alert)
		}
		if rule.For == "" {
			t.Fatalf("rule %s must define a hold duration", rule.Alert)
		}
	}
}

// runbookAnchors returns the heading anchors of a markdown document.
func runbookAnchors(doc string) map[string]bool {
	anchors := make(map[string]bool)
	for _, line := range strings.Split(doc, "\n") {
		heading, ok := strings.CutPrefix(line, "## ")
		if !ok {
			continue
		}
		anchors[strings.ReplaceAll(strings.ToLower(strings.TrimSpace(heading)), " ", "-")] = true
	}
	return anchors
}
