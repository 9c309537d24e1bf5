package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func writeDescriptor(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestLoadDescriptor_ServerYAML(t *testing.T) {
	path := writeDescriptor(t, "weather.yaml", `
kind: server
path: /weather
enabled: true
server:
  name: WeatherAPI
  description: get forecasts
  tags: [weather, climate]
  tools:
    - name: get_forecast
      description: returns forecast
      args_summary: location
`)

	desc, err := LoadDescriptor(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if desc.Kind != KindServer || desc.Path != "/weather" || !desc.Enabled {
		t.Errorf("header fields wrong: %+v", desc)
	}
	if desc.Server == nil {
		t.Fatal("server payload missing")
	}
	if desc.Server.Name != "WeatherAPI" || len(desc.Server.Tools) != 1 {
		t.Errorf("server payload wrong: %+v", desc.Server)
	}
	if desc.Server.Tools[0].ArgsSummary != "location" {
		t.Errorf("tool args lost: %+v", desc.Server.Tools[0])
	}
}

func TestLoadDescriptor_AgentJSON(t *testing.T) {
	path := writeDescriptor(t, "bot.json", `{
  "kind": "agent",
  "path": "/agents/bot1",
  "enabled": true,
  "agent": {
    "name": "Bot1",
    "description": "schedules meetings",
    "skills": [{"name": "calendar", "description": "manage calendar"}]
  }
}`)

	desc, err := LoadDescriptor(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if desc.Kind != KindAgent || desc.Agent == nil {
		t.Fatalf("agent payload missing: %+v", desc)
	}
	if len(desc.Agent.Skills) != 1 || desc.Agent.Skills[0].Name != "calendar" {
		t.Errorf("skills wrong: %+v", desc.Agent.Skills)
	}
}

func TestLoadDescriptor_Invalid(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"missing path", "kind: server\nserver:\n  name: x\n"},
		{"unknown kind", "kind: widget\npath: /x\n"},
		{"server without payload", "kind: server\npath: /x\n"},
		{"agent without payload", "kind: agent\npath: /x\n"},
		{"not yaml", "{{{{"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeDescriptor(t, "bad.yaml", tc.content)
			if _, err := LoadDescriptor(path); err == nil {
				t.Errorf("expected an error for %s", tc.name)
			}
		})
	}
}

func TestLoadDescriptor_MissingFile(t *testing.T) {
	if _, err := LoadDescriptor(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
