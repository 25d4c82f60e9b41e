package components

import (
	"strings"
	"testing"

	"github.com/rebeliceyang/lazymongo/internal/models"
	"github.com/rebeliceyang/lazymongo/internal/ui/theme"
)

func TestConnectionDialog_ManualConfig(t *testing.T) {
	c := NewConnectionDialog(theme.DefaultTheme())
	c.ManualMode = true
	c.HandleInput("localhost:27017/shop")

	c.MoveSelection(2)
	c.HandleInput("orders")

	cfg, err := c.GetManualConfig()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.URI != "mongodb://localhost:27017/shop" {
		t.Errorf("Unexpected URI %q", cfg.URI)
	}
	if cfg.Database != "shop" {
		t.Errorf("Expected the database from the URI, got %q", cfg.Database)
	}
	if cfg.Collection != "orders" {
		t.Errorf("Expected collection orders, got %q", cfg.Collection)
	}
}

func TestConnectionDialog_ManualConfigErrors(t *testing.T) {
	c := NewConnectionDialog(theme.DefaultTheme())
	c.ManualMode = true

	if _, err := c.GetManualConfig(); err == nil {
		t.Error("Expected an error for the bare scheme")
	}

	c.URI = "postgres://localhost"
	if _, err := c.GetManualConfig(); err == nil {
		t.Error("Expected an error for a foreign scheme")
	}
}

func TestConnectionDialog_Backspace(t *testing.T) {
	c := NewConnectionDialog(theme.DefaultTheme())
	c.ManualMode = true
	c.URI = "mongodb://hôst"

	c.HandleBackspace()
	c.HandleBackspace()
	if c.URI != "mongodb://hô" {
		t.Errorf("Expected rune-wise deletion, got %q", c.URI)
	}
}

func TestConnectionDialog_Selection(t *testing.T) {
	c := NewConnectionDialog(theme.DefaultTheme())
	c.DiscoveredInstances = []models.DiscoveredInstance{
		{Host: "localhost", Port: 27017, URI: "mongodb://localhost:27017", Source: models.SourcePortScan},
		{Name: "prod/shop", URI: "mongodb://db.example.net", Source: models.SourceRecent, Database: "shop"},
	}

	c.MoveSelection(1)
	c.MoveSelection(1)
	inst := c.GetSelectedInstance()
	if inst == nil || inst.Source != models.SourceRecent {
		t.Fatalf("Expected the recent entry, got %+v", inst)
	}

	c.Width, c.Height = 70, 18
	view := c.View()
	if !strings.Contains(view, "prod/shop") || !strings.Contains(view, "localhost:27017") {
		t.Errorf("Expected both instances in view, got:\n%s", view)
	}

	c.ManualMode = true
	if c.GetSelectedInstance() != nil {
		t.Error("Expected no instance in manual mode")
	}
}
