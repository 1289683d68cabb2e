package model

import "testing"

func TestJobTemplateRoundTrip(t *testing.T) {
	ws := NewWorkspace()
	ws.Demand = []DemandRow{NewDemandRow(2400, 4), NewDemandRow(950, 2)}
	ws.Demand[0].Label = "rail"
	ws.Config.Kerf = 3

	tmpl := NewJobTemplate("frame", "", ws)
	ws.Demand[0].Length = 1 // later edits must not leak into the template

	if tmpl.Demand[0].Length != 2400 {
		t.Fatalf("template demand was not copied, got length %v", tmpl.Demand[0].Length)
	}

	target := NewWorkspace()
	target.Inventory = []InventoryRow{NewInventoryRow(6000, 1)}
	tmpl.ApplyTo(&target)

	if len(target.Demand) != 2 {
		t.Fatalf("expected 2 demand rows, got %d", len(target.Demand))
	}
	if target.Demand[0].ID == tmpl.Demand[0].ID {
		t.Error("applied rows should get fresh IDs")
	}
	if target.Demand[0].Label != "rail" {
		t.Errorf("expected label rail, got %q", target.Demand[0].Label)
	}
	if target.Config.Kerf != 3 {
		t.Errorf("expected kerf 3, got %v", target.Config.Kerf)
	}
	if len(target.Inventory) != 1 {
		t.Error("inventory should be left alone")
	}
}

func TestTemplateStorePutReplacesByName(t *testing.T) {
	store := NewTemplateStore()
	ws := NewWorkspace()

	first := NewJobTemplate("frame", "v1", ws)
	store.Put(first)
	store.Put(NewJobTemplate("gate", "", ws))
	store.Put(NewJobTemplate("frame", "v2", ws))

	if len(store.Templates) != 2 {
		t.Fatalf("expected 2 templates, got %d", len(store.Templates))
	}
	got := store.FindByName("frame")
	if got == nil || got.Description != "v2" {
		t.Fatalf("expected replaced frame template, got %+v", got)
	}
	if got.ID != first.ID {
		t.Error("replacing a template should keep its ID")
	}

	if !store.Remove("gate") {
		t.Error("expected gate to be removed")
	}
	if store.Remove("gate") {
		t.Error("removing twice should report false")
	}
	if names := store.Names(); len(names) != 1 || names[0] != "frame" {
		t.Errorf("unexpected names %v", names)
	}
}
