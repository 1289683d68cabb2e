package model

import (
	"time"

	"github.com/google/uuid"
)

// JobTemplate is a reusable cut list with its stock settings. Owned bars and
// results are not part of a template.
type JobTemplate struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	CreatedAt   string      `json:"created_at"`
	UpdatedAt   string      `json:"updated_at"`
	Demand      []DemandRow `json:"demand"`
	Config      StockConfig `json:"config"`
}

// NewJobTemplate captures the workspace's demand and settings under name.
func NewJobTemplate(name, description string, ws Workspace) JobTemplate {
	now := time.Now().UTC().Format(time.RFC3339)
	demand := make([]DemandRow, len(ws.Demand))
	copy(demand, ws.Demand)
	return JobTemplate{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Demand:      demand,
		Config:      ws.Config,
	}
}

// ApplyTo replaces the workspace's demand and settings with the template's.
// Rows get fresh IDs so later edits do not touch the template.
func (t JobTemplate) ApplyTo(ws *Workspace) {
	demand := make([]DemandRow, len(t.Demand))
	for i, d := range t.Demand {
		demand[i] = NewDemandRow(d.Length, d.Quantity)
		demand[i].Label = d.Label
	}
	ws.Demand = demand
	ws.Config = t.Config
}

// TemplateStore holds the saved job templates.
type TemplateStore struct {
	Templates []JobTemplate `json:"templates"`
}

func NewTemplateStore() TemplateStore {
	return TemplateStore{Templates: []JobTemplate{}}
}

// Put adds t, replacing any template with the same name.
func (ts *TemplateStore) Put(t JobTemplate) {
	for i := range ts.Templates {
		if ts.Templates[i].Name == t.Name {
			t.ID = ts.Templates[i].ID
			t.CreatedAt = ts.Templates[i].CreatedAt
			ts.Templates[i] = t
			return
		}
	}
	ts.Templates = append(ts.Templates, t)
}

// Remove deletes the template with the given name. Returns true if found.
func (ts *TemplateStore) Remove(name string) bool {
	for i, t := range ts.Templates {
		if t.Name == name {
			ts.Templates = append(ts.Templates[:i], ts.Templates[i+1:]...)
			return true
		}
	}
	return false
}

// FindByName returns a pointer to the template with the given name, or nil.
func (ts *TemplateStore) FindByName(name string) *JobTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].Name == name {
			return &ts.Templates[i]
		}
	}
	return nil
}

func (ts *TemplateStore) Names() []string {
	names := make([]string, len(ts.Templates))
	for i, t := range ts.Templates {
		names[i] = t.Name
	}
	return names
}
