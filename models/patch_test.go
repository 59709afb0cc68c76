package models

import (
	"encoding/json"
	"testing"
	"time"
)

func strp(s string) *string { return &s }

func TestContactPatchApply(t *testing.T) {
	base := Contact{
		ID:      "c1",
		Name:    "Ada Lovelace",
		Emails:  []string{"ada@example.com"},
		Company: "Analytical Engines",
		Tags:    []string{"math"},
		Notes:   "original",
	}

	tags := []string{"math", "computing"}
	patch := ContactPatch{Notes: strp("updated"), Tags: &tags}

	got := base
	patch.Apply(&got)

	if got.Notes != "updated" {
		t.Errorf("notes not applied: %q", got.Notes)
	}
	if len(got.Tags) != 2 {
		t.Errorf("tags not applied: %v", got.Tags)
	}
	// Untouched fields survive.
	if got.Name != base.Name || got.Company != base.Company || len(got.Emails) != 1 {
		t.Errorf("unrelated fields changed: %+v", got)
	}
}

func TestContactPatchJSONOmitsUnsetFields(t *testing.T) {
	patch := ContactPatch{Notes: strp("new")}
	data, err := json.Marshal(patch)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var wire map[string]any
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(wire) != 1 {
		t.Errorf("expected only the set field on the wire, got %v", wire)
	}
	if wire["notes"] != "new" {
		t.Errorf("got %v", wire["notes"])
	}
}

func TestMeetingPatchApply(t *testing.T) {
	when := time.Date(2026, time.May, 4, 15, 0, 0, 0, time.UTC)
	base := Meeting{ID: "m1", ContactID: "c1", MeetingDate: when, Medium: MediumPhoneCall, Notes: "old"}

	patch := MeetingPatch{Notes: strp("new")}
	got := base
	patch.Apply(&got)

	if got.Notes != "new" {
		t.Errorf("got %q", got.Notes)
	}
	if got.ContactID != "c1" || !got.MeetingDate.Equal(when) || got.Medium != MediumPhoneCall {
		t.Errorf("unrelated fields changed: %+v", got)
	}
}

func TestTemplatePatchApply(t *testing.T) {
	base := MessageTemplate{ID: "t1", Name: "Birthday", Type: TemplateBirthday, Content: "Happy bday {name}"}
	patch := TemplatePatch{Content: strp("Happy Birthday, {name}!")}
	got := base
	patch.Apply(&got)
	if got.Content != "Happy Birthday, {name}!" {
		t.Errorf("got %q", got.Content)
	}
	if got.Name != base.Name || got.Type != base.Type {
		t.Errorf("unrelated fields changed: %+v", got)
	}
}

func TestRenderTemplate(t *testing.T) {
	got := RenderTemplate("Hi {name}, long time no see! Hope all is well, {name}.", "Ada Lovelace")
	want := "Hi Ada, long time no see! Hope all is well, Ada."
	if got != want {
		t.Errorf("got %q", got)
	}
}

func TestDefaultMessage(t *testing.T) {
	if msg := DefaultMessage(TemplateBirthday, "Ada Lovelace"); msg == "" {
		t.Error("expected a birthday message")
	}
	if msg := DefaultMessage(TemplateCustom, "Ada"); msg != "" {
		t.Errorf("expected empty for custom, got %q", msg)
	}
}
