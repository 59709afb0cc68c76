// ABOUTME: Partial-update patch types for offline-capable entities
// ABOUTME: Pointer fields distinguish "unset" from zero; Apply merges onto a cached copy
package models

import "time"

// ContactPatch carries the changed fields of a contact update. The JSON
// form is exactly the wire body sent to the server, so a queued patch
// replays the same partial update rather than a full snapshot.
type ContactPatch struct {
	Name            *string       `json:"name,omitempty"`
	Emails          *[]string     `json:"emails,omitempty"`
	Phones          *[]string     `json:"phones,omitempty"`
	WhatsAppNumber  *string       `json:"whatsappNumber,omitempty"`
	InstagramHandle *string       `json:"instagramHandle,omitempty"`
	Company         *string       `json:"company,omitempty"`
	Tags            *[]string     `json:"tags,omitempty"`
	Address         *string       `json:"address,omitempty"`
	Notes           *string       `json:"notes,omitempty"`
	Birthday        *CalendarDate `json:"birthday,omitempty"`
	Anniversary     *CalendarDate `json:"anniversary,omitempty"`
	ProfilePicture  *string       `json:"profilePicture,omitempty"`
	LastContactedAt *time.Time    `json:"lastContactedAt,omitempty"`
}

// Apply overwrites exactly the set fields of c, leaving the rest untouched.
func (p ContactPatch) Apply(c *Contact) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Emails != nil {
		c.Emails = *p.Emails
	}
	if p.Phones != nil {
		c.Phones = *p.Phones
	}
	if p.WhatsAppNumber != nil {
		c.WhatsAppNumber = *p.WhatsAppNumber
	}
	if p.InstagramHandle != nil {
		c.InstagramHandle = *p.InstagramHandle
	}
	if p.Company != nil {
		c.Company = *p.Company
	}
	if p.Tags != nil {
		c.Tags = *p.Tags
	}
	if p.Address != nil {
		c.Address = *p.Address
	}
	if p.Notes != nil {
		c.Notes = *p.Notes
	}
	if p.Birthday != nil {
		c.Birthday = p.Birthday
	}
	if p.Anniversary != nil {
		c.Anniversary = p.Anniversary
	}
	if p.ProfilePicture != nil {
		c.ProfilePicture = *p.ProfilePicture
	}
	if p.LastContactedAt != nil {
		c.LastContactedAt = p.LastContactedAt
	}
}

// MeetingPatch carries the changed fields of a meeting update.
type MeetingPatch struct {
	ContactID    *string    `json:"contactId,omitempty"`
	MeetingDate  *time.Time `json:"meetingDate,omitempty"`
	Medium       *string    `json:"medium,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
	Outcome      *string    `json:"outcome,omitempty"`
	FollowupDate *time.Time `json:"followupDate,omitempty"`
}

func (p MeetingPatch) Apply(m *Meeting) {
	if p.ContactID != nil {
		m.ContactID = *p.ContactID
	}
	if p.MeetingDate != nil {
		m.MeetingDate = *p.MeetingDate
	}
	if p.Medium != nil {
		m.Medium = *p.Medium
	}
	if p.Notes != nil {
		m.Notes = *p.Notes
	}
	if p.Outcome != nil {
		m.Outcome = *p.Outcome
	}
	if p.FollowupDate != nil {
		m.FollowupDate = p.FollowupDate
	}
}

// TemplatePatch carries the changed fields of a message-template update.
type TemplatePatch struct {
	Name    *string `json:"name,omitempty"`
	Type    *string `json:"type,omitempty"`
	Content *string `json:"content,omitempty"`
}

func (p TemplatePatch) Apply(t *MessageTemplate) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Content != nil {
		t.Content = *p.Content
	}
}
