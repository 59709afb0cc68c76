// ABOUTME: Data models for relationship-manager entities
// ABOUTME: Defines Contact, Meeting, Reminder, MessageTemplate, Share, and User structs
package models

import (
	"time"
)

type Contact struct {
	ID              string        `json:"id"`
	UserID          string        `json:"userId"`
	Name            string        `json:"name"`
	Emails          []string      `json:"emails"`
	Phones          []string      `json:"phones"`
	WhatsAppNumber  string        `json:"whatsappNumber,omitempty"`
	InstagramHandle string        `json:"instagramHandle,omitempty"`
	Company         string        `json:"company,omitempty"`
	Tags            []string      `json:"tags"`
	Address         string        `json:"address,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	Birthday        *CalendarDate `json:"birthday,omitempty"`
	Anniversary     *CalendarDate `json:"anniversary,omitempty"`
	ProfilePicture  string        `json:"profilePicture,omitempty"`
	LastContactedAt *time.Time    `json:"lastContactedAt,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// MeetingMedium constants.
const (
	MediumPhoneCall   = "phone_call"
	MediumWhatsApp    = "whatsapp"
	MediumEmail       = "email"
	MediumSMS         = "sms"
	MediumInPerson    = "in_person"
	MediumVideoCall   = "video_call"
	MediumInstagramDM = "instagram_dm"
	MediumOther       = "other"
)

type Meeting struct {
	ID           string     `json:"id"`
	ContactID    string     `json:"contactId"`
	UserID       string     `json:"userId"`
	MeetingDate  time.Time  `json:"meetingDate"`
	Medium       string     `json:"medium"`
	Notes        string     `json:"notes,omitempty"`
	Outcome      string     `json:"outcome,omitempty"`
	FollowupDate *time.Time `json:"followupDate,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// ReminderType constants.
const (
	ReminderBirthday    = "birthday"
	ReminderAnniversary = "anniversary"
	ReminderFollowup    = "followup"
	ReminderNoContact   = "no_contact"
)

// ReminderStatus constants.
const (
	ReminderPending   = "pending"
	ReminderSent      = "sent"
	ReminderDismissed = "dismissed"
)

// Reminder is scheduled server-side; the client only lists, caches, and
// dismisses reminders.
type Reminder struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	ContactID   string     `json:"contactId"`
	Type        string     `json:"type"`
	ScheduledAt time.Time  `json:"scheduledAt"`
	SentAt      *time.Time `json:"sentAt,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// TemplateType constants.
const (
	TemplateFollowup    = "followup"
	TemplateBirthday    = "birthday"
	TemplateAnniversary = "anniversary"
	TemplateCustom      = "custom"
)

type MessageTemplate struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// SharePermission constants.
const (
	PermissionView    = "view"
	PermissionViewAdd = "view_add"
)

// Share links a contact to a recipient user. Shares are always
// server-sourced and never written to the local store.
type Share struct {
	ID               string     `json:"id"`
	ContactID        string     `json:"contactId"`
	OwnerUserID      string     `json:"ownerUserId"`
	SharedWithUserID string     `json:"sharedWithUserId"`
	Permission       string     `json:"permission"`
	ExpiresAt        *time.Time `json:"expiresAt,omitempty"`
	Note             string     `json:"note,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// ShareResponse is the server's expanded share record with the names and
// emails of both parties resolved.
type ShareResponse struct {
	Share
	ContactName     string `json:"contactName"`
	OwnerName       string `json:"ownerName"`
	OwnerEmail      string `json:"ownerEmail"`
	SharedWithName  string `json:"sharedWithName"`
	SharedWithEmail string `json:"sharedWithEmail"`
}

type NotificationPrefs struct {
	Push  bool `json:"push"`
	Email bool `json:"email"`
}

type UserSettings struct {
	BirthdayReminderDays    int               `json:"birthdayReminderDays"`
	AnniversaryReminderDays int               `json:"anniversaryReminderDays"`
	DefaultFollowupDays     int               `json:"defaultFollowupDays"`
	Theme                   string            `json:"theme"`
	NotificationPrefs       NotificationPrefs `json:"notificationPrefs"`
}

type User struct {
	ID             string       `json:"id"`
	Email          string       `json:"email"`
	Name           string       `json:"name"`
	ProfilePicture string       `json:"profilePicture,omitempty"`
	Timezone       string       `json:"timezone"`
	Settings       UserSettings `json:"settings"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// Queue operation constants.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Entity kind constants for the sync queue and change events.
const (
	KindContact  = "contact"
	KindMeeting  = "meeting"
	KindReminder = "reminder"
	KindTemplate = "template"
)

// QueueEntry is one pending local mutation awaiting replay against the
// remote API. Seq is assigned by the local store in insertion order.
type QueueEntry struct {
	Seq       int64     `json:"seq"`
	Op        string    `json:"op"`
	Kind      string    `json:"kind"`
	EntityID  string    `json:"entityId"`
	Payload   []byte    `json:"payload"`
	CreatedAt time.Time `json:"createdAt"`
}

// DashboardStats is the aggregate view of an account. The server computes
// the authoritative version; a degraded local version is derived from the
// cache when the server is unreachable.
type DashboardStats struct {
	TotalContacts         int       `json:"totalContacts"`
	MeetingsThisMonth     int       `json:"meetingsThisMonth"`
	UpcomingBirthdays     []Contact `json:"upcomingBirthdays"`
	UpcomingAnniversaries []Contact `json:"upcomingAnniversaries"`
	PendingFollowups      []Meeting `json:"pendingFollowups"`
	RecentlyContacted     []Contact `json:"recentlyContacted"`
	NeedsAttention        []Contact `json:"needsAttention"`
}
