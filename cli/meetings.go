// ABOUTME: Meeting CLI commands for logging and reviewing interactions
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/harperreed/kith/models"
	"github.com/harperreed/kith/store"
)

// LogMeetingCommand records an interaction with a contact.
func LogMeetingCommand(ctx context.Context, s *store.Store, args []string) error {
	fs := flag.NewFlagSet("meetings log", flag.ExitOnError)
	contactID := fs.String("contact", "", "Contact id (required)")
	date := fs.String("date", "", "Meeting date as YYYY-MM-DD (default today)")
	medium := fs.String("medium", models.MediumInPerson, "How you met: phone_call, whatsapp, email, sms, in_person, video_call, instagram_dm, other")
	notes := fs.String("notes", "", "What was discussed")
	outcome := fs.String("outcome", "", "Outcome or next step")
	followup := fs.String("followup", "", "Follow-up date as YYYY-MM-DD")
	_ = fs.Parse(args)

	if *contactID == "" {
		return fmt.Errorf("--contact is required")
	}

	when := time.Now().UTC()
	if *date != "" {
		parsed, err := time.Parse("2006-01-02", *date)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
		when = parsed
	}

	meeting := &models.Meeting{
		ContactID:   *contactID,
		MeetingDate: when,
		Medium:      *medium,
		Notes:       *notes,
		Outcome:     *outcome,
	}
	if *followup != "" {
		parsed, err := time.Parse("2006-01-02", *followup)
		if err != nil {
			return fmt.Errorf("invalid --followup: %w", err)
		}
		meeting.FollowupDate = &parsed
	}

	created, offline, err := s.CreateMeeting(ctx, meeting)
	if err != nil {
		return fmt.Errorf("failed to log meeting: %w", err)
	}
	fmt.Printf("✓ Meeting logged (ID: %s)%s\n", created.ID, offlineNote(offline))
	return nil
}

// ListMeetingsCommand lists meetings, optionally for one contact.
func ListMeetingsCommand(ctx context.Context, s *store.Store, args []string) error {
	fs := flag.NewFlagSet("meetings list", flag.ExitOnError)
	contactID := fs.String("contact", "", "Only meetings with this contact")
	_ = fs.Parse(args)

	meetings, offline, err := s.FetchMeetings(ctx, *contactID)
	if err != nil {
		return fmt.Errorf("failed to list meetings: %w", err)
	}
	if offline {
		fmt.Println("(showing cached data, server unreachable)")
	}
	if len(meetings) == 0 {
		fmt.Println("No meetings")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tCONTACT\tMEDIUM\tNOTES")
	for _, m := range meetings {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			m.ID, m.MeetingDate.Format("2006-01-02"), m.ContactID, m.Medium, m.Notes)
	}
	return w.Flush()
}

// UpdateMeetingCommand applies a partial update to a meeting.
func UpdateMeetingCommand(ctx context.Context, s *store.Store, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: meetings update <id> [flags]")
	}
	id := args[0]

	fs := flag.NewFlagSet("meetings update", flag.ExitOnError)
	medium := fs.String("medium", "", "New medium")
	notes := fs.String("notes", "", "New notes")
	outcome := fs.String("outcome", "", "New outcome")
	followup := fs.String("followup", "", "New follow-up date as YYYY-MM-DD")
	_ = fs.Parse(args[1:])

	patch := &models.MeetingPatch{}
	var parseErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "medium":
			patch.Medium = medium
		case "notes":
			patch.Notes = notes
		case "outcome":
			patch.Outcome = outcome
		case "followup":
			parsed, err := time.Parse("2006-01-02", *followup)
			if err != nil {
				parseErr = fmt.Errorf("invalid --followup: %w", err)
				return
			}
			patch.FollowupDate = &parsed
		}
	})
	if parseErr != nil {
		return parseErr
	}

	_, offline, err := s.UpdateMeeting(ctx, id, patch)
	if err != nil {
		return fmt.Errorf("failed to update meeting: %w", err)
	}
	fmt.Printf("✓ Meeting updated%s\n", offlineNote(offline))
	return nil
}

// DeleteMeetingCommand removes a meeting.
func DeleteMeetingCommand(ctx context.Context, s *store.Store, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: meetings delete <id>")
	}
	offline, err := s.DeleteMeeting(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to delete meeting: %w", err)
	}
	fmt.Printf("✓ Meeting deleted%s\n", offlineNote(offline))
	return nil
}

// FollowupsCommand lists meetings that still need a follow-up.
func FollowupsCommand(ctx context.Context, s *store.Store, args []string) error {
	fs := flag.NewFlagSet("meetings followups", flag.ExitOnError)
	_ = fs.Parse(args)

	followups, offline, err := s.UpcomingFollowups(ctx)
	if err != nil {
		return fmt.Errorf("failed to list followups: %w", err)
	}
	if offline {
		fmt.Println("(showing cached data, server unreachable)")
	}
	if len(followups) == 0 {
		fmt.Println("No pending followups")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFOLLOW UP\tCONTACT\tOUTCOME")
	for _, m := range followups {
		due := "-"
		if m.FollowupDate != nil {
			due = m.FollowupDate.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.ID, due, m.ContactID, m.Outcome)
	}
	return w.Flush()
}
