// ABOUTME: Reminder CLI commands: list, pending, dismiss
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/harperreed/kith/models"
	"github.com/harperreed/kith/store"
)

func printReminders(reminders []models.Reminder, offline bool) error {
	if offline {
		fmt.Println("(showing cached data, server unreachable)")
	}
	if len(reminders) == 0 {
		fmt.Println("No reminders")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tCONTACT\tSCHEDULED\tSTATUS")
	for _, r := range reminders {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Type, r.ContactID, r.ScheduledAt.Format("2006-01-02"), r.Status)
	}
	return w.Flush()
}

// ListRemindersCommand lists every reminder.
func ListRemindersCommand(ctx context.Context, s *store.Store, args []string) error {
	fs := flag.NewFlagSet("reminders list", flag.ExitOnError)
	_ = fs.Parse(args)

	reminders, offline, err := s.FetchReminders(ctx)
	if err != nil {
		return fmt.Errorf("failed to list reminders: %w", err)
	}
	return printReminders(reminders, offline)
}

// PendingRemindersCommand lists reminders that have not fired.
func PendingRemindersCommand(ctx context.Context, s *store.Store, args []string) error {
	fs := flag.NewFlagSet("reminders pending", flag.ExitOnError)
	_ = fs.Parse(args)

	reminders, offline, err := s.PendingReminders(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pending reminders: %w", err)
	}
	return printReminders(reminders, offline)
}

// DismissReminderCommand dismisses a reminder. Requires the server.
func DismissReminderCommand(ctx context.Context, s *store.Store, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: reminders dismiss <id>")
	}
	if _, err := s.DismissReminder(ctx, args[0]); err != nil {
		return fmt.Errorf("failed to dismiss reminder: %w", err)
	}
	fmt.Println("✓ Reminder dismissed")
	return nil
}
