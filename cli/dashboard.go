// ABOUTME: Dashboard CLI command summarizing the account
package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/harperreed/kith/store"
)

// DashboardCommand prints the account summary, computed locally when the
// server is unreachable.
func DashboardCommand(ctx context.Context, s *store.Store, args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ExitOnError)
	_ = fs.Parse(args)

	stats, offline, err := s.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to load dashboard: %w", err)
	}
	if offline {
		fmt.Println("(computed from cached data, server unreachable)")
	}

	fmt.Printf("Contacts:            %d\n", stats.TotalContacts)
	fmt.Printf("Meetings this month: %d\n", stats.MeetingsThisMonth)

	if len(stats.UpcomingBirthdays) > 0 {
		fmt.Println("\nUpcoming birthdays:")
		for _, c := range stats.UpcomingBirthdays {
			fmt.Printf("  %s (%s)\n", c.Name, c.Birthday)
		}
	}
	if len(stats.UpcomingAnniversaries) > 0 {
		fmt.Println("\nUpcoming anniversaries:")
		for _, c := range stats.UpcomingAnniversaries {
			fmt.Printf("  %s (%s)\n", c.Name, c.Anniversary)
		}
	}
	if len(stats.PendingFollowups) > 0 {
		fmt.Println("\nPending followups:")
		for _, m := range stats.PendingFollowups {
			due := "-"
			if m.FollowupDate != nil {
				due = m.FollowupDate.Format("2006-01-02")
			}
			fmt.Printf("  %s due %s\n", m.ContactID, due)
		}
	}
	if len(stats.NeedsAttention) > 0 {
		fmt.Println("\nNeeds attention:")
		for _, c := range stats.NeedsAttention {
			last := "never contacted"
			if c.LastContactedAt != nil {
				last = "last contacted " + c.LastContactedAt.Format("2006-01-02")
			}
			fmt.Printf("  %s (%s)\n", c.Name, last)
		}
	}
	return nil
}
