// ABOUTME: Contact CLI commands
// ABOUTME: Human-friendly commands for managing contacts, online or offline
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/harperreed/kith/models"
	"github.com/harperreed/kith/store"
)

// offlineNote renders the degraded-mode marker appended to command output.
func offlineNote(offline bool) string {
	if offline {
		return " (offline, queued for sync)"
	}
	return ""
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// AddContactCommand creates a contact.
func AddContactCommand(ctx context.Context, s *store.Store, args []string) error {
	fs := flag.NewFlagSet("contacts add", flag.ExitOnError)
	name := fs.String("name", "", "Contact name (required)")
	email := fs.String("email", "", "Email addresses, comma-separated")
	phone := fs.String("phone", "", "Phone numbers, comma-separated")
	company := fs.String("company", "", "Company name")
	tags := fs.String("tags", "", "Tags, comma-separated")
	notes := fs.String("notes", "", "Notes about the contact")
	birthday := fs.String("birthday", "", "Birthday as YYYY-MM-DD or MM-DD")
	anniversary := fs.String("anniversary", "", "Anniversary as YYYY-MM-DD or MM-DD")
	_ = fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("--name is required")
	}

	contact := &models.Contact{
		Name:    *name,
		Emails:  splitList(*email),
		Phones:  splitList(*phone),
		Company: *company,
		Tags:    splitList(*tags),
		Notes:   *notes,
	}
	if *birthday != "" {
		d, err := models.ParseCalendarDate(*birthday)
		if err != nil {
			return fmt.Errorf("invalid --birthday: %w", err)
		}
		contact.Birthday = &d
	}
	if *anniversary != "" {
		d, err := models.ParseCalendarDate(*anniversary)
		if err != nil {
			return fmt.Errorf("invalid --anniversary: %w", err)
		}
		contact.Anniversary = &d
	}

	created, offline, err := s.CreateContact(ctx, contact)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	fmt.Printf("✓ Contact created: %s (ID: %s)%s\n", created.Name, created.ID, offlineNote(offline))
	return nil
}

// ListContactsCommand lists contacts in a table.
func ListContactsCommand(ctx context.Context, s *store.Store, args []string) error {
	fs := flag.NewFlagSet("contacts list", flag.ExitOnError)
	_ = fs.Parse(args)

	contacts, offline, err := s.FetchContacts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list contacts: %w", err)
	}
	if offline {
		fmt.Println("(showing cached data, server unreachable)")
	}
	if len(contacts) == 0 {
		fmt.Println("No contacts")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCOMPANY\tTAGS\tLAST CONTACTED")
	for _, c := range contacts {
		last := "-"
		if c.LastContactedAt != nil {
			last = c.LastContactedAt.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Company, strings.Join(c.Tags, ","), last)
	}
	return w.Flush()
}

// ShowContactCommand prints one contact in full.
func ShowContactCommand(ctx context.Context, s *store.Store, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: contacts show <id>")
	}
	contact, offline, err := s.GetContact(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to fetch contact: %w", err)
	}
	if offline {
		fmt.Println("(showing cached data, server unreachable)")
	}

	fmt.Printf("Name:     %s\n", contact.Name)
	fmt.Printf("ID:       %s\n", contact.ID)
	if len(contact.Emails) > 0 {
		fmt.Printf("Email:    %s\n", strings.Join(contact.Emails, ", "))
	}
	if len(contact.Phones) > 0 {
		fmt.Printf("Phone:    %s\n", strings.Join(contact.Phones, ", "))
	}
	if contact.Company != "" {
		fmt.Printf("Company:  %s\n", contact.Company)
	}
	if len(contact.Tags) > 0 {
		fmt.Printf("Tags:     %s\n", strings.Join(contact.Tags, ", "))
	}
	if contact.Birthday != nil {
		fmt.Printf("Birthday: %s\n", contact.Birthday)
	}
	if contact.Anniversary != nil {
		fmt.Printf("Anniv.:   %s\n", contact.Anniversary)
	}
	if contact.Notes != "" {
		fmt.Printf("Notes:    %s\n", contact.Notes)
	}
	return nil
}

// UpdateContactCommand applies a partial update to a contact.
func UpdateContactCommand(ctx context.Context, s *store.Store, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: contacts update <id> [flags]")
	}
	id := args[0]

	fs := flag.NewFlagSet("contacts update", flag.ExitOnError)
	name := fs.String("name", "", "New name")
	email := fs.String("email", "", "Replace email addresses, comma-separated")
	phone := fs.String("phone", "", "Replace phone numbers, comma-separated")
	company := fs.String("company", "", "New company")
	tags := fs.String("tags", "", "Replace tags, comma-separated")
	notes := fs.String("notes", "", "New notes")
	_ = fs.Parse(args[1:])

	patch := &models.ContactPatch{}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			patch.Name = name
		case "email":
			emails := splitList(*email)
			patch.Emails = &emails
		case "phone":
			phones := splitList(*phone)
			patch.Phones = &phones
		case "company":
			patch.Company = company
		case "tags":
			tagList := splitList(*tags)
			patch.Tags = &tagList
		case "notes":
			patch.Notes = notes
		}
	})

	updated, offline, err := s.UpdateContact(ctx, id, patch)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	fmt.Printf("✓ Contact updated: %s%s\n", updated.Name, offlineNote(offline))
	return nil
}

// DeleteContactCommand removes a contact.
func DeleteContactCommand(ctx context.Context, s *store.Store, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: contacts delete <id>")
	}
	offline, err := s.DeleteContact(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	fmt.Printf("✓ Contact deleted%s\n", offlineNote(offline))
	return nil
}

// SearchContactsCommand searches by free text and tags.
func SearchContactsCommand(ctx context.Context, s *store.Store, args []string) error {
	fs := flag.NewFlagSet("contacts search", flag.ExitOnError)
	query := fs.String("q", "", "Name or company substring")
	tags := fs.String("tags", "", "Tags, comma-separated")
	_ = fs.Parse(args)

	contacts, offline, err := s.SearchContacts(ctx, *query, splitList(*tags))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if offline {
		fmt.Println("(showing cached data, server unreachable)")
	}
	if len(contacts) == 0 {
		fmt.Println("No matches")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCOMPANY\tTAGS")
	for _, c := range contacts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Company, strings.Join(c.Tags, ","))
	}
	return w.Flush()
}
