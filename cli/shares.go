// ABOUTME: Contact-sharing CLI commands; sharing requires the server
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/harperreed/kith/api"
	"github.com/harperreed/kith/models"
	"github.com/harperreed/kith/store"
)

// ShareContactCommand grants another user access to a contact.
func ShareContactCommand(ctx context.Context, s *store.Store, args []string) error {
	fs := flag.NewFlagSet("shares add", flag.ExitOnError)
	contactID := fs.String("contact", "", "Contact id (required)")
	email := fs.String("with", "", "Recipient's account email (required)")
	permission := fs.String("permission", models.PermissionView, "Permission: view or view_add")
	expires := fs.String("expires", "", "Expiry date as YYYY-MM-DD")
	note := fs.String("note", "", "Note for the recipient")
	_ = fs.Parse(args)

	if *contactID == "" || *email == "" {
		return fmt.Errorf("--contact and --with are required")
	}

	req := &api.ShareRequest{
		ContactID:       *contactID,
		SharedWithEmail: *email,
		Permission:      *permission,
		Note:            *note,
	}
	if *expires != "" {
		parsed, err := time.Parse("2006-01-02", *expires)
		if err != nil {
			return fmt.Errorf("invalid --expires: %w", err)
		}
		req.ExpiresAt = &parsed
	}

	share, err := s.ShareContact(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to share contact: %w", err)
	}
	fmt.Printf("✓ Shared %s with %s (%s)\n", share.ContactName, share.SharedWithName, share.Permission)
	return nil
}

// ListSharesCommand lists shares granted by or to this account.
func ListSharesCommand(ctx context.Context, s *store.Store, args []string) error {
	fs := flag.NewFlagSet("shares list", flag.ExitOnError)
	withMe := fs.Bool("with-me", false, "Show contacts shared with me instead of by me")
	_ = fs.Parse(args)

	var (
		shares []models.ShareResponse
		err    error
	)
	if *withMe {
		shares, err = s.SharesWithMe(ctx)
	} else {
		shares, err = s.SharesByMe(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to list shares: %w", err)
	}
	if len(shares) == 0 {
		fmt.Println("No shares")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCONTACT\tOWNER\tWITH\tPERMISSION\tEXPIRES")
	for _, share := range shares {
		expires := "-"
		if share.ExpiresAt != nil {
			expires = share.ExpiresAt.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			share.ID, share.ContactName, share.OwnerName, share.SharedWithName, share.Permission, expires)
	}
	return w.Flush()
}

// UpdateShareCommand changes a share's terms.
func UpdateShareCommand(ctx context.Context, s *store.Store, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: shares update <id> [flags]")
	}
	id := args[0]

	fs := flag.NewFlagSet("shares update", flag.ExitOnError)
	permission := fs.String("permission", models.PermissionView, "Permission: view or view_add")
	expires := fs.String("expires", "", "New expiry date as YYYY-MM-DD")
	note := fs.String("note", "", "New note")
	_ = fs.Parse(args[1:])

	update := &api.ShareUpdate{Permission: *permission, Note: *note}
	if *expires != "" {
		parsed, err := time.Parse("2006-01-02", *expires)
		if err != nil {
			return fmt.Errorf("invalid --expires: %w", err)
		}
		update.ExpiresAt = &parsed
	}

	share, err := s.UpdateShare(ctx, id, update)
	if err != nil {
		return fmt.Errorf("failed to update share: %w", err)
	}
	fmt.Printf("✓ Share updated (%s)\n", share.Permission)
	return nil
}

// RevokeShareCommand withdraws a share.
func RevokeShareCommand(ctx context.Context, s *store.Store, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: shares revoke <id>")
	}
	if err := s.RevokeShare(ctx, args[0]); err != nil {
		return fmt.Errorf("failed to revoke share: %w", err)
	}
	fmt.Println("✓ Share revoked")
	return nil
}
