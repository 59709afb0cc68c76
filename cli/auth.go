// ABOUTME: Account CLI commands: login, register, logout, whoami
package cli

import (
	"context"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/harperreed/kith/store"
)

// promptPassword reads a password with echo disabled.
func promptPassword(label string) (string, error) {
	fmt.Printf("%s: ", label)
	passwordBytes, err := term.ReadPassword(syscall.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Println()
	return string(passwordBytes), nil
}

// LoginCommand signs in to the server and stores the session.
func LoginCommand(ctx context.Context, s *store.Store, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "Account email (required)")
	password := fs.String("password", "", "Account password (prompted when omitted)")
	_ = fs.Parse(args)

	if *email == "" {
		return fmt.Errorf("--email is required")
	}
	pw := *password
	if pw == "" {
		var err error
		pw, err = promptPassword("Password")
		if err != nil {
			return err
		}
	}

	user, err := s.Login(ctx, *email, pw)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	fmt.Printf("✓ Signed in as %s <%s>\n", user.Name, user.Email)
	return nil
}

// RegisterCommand creates an account and signs in.
func RegisterCommand(ctx context.Context, s *store.Store, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	email := fs.String("email", "", "Account email (required)")
	name := fs.String("name", "", "Display name (required)")
	password := fs.String("password", "", "Account password (prompted when omitted)")
	_ = fs.Parse(args)

	if *email == "" || *name == "" {
		return fmt.Errorf("--email and --name are required")
	}
	pw := *password
	if pw == "" {
		var err error
		pw, err = promptPassword("Password")
		if err != nil {
			return err
		}
	}

	user, err := s.Register(ctx, *email, pw, *name)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	fmt.Printf("✓ Account created: %s <%s>\n", user.Name, user.Email)
	return nil
}

// LogoutCommand discards the stored session.
func LogoutCommand(s *store.Store) error {
	if err := s.Logout(); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	fmt.Println("✓ Signed out")
	return nil
}

// WhoamiCommand shows the signed-in account.
func WhoamiCommand(s *store.Store) error {
	user := s.CurrentUser()
	if user == nil {
		fmt.Println("Not signed in")
		return nil
	}
	fmt.Printf("%s <%s>\n", user.Name, user.Email)
	if user.Timezone != "" {
		fmt.Printf("Timezone: %s\n", user.Timezone)
	}
	return nil
}
