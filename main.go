// ABOUTME: Entry point for the kith CLI
// ABOUTME: Wires config, database, API client, and store, then routes commands
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"github.com/harperreed/kith/api"
	"github.com/harperreed/kith/cli"
	"github.com/harperreed/kith/config"
	"github.com/harperreed/kith/db"
	"github.com/harperreed/kith/store"
	kithsync "github.com/harperreed/kith/sync"
)

const version = "0.1.0"

func main() {
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("kith version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	if err := run(args[0], args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(command string, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level := zerolog.WarnLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	database, err := db.OpenDatabase(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = database.Close() }()

	session, err := api.LoadSession()
	if err != nil {
		return err
	}
	opts := []api.Option{
		api.WithDeviceID(cfg.DeviceID),
		api.WithLogger(log),
		api.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
	}
	if session != nil {
		opts = append(opts, api.WithSession(session))
	}
	client := api.New(cfg.APIBaseURL, opts...)

	s := store.New(database, client, log)
	drainer := kithsync.NewDrainer(database, client, log)
	ctx := context.Background()

	switch command {
	case "login":
		return cli.LoginCommand(ctx, s, args)
	case "register":
		return cli.RegisterCommand(ctx, s, args)
	case "logout":
		return cli.LogoutCommand(s)
	case "whoami":
		return cli.WhoamiCommand(s)

	case "contacts":
		return runContacts(ctx, s, args)
	case "meetings":
		return runMeetings(ctx, s, args)
	case "templates":
		return runTemplates(ctx, s, args)
	case "reminders":
		return runReminders(ctx, s, args)
	case "shares":
		return runShares(ctx, s, args)

	case "dashboard":
		return cli.DashboardCommand(ctx, s, args)

	case "sync":
		if len(args) == 0 {
			return fmt.Errorf("sync requires a subcommand: now, status, daemon")
		}
		switch args[0] {
		case "now":
			return cli.SyncNowCommand(ctx, drainer, args[1:])
		case "status":
			return cli.SyncStatusCommand(database, args[1:])
		case "daemon":
			return cli.SyncDaemonCommand(drainer, cfg.SyncSchedule, log, args[1:])
		default:
			return fmt.Errorf("unknown sync subcommand %q", args[0])
		}

	default:
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func runContacts(ctx context.Context, s *store.Store, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("contacts requires a subcommand: add, list, show, update, delete, search")
	}
	switch args[0] {
	case "add":
		return cli.AddContactCommand(ctx, s, args[1:])
	case "list":
		return cli.ListContactsCommand(ctx, s, args[1:])
	case "show":
		return cli.ShowContactCommand(ctx, s, args[1:])
	case "update":
		return cli.UpdateContactCommand(ctx, s, args[1:])
	case "delete":
		return cli.DeleteContactCommand(ctx, s, args[1:])
	case "search":
		return cli.SearchContactsCommand(ctx, s, args[1:])
	default:
		return fmt.Errorf("unknown contacts subcommand %q", args[0])
	}
}

func runMeetings(ctx context.Context, s *store.Store, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("meetings requires a subcommand: log, list, update, delete, followups")
	}
	switch args[0] {
	case "log":
		return cli.LogMeetingCommand(ctx, s, args[1:])
	case "list":
		return cli.ListMeetingsCommand(ctx, s, args[1:])
	case "update":
		return cli.UpdateMeetingCommand(ctx, s, args[1:])
	case "delete":
		return cli.DeleteMeetingCommand(ctx, s, args[1:])
	case "followups":
		return cli.FollowupsCommand(ctx, s, args[1:])
	default:
		return fmt.Errorf("unknown meetings subcommand %q", args[0])
	}
}

func runTemplates(ctx context.Context, s *store.Store, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("templates requires a subcommand: add, list, update, delete, render")
	}
	switch args[0] {
	case "add":
		return cli.AddTemplateCommand(ctx, s, args[1:])
	case "list":
		return cli.ListTemplatesCommand(ctx, s, args[1:])
	case "update":
		return cli.UpdateTemplateCommand(ctx, s, args[1:])
	case "delete":
		return cli.DeleteTemplateCommand(ctx, s, args[1:])
	case "render":
		return cli.RenderTemplateCommand(ctx, s, args[1:])
	default:
		return fmt.Errorf("unknown templates subcommand %q", args[0])
	}
}

func runReminders(ctx context.Context, s *store.Store, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("reminders requires a subcommand: list, pending, dismiss")
	}
	switch args[0] {
	case "list":
		return cli.ListRemindersCommand(ctx, s, args[1:])
	case "pending":
		return cli.PendingRemindersCommand(ctx, s, args[1:])
	case "dismiss":
		return cli.DismissReminderCommand(ctx, s, args[1:])
	default:
		return fmt.Errorf("unknown reminders subcommand %q", args[0])
	}
}

func runShares(ctx context.Context, s *store.Store, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("shares requires a subcommand: add, list, update, revoke")
	}
	switch args[0] {
	case "add":
		return cli.ShareContactCommand(ctx, s, args[1:])
	case "list":
		return cli.ListSharesCommand(ctx, s, args[1:])
	case "update":
		return cli.UpdateShareCommand(ctx, s, args[1:])
	case "revoke":
		return cli.RevokeShareCommand(ctx, s, args[1:])
	default:
		return fmt.Errorf("unknown shares subcommand %q", args[0])
	}
}

func printUsage() {
	fmt.Println(`kith - personal relationship manager

Usage:
  kith <command> [subcommand] [flags]

Account:
  login          Sign in (--email, --password)
  register       Create an account (--email, --name, --password)
  logout         Sign out
  whoami         Show the signed-in account

Contacts:
  contacts add|list|show|update|delete|search

Meetings:
  meetings log|list|update|delete|followups

Templates:
  templates add|list|update|delete|render

Reminders:
  reminders list|pending|dismiss

Shares:
  shares add|list|update|revoke

Other:
  dashboard      Account summary
  sync now       Replay queued offline changes
  sync status    Show the pending queue
  sync daemon    Replay on a schedule until interrupted

Offline changes to contacts, meetings, and templates are stored locally
and queued; run "kith sync now" when back online.`)
}
