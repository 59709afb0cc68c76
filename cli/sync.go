// ABOUTME: Sync CLI commands: manual drain, queue status, background daemon
package cli

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"

	"github.com/harperreed/kith/db"
	kithsync "github.com/harperreed/kith/sync"
)

// SyncNowCommand drains the queue once, retrying transient failures.
func SyncNowCommand(ctx context.Context, drainer *kithsync.Drainer, args []string) error {
	fs := flag.NewFlagSet("sync now", flag.ExitOnError)
	budget := fs.Duration("timeout", 30*time.Second, "How long to keep retrying")
	_ = fs.Parse(args)

	applied, err := drainer.DrainWithRetry(ctx, *budget)
	if err != nil {
		return fmt.Errorf("sync incomplete after %d change(s): %w", applied, err)
	}
	if applied == 0 {
		fmt.Println("✓ Nothing to sync")
		return nil
	}
	fmt.Printf("✓ Synced %d change(s)\n", applied)
	return nil
}

// SyncStatusCommand shows what is waiting in the queue.
func SyncStatusCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("sync status", flag.ExitOnError)
	_ = fs.Parse(args)

	pending, err := db.PendingChanges(database)
	if err != nil {
		return fmt.Errorf("failed to read queue: %w", err)
	}
	if len(pending) == 0 {
		fmt.Println("Queue is empty")
		return nil
	}

	fmt.Printf("%d pending change(s):\n", len(pending))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEQ\tOP\tKIND\tENTITY\tQUEUED")
	for _, entry := range pending {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			entry.Seq, entry.Op, entry.Kind, entry.EntityID,
			entry.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

// SyncDaemonCommand drains the queue on a schedule until interrupted.
func SyncDaemonCommand(drainer *kithsync.Drainer, schedule string, log zerolog.Logger, args []string) error {
	fs := flag.NewFlagSet("sync daemon", flag.ExitOnError)
	_ = fs.Parse(args)

	daemon, err := kithsync.NewDaemon(drainer, schedule, log)
	if err != nil {
		return fmt.Errorf("bad sync schedule %q: %w", schedule, err)
	}

	daemon.Start()
	fmt.Printf("Sync daemon running (%s), press Ctrl-C to stop\n", schedule)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	daemon.Stop()
	return nil
}
