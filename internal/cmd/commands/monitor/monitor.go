package monitor

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/teamsnap-tools/teamsnap/internal/cmd/base"
	"github.com/teamsnap-tools/teamsnap/pkg/snapshot"
)

type Command struct {
	*base.Command

	// Fs holds the snapshot store. Defaults to the OS filesystem.
	Fs afero.Fs

	// Now stamps captured snapshots. Defaults to time.Now.
	Now func() time.Time

	client           base.ClientFlags
	snapshotDir      string
	save             bool
	compare          bool
	showDeprecations bool
	list             bool
}

func (c *Command) Synopsis() string {
	return "Detect API version, endpoint and deprecation changes"
}

func (c *Command) Help() string {
	return `Usage: teamsnap monitor [options]

  Capture the relations advertised by the API root, print them and store
  the capture as the latest snapshot. With -compare the capture is diffed
  against the previous snapshot first.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("monitor", flag.ContinueOnError))
	c.client.Register(f)
	f.StringVar(&c.snapshotDir, "snapshot-dir", "",
		"Directory of stored snapshots (default: monitor.snapshot_dir or api_snapshots)")
	f.BoolVar(&c.save, "save", false, "Save the current API state as a snapshot and exit")
	f.BoolVar(&c.compare, "compare", false, "Compare with the previous snapshot")
	f.BoolVar(&c.showDeprecations, "show-deprecations", false, "Show every deprecated endpoint")
	f.BoolVar(&c.list, "list", false, "List stored snapshots and exit")
	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	ctx, cancel := c.SignalContext()
	defer cancel()

	if err := c.run(ctx); err != nil {
		c.UI.Error(fmt.Sprintf("\nError: %v", err))
		return 1
	}
	return 0
}

func (c *Command) store(dir string) *snapshot.Store {
	if c.snapshotDir != "" {
		dir = c.snapshotDir
	}
	return snapshot.NewStore(c.Fs, dir)
}

func (c *Command) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Command) run(ctx context.Context) error {
	cfg, err := c.LoadConfig(&c.client)
	if err != nil {
		return err
	}
	store := c.store(cfg.Monitor.SnapshotDir)

	if c.list {
		return c.listSnapshots(store)
	}

	c.UI.Output("TeamSnap API Monitor")
	c.UI.Output("  Initializing client...")

	client, err := c.Client(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	c.UI.Output("\nFetching current API state...")
	root, err := client.Root(ctx)
	if err != nil {
		return err
	}
	current := snapshot.Capture(root, c.now())

	if c.save {
		c.Section("Saving API Snapshot")
		if err := c.saveSnapshot(store, current); err != nil {
			return err
		}
		c.UI.Info("\n✓ Snapshot saved successfully")
		return nil
	}

	c.printState(current)

	if c.showDeprecations {
		c.Section("Deprecation Details")
		deprecated := client.CheckForDeprecations(ctx, "/")
		if len(deprecated) == 0 {
			c.UI.Info("\nNo deprecated endpoints found")
		}
		for _, l := range deprecated {
			c.UI.Warn(fmt.Sprintf("\n  %s", l.Rel))
			c.UI.Output(fmt.Sprintf("   Description: %s", l.Prompt))
			c.UI.Output(fmt.Sprintf("   URL: %s", l.Href))
		}
	}

	if c.compare {
		if err := c.comparePrevious(store, current); err != nil {
			return err
		}
	}

	if err := c.saveSnapshot(store, current); err != nil {
		return err
	}

	dir, err := filepath.Abs(store.Dir())
	if err != nil {
		dir = store.Dir()
	}
	c.Section("✓ Monitoring Complete")
	c.UI.Output(fmt.Sprintf("\nSnapshots stored in: %s", dir))
	c.UI.Output("\nUsage:")
	c.UI.Output("  teamsnap monitor                     # Check current state")
	c.UI.Output("  teamsnap monitor -compare            # Compare with previous")
	c.UI.Output("  teamsnap monitor -show-deprecations  # Show details")

	return nil
}

func (c *Command) saveSnapshot(store *snapshot.Store, snap *snapshot.Snapshot) error {
	path, err := store.Save(snap)
	if err != nil {
		return err
	}
	c.UI.Info(fmt.Sprintf("✓ Snapshot saved to: %s", path))
	return nil
}

func (c *Command) printState(s *snapshot.Snapshot) {
	c.Section("TeamSnap API Current State")
	c.UI.Output(fmt.Sprintf("\nTimestamp: %s", s.Timestamp))
	c.UI.Output(fmt.Sprintf("API Version: %s", base.Display(s.Version, "unknown")))
	c.UI.Output("\nEndpoint Counts:")
	c.UI.Output(fmt.Sprintf("   Links: %d", s.TotalLinks))
	c.UI.Output(fmt.Sprintf("   Queries: %d", s.TotalQueries))
	c.UI.Output(fmt.Sprintf("   Commands: %d", s.TotalCommands))
	c.UI.Output(fmt.Sprintf("\nDeprecated Endpoints: %d", s.DeprecatedCount))

	if len(s.DeprecatedEndpoints) > 0 {
		c.UI.Output("\nCurrently Deprecated:")
		for _, e := range s.DeprecatedEndpoints {
			c.UI.Output(fmt.Sprintf("   - %s: %s", e.Rel, e.Href))
		}
	}
}

func (c *Command) comparePrevious(store *snapshot.Store, current *snapshot.Snapshot) error {
	c.Section("Comparing with Previous Snapshot")

	previous, err := store.Latest()
	if errors.Is(err, snapshot.ErrNoSnapshot) {
		c.UI.Warn("\nNo previous snapshot found")
		c.UI.Output("   Run with -save to create the first snapshot")
		return nil
	}
	if err != nil {
		return err
	}

	c.UI.Output(fmt.Sprintf("\nPrevious snapshot: %s", previous.Timestamp))
	c.UI.Output(fmt.Sprintf("Current check: %s", current.Timestamp))

	changes := snapshot.Diff(previous, current)
	c.printChanges(changes)
	if changes.HasChanges() {
		c.UI.Output("\nTip: Review changes and update your integration if needed")
	}
	return nil
}

func (c *Command) printChanges(ch *snapshot.Changes) {
	c.SubSection("API Change Detection")

	if ch.VersionChanged {
		c.UI.Warn("\nVERSION CHANGE DETECTED!")
		c.UI.Output(fmt.Sprintf("   Old: %s", ch.OldVersion))
		c.UI.Output(fmt.Sprintf("   New: %s", ch.NewVersion))
	}

	if len(ch.NewEndpoints) > 0 {
		c.UI.Output(fmt.Sprintf("\nNEW ENDPOINTS (%d):", len(ch.NewEndpoints)))
		for _, rel := range ch.NewEndpoints {
			c.UI.Output("   + " + rel)
		}
	}

	if len(ch.RemovedEndpoints) > 0 {
		c.UI.Output(fmt.Sprintf("\nREMOVED ENDPOINTS (%d):", len(ch.RemovedEndpoints)))
		for _, rel := range ch.RemovedEndpoints {
			c.UI.Output("   - " + rel)
		}
	}

	if len(ch.NewDeprecations) > 0 {
		c.UI.Warn(fmt.Sprintf("\nNEWLY DEPRECATED (%d):", len(ch.NewDeprecations)))
		for _, rel := range ch.NewDeprecations {
			c.UI.Warn("   ! " + rel)
		}
	}

	if ch.DeprecatedCountChanged && len(ch.NewDeprecations) == 0 {
		c.UI.Output("\nDeprecation count changed (may indicate removals)")
	}

	if !ch.HasChanges() {
		c.UI.Info("\nNo API changes detected")
		c.UI.Output("   The API appears stable since the last snapshot.")
	}
}

func (c *Command) listSnapshots(store *snapshot.Store) error {
	names, err := store.List()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		c.UI.Output(fmt.Sprintf("No snapshots in %s", store.Dir()))
		return nil
	}
	for _, name := range names {
		c.UI.Output(filepath.Join(store.Dir(), name))
	}
	return nil
}
