// ABOUTME: CLI commands for the Charm cloud backup of the ledger
// ABOUTME: SSH key auth means link/status/now need no login step

package charm

import (
	"flag"
	"fmt"
	"io"

	"github.com/harperreed/daftar/config"
)

// LinkCommand links this device to a Charm account and turns the cloud
// backup on. Charm authenticates with the local SSH key.
func LinkCommand(w io.Writer, c *Client, appCfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("cloud link", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "Linking to Charm Cloud (%s)...\n\n", c.Config().Host)

	if err := c.Sync(); err != nil {
		return fmt.Errorf("link failed: %w", err)
	}

	id, err := c.ID()
	if err != nil {
		_, _ = fmt.Fprintln(w, "✓ Device linked (ID unavailable)")
	} else {
		_, _ = fmt.Fprintf(w, "✓ Linked to account: %s\n", id)
	}

	appCfg.Charm.Enabled = true
	if err := config.Save(appCfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	_, _ = fmt.Fprintf(w, "✓ Auto-sync: %v\n", c.Config().AutoSync)
	_, _ = fmt.Fprintln(w, "\nThe ledger is now backed up to Charm Cloud.")
	return nil
}

// StatusCommand shows the cloud backup configuration and connection state.
func StatusCommand(w io.Writer, c *Client, appCfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("cloud status", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(w, "Charm Backup Status")
	_, _ = fmt.Fprintln(w, "───────────────────")
	_, _ = fmt.Fprintf(w, "Enabled:   %v\n", appCfg.Charm.Enabled)
	if c == nil {
		_, _ = fmt.Fprintln(w, "\nStatus: Not connected")
		return nil
	}

	_, _ = fmt.Fprintf(w, "Server:    %s\n", c.Config().Host)
	_, _ = fmt.Fprintf(w, "Auto-sync: %v\n", c.Config().AutoSync)

	if c.IsConnected() {
		_, _ = fmt.Fprintln(w, "\nStatus: Connected to Charm Cloud")
	} else {
		_, _ = fmt.Fprintln(w, "\nStatus: Not connected")
	}

	if keys, err := c.Keys(); err == nil {
		_, _ = fmt.Fprintf(w, "Keys:      %d\n", len(keys))
	}
	return nil
}

// UnlinkCommand turns the cloud backup off. Charm has no unlink API, so the
// SSH key has to be removed from the account by hand.
func UnlinkCommand(w io.Writer, appCfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("cloud unlink", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	appCfg.Charm.Enabled = false
	if err := config.Save(appCfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	_, _ = fmt.Fprintln(w, "✓ Cloud backup disabled")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "To unlink this device completely, remove its SSH key from your Charm account.")
	_, _ = fmt.Fprintf(w, "The local ledger is kept in %s\n", appCfg.StatePath())
	return nil
}

// WipeCommand deletes every key in the charm KV store.
func WipeCommand(w io.Writer, c *Client, args []string) error {
	fs := flag.NewFlagSet("cloud wipe", flag.ContinueOnError)
	confirm := fs.Bool("confirm", false, "Confirm data wipe")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*confirm {
		_, _ = fmt.Fprintln(w, "WARNING: This will delete the backed up ledger!")
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "To confirm, run:")
		_, _ = fmt.Fprintln(w, "  daftar cloud wipe --confirm")
		return nil
	}

	if err := c.Reset(); err != nil {
		return fmt.Errorf("failed to reset KV store: %w", err)
	}

	_, _ = fmt.Fprintln(w, "✓ Cloud backup wiped")
	return nil
}

// NowCommand performs an immediate sync.
func NowCommand(w io.Writer, c *Client, args []string) error {
	fs := flag.NewFlagSet("cloud now", flag.ContinueOnError)
	verbose := fs.Bool("verbose", false, "Show verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *verbose {
		_, _ = fmt.Fprintln(w, "Syncing with server...")
	}

	if err := c.Sync(); err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	_, _ = fmt.Fprintln(w, "✓ Synced")
	return nil
}

// AutoCommand enables or disables auto-sync.
func AutoCommand(w io.Writer, appCfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("cloud auto", flag.ContinueOnError)
	enable := fs.Bool("enable", false, "Enable auto-sync")
	disable := fs.Bool("disable", false, "Disable auto-sync")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *enable == *disable {
		_, _ = fmt.Fprintln(w, "Usage: daftar cloud auto --enable|--disable")
		return nil
	}

	appCfg.Charm.AutoSync = *enable
	if err := config.Save(appCfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	if *enable {
		_, _ = fmt.Fprintln(w, "✓ Auto-sync enabled")
	} else {
		_, _ = fmt.Fprintln(w, "✓ Auto-sync disabled")
	}
	return nil
}
