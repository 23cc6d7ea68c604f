package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/agenda/internal/config"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  agenda config`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInteractive(cmd.InOrStdin(), cmd.OutOrStdout(), config.DefaultConfigPath())
		},
	}
}

func runConfigInteractive(in io.Reader, out io.Writer, configPath string) error {
	fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	_, fileErr := os.Stat(configPath)
	if os.IsNotExist(fileErr) {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", configPath)
	}

	printConfig(out, cfg)

	reader := bufio.NewReader(in)
	if !promptYesNo(reader, out, "\nWould you like to edit the configuration?") {
		return nil
	}

	cfg.Grid.Open = promptValue(reader, out, "Opening time", cfg.Grid.Open)
	cfg.Grid.Close = promptValue(reader, out, "Closing time", cfg.Grid.Close)
	cfg.Grid.SlotSize = promptInt(reader, out, "Slot size (minutes)", cfg.Grid.SlotSize)
	cfg.Storage.Driver = promptValue(reader, out, "Storage driver (sqlite/postgres)", cfg.Storage.Driver)
	cfg.Storage.DBPath = promptValue(reader, out, "Database path", cfg.Storage.DBPath)
	cfg.Storage.PostgresDSN = promptValue(reader, out, "Postgres DSN", cfg.Storage.PostgresDSN)
	cfg.Server.Addr = promptValue(reader, out, "Listen address", cfg.Server.Addr)
	cfg.Session.TenantID = int64(promptInt(reader, out, "Tenant", int(cfg.Session.TenantID)))

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out, "──────────────────────")
	fmt.Fprintln(out, "[grid]")
	fmt.Fprintf(out, "  open         = %s\n", cfg.Grid.Open)
	fmt.Fprintf(out, "  close        = %s\n", cfg.Grid.Close)
	fmt.Fprintf(out, "  slot         = %d\n", cfg.Grid.SlotSize)
	fmt.Fprintf(out, "  cell_height  = %g\n", cfg.Grid.CellHeight)
	fmt.Fprintln(out, "\n[storage]")
	fmt.Fprintf(out, "  driver       = %s\n", cfg.Storage.Driver)
	fmt.Fprintf(out, "  db_path      = %s\n", cfg.Storage.DBPath)
	if cfg.Storage.PostgresDSN != "" {
		fmt.Fprintf(out, "  postgres_dsn = %s\n", cfg.Storage.PostgresDSN)
	}
	fmt.Fprintln(out, "\n[server]")
	fmt.Fprintf(out, "  addr         = %s\n", cfg.Server.Addr)
	fmt.Fprintln(out, "\n[session]")
	fmt.Fprintf(out, "  user         = %d\n", cfg.Session.UserID)
	fmt.Fprintf(out, "  tenant       = %d\n", cfg.Session.TenantID)
	fmt.Fprintf(out, "  role         = %s\n", cfg.Session.Role)
}

func promptYesNo(reader *bufio.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, out io.Writer, label, current string) string {
	if current == "" {
		fmt.Fprintf(out, "  %s: ", label)
	} else {
		fmt.Fprintf(out, "  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(reader *bufio.Reader, out io.Writer, label string, current int) int {
	v := promptValue(reader, out, label, strconv.Itoa(current))
	n, err := strconv.Atoi(v)
	if err != nil {
		fmt.Fprintf(out, "  %q is not a number, keeping %d\n", v, current)
		return current
	}
	return n
}
