// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/veracity/internal/runs"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Browse the training run registry (list, export)",
	Long: `Runs reads the SQLite registry that train writes one row to per
completed run.`,
}

// --- list subcommand ---

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent training runs, newest first",
	RunE:  runRunsList,
}

func runRunsList(cmd *cobra.Command, args []string) error {
	store, err := openRegistry(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	list, err := store.List(context.Background(), limit)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		if list == nil {
			list = []runs.Run{}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}

	if len(list) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-20s  %7s  %7s  %6s  %8s  %8s\n",
		"ID", "Started", "Rows", "Dropped", "Width", "Train", "Holdout")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 104))
	for _, r := range list {
		holdout := "-"
		if r.HoldoutRows > 0 {
			holdout = fmt.Sprintf("%.4f", r.HoldoutAccuracy)
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-20s  %7d  %7d  %6d  %8.4f  %8s\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Rows, r.DroppedRows,
			r.FeatureWidth, r.TrainAccuracy, holdout)
	}
	fmt.Fprintf(os.Stdout, "\n%d runs\n", len(list))
	return nil
}

// --- export subcommand ---

var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every recorded run to YAML or JSON on stdout",
	RunE:  runRunsExport,
}

func runRunsExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := openRegistry(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	switch format {
	case "yaml", "":
		return store.ExportYAML(context.Background(), os.Stdout)
	case "json":
		return store.ExportJSON(context.Background(), os.Stdout)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
}

// --- shared helpers ---

func openRegistry(cmd *cobra.Command) (*runs.Store, error) {
	path := cfg.Train.RegistryPath
	if cmd.Flags().Changed("registry") {
		path, _ = cmd.Flags().GetString("registry")
	}
	if path == "" {
		return nil, fmt.Errorf("no run registry configured: set train.registry_path or pass --registry")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("run registry %s: %w", path, err)
	}
	return runs.NewStore(path)
}

func init() {
	runsCmd.PersistentFlags().String("registry", "models/runs.db", "run registry database")

	runsListCmd.Flags().Int("limit", 20, "maximum runs to list (0 = all)")
	runsListCmd.Flags().Bool("json", false, "output runs as JSON")

	runsExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsExportCmd)
	rootCmd.AddCommand(runsCmd)
}
