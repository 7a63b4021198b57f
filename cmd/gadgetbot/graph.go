package main

import (
	"fmt"
	"text/tabwriter"

	"gadgetbot/internal/graph"

	"github.com/spf13/cobra"
)

var graphPath string

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Load the knowledge base and list the devices it defines",
	RunE:  runGraph,
}

func init() {
	graphCmd.Flags().StringVar(&graphPath, "path", "", "knowledge base file (defaults to KNOWLEDGE_BASE_PATH)")
	rootCmd.AddCommand(graphCmd)
}

func runGraph(cmd *cobra.Command, args []string) error {
	path := graphPath
	if path == "" {
		cfg, logger, err := loadConfigAndLogger()
		if err != nil {
			return err
		}
		defer logger.Sync()
		path = cfg.Graph.Path
	}

	store, err := graph.Load(path)
	if err != nil {
		return err
	}

	devices, err := store.Devices(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %s, %d triples, %d devices\n\n", path, store.Status(), store.Triples(), len(devices))

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tBRAND\tRAM\tSTORAGE\tPROCESSOR")
	for _, d := range devices {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dGB\t%dGB\t%s\n", d.ID, d.Model, d.Brand, d.RAM, d.Storage, d.Processor)
	}
	return w.Flush()
}
