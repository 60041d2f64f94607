package app

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/rbright/niriws/internal/compositor"
)

// renderWorkspaces writes one aligned "name monitor visibility" row per workspace.
func renderWorkspaces(w io.Writer, workspaces []compositor.Workspace) error {
	if len(workspaces) == 0 {
		return nil
	}

	tw := table.NewWriter()
	style := table.StyleDefault
	style.Name = "niriws"
	style.Options = table.OptionsNoBordersAndSeparators
	tw.SetStyle(style)

	for _, ws := range workspaces {
		monitor := ws.Monitor
		if monitor == "" {
			monitor = "-"
		}
		tw.AppendRow(table.Row{ws.Name, monitor, string(ws.Visibility)})
	}

	_, err := fmt.Fprintln(w, tw.Render())
	return err
}

// writeJSON encodes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeJSONLine encodes v on a single line.
func writeJSONLine(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}
