// Package cli parses niriws command lines into a Parsed invocation.
package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// Command names one niriws subcommand.
type Command string

const (
	CommandWorkspaces Command = "workspaces"
	CommandFocus      Command = "focus"
	CommandWatch      Command = "watch"
	CommandDoctor     Command = "doctor"
	CommandVersion    Command = "version"
	CommandHelp       Command = "help"
)

// Parsed is one validated invocation.
type Parsed struct {
	Command    Command
	ConfigPath string
	Socket     string
	Verbose    bool
	JSON       bool
	// Reference is the raw workspace argument of focus.
	Reference string
	ShowHelp  bool
	// Help is the usage text of the command that asked for help.
	Help string
}

// Parse validates args without running anything. Every returned error is a
// usage error.
func Parse(args []string) (Parsed, error) {
	var parsed Parsed
	root := newRootCommand(&parsed)
	if args == nil {
		// cobra falls back to os.Args when given nil.
		args = []string{}
	}
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	if err := root.Execute(); err != nil {
		return Parsed{}, err
	}
	if parsed.Command == "" {
		parsed.Command = CommandHelp
		parsed.ShowHelp = true
	}
	if parsed.ShowHelp && parsed.Help == "" {
		parsed.Help = helpText(root)
	}
	return parsed, nil
}

// HelpText returns the top-level usage text.
func HelpText() string {
	return helpText(newRootCommand(&Parsed{}))
}

func helpText(cmd *cobra.Command) string {
	var b strings.Builder
	if cmd.Short != "" {
		b.WriteString(cmd.Short)
		b.WriteString("\n\n")
	}
	b.WriteString(cmd.UsageString())
	return b.String()
}

func newRootCommand(parsed *Parsed) *cobra.Command {
	var showVersion bool

	root := &cobra.Command{
		Use:           "niriws",
		Short:         "Query and drive niri workspaces over the compositor IPC socket",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				parsed.Command = CommandVersion
				return nil
			}
			parsed.Command = CommandHelp
			parsed.ShowHelp = true
			return nil
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		parsed.Command = CommandHelp
		parsed.ShowHelp = true
		parsed.Help = helpText(cmd)
	})

	flags := root.PersistentFlags()
	flags.StringVar(&parsed.ConfigPath, "config", "", "Config file path (default: $XDG_CONFIG_HOME/niriws/config.jsonc)")
	flags.StringVar(&parsed.Socket, "socket", "", "niri IPC socket path (default: $NIRI_SOCKET)")
	flags.BoolVarP(&parsed.Verbose, "verbose", "v", false, "Echo debug logs to stderr")
	root.Flags().BoolVar(&showVersion, "version", false, "Show version")

	workspaces := &cobra.Command{
		Use:   "workspaces",
		Short: "List workspaces",
		Args:  cobra.NoArgs,
		RunE:  selectCommand(parsed, CommandWorkspaces),
	}
	workspaces.Flags().BoolVar(&parsed.JSON, "json", false, "Print JSON instead of text")

	watch := &cobra.Command{
		Use:   "watch",
		Short: "Follow workspace changes until interrupted",
		Args:  cobra.NoArgs,
		RunE:  selectCommand(parsed, CommandWatch),
	}
	watch.Flags().BoolVar(&parsed.JSON, "json", false, "Print one JSON snapshot per line")

	root.AddCommand(
		workspaces,
		&cobra.Command{
			Use:   "focus <reference>",
			Short: "Focus a workspace by id or name",
			Long:  "A reference made only of digits is sent as a workspace id; anything else is a name.",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				parsed.Reference = args[0]
				return selectCommand(parsed, CommandFocus)(cmd, args)
			},
		},
		watch,
		&cobra.Command{
			Use:   "doctor",
			Short: "Run configuration and environment checks",
			Args:  cobra.NoArgs,
			RunE:  selectCommand(parsed, CommandDoctor),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Args:  cobra.NoArgs,
			RunE:  selectCommand(parsed, CommandVersion),
		},
	)

	return root
}

func selectCommand(parsed *Parsed, command Command) func(*cobra.Command, []string) error {
	return func(*cobra.Command, []string) error {
		parsed.Command = command
		return nil
	}
}
