package main

import (
	"fmt"
	"io"
	"os"

	"github.com/loykin/cmdrec/internal/env"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	e := env.New()
	e.FromOS()
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, e); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "cmdrec:", err)
		os.Exit(1)
	}
}

// run executes one CLI invocation against the given streams and environment
// snapshot.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer, e *env.Env) error {
	c := &command{in: stdin, out: stdout, err: stderr, env: e, tempDir: os.TempDir}
	root := buildRoot(c)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	defer c.finish()
	return root.Execute()
}

// buildRoot creates the root command and its subcommands
func buildRoot(c *command) *cobra.Command {
	globalFlags := &GlobalFlags{}
	recordFlags := &RecordFlags{}

	root := createRootCommand(c, globalFlags)
	root.AddCommand(
		createRecordCommand(c, recordFlags),
		createStatusCommand(c),
		createStdoutCommand(c),
		createStderrCommand(c),
		createOutputCommand(c),
		createDeleteCommand(c),
		createExpireCommand(c),
	)
	return root
}

// createRootCommand creates the root command with persistent flags
func createRootCommand(c *command, flags *GlobalFlags) *cobra.Command {
	root := &cobra.Command{
		Use:   "cmdrec",
		Short: "Record and retrieve command results",
		Long: `cmdrec runs a command, stores its exit status, stdout and stderr under a
generated record ID, and prints them back later.

Examples:
  id=$(cmdrec record -- make test)
  cmdrec status $id
  cmdrec output $id
  cmdrec delete $id`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(*flags)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.BasePath, "base-path", "", "base path to store records in (default $CMDREC_BASE_PATH or <tmp>/cmdrec)")
	pf.StringVar(&flags.ConfigPath, "config", "", "path to TOML config file (optional)")
	pf.StringVar(&flags.LogLevel, "log-level", "", "diagnostic log level: debug, info, warn, error (default warn)")
	pf.StringVar(&flags.LogFormat, "log-format", "", "diagnostic log format: text or json")
	pf.StringVar(&flags.LogFile, "log-file", "", "write diagnostics to a rotated file instead of stderr")
	pf.StringVar(&flags.MetricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this file after the operation")

	return root
}

// createRecordCommand creates the record subcommand
func createRecordCommand(c *command, recordFlags *RecordFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record [flags] [--] <command> [args...]",
		Short: "Record the status and output of a command",
		Long: `Run a command, wait for it to exit and store its exit status, stdout and
stderr. The record ID is printed on success. Flags after the command name are
passed to the command.

Examples:
  cmdrec record echo hello
  cmdrec record --env LANG=C -- sh -c 'ls missing'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Record(args, *recordFlags)
		},
	}
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().StringArrayVar(&recordFlags.EnvKVs, "env", nil, "extra environment for the command as KEY=VALUE (repeatable)")
	cmd.Flags().StringVar(&recordFlags.WorkDir, "work-dir", "", "working directory for the command")
	return cmd
}

func createStatusCommand(c *command) *cobra.Command {
	return &cobra.Command{
		Use:   "status <record_id>",
		Short: "Print a previously recorded status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Status(args[0])
		},
	}
}

func createStdoutCommand(c *command) *cobra.Command {
	return &cobra.Command{
		Use:   "stdout <record_id>",
		Short: "Print previously recorded output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Stdout(args[0])
		},
	}
}

func createStderrCommand(c *command) *cobra.Command {
	return &cobra.Command{
		Use:   "stderr <record_id>",
		Short: "Print previously recorded error output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Stderr(args[0])
		},
	}
}

func createOutputCommand(c *command) *cobra.Command {
	return &cobra.Command{
		Use:   "output <record_id>",
		Short: "Print recorded stdout and stderr to their respective streams",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Output(args[0])
		},
	}
}

func createDeleteCommand(c *command) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <record_id>",
		Short: "Delete a record",
		Long:  "Delete a record. Deleting a record that does not exist is not an error.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Delete(args[0])
		},
	}
}

func createExpireCommand(c *command) *cobra.Command {
	return &cobra.Command{
		Use:   "expire",
		Short: "Expire all records",
		Long:  "Remove every record under the base path. A missing base path is not an error.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Expire()
		},
	}
}
