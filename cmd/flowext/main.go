package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ddeutils/flowext/pkg/conn"
	"github.com/ddeutils/flowext/pkg/loader"
	"github.com/ddeutils/flowext/pkg/logger"
	"github.com/ddeutils/flowext/pkg/tasks"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	viper.SetEnvPrefix("FLOWEXT")
	viper.AutomaticEnv()

	var logLevel string

	root := &cobra.Command{
		Use:   "flowext",
		Short: "flowext - declarative connection, dataset, and task toolkit",
		Long: `flowext validates declarative schema configuration, checks connections
and dataset objects, and runs the data tasks registered with the engine.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Init(logger.Config{Level: logLevel})
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "error", "Log level (debug, info, warn, error)")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("flowext v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "dialects",
		Short: "List registered connection dialects",
		Run: func(cmd *cobra.Command, args []string) {
			for _, d := range conn.Dialects() {
				fmt.Printf("  - %s\n", d)
			}
		},
	})

	root.AddCommand(newValidateCmd())
	root.AddCommand(newPingCmd())
	root.AddCommand(newExistsCmd())
	root.AddCommand(newTasksCmd())
	root.AddCommand(newRunCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newValidateCmd() *cobra.Command {
	var asTable, printDDL bool

	cmd := &cobra.Command{
		Use:   "validate <config.yaml>",
		Short: "Validate a schema or table configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if asTable {
				table, err := loader.LoadTableFile(args[0])
				if err != nil {
					return err
				}
				if printDDL {
					fmt.Println(table.DDL())
					return nil
				}
				return printJSON(table)
			}

			schema, err := loader.LoadSchemaFile(args[0])
			if err != nil {
				return err
			}
			if printDDL {
				for _, stmt := range schema.DDL() {
					fmt.Println(stmt + ";")
				}
				return nil
			}
			return printJSON(schema)
		},
	}
	cmd.Flags().BoolVar(&asTable, "table", false, "Treat the file as a single table configuration")
	cmd.Flags().BoolVar(&printDDL, "ddl", false, "Print DDL instead of the parsed model")
	return cmd
}

func newPingCmd() *cobra.Command {
	var connFile, connURL string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that a connection target is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := resolveConn(connFile, connURL)
			if err != nil {
				return err
			}

			adapter, err := conn.Open(c)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			ok, err := adapter.Ping(ctx)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Printf("%s: unreachable\n", c.Spec())
				os.Exit(1)
			}
			fmt.Printf("%s: ok\n", c.Spec())
			return nil
		},
	}
	addConnFlags(cmd, &connFile, &connURL)
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Ping timeout")
	return cmd
}

func newExistsCmd() *cobra.Command {
	var connFile, connURL string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "exists <object>",
		Short: "Check that an object exists on a connection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := resolveConn(connFile, connURL)
			if err != nil {
				return err
			}

			adapter, err := conn.Open(c)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			ok, err := adapter.Exists(ctx, args[0])
			if err != nil {
				return err
			}
			if !ok {
				fmt.Printf("%s: not found\n", args[0])
				os.Exit(1)
			}
			fmt.Printf("%s: exists\n", args[0])
			return nil
		},
	}
	addConnFlags(cmd, &connFile, &connURL)
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Check timeout")
	return cmd
}

func newTasksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tasks",
		Short: "List registered tasks",
		Run: func(cmd *cobra.Command, args []string) {
			for _, info := range tasks.List() {
				fmt.Printf("  %-32s %s\n", info.Ref(), info.Description)
			}
		},
	}
}

func newRunCmd() *cobra.Command {
	var argPairs []string
	var argsFile string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "run <tag@alias>",
		Short: "Run a registered task",
		Long: `Run a registered task with the given arguments.

Example:
  flowext run duckdb@count-csv --arg source=data/orders.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskArgs, err := collectTaskArgs(argsFile, argPairs)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			result, err := tasks.Run(ctx, args[0], taskArgs)
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}
	cmd.Flags().StringArrayVar(&argPairs, "arg", nil, "Task argument as key=value (repeatable)")
	cmd.Flags().StringVar(&argsFile, "args-file", "", "Path to a YAML file with task arguments")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Minute, "Task timeout")
	return cmd
}

func addConnFlags(cmd *cobra.Command, connFile, connURL *string) {
	cmd.Flags().StringVarP(connFile, "conn", "c", "", "Path to a connection YAML file")
	cmd.Flags().StringVar(connURL, "url", "", "Connection URL, e.g. postgres://user@host:5432/db")
}

// resolveConn builds a connection from a config file or a URL, applying
// FLOWEXT_* environment overrides so credentials stay out of files.
func resolveConn(connFile, connURL string) (conn.Conn, error) {
	overrides := envOverrides()

	if connFile != "" {
		return loader.LoadConnFile(connFile, overrides)
	}
	if connURL == "" {
		if u := viper.GetString("url"); u != "" {
			connURL = u
		}
	}
	if connURL == "" {
		return conn.Conn{}, fmt.Errorf("either --conn or --url is required")
	}

	c, err := conn.FromURL(connURL)
	if err != nil {
		return conn.Conn{}, err
	}
	c, err = c.ApplyOverrides(overrides)
	if err != nil {
		return conn.Conn{}, err
	}
	if err := c.Validate(); err != nil {
		return conn.Conn{}, err
	}
	return c, nil
}

// envOverrides reads FLOWEXT_HOST, FLOWEXT_USER, FLOWEXT_PWD and friends.
func envOverrides() map[string]string {
	overrides := make(map[string]string)
	for _, key := range []string{"host", "port", "user", "pwd", "endpoint"} {
		if v := viper.GetString(key); v != "" {
			overrides[key] = v
		}
	}
	return overrides
}

func collectTaskArgs(argsFile string, pairs []string) (tasks.Args, error) {
	taskArgs := make(tasks.Args)

	if argsFile != "" {
		data, err := os.ReadFile(argsFile)
		if err != nil {
			return nil, fmt.Errorf("cannot read args file %s: %w", argsFile, err)
		}
		if err := yaml.Unmarshal(data, &taskArgs); err != nil {
			return nil, fmt.Errorf("cannot parse args file %s: %w", argsFile, err)
		}
	}

	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("argument %q must have the form key=value", pair)
		}
		taskArgs[key] = value
	}
	return taskArgs, nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
