package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kbukum/jolt/httpclient"
)

// execute runs the command line and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err != nil {
		red := color.New(color.FgRed).SprintFunc()
		fmt.Fprintf(stderr, "%s %v\n", red("error:"), err)
	}
	return exitCode(err)
}

func newRootCmd() *cobra.Command {
	opts := &requestOptions{}

	root := &cobra.Command{
		Use:   "jolt",
		Short: "Send HTTP requests from the command line",
		Long: `jolt sends a single HTTP request and prints the response status and
body. JSON bodies are pretty printed and can be narrowed with a gjson
query.

Settings are read from jolt.yml (./, ./config or the user config
directory), then JOLT_ environment variables, then flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}
	opts.bindPersistent(root)

	for _, verb := range []httpclient.Verb{httpclient.GET, httpclient.POST, httpclient.PUT, httpclient.PATCH, httpclient.DELETE} {
		root.AddCommand(newVerbCmd(verb, opts))
	}
	root.AddCommand(newVersionCmd())
	return root
}

func newVerbCmd(verb httpclient.Verb, opts *requestOptions) *cobra.Command {
	name := strings.ToLower(string(verb))
	cmd := &cobra.Command{
		Use:   name + " <path|url>",
		Short: fmt.Sprintf("Send a %s request", verb),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, verb, args[0], opts)
		},
	}
	opts.bindRequest(cmd)
	return cmd
}
