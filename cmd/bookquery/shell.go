package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

func newShellCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive prompt; each line is a bookquery command",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			line := liner.NewLiner()
			defer line.Close()
			line.SetCtrlCAborts(true)
			line.SetCompleter(func(prefix string) []string {
				return completions(e, prefix)
			})

			for {
				input, err := line.Prompt("bookquery> ")
				if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
					return nil
				}
				if err != nil {
					return err
				}
				input = strings.TrimSpace(input)
				if input == "" {
					continue
				}
				line.AppendHistory(input)
				if input == "exit" || input == "quit" {
					return nil
				}
				if err := runLine(cmd, e, input); err != nil {
					fmt.Fprintln(e.out, "error:", err)
				}
			}
		},
	}
}

// runLine executes one shell line on a fresh command tree.
func runLine(parent *cobra.Command, e *env, input string) error {
	args := strings.Fields(input)
	if args[0] == "shell" {
		return errors.New("already in the shell")
	}
	root := newRootCmd(e)
	root.SetArgs(args)
	return root.ExecuteContext(parent.Context())
}

func completions(e *env, prefix string) []string {
	var out []string
	for _, c := range newRootCmd(e).Commands() {
		if name := c.Name(); strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	return out
}
