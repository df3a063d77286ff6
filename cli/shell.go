package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// stdin is the buffered reader shared by every command reading the same input.
var stdin struct {
	src io.Reader
	r   *bufio.Reader
}

func inputReader(cmd *cobra.Command) *bufio.Reader {
	in := cmd.InOrStdin()
	if stdin.r == nil || stdin.src != in {
		stdin.src, stdin.r = in, bufio.NewReader(in)
	}
	return stdin.r
}

func newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive shell mode",
		Long: "Reads commands line by line and runs them against the same catalog,\n" +
			"so stock and sales carry over between lines. Quote values with spaces.",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := inputReader(cmd)
			out := cmd.OutOrStdout()
			restore := snapshotFlags(rootCmd.PersistentFlags())
			for {
				fmt.Fprint(out, "bookstore> ")
				line, err := r.ReadString('\n')
				if err != nil && line == "" {
					return nil
				}
				line = strings.TrimSpace(line)
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					return nil
				}
				fields, serr := splitFields(line)
				if serr != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), serr)
					continue
				}
				if len(fields) > 0 && (fields[0] == "shell" || fields[0] == "menu") {
					fmt.Fprintln(cmd.ErrOrStderr(), "already in interactive mode")
					continue
				}
				rootCmd.SetArgs(fields)
				if err := rootCmd.Execute(); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), err)
				}
				rootCmd.SetArgs(nil)
				resetFlags(rootCmd)
				restore()
			}
		},
	}
}

// splitFields splits a shell line on spaces, keeping single- or double-quoted
// sections together.
func splitFields(line string) ([]string, error) {
	var (
		fields  []string
		cur     strings.Builder
		quote   rune
		inField bool
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			cur.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			inField = true
		case r == ' ' || r == '\t':
			if inField {
				fields = append(fields, cur.String())
				cur.Reset()
				inField = false
			}
		default:
			cur.WriteRune(r)
			inField = true
		}
	}
	if quote != 0 {
		return nil, errors.New("unterminated quote")
	}
	if inField {
		fields = append(fields, cur.String())
	}
	return fields, nil
}
