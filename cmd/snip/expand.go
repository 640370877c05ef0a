package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jacksmith/snip/internal/cli"
	"github.com/jacksmith/snip/internal/insert"
	"github.com/jacksmith/snip/internal/ops"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var expandCmd = &cobra.Command{
	Use:   "expand",
	Short: "Expand a trigger in text read from stdin",
	Long: `Read text from stdin, and when it ends in the shortcut key followed by a
query, replace them with the best matching template and print the result.

A template with one {{placeholder}} has the marker removed. With several,
each distinct name is asked for on the terminal, or taken from --var.

--editor selects how the text is treated: plain (default), lexical,
prosemirror, tiptap or unknown. Rich editors other than prosemirror get two
trailing spaces after the inserted text.

Examples:
  echo "Please #sum" | snip expand
  echo "x !tr" | snip expand --key '!' --var text=hello --var lang=French`,
	Args: cobra.NoArgs,
	RunE: runExpand,
}

var (
	expandKey    string
	expandEditor string
	expandVars   []string
)

var editorNames = []string{"plain", "lexical", "prosemirror", "tiptap", "unknown"}

func init() {
	expandCmd.Flags().StringVar(&expandKey, "key", "", "shortcut key (default: the stored key)")
	expandCmd.Flags().StringVar(&expandEditor, "editor", "plain", "editor kind the text comes from")
	expandCmd.Flags().StringArrayVar(&expandVars, "var", nil, "placeholder value as name=value (can be repeated)")
	expandCmd.RegisterFlagCompletionFunc("editor", cobra.FixedCompletions(editorNames, cobra.ShellCompDirectiveNoFileComp))
	rootCmd.AddCommand(expandCmd)
}

func runExpand(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	values, err := parseVars(expandVars)
	if err != nil {
		return err
	}
	name, err := cli.MatchPrefix("editor", expandEditor, editorNames)
	if err != nil {
		return err
	}
	variant, err := insert.ParseVariant(name)
	if err != nil {
		return err
	}

	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}
	text := string(input)
	trailing := ""
	if strings.HasSuffix(text, "\n") {
		text, trailing = strings.TrimSuffix(text, "\n"), "\n"
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	key := expandKey
	if key == "" {
		key = a.session.ShortcutKey()
	} else if err := ops.ValidateShortcutKey(key); err != nil {
		return err
	}

	c := insert.NewController(key, a.session, ops.SuggestOptions{Fuzzy: a.cfg.Fuzzy})
	buf := insert.NewBuffer(text)
	c.AttachVariant(buf, variant)
	defer c.Detach()

	t, err := c.Complete(ctx, &varPrompter{values: values, fallback: ttyPrompter{}})
	if err != nil {
		return err
	}
	log.Debug().Int("template", t.ID).Int("caret", buf.Caret()).Msg("expanded")

	fmt.Print(buf.ReadText() + trailing)
	return nil
}

// parseVars turns name=value pairs into placeholder values.
func parseVars(pairs []string) (insert.Values, error) {
	values := insert.Values{}
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --var %q (expected name=value)", p)
		}
		values[strings.TrimSpace(name)] = value
	}
	return values, nil
}

// varPrompter answers from fixed values first and asks fallback for the
// rest.
type varPrompter struct {
	values   insert.Values
	fallback insert.Prompter
}

func (p *varPrompter) Prompt(ctx context.Context, name string) (string, error) {
	if v, ok := p.values[name]; ok {
		return v, nil
	}
	return p.fallback.Prompt(ctx, name)
}

// ttyPrompter asks on the controlling terminal, since stdin carries the
// text being expanded.
type ttyPrompter struct{}

var errNoTerminal = errors.New("no terminal to ask for placeholder values (use --var name=value)")

func (ttyPrompter) Prompt(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return "", errNoTerminal
	}
	defer tty.Close()

	fd := int(tty.Fd())
	if !term.IsTerminal(fd) {
		return "", errNoTerminal
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return "", fmt.Errorf("failed to prepare terminal: %w", err)
	}
	defer term.Restore(fd, state)

	t := term.NewTerminal(tty, fmt.Sprintf("%s: ", name))
	line, err := t.ReadLine()
	if err != nil {
		return "", fmt.Errorf("failed to read value for %s: %w", name, err)
	}
	return line, nil
}
