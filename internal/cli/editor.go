package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// editorEnv lists the variables consulted for the editor command, in order.
var editorEnv = []string{"SNIP_EDITOR", "VISUAL", "EDITOR"}

// EditInEditor writes content to a temporary file, opens it in the user's
// editor and returns the saved result. The suffix picks the file extension
// (".yaml" gets syntax highlighting in most editors).
func EditInEditor(ctx context.Context, content []byte, suffix string) ([]byte, error) {
	editor := getEditor()
	if editor == "" {
		return nil, fmt.Errorf("EDITOR not set. Set it or use --name/--content instead of -i")
	}

	tmp, err := os.CreateTemp("", "snip-*"+suffix)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	_, err = tmp.Write(content)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := runEditor(ctx, editor, path); err != nil {
		return nil, err
	}

	result, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read edited file: %w", err)
	}
	return result, nil
}

func getEditor() string {
	for _, name := range editorEnv {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v
		}
	}
	return ""
}

// runEditor runs editor (which may carry arguments, e.g. "code --wait")
// on path, attached to the terminal.
func runEditor(ctx context.Context, editor, path string) error {
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return errors.New("empty editor command")
	}

	cmd := exec.CommandContext(ctx, parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	log.Debug().Str("editor", parts[0]).Str("path", path).Msg("running editor")
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("editor exited with status %d", exitErr.ExitCode())
		}
		return fmt.Errorf("failed to run editor: %w", err)
	}
	return nil
}
