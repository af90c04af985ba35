package ops

import (
	"os"
	"os/exec"
	"strings"
)

// openEditor opens path in $EDITOR, falling back to the platform default.
// $EDITOR may carry arguments ("code --wait"). The editor inherits the
// terminal and blocks until it exits.
func openEditor(path string) error {
	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = defaultEditor
	}

	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
