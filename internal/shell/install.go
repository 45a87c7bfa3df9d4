// Package shell installs the generated completion script for the user's
// shell. The script declares tt's flags to the shell's completion engine and
// routes positional-argument completion back through the hidden __complete
// machinery, which serves recent task names.
package shell

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mkarlsen/tt/internal/config"
)

// ScriptPath returns the path where the completion script for shell is
// written.
func ScriptPath(shell string) (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tt.completion."+shell), nil
}

// Install generates the completion script for the given shell from root and
// writes it, printing the source instruction the user needs to add to their
// rc file.
func Install(root *cobra.Command, shell string) error {
	path, err := ScriptPath(shell)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing completion script: %w", err)
	}

	switch shell {
	case "bash":
		err = root.GenBashCompletionV2(f, true)
	case "zsh":
		err = root.GenZshCompletion(f)
	case "fish":
		err = root.GenFishCompletion(f, true)
	default:
		f.Close()
		os.Remove(path)
		return fmt.Errorf("unsupported shell for completion: %s (supported: bash, zsh, fish)", shell)
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("writing completion script: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing completion script: %w", err)
	}

	rcFile := rcFileName(shell)
	fmt.Printf("\n  ✓ Completion script written to %s\n", path)
	fmt.Printf("\n  Add this line to your %s:\n", rcFile)
	fmt.Printf("    source %s\n", path)
	fmt.Printf("\n  Then reload: source %s\n\n", rcFile)
	return nil
}

// IsInstalled reports whether the completion script for shell exists on disk.
func IsInstalled(shell string) bool {
	path, err := ScriptPath(shell)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

func rcFileName(shell string) string {
	switch shell {
	case "zsh":
		return "~/.zshrc"
	case "bash":
		return "~/.bashrc"
	case "fish":
		return "~/.config/fish/config.fish"
	default:
		return "~/." + shell + "rc"
	}
}
