package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkarlsen/tt/internal/config"
	"github.com/mkarlsen/tt/internal/shell"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure tt and install shell completion (re-run anytime)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetup()
	},
}

// runSetup prompts for the global settings, saves them, and installs the
// completion script for the chosen shell.
func runSetup() error {
	r := bufio.NewReader(os.Stdin)

	ask := func(prompt, defaultVal string) (string, error) {
		if defaultVal != "" {
			fmt.Printf("%s [%s]: ", prompt, defaultVal)
		} else {
			fmt.Printf("%s: ", prompt)
		}
		line, err := r.ReadString('\n')
		if err != nil {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return defaultVal, nil
		}
		return line, nil
	}

	// Current merged config provides the prompt defaults.
	newCfg := cfg

	fmt.Println()
	fmt.Println("  ┌─────────────────────────┐")
	fmt.Println("  │      tt — setup         │")
	fmt.Println("  └─────────────────────────┘")
	fmt.Println()

	dataDefault := newCfg.DataFile
	if dataDefault == "" {
		dataDefault = "~/.timetracker"
	}
	dataAns, err := ask("  Data file", dataDefault)
	if err != nil {
		return err
	}
	if dataAns != "~/.timetracker" {
		newCfg.DataFile = dataAns
	}

	windowAns, err := ask("  Completion window (recent lines scanned for task names)",
		strconv.Itoa(newCfg.HistoryWindow))
	if err != nil {
		return err
	}
	if n, err := strconv.Atoi(windowAns); err == nil && n > 0 {
		newCfg.HistoryWindow = n
	}

	reportAns, err := ask("  Default report for 'tt view --plain' (report/calendar)", newCfg.DefaultReport)
	if err != nil {
		return err
	}
	if reportAns == "calendar" {
		newCfg.DefaultReport = "calendar"
	} else {
		newCfg.DefaultReport = "report"
	}

	if err := config.SaveGlobal(newCfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Println("  ✓ Config saved.")

	shellAns, err := ask("  Install completion for shell (bash/zsh/fish, empty to skip)", detectShell())
	if err != nil {
		return err
	}
	if shellAns != "" {
		if err := shell.Install(rootCmd, shellAns); err != nil {
			fmt.Printf("  ⚠ Completion install failed: %v\n", err)
			fmt.Println("    You can retry with: tt setup")
		}
	}

	fmt.Println("  Setup complete. Run 'tt some task name' to start a timer.")
	fmt.Println()
	return nil
}

// detectShell returns the base name of the current shell when it is one we
// can install completion for.
func detectShell() string {
	sh := filepath.Base(os.Getenv("SHELL"))
	switch sh {
	case "bash", "zsh", "fish":
		return sh
	}
	return "bash"
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
