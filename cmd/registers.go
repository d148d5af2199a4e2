package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/zjrosen/modal/internal/registerstore"
)

var registersClear bool

var registersCmd = &cobra.Command{
	Use:   "registers",
	Short: "List registers saved between sessions",
	Long: `List the registers persisted by previous editing sessions.

Examples:
  modal registers           # show saved registers
  modal registers --clear   # forget all saved registers`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runRegisters,
}

func init() {
	registersCmd.Flags().BoolVar(&registersClear, "clear", false, "delete all saved registers")
	rootCmd.AddCommand(registersCmd)
}

func runRegisters(cmd *cobra.Command, _ []string) error {
	if cfgErr != nil {
		return cfgErr
	}
	store, err := registerstore.Open(cmd.Context(), cfg.Registers.Path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	out := cmd.OutOrStdout()
	if registersClear {
		if err := store.Save(cmd.Context(), nil); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, "cleared saved registers")
		return nil
	}

	entries, err := store.Entries(cmd.Context())
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		_, _ = fmt.Fprintf(out, "no saved registers in %s\n", store.Path())
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("REG", "UPDATED", "CONTENT")
	for _, e := range entries {
		t.Row(`"`+string(e.Key), e.UpdatedAt.Local().Format("2006-01-02 15:04"), summarize(e.Value, 48))
	}
	_, _ = fmt.Fprintln(out, t.Render())
	return nil
}

// summarize flattens value onto one line and cuts it to limit runes.
func summarize(value string, limit int) string {
	s := strings.NewReplacer("\n", `\n`, "\t", `\t`).Replace(value)
	runes := []rune(s)
	if len(runes) > limit {
		return string(runes[:limit]) + "…"
	}
	return s
}
