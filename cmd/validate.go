package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/smazurov/nvencd/internal/encoder"
	"github.com/smazurov/nvencd/internal/encoder/nvenc"
	"github.com/smazurov/nvencd/internal/settings"
	"github.com/spf13/cobra"
)

// CreateValidateCmd creates the validate command: translate a settings
// file without running the encoder and show what it resolves to.
func CreateValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate encoder settings",
		Long: `Loads the settings file, translates it for each NVENC variant, and ` +
			`prints the resulting FFmpeg codec arguments and the effective-configuration report.`,
		Run: func(cmd *cobra.Command, _ []string) {
			settingsFile, _ := cmd.Flags().GetString("settings")
			outputFile, _ := cmd.Flags().GetString("output")
			quiet, _ := cmd.Flags().GetBool("quiet")

			store := settings.New()
			nvenc.ApplyDefaults(store)
			if err := settings.LoadFile(settingsFile, store); err != nil {
				fmt.Fprintf(os.Stderr, "failed to load %s: %v\n", settingsFile, err)
				os.Exit(1)
			}

			var out strings.Builder
			for _, variant := range encoder.Variants() {
				ctx := encoder.NewContext(variant)
				nvenc.Apply(store, ctx)
				nvenc.ApplyOverrides(ctx)

				fmt.Fprintf(&out, "# %s\n", variant.DisplayName())
				fmt.Fprintf(&out, "args: %s\n", strings.Join(ctx.Args(), " "))
				for _, line := range nvenc.Report(ctx) {
					fmt.Fprintf(&out, "%s\n", line)
				}
				fmt.Fprintln(&out)
			}

			if outputFile != "" {
				if err := os.WriteFile(outputFile, []byte(out.String()), 0o644); err != nil {
					fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", outputFile, err)
					os.Exit(1)
				}
			}
			if !quiet {
				fmt.Print(out.String())
			}
		},
	}

	cmd.Flags().String("settings", "settings.toml", "Path to encoder settings file")
	cmd.Flags().StringP("output", "o", "", "Write the report to a file")
	cmd.Flags().BoolP("quiet", "q", false, "Suppress stdout output")

	return cmd
}
