package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"horaire/internal/ics"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the class schedule to an ICS file",
	Long: `Export reads the schedule page, extracts every class meeting and writes
a calendar of weekly recurring events. The file name defaults to the one the
portal offered: <student-handle>-umontreal-class-schedule.ics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		input, _ := cmd.Flags().GetString("input")
		url, _ := cmd.Flags().GetString("url")
		chrome, _ := cmd.Flags().GetString("chrome")
		output, _ := cmd.Flags().GetString("output")
		force, _ := cmd.Flags().GetBool("force")

		sched, err := loadSchedule(cmd.Context(), input, url, chrome)
		if err != nil {
			return err
		}

		if !sched.Triggered() && !force {
			return errNotListView
		}

		calendar, count := ics.BuildCalendar(sched.Records, ics.Timezone)
		if count == 0 {
			return errNotListView
		}

		if output == "" {
			output = ics.FileName(sched.StudentName)
		}
		if dir := filepath.Dir(output); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		if err := os.WriteFile(output, []byte(calendar), 0o644); err != nil {
			return fmt.Errorf("failed to write ICS file: %w", err)
		}

		fmt.Printf("Exported %d events to %s\n", count, output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	addPageFlags(exportCmd.Flags())
	exportCmd.Flags().StringP("output", "o", "", "Output file path (default: derived from the student handle)")
	exportCmd.Flags().Bool("force", false, "Export even when the page does not look like the schedule tab in list view")
}
