package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"horaire/internal/ics"
	appLog "horaire/internal/log"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print upcoming class meetings instead of writing a file",
	Long: `Preview runs the export pipeline, then expands the generated weekly
rules into concrete dated meetings within a window, so the result can be
inspected before importing it into a calendar application.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		input, _ := cmd.Flags().GetString("input")
		url, _ := cmd.Flags().GetString("url")
		chrome, _ := cmd.Flags().GetString("chrome")
		fromText, _ := cmd.Flags().GetString("from")
		weeks, _ := cmd.Flags().GetInt("weeks")

		sched, err := loadSchedule(cmd.Context(), input, url, chrome)
		if err != nil {
			return err
		}
		if !sched.Triggered() {
			appLog.Warn("page does not look like the schedule tab in list view",
				"title", sched.Title, "list_view", sched.ListView)
		}

		calendar, count := ics.BuildCalendar(sched.Records, ics.Timezone)
		if count == 0 {
			return errNotListView
		}

		loc, err := time.LoadLocation(ics.Timezone)
		if err != nil {
			return fmt.Errorf("failed to load timezone: %w", err)
		}

		from := time.Now().In(loc)
		if fromText != "" {
			from, err = time.ParseInLocation("2006-01-02", fromText, loc)
			if err != nil {
				return fmt.Errorf("invalid --from date %q: %w", fromText, err)
			}
		}
		to := from.AddDate(0, 0, 7*weeks)

		occurrences, err := ics.ExpandCalendar([]byte(calendar), from, to, loc)
		if err != nil {
			return fmt.Errorf("failed to expand calendar: %w", err)
		}
		if len(occurrences) == 0 {
			fmt.Printf("No meetings between %s and %s\n",
				from.Format("2006-01-02"), to.Format("2006-01-02"))
			return nil
		}

		for _, occ := range occurrences {
			line := fmt.Sprintf("%s - %s  %s",
				occ.Start.Format("Mon 2006-01-02 15:04"),
				occ.End.Format("15:04"),
				occ.Summary)
			if occ.Location != "" {
				line += "  @ " + occ.Location
			}
			fmt.Println(line)
		}
		fmt.Printf("\n%d meetings from %d events\n", len(occurrences), count)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)

	addPageFlags(previewCmd.Flags())
	previewCmd.Flags().String("from", "", "Window start date (YYYY-MM-DD, default: today)")
	previewCmd.Flags().Int("weeks", 4, "Window length in weeks")
}
