package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "horaire",
	Short: "Export a UdeM class schedule to an iCalendar file",
	Long: `horaire reads the Université de Montréal portal's class schedule page
(list view) and turns it into an .ics file of weekly recurring class events.

The page can be a saved HTML file or captured live from a Chromium session
that is logged into the portal.`,
}

// errNotListView carries the same user-facing message the portal button
// showed: the page is not the schedule tab in list view, or it holds no
// scheduled meetings.
var errNotListView = errors.New("impossible de récupérer l'horaire, assurez-vous d'être en mode Liste")

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
