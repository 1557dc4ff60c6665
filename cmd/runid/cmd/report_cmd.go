package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/sarchlab/runid/datarecording"
	"github.com/sarchlab/runid/stress"
)

var reportCmd = &cobra.Command{
	Use:   "report <database-file>",
	Short: "Print the stress reports recorded in a database",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cmd.SilenceUsage = true

		reader := datarecording.NewReader(args[0])
		defer reader.Close()

		reader.MapTable("stress_report", stress.Report{})

		rows, total, err := reader.Query(
			context.Background(), "stress_report",
			datarecording.QueryParams{OrderBy: "IDsPerSecond DESC"})
		if err != nil {
			log.Fatalf("Error reading reports: %v", err)
		}

		fmt.Printf("%d report(s)\n", total)

		for _, row := range rows {
			report := row.(*stress.Report)
			fmt.Printf("%d allocators x %d ids: %d/%d distinct, %.0f ids/s\n",
				report.Allocators, report.PerAllocator,
				report.DistinctIDs, report.TotalIDs, report.IDsPerSecond)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
