package cmd

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sarchlab/runid/datarecording"
	"github.com/sarchlab/runid/stress"
)

var stressCmd = &cobra.Command{
	Use:   "stress",
	Short: "Drive a concurrent allocation workload and verify uniqueness",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.SilenceUsage = true

		allocators := intFlagOrEnv(cmd, "allocators", "RUNID_STRESS_ALLOCATORS")
		count := intFlagOrEnv(cmd, "count", "RUNID_STRESS_COUNT")
		record, _ := cmd.Flags().GetBool("record")
		output, _ := cmd.Flags().GetString("output")

		runner := stress.MakeRunnerBuilder().
			WithAllocators(allocators).
			WithCountPerAllocator(count).
			Build()

		report, err := runner.Run()
		if err != nil {
			log.Fatalf("Error running stress workload: %v", err)
		}

		printReport(report)

		if record {
			recordReport(report, output)
		}

		if report.DuplicateIDs > 0 {
			log.Fatalf("Error: %d duplicate IDs observed", report.DuplicateIDs)
		}
	},
}

func init() {
	rootCmd.AddCommand(stressCmd)

	stressCmd.Flags().Int("allocators", 8,
		"number of goroutines drawing IDs "+
			"(RUNID_STRESS_ALLOCATORS when not given)")
	stressCmd.Flags().Int("count", 100000,
		"IDs drawn by each goroutine (RUNID_STRESS_COUNT when not given)")
	stressCmd.Flags().Bool("record", false,
		"record the report into an SQLite database")
	stressCmd.Flags().String("output", "",
		"database name to record into, without the .sqlite3 suffix")
}

func printReport(report stress.Report) {
	fmt.Printf("allocators:    %d\n", report.Allocators)
	fmt.Printf("ids per alloc: %d\n", report.PerAllocator)
	fmt.Printf("total ids:     %d\n", report.TotalIDs)
	fmt.Printf("distinct ids:  %d\n", report.DistinctIDs)
	fmt.Printf("duplicates:    %d\n", report.DuplicateIDs)
	fmt.Printf("elapsed:       %.3fs\n", report.ElapsedSeconds)
	fmt.Printf("throughput:    %.0f ids/s\n", report.IDsPerSecond)
	fmt.Printf("cpu:           %.1f%%\n", report.CPUPercent)
	fmt.Printf("rss:           %d bytes\n", report.MemoryRSSBytes)
}

func recordReport(report stress.Report, output string) {
	recorder := datarecording.New(output)
	defer recorder.Close()

	recorder.CreateTable("stress_report", stress.Report{})
	recorder.InsertData("stress_report", report)
}

// intFlagOrEnv resolves an integer flag. A flag given on the command line
// wins; otherwise the named environment variable, which a .env file can
// seed at startup, overrides the built-in default. Malformed environment
// values are ignored.
func intFlagOrEnv(cmd *cobra.Command, name string, envName string) int {
	value, _ := cmd.Flags().GetInt(name)

	if cmd.Flags().Changed(name) {
		return value
	}

	raw, ok := os.LookupEnv(envName)
	if !ok {
		return value
	}

	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return value
	}

	return parsed
}
