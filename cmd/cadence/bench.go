package main

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/openpinball/cadence/clock"
	"github.com/openpinball/cadence/monitoring"
	"github.com/openpinball/cadence/tracing"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run a synthetic interval workload on a real-time clock.",
	Long: "`bench` schedules a number of repeating callbacks with random " +
		"periods and ticks the clock for the requested duration, then " +
		"reports the observed tick rate.",
	Run: runBench,
}

func init() {
	rootCmd.AddCommand(benchCmd)

	benchCmd.Flags().Duration("duration", 5*time.Second,
		"how long to run the workload")
	benchCmd.Flags().Int("events", 100,
		"number of repeating callbacks to schedule")
	benchCmd.Flags().Float64("max-fps", clock.DefaultMaxFPS,
		"idle tick rate ceiling")
	benchCmd.Flags().Bool("monitor", false,
		"serve scheduling state over HTTP while running")
	benchCmd.Flags().Bool("open", false,
		"open the monitoring endpoint in the browser")
	benchCmd.Flags().String("trace", "",
		"record callback firings into an SQLite database at this path")
}

func runBench(cmd *cobra.Command, _ []string) {
	duration, _ := cmd.Flags().GetDuration("duration")
	numEvents, _ := cmd.Flags().GetInt("events")
	maxFPS, _ := cmd.Flags().GetFloat64("max-fps")
	serveMonitor, _ := cmd.Flags().GetBool("monitor")
	openDashboard, _ := cmd.Flags().GetBool("open")
	tracePath, _ := cmd.Flags().GetString("trace")

	c := clock.NewClock().WithMaxFPS(maxFPS)

	if serveMonitor {
		monitor := monitoring.NewMonitor()
		monitor.RegisterClock(c)
		monitor.StartServer()

		if openDashboard {
			monitor.OpenDashboard()
		}
	}

	if tracePath != "" {
		writer := tracing.NewSQLiteWriter(tracePath)
		tracing.Trace(c, writer)
		defer writer.Flush()
	}

	fired := scheduleWorkload(c, numEvents)

	deadline := time.Now().Add(duration)
	for time.Now().Before(deadline) {
		c.Tick()
	}

	fmt.Printf("ran %.2fs, %d ticks, %d firings, %.2f fps\n",
		float64(c.BootTime()), c.TickCount(), *fired, c.FPS())
}

func scheduleWorkload(c *clock.Clock, numEvents int) *uint64 {
	fired := new(uint64)

	for i := 0; i < numEvents; i++ {
		period := clock.VTimeInSec(0.01 + 0.09*rand.Float64())

		_, err := c.ScheduleInterval(
			func(_ clock.VTimeInSec) (clock.Action, error) {
				(*fired)++
				return clock.Continue, nil
			}, period, 1)
		if err != nil {
			log.Fatalf("scheduling workload: %v", err)
		}
	}

	return fired
}
