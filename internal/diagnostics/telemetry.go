// Package diagnostics is the engine's ambient stack: the dump-file handle,
// debug counters, and statistics event sink the engine treats as required
// external collaborators, plus the run-level opt-out telemetry the CLI
// carries for every command.
package diagnostics

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/posthog/posthog-go"
)

const (
	// ThreadRunStarted/Completed/Failed track one invocation of
	// ThreadThroughAllBlocks. Never carries path contents or source
	// locations, only coarse counts.
	ThreadRunStarted   = "jumpthread:run_started"
	ThreadRunCompleted = "jumpthread:run_completed"
	ThreadRunFailed    = "jumpthread:run_failed"
)

var (
	PublicKey     string
	enableMetrics bool
	appVersion    string
)

// Init enables or disables the event sink for the process, driven by the
// --disable-metrics flag.
func Init(disableMetrics bool) {
	enableMetrics = !disableMetrics
}

// SetVersion records the running binary's version for event properties.
func SetVersion(version string) {
	appVersion = version
}

func createEnvFile() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Println("Error getting user home directory:", err)
		return
	}
	envFile := filepath.Join(homeDir, ".jumpthread", ".env")
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(envFile), os.ModePerm); err != nil {
			fmt.Println("Error creating directory:", err)
			return
		}
		env := map[string]string{
			"uuid": uuid.New().String(),
		}
		if err := godotenv.Write(env, envFile); err != nil {
			fmt.Println("Error writing to .env file:", err)
		}
	}
}

// LoadEnvFile loads (creating first if needed) the per-user anonymous
// install id used as the telemetry distinct id.
func LoadEnvFile() {
	createEnvFile()
	envFile := filepath.Join(os.Getenv("HOME"), ".jumpthread", ".env")
	_ = godotenv.Load(envFile)
}

// ReportEvent sends event with no additional properties.
func ReportEvent(event string) {
	ReportEventWithProperties(event, nil)
}

// ReportEventWithProperties sends event plus properties, which must never
// contain path contents, source locations, or other per-function detail,
// only aggregate counts and run configuration.
func ReportEventWithProperties(event string, properties map[string]interface{}) {
	if !enableMetrics || PublicKey == "" {
		return
	}

	disableGeoIP := false
	client, err := posthog.NewWithConfig(
		PublicKey,
		posthog.Config{
			Endpoint:     "https://us.i.posthog.com",
			DisableGeoIP: &disableGeoIP,
		},
	)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer client.Close()

	capture := posthog.Capture{
		DistinctId: os.Getenv("uuid"),
		Event:      event,
	}

	captureProperties := posthog.NewProperties()
	captureProperties.Set("os", runtime.GOOS)
	captureProperties.Set("arch", runtime.GOARCH)
	captureProperties.Set("go_version", runtime.Version())
	if appVersion != "" {
		captureProperties.Set("jumpthread_version", appVersion)
	}
	for k, v := range properties {
		captureProperties.Set(k, v)
	}
	capture.Properties = captureProperties

	if err := client.Enqueue(capture); err != nil {
		fmt.Println(err)
	}
}
