//go:build basic || database

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	// sharedDevpickPath holds the path to a shared devpick binary built once for all tests.
	sharedDevpickPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getDevpickBinary returns the path to the devpick binary, building it once if needed.
func getDevpickBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "devpick-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		devpickPath := filepath.Join(tempDir, "devpick")
		buildCmd := exec.Command("go", "build", "-o", devpickPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if err := buildCmd.Run(); err != nil {
			panic(fmt.Sprintf("failed to build devpick: %v", err))
		}

		sharedDevpickPath = devpickPath
	})

	return sharedDevpickPath
}

// fixtures holds the input tables written for one test.
type fixtures struct {
	dir         string
	feasibility string
	parcels     string
}

// writeFixtures writes ten parcels with two competing forms each.
func writeFixtures(t *testing.T) fixtures {
	t.Helper()
	dir := t.TempDir()
	f := fixtures{
		dir:         dir,
		feasibility: filepath.Join(dir, "feasibility.csv"),
		parcels:     filepath.Join(dir, "parcels.csv"),
	}

	feasibility := "parcel_id,form,max_profit,max_profit_far,residential_sqft,non_residential_sqft,stories\n"
	parcels := "parcel_id,parcel_size,ave_unit_size,current_units\n"
	for i := range 10 {
		id := fmt.Sprintf("p%02d", i)
		feasibility += fmt.Sprintf("%s,residential,%d,1.5,%d,0,3.2\n", id, 1000+i*100, 4000+i*1000)
		feasibility += fmt.Sprintf("%s,mixedresidential,%d,2.0,%d,4000,4.5\n", id, 1500-i*50, 3000+i*500)
		parcels += fmt.Sprintf("%s,%d,1000,%d\n", id, 5000+i*250, i%2)
	}
	require.NoError(t, os.WriteFile(f.feasibility, []byte(feasibility), 0o644))
	require.NoError(t, os.WriteFile(f.parcels, []byte(parcels), 0o644))
	return f
}

// runDevpick runs the binary from the project root with extra environment variables.
func runDevpick(t *testing.T, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getDevpickBinary(), args...)
	cmd.Dir = "../" // Run from project root
	cmd.Env = append(os.Environ(), env...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
	}
	return string(output), err
}
