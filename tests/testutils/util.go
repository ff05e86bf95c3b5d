// Package testutils provides test infrastructure for audiosync integration tests.
package testutils

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/containerd/nerdctl/mod/tigron/test"

	"github.com/farcloser/agar/pkg/agar"
)

// Setup creates a test case configured to run the audiosync binary.
func Setup() *test.Case {
	_, thisFile, _, _ := runtime.Caller(0) //nolint:dogsled // runtime.Caller returns 4 values, only file is needed
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))
	binaryPath := filepath.Join(projectRoot, "bin", "audiosync")

	return agar.Setup(binaryPath)
}

// Generate writes a crafted waveform with the binary's own generator and returns its path.
// extra is passed through to the generate command (--delay, --silence...).
func Generate(data test.Data, helpers test.Helpers, name string, duration float64, extra ...string) string {
	path := data.Temp().Path(name)

	args := append([]string{"generate", "--duration", fmt.Sprint(duration)}, extra...)
	helpers.Ensure(append(args, path)...)

	return path
}
