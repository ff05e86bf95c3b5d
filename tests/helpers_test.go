package tests_test

import (
	"fmt"
	"strings"

	"github.com/containerd/nerdctl/mod/tigron/test"
	"github.com/containerd/nerdctl/mod/tigron/tig"
)

// expectContains returns a comparator verifying the output contains a substring.
func expectContains(substr string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		if !strings.Contains(stdout, substr) {
			testing.Log(fmt.Sprintf("expected substring %q not found in output:\n%s", substr, stdout))
			testing.Fail()
		}
	}
}

// expectNotContains returns a comparator verifying the output does not contain a substring.
func expectNotContains(substr string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		if strings.Contains(stdout, substr) {
			testing.Log(fmt.Sprintf("unexpected substring %q found in output:\n%s", substr, stdout))
			testing.Fail()
		}
	}
}

// expectLatencies returns a comparator verifying every latency in the parsable output
// carries the given delay, formatted as encoding/json renders it.
func expectLatencies(delay string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		_, rest, found := strings.Cut(stdout, `"latencies":[`)
		if !found {
			testing.Log(fmt.Sprintf("no latencies in output:\n%s", stdout))
			testing.Fail()

			return
		}

		latencies, _, _ := strings.Cut(rest, `]],`)
		for _, pair := range strings.Split(latencies, "],") {
			if !strings.HasSuffix(strings.TrimSuffix(pair, "]"), ","+delay) {
				testing.Log(fmt.Sprintf("latency %q does not carry delay %s", pair, delay))
				testing.Fail()

				return
			}
		}
	}
}
