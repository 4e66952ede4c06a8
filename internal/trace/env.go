package trace

import (
	"os"
	"strconv"
	"strings"
)

// ConfigureFromEnv applies RFVP_TRACE (comma-separated category list,
// or "all") and RFVP_TRACE_<CATEGORY>_EVERY=<n> to r, per spec.md §6's
// CLI surface.
func ConfigureFromEnv(r *Ring) {
	spec := os.Getenv("RFVP_TRACE")
	if spec != "" {
		if spec == "all" {
			for _, c := range allCategories {
				r.Enable(c, true)
			}
		} else {
			for _, name := range strings.Split(spec, "|") {
				for _, n2 := range strings.Split(name, ",") {
					c := Category(strings.TrimSpace(n2))
					r.Enable(c, true)
				}
			}
		}
	}
	for _, c := range allCategories {
		key := "RFVP_TRACE_" + strings.ToUpper(string(c)) + "_EVERY"
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				r.SetRateLimit(c, n)
			}
		}
	}
}
