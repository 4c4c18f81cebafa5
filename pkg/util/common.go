// Package util holds small helpers shared by the binaries.
package util

import "fmt"

func na(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}

// PrintBuildInfo prints the version, date and commit stamped in at link time,
// substituting "N/A" for values the build did not set.
func PrintBuildInfo(buildVersion, buildDate, buildCommit string) {
	fmt.Printf("Build version: %s\n", na(buildVersion))
	fmt.Printf("Build date: %s\n", na(buildDate))
	fmt.Printf("Build commit: %s\n", na(buildCommit))
}
