// Command attrition-gen writes synthetic employee datasets and smoke tests
// a running attrition service with them.
package main

import (
	"os"

	"github.com/okian/attrition/pkg/logger"
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
