// Command sparc4-plots draws quick-look plots of SPARC4 pipeline products.
package main

import (
	"os"

	"github.com/sparc4-pipeline/sparc4-plots/internal/logging"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		logging.Error(os.Stderr, err)
		os.Exit(1)
	}
}
