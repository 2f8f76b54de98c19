package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/railup/cmd/railup"
	"github.com/arthur-debert/railup/pkg/ui/styles"
)

func main() {
	rootCmd := railup.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		errorStyle := styles.Get("Error")
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
