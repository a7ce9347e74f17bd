package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Build info - injected via ldflags
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "singprov",
	Short: "sing-box profile provisioning",
	Long:  `singprov generates a multi-protocol sing-box server profile and the matching client share links and subscription bundle.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
