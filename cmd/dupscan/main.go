package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dupscan/dupscan/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "dupscan",
	Short: "A cross-language code clone detector",
	Long: `dupscan finds duplicated and near-duplicated code in Python and Java
source trees.

It detects three clone classes:
  • Type-1: identical fragments (ignoring whitespace and comments)
  • Type-2: identical structure with renamed identifiers
  • Type-3: near-miss fragments above a similarity threshold`,
	Version: version.Short(),
}

func init() {
	rootCmd.AddCommand(NewDetectCmd())
	rootCmd.AddCommand(NewVersionCmd())
	rootCmd.AddCommand(NewInitCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
