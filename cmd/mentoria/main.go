// Command mentoria runs the mentoring program API and its operator tooling.
//
//	mentoria serve                      # REST API
//	mentoria migrate up|down|status     # PostgreSQL schema
//	mentoria seed-materials catalog.yml # training catalog
//	mentoria token --sub ID --role admin
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "mentoria",
	Short: "Mentor qualification and mentoria session lifecycle service",
	Long: `mentoria manages the training track that qualifies mentors, the
assignment of qualified mentors to businesses, and the lifecycle of the
mentoria sessions held with them.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
