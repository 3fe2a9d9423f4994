// Package cli implements the caret command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/caretml/caret/internal/config"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "caret",
	Short: "Cursor-aware code suggestions for Python projects",
	Long: `Caret generates code suggestions for a cursor position in a Python file.

It parses the surrounding source with tree-sitter, extracts the structural
summary (classes, functions, imports, variables), assembles a budget-limited
prompt and asks a completion provider for a suggestion. Projects can also be
scanned into a local SQLite inventory and served over MCP.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .caret/config.yml in the project root)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetEnvPrefix("CARET")
	viper.AutomaticEnv()
}

// loadConfig resolves configuration for commands that operate on the
// current directory. The --config flag takes precedence over discovery.
func loadConfig() (*config.Config, error) {
	return loadConfigFromDir("")
}

// loadConfigFromDir is the variant for commands that take an explicit
// project root, like scan.
func loadConfigFromDir(rootDir string) (*config.Config, error) {
	if cfgFile != "" {
		return config.LoadConfigFromFile(cfgFile)
	}
	if rootDir == "" {
		return config.LoadConfig()
	}
	return config.LoadConfigFromDir(rootDir)
}
