package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	decodecmd "github.com/Manu343726/isaview/cmd/decode"
	"github.com/Manu343726/isaview/cmd/tools"
	viewcmd "github.com/Manu343726/isaview/cmd/view"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "isaview",
	Short: "A shader disassembly viewer",
	Long: `Isaview parses GPU shader disassembly listings into a navigable document:
instructions are tokenized and color coded, branch instructions are linked to
the labels they target, and individual encodings can be decoded against an
architecture's isa spec files.

This CLI is the entry point for viewing listings and decoding instructions.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := RootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	RootCmd.AddCommand(viewcmd.ViewCmd, decodecmd.DecodeCmd, tools.ToolsCmd)
	cobra.OnInitialize(initConfig, initLogging)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.isaview.yaml)")
	RootCmd.PersistentFlags().String("log-file", "", "also write logs to this file")
	RootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	viper.BindPFlag("log-file", RootCmd.PersistentFlags().Lookup("log-file"))
	viper.BindPFlag("verbose", RootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".isaview" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".isaview")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
