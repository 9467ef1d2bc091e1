// Copyright © 2026 The pyclewn authors

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pyclewn",
	Short: "pyclewn — source-level trace debugger core",
	Long: `pyclewn is the event-dispatch core of a source-level debugger for an
embedded or interpreted runtime. The host delivers one event per traced
execution step (line, call, return, exception); the tracer decides when a
breakpoint or stepping condition is met and hands control to a debugger
frontend.

Getting started:
  pyclewn replay script.json               Replay a recorded event stream
  pyclewn replay -i script.json            Replay with an interactive console
  pyclewn replay --report out.json ...     Write a JSON stop report

The replay script format is JSON with four sections:
  units        compilation units (id, file, first_line)
  breakpoints  breakpoints (file, first_line, line)
  events       the execution event stream (event, frame, unit, line, arg)
  actions      debugger actions applied at successive stops
               (step, next, until:<line>, return, continue, quit)`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pyclewn.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".pyclewn" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".pyclewn")
	}

	viper.SetEnvPrefix("pyclewn")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
