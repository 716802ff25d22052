package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/reisen39/namarec/config"
	"github.com/reisen39/namarec/live/plugins"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:          "namarec",
	Short:        "namarec watches livestream channels, records them and ships the recordings to cloud storage",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./config.{json,yaml,toml})")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(uploadCmd)
}

// Can't be part of cobra's init as logging needs the parsed config.
func bootstrap() {
	config.InitConfig(cfgFile)
	config.InitLog()
	plugins.InitPubsub()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
