package cmd

import (
	"os"

	"github.com/nexusdev/groupguard/config"
	"github.com/nexusdev/groupguard/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var log = logger.New("main")

var rootCmd = &cobra.Command{
	Use:   "groupguard",
	Short: "Group moderation bot with per-group premium access",
	Long: `groupguard watches group chats on Telegram or WhatsApp, answers moderation
commands, deletes spam and leaves groups that have no active premium.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	config.SetDefaults(viper.GetViper())
	initFlags()

	cobra.OnInitialize(initLogger)
}

func initFlags() {
	flags := rootCmd.PersistentFlags()
	flags.Bool("debug", false, "enable debug logging")
	flags.String("store", config.StoreMemory, "storage backend: memory, mysql or redis")
	flags.String("metrics-addr", "", "listen address for /metrics, empty disables it")
	flags.Duration("leave-delay", 0, "delay before leaving a group without premium")

	_ = viper.BindPFlag(config.KeyDebug, flags.Lookup("debug"))
	_ = viper.BindPFlag(config.KeyStore, flags.Lookup("store"))
	_ = viper.BindPFlag(config.KeyMetricsAddr, flags.Lookup("metrics-addr"))
	_ = viper.BindPFlag(config.KeyLeaveDelay, flags.Lookup("leave-delay"))
}

func initLogger() {
	if viper.GetBool(config.KeyDebug) {
		logger.SetDebug(true)
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
