package cmd

import (
	"context"

	"github.com/nexusdev/groupguard/bot"
	"github.com/nexusdev/groupguard/config"
	"github.com/nexusdev/groupguard/transport/telegram"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var telegramCmd = &cobra.Command{
	Use:   "telegram",
	Short: "Run the bot on Telegram",
	Long:  `Runs the bot on Telegram with long polling. BOT_TOKEN must be set.`,
	RunE:  runTelegram,
}

func init() {
	telegramCmd.Flags().String("token", "", "Telegram bot token (overrides BOT_TOKEN)")
	_ = viper.BindPFlag(config.KeyBotToken, telegramCmd.Flags().Lookup("token"))
	rootCmd.AddCommand(telegramCmd)
}

func runTelegram(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateTelegram(); err != nil {
		return err
	}

	adapter, err := telegram.New(cfg.BotToken)
	if err != nil {
		return err
	}

	return serve(cfg, adapter, func(ctx context.Context, b *bot.Bot) error {
		return adapter.Run(ctx, b)
	})
}
