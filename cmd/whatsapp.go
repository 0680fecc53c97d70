package cmd

import (
	"context"

	"github.com/nexusdev/groupguard/bot"
	"github.com/nexusdev/groupguard/config"
	"github.com/nexusdev/groupguard/transport/whatsapp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var whatsappCmd = &cobra.Command{
	Use:   "whatsapp",
	Short: "Run the bot on WhatsApp",
	Long: `Runs the bot as a linked WhatsApp device. On the first start a QR code is
printed to the log; scan it from the phone to pair the device.`,
	RunE: runWhatsApp,
}

func init() {
	whatsappCmd.Flags().String("db", "", "path of the device store (overrides WHATSAPP_DB)")
	_ = viper.BindPFlag(config.KeyWhatsAppDB, whatsappCmd.Flags().Lookup("db"))
	rootCmd.AddCommand(whatsappCmd)
}

func runWhatsApp(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateWhatsApp(); err != nil {
		return err
	}

	adapter, err := whatsapp.New(cmd.Context(), cfg.WhatsAppDB)
	if err != nil {
		return err
	}

	return serve(cfg, adapter, func(ctx context.Context, b *bot.Bot) error {
		return adapter.Run(ctx, b)
	})
}
