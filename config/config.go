// Package config loads the static startup configuration from the
// environment. Nothing is reloaded while the bot runs.
package config

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/nexusdev/groupguard/model"
	"github.com/spf13/viper"
)

const (
	StoreMemory = "memory"
	StoreMySQL  = "mysql"
	StoreRedis  = "redis"
)

const (
	KeyBotName            = "bot_name"
	KeyBotOwner           = "bot_owner"
	KeySpamKeywords       = "spam_keywords"
	KeyCommands           = "commands"
	KeyLeaveDelay         = "leave_delay"
	KeyCancelLeaveOnGrant = "cancel_leave_on_grant"
	KeyClearChatDefault   = "clearchat_default"
	KeyClearChatMax       = "clearchat_max"
	KeyStore              = "store"
	KeyMySQLURL           = "mysql_url"
	KeyIgnoreMigration    = "ignore_sql_migration"
	KeyRedisURL           = "redis_url"
	KeyRedisPrefix        = "redis_prefix"
	KeyMetricsAddr        = "metrics_addr"
	KeyBotToken           = "bot_token"
	KeyWhatsAppDB         = "whatsapp_db"
	KeyTimezone           = "timezone"
	KeyDebug              = "debug"
)

// DefaultCommands is the recognised command vocabulary in matching order.
var DefaultCommands = []string{
	"bantuan", "help", "rules", "addrule", "delrule", "listspam", "addprem",
	"checkprem", "mute", "unmute", "tagall", "clearchat", "groupinfo",
}

var DefaultSpamKeywords = []string{
	"http://", "https://", ".com", ".xyz", ".biz", "t.me/", "wa.me/",
}

type Config struct {
	BotName            string
	Owner              model.Identity
	SpamKeywords       []string
	Commands           []string
	LeaveDelay         time.Duration
	CancelLeaveOnGrant bool
	ClearChatDefault   int
	ClearChatMax       int

	Store              string
	MySQLURL           string
	IgnoreSQLMigration bool
	RedisURL           string
	RedisPrefix        string

	MetricsAddr string
	BotToken    string
	WhatsAppDB  string
	Timezone    string
}

// SetDefaults registers defaults and binds every key to its upper-case
// environment variable.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyBotName, "Nexus Dev Bot")
	v.SetDefault(KeyBotOwner, "6281234567890@s.whatsapp.net")
	v.SetDefault(KeySpamKeywords, strings.Join(DefaultSpamKeywords, ","))
	v.SetDefault(KeyCommands, strings.Join(DefaultCommands, ","))
	v.SetDefault(KeyLeaveDelay, "5s")
	v.SetDefault(KeyCancelLeaveOnGrant, false)
	v.SetDefault(KeyClearChatDefault, 5)
	v.SetDefault(KeyClearChatMax, 20)
	v.SetDefault(KeyStore, StoreMemory)
	v.SetDefault(KeyIgnoreMigration, false)
	v.SetDefault(KeyRedisPrefix, "groupguard")
	v.SetDefault(KeyWhatsAppDB, "storages/whatsapp.db")
	v.SetDefault(KeyTimezone, "Asia/Jakarta")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// Load reads the configuration out of v. It does not validate.
func Load(v *viper.Viper) Config {
	return Config{
		BotName:            strings.TrimSpace(v.GetString(KeyBotName)),
		Owner:              model.Identity(strings.TrimSpace(v.GetString(KeyBotOwner))),
		SpamKeywords:       splitList(v.GetString(KeySpamKeywords)),
		Commands:           splitList(strings.ToLower(v.GetString(KeyCommands))),
		LeaveDelay:         v.GetDuration(KeyLeaveDelay),
		CancelLeaveOnGrant: v.GetBool(KeyCancelLeaveOnGrant),
		ClearChatDefault:   v.GetInt(KeyClearChatDefault),
		ClearChatMax:       v.GetInt(KeyClearChatMax),
		Store:              strings.ToLower(strings.TrimSpace(v.GetString(KeyStore))),
		MySQLURL:           v.GetString(KeyMySQLURL),
		IgnoreSQLMigration: v.GetBool(KeyIgnoreMigration),
		RedisURL:           v.GetString(KeyRedisURL),
		RedisPrefix:        v.GetString(KeyRedisPrefix),
		MetricsAddr:        v.GetString(KeyMetricsAddr),
		BotToken:           v.GetString(KeyBotToken),
		WhatsAppDB:         v.GetString(KeyWhatsAppDB),
		Timezone:           v.GetString(KeyTimezone),
	}
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BotName, validation.Required),
		validation.Field(&c.Owner, validation.Required),
		validation.Field(&c.SpamKeywords, validation.Required, validation.Each(validation.Required)),
		validation.Field(&c.Commands, validation.Required, validation.Each(validation.Required)),
		validation.Field(&c.LeaveDelay, validation.Min(time.Duration(0))),
		validation.Field(&c.ClearChatMax, validation.Required, validation.Min(1)),
		validation.Field(&c.ClearChatDefault, validation.Required, validation.Min(1), validation.Max(c.ClearChatMax)),
		validation.Field(&c.Store, validation.Required, validation.In(StoreMemory, StoreMySQL, StoreRedis)),
		validation.Field(&c.MySQLURL, validation.When(c.Store == StoreMySQL, validation.Required)),
		validation.Field(&c.RedisURL, validation.When(c.Store == StoreRedis, validation.Required)),
		validation.Field(&c.RedisPrefix, validation.When(c.Store == StoreRedis, validation.Required)),
	)
}

// ValidateTelegram checks the settings only the Telegram transport needs.
func (c Config) ValidateTelegram() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BotToken, validation.Required),
	)
}

// ValidateWhatsApp checks the settings only the WhatsApp transport needs.
func (c Config) ValidateWhatsApp() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.WhatsAppDB, validation.Required),
	)
}

func splitList(s string) []string {
	var list []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			list = append(list, item)
		}
	}
	return list
}
