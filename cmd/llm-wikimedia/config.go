package main

import (
	"github.com/spf13/viper"

	"github.com/pdiddy/llm-wikimedia/internal/convert"
	"github.com/pdiddy/llm-wikimedia/internal/embed"
	"github.com/pdiddy/llm-wikimedia/internal/httputil"
	"github.com/pdiddy/llm-wikimedia/internal/secrets"
	"github.com/pdiddy/llm-wikimedia/internal/store"
	"github.com/pdiddy/llm-wikimedia/pkg/types"
)

func setDefaults() {
	viper.SetDefault("lang", string(types.LangEN))
	viper.SetDefault("site", string(types.SiteWikipedia))
	viper.SetDefault("timeout", httputil.DefaultTimeout)
	viper.SetDefault("user_agent", httputil.DefaultUserAgent)
	viper.SetDefault("embed.backend", string(types.BackendCommand))
	viper.SetDefault("embed.command", embed.DefaultCommand)
	viper.SetDefault("embed.pandoc", convert.DefaultPandoc)
	viper.SetDefault("store.path", store.DefaultPath)
	viper.SetDefault("store.max_results", 10)
}

// loadConfig assembles the typed configuration from viper and the secrets
// directory. Explicit config values win over secret files.
func loadConfig() types.Config {
	return types.Config{
		Fetch: types.FetchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("timeout"),
				UserAgent: viper.GetString("user_agent"),
			},
			Lang: types.Lang(viper.GetString("lang")),
			Site: types.Site(viper.GetString("site")),
		},
		Embed: types.EmbedConfig{
			Backend: types.EmbedBackend(viper.GetString("embed.backend")),
			Model:   viper.GetString("embed.model"),
			Command: viper.GetString("embed.command"),
			Pandoc:  viper.GetString("embed.pandoc"),
		},
		OpenAI: types.OpenAIConfig{
			APIKey:  loadedSecrets.Value(secrets.OpenAIAPIKey, viper.GetString("openai.api_key")),
			BaseURL: viper.GetString("openai.base_url"),
		},
		Store: types.StoreConfig{
			Path:       viper.GetString("store.path"),
			MaxResults: viper.GetInt("store.max_results"),
		},
		Log: types.LogConfig{
			Level:  viper.GetString("log_level"),
			Format: viper.GetString("log_format"),
		},
	}
}
