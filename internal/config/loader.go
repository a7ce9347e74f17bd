package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/singprov/")

	v.SetEnvPrefix("SINGPROV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Missing config file is fine, envs and defaults cover everything.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("http.addr", "0.0.0.0:8081")
	v.SetDefault("http.shutdown_timeout", "15s")
	v.SetDefault("http.cache_ttl", "1m")

	v.SetDefault("paths.server_config", "/etc/sing-box/config.json")
	v.SetDefault("paths.subscription", "/etc/sing-box/subscribe/sub.txt")
	v.SetDefault("paths.links_page", "/etc/sing-box/subscribe/links.html")

	// Empty defaults keep these keys visible to AutomaticEnv during Unmarshal.
	v.SetDefault("provision.domain", "")
	v.SetDefault("provision.tunnel.host", "")
	v.SetDefault("provision.tunnel.domain", "")
	v.SetDefault("provision.tunnel.token", "")
	v.SetDefault("keygen.command", "")

	v.SetDefault("provision.vless_reality_port", 443)
	v.SetDefault("provision.hysteria2_port", 8443)
	v.SetDefault("provision.tuic_port", 2083)
	v.SetDefault("provision.vmess_port", 8080)
	v.SetDefault("provision.vless_ws_port", 2096)
	v.SetDefault("provision.ws_path", "/vless")

	v.SetDefault("keygen.timeout", "10s")
	v.SetDefault("keygen.retries", 2)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "singprov")
}
