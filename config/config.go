package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`
	Redis struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	LDAP struct {
		URL             string        `mapstructure:"url"`
		BindDN          string        `mapstructure:"bind_dn"`
		BindPassword    string        `mapstructure:"bind_password"`
		BaseDN          string        `mapstructure:"base_dn"`
		LoginAttribute  string        `mapstructure:"login_attribute"`
		PoolSize        int           `mapstructure:"pool_size"`
		CheckoutTimeout time.Duration `mapstructure:"checkout_timeout"`
	} `mapstructure:"ldap"`
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	Auth struct {
		// Backend selects the identity source: "sql" or "ldap".
		Backend        string        `mapstructure:"backend"`
		BackendTimeout time.Duration `mapstructure:"backend_timeout"`
	} `mapstructure:"auth"`
	JWT struct {
		// Keys are base64-encoded PEM blocks; one RSA pair per token purpose.
		AccessTokenPrivateKey  string        `mapstructure:"access_token_private_key"`
		AccessTokenPublicKey   string        `mapstructure:"access_token_public_key"`
		AccessTokenMaxAge      time.Duration `mapstructure:"access_token_max_age"`
		RefreshTokenPrivateKey string        `mapstructure:"refresh_token_private_key"`
		RefreshTokenPublicKey  string        `mapstructure:"refresh_token_public_key"`
		RefreshTokenMaxAge     time.Duration `mapstructure:"refresh_token_max_age"`
	} `mapstructure:"jwt"`
}

var AppConfig Config

func LoadConfig(path string) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}
