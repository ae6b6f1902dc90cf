package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	domainconfig "github.com/voteagora/agora-tally/internal/domain/config"
)

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*domainconfig.RuntimeConfig, error) {
	// Get project root from viper
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		projectRoot = FindProjectRoot()
	}

	tenants, raw, source, err := loadTenants(projectRoot)
	if err != nil {
		return nil, err
	}

	cfg := &domainconfig.RuntimeConfig{
		ProjectRoot:    projectRoot,
		DataDir:        v.GetString("data_dir"),
		Tenants:        tenants,
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		JSON:           v.GetBool("json"),
		Headless:       v.GetBool("headless"),
		Timeout:        v.GetDuration("timeout"),
		Workers:        v.GetInt("workers"),
		CacheTTL:       v.GetDuration("cache_ttl"),
		RedisURL:       v.GetString("redis_url"),
		ListenAddr:     v.GetString("listen"),
		ConfigSource:   source,
	}

	if cfg.Headless {
		cfg.NonInteractive = true
	}

	if cfg.DataDir == "" {
		cfg.DataDir = raw.DataDir
	}
	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Join(projectRoot, ".agora")
	} else if !filepath.IsAbs(cfg.DataDir) {
		cfg.DataDir = filepath.Join(projectRoot, cfg.DataDir)
	}

	namespace := v.GetString("tenant")
	if namespace == "" {
		namespace = raw.Tenant
	}
	if namespace != "" {
		tenant, err := cfg.LookupTenant(namespace)
		if err != nil {
			return nil, err
		}
		cfg.Tenant = tenant
	}

	return cfg, nil
}

// FindProjectRoot walks up from the current directory to find agora.toml.
// Without one the current directory is the project root.
func FindProjectRoot() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}

	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, ConfigFile)); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up config file
	v.SetConfigName("config.local")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, ".agora"))

	// Set up environment variables
	v.SetEnvPrefix("AGORA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("timeout", "2m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("workers", 8)
	v.SetDefault("cache_ttl", "30s")
	v.SetDefault("listen", ":8080")
	v.SetDefault("project_root", projectRoot)

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	bind := func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil {
			panic(err)
		}
	}
	cmd.Flags().VisitAll(bind)
	cmd.InheritedFlags().VisitAll(bind)

	return v
}
