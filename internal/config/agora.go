package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	domainconfig "github.com/voteagora/agora-tally/internal/domain/config"
)

// ConfigFile is the project configuration file name
const ConfigFile = "agora.toml"

// AgoraTOML represents the raw agora.toml structure
type AgoraTOML struct {
	// Tenant is the default tenant namespace
	Tenant  string                               `toml:"tenant"`
	DataDir string                               `toml:"data_dir"`
	Tenants map[string]domainconfig.TenantConfig `toml:"tenants"`
}

// loadTenants merges agora.toml over the built-in tenant table. The second
// return value names the source for display.
func loadTenants(projectRoot string) (map[string]*domainconfig.TenantConfig, *AgoraTOML, string, error) {
	tenants := domainconfig.DefaultTenants()

	// Load .env files first for variable expansion
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}
	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}

	raw := &AgoraTOML{}
	source := "defaults"
	path := filepath.Join(projectRoot, ConfigFile)
	meta, err := toml.DecodeFile(path, raw)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// defaults only
	case err != nil:
		return nil, nil, "", fmt.Errorf("failed to parse %s: %w", ConfigFile, err)
	default:
		source = ConfigFile
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			fmt.Fprintf(os.Stderr, "Warning: unknown keys in %s: %v\n", ConfigFile, undecoded)
		}
	}

	for ns, tc := range raw.Tenants {
		merged := tc
		if base, ok := tenants[ns]; ok {
			merged = overlayTenant(*base, tc, meta, ns)
		}
		merged.Namespace = ns
		tenants[ns] = &merged
	}

	for ns, tc := range tenants {
		tc.RPCURL = resolveRPCURL(ns, tc.RPCURL)
		tc.Governor = os.ExpandEnv(tc.Governor)
		tc.VotableSupply = strings.TrimSpace(os.ExpandEnv(tc.VotableSupply))
		tc.ApplyDefaults()
	}
	return tenants, raw, source, nil
}

// overlayTenant applies the keys present in agora.toml to a built-in tenant
func overlayTenant(base, over domainconfig.TenantConfig, meta toml.MetaData, ns string) domainconfig.TenantConfig {
	set := func(key string) bool { return meta.IsDefined("tenants", ns, key) }

	if set("name") {
		base.Name = over.Name
	}
	if set("chain_id") {
		base.ChainID = over.ChainID
	}
	if set("rpc_url") {
		base.RPCURL = over.RPCURL
	}
	if set("governor") {
		base.Governor = over.Governor
	}
	if set("quorum_strategy") {
		base.QuorumStrategy = over.QuorumStrategy
	}
	if set("quorum_supply_bps") {
		base.QuorumSupplyBps = over.QuorumSupplyBps
	}
	if set("v6_upgrade_block") {
		base.V6UpgradeBlock = over.V6UpgradeBlock
	}
	if set("use_timestamps") {
		base.UseTimestamps = over.UseTimestamps
	}
	if set("participation") {
		base.Participation = over.Participation
	}
	if set("veto_threshold_bps") {
		base.VetoThresholdBps = over.VetoThresholdBps
	}
	if set("queue_expiry") {
		base.QueueExpiry = over.QueueExpiry
	}
	if set("votable_supply") {
		base.VotableSupply = over.VotableSupply
	}
	if set("token_decimals") {
		base.TokenDecimals = over.TokenDecimals
	}
	return base
}
