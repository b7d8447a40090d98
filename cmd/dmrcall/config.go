package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/clark-lab/dmrcall/internal/dmr"
)

// configKey describes one recognized setting: its value kind, its
// default, and the range the aggregator will accept for it.
type configKey struct {
	kind  string // "float" or "int"
	def   any
	usage string
	check func(v float64) error
}

// knownConfigKeys enumerates the persistent call thresholds. Defaults
// mirror dmr.DefaultConfig so `config` output matches what an unflagged
// `call` run uses.
func knownConfigKeys() map[string]configKey {
	defaults := dmr.DefaultConfig()
	return map[string]configKey{
		"call.sig_cutoff": {
			kind: "float", def: defaults.SigCutoff,
			usage: "per-site significance cutoff",
			check: func(v float64) error {
				if v <= 0 || v > 1 {
					return fmt.Errorf("must be in (0,1]")
				}
				return nil
			},
		},
		"call.max_gap": {
			kind: "int", def: defaults.MaxGap,
			usage: "maximum gap in bp between member sites",
			check: func(v float64) error {
				if v < 0 {
					return fmt.Errorf("must be >= 0")
				}
				return nil
			},
		},
		"call.min_sites": {
			kind: "int", def: defaults.MinSites,
			usage: "minimum member sites per region",
			check: func(v float64) error {
				if v < 1 {
					return fmt.Errorf("must be >= 1")
				}
				return nil
			},
		},
		"call.min_abs_delta": {
			kind: "float", def: 0.0,
			usage: "minimum |mean methylation difference| per region",
			check: func(v float64) error {
				if v < 0 {
					return fmt.Errorf("must be >= 0")
				}
				return nil
			},
		},
	}
}

func sortedConfigKeyNames() []string {
	keys := knownConfigKeys()
	names := make([]string, 0, len(keys))
	for name := range keys {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// parseConfigValue validates a key/value pair against the known keys
// and returns the typed value to store.
func parseConfigValue(key, value string) (any, error) {
	k, ok := knownConfigKeys()[key]
	if !ok {
		return nil, fmt.Errorf("unknown key %q (known keys: %s)", key, strings.Join(sortedConfigKeyNames(), ", "))
	}

	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("value for %s must be a number, got %q", key, value)
	}
	if err := k.check(v); err != nil {
		return nil, fmt.Errorf("invalid %s: %v", key, err)
	}

	if k.kind == "int" {
		if v != math.Trunc(v) {
			return nil, fmt.Errorf("value for %s must be an integer, got %q", key, value)
		}
		return int64(v), nil
	}
	return v, nil
}

// effectiveConfigValue returns the configured value for a known key, or
// its default when unset.
func effectiveConfigValue(key string) any {
	if viper.IsSet(key) {
		return viper.Get(key)
	}
	return knownConfigKeys()[key].def
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage persistent call thresholds",
		Long:  "Show, get, or set the default call thresholds. Config is stored in ~/.dmrcall.yaml.",
		Example: `  dmrcall config                           # show effective thresholds
  dmrcall config set call.sig_cutoff 0.01  # default significance cutoff
  dmrcall config get call.max_gap          # get a value`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow()
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a call threshold",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a call threshold",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(args[0])
		},
	}
}

// runConfigShow prints the effective value of every known key, defaults
// included, as YAML.
func runConfigShow() error {
	call := make(map[string]any)
	for _, name := range sortedConfigKeyNames() {
		call[strings.TrimPrefix(name, "call.")] = effectiveConfigValue(name)
	}

	out, err := yaml.Marshal(map[string]any{"call": call})
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if viper.ConfigFileUsed() == "" {
		fmt.Println("# No config file found; showing defaults. Config file: ~/.dmrcall.yaml")
	}
	fmt.Print(string(out))
	return nil
}

func runConfigSet(key, value string) error {
	typed, err := parseConfigValue(key, value)
	if err != nil {
		return err
	}
	viper.Set(key, typed)

	// Ensure config file exists
	cfgFile := viper.ConfigFileUsed()
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		cfgFile = filepath.Join(home, ".dmrcall.yaml")
	}

	if err := viper.WriteConfigAs(cfgFile); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Set %s = %v in %s\n", key, typed, cfgFile)
	return nil
}

func runConfigGet(key string) error {
	if _, ok := knownConfigKeys()[key]; !ok {
		return fmt.Errorf("unknown key %q (known keys: %s)", key, strings.Join(sortedConfigKeyNames(), ", "))
	}
	fmt.Println(effectiveConfigValue(key))
	return nil
}
