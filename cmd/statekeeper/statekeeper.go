package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/NethermindEth/statekeeper/node"
	"github.com/NethermindEth/statekeeper/utils"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Version string

const greeting = "statekeeper %s: sequences transactions into miniblocks and L1 batches\n\n"

const (
	configF              = "config"
	logLevelF            = "log-level"
	colourF              = "colour"
	dbPathF              = "db-path"
	dbCacheSizeF         = "db-cache-size"
	metricsF             = "metrics"
	metricsHostF         = "metrics-host"
	metricsPortF         = "metrics-port"
	sealerQueueCapacityF = "sealer-queue-capacity"
	pollIntervalF        = "poll-interval"
	l2Erc20BridgeAddrF   = "l2-erc20-bridge-addr"
	preInsertTxsF        = "pre-insert-txs"

	defaultConfig              = ""
	defaultColour              = true
	defaultDBPath              = "statekeeper-db"
	defaultDBCacheSize         = uint(1024)
	defaultMetrics             = false
	defaultMetricsHost         = "localhost"
	defaultMetricsPort         = uint16(9090)
	defaultSealerQueueCapacity = uint(10)
	defaultPollInterval        = time.Second
	defaultL2Erc20BridgeAddr   = ""
	defaultPreInsertTxs        = false

	configFlagUsage   = "The YAML configuration file."
	logLevelFlagUsage = "Options: debug, info, warn, error."
	colourUsage       = "Uses --colour=false command to disable colourized outputs (ANSI Escape Codes)."
	dbPathUsage       = "Location of the database files."
	dbCacheSizeUsage  = "Determines the amount of memory (in megabytes) allocated for caching data in the database."
	metricsUsage      = "Enables the Prometheus metrics endpoint on the default port."
	metricsHostUsage  = "The interface on which the Prometheus endpoint will listen for requests."
	metricsPortUsage  = "The port on which the Prometheus endpoint will listen for requests."
	sealerQueueUsage  = "How many sealed miniblocks may wait to be persisted. " +
		"With 0 every miniblock is persisted before the next one is opened."
	pollIntervalUsage = "The longest the state keeper waits for a transaction before re-evaluating " +
		"whether to seal the open miniblock or L1 batch."
	l2Erc20BridgeAddrUsage = "Address of the L2 ERC20 bridge stored in every miniblock header."
	preInsertTxsUsage      = "Store transaction bodies together with the miniblock that includes them."
)

// StatekeeperNode is what the run command starts, node.Node in production.
type StatekeeperNode interface {
	Run(ctx context.Context) error
	Config() node.Config
}

type NewNodeFn func(cfg *node.Config) (StatekeeperNode, error)

var cfgFile string

func NewCmd(newNodeFn NewNodeFn) *cobra.Command {
	statekeeperCmd := &cobra.Command{
		Use:     "statekeeper [flags]",
		Short:   "Sequencing core of a rollup node.",
		Version: Version,
	}

	config := new(node.Config)
	statekeeperCmd.PreRunE = func(cmd *cobra.Command, _ []string) error {
		v := viper.New()
		if cfgFile != "" {
			v.SetConfigType("yaml")
			v.SetConfigFile(cfgFile)
			if err := v.ReadInConfig(); err != nil {
				return err
			}
		}

		v.SetEnvPrefix("STATEKEEPER")
		v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		v.AutomaticEnv()
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return err
		}

		return v.Unmarshal(config, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
		)))
	}

	statekeeperCmd.RunE = func(cmd *cobra.Command, _ []string) error {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), greeting, Version); err != nil {
			return err
		}

		n, err := newNodeFn(config)
		if err != nil {
			return err
		}
		return n.Run(cmd.Context())
	}

	defaultLogLevel := utils.INFO
	statekeeperCmd.Flags().StringVar(&cfgFile, configF, defaultConfig, configFlagUsage)
	statekeeperCmd.Flags().Var(&defaultLogLevel, logLevelF, logLevelFlagUsage)
	statekeeperCmd.Flags().Bool(colourF, defaultColour, colourUsage)
	statekeeperCmd.Flags().String(dbPathF, defaultDBPath, dbPathUsage)
	statekeeperCmd.Flags().Uint(dbCacheSizeF, defaultDBCacheSize, dbCacheSizeUsage)
	statekeeperCmd.Flags().Bool(metricsF, defaultMetrics, metricsUsage)
	statekeeperCmd.Flags().String(metricsHostF, defaultMetricsHost, metricsHostUsage)
	statekeeperCmd.Flags().Uint16(metricsPortF, defaultMetricsPort, metricsPortUsage)
	statekeeperCmd.Flags().Uint(sealerQueueCapacityF, defaultSealerQueueCapacity, sealerQueueUsage)
	statekeeperCmd.Flags().Duration(pollIntervalF, defaultPollInterval, pollIntervalUsage)
	statekeeperCmd.Flags().String(l2Erc20BridgeAddrF, defaultL2Erc20BridgeAddr, l2Erc20BridgeAddrUsage)
	statekeeperCmd.Flags().Bool(preInsertTxsF, defaultPreInsertTxs, preInsertTxsUsage)

	statekeeperCmd.AddCommand(DBCmd(defaultDBPath))
	return statekeeperCmd
}
