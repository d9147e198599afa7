package node

import (
	"context"
	"errors"
	"fmt"
	"net"
	"reflect"
	"strconv"
	"sync"
	"time"

	"github.com/NethermindEth/statekeeper/blockstore"
	"github.com/NethermindEth/statekeeper/db"
	"github.com/NethermindEth/statekeeper/db/pebble"
	"github.com/NethermindEth/statekeeper/keeper"
	"github.com/NethermindEth/statekeeper/sealer"
	"github.com/NethermindEth/statekeeper/service"
	"github.com/NethermindEth/statekeeper/updates"
	"github.com/NethermindEth/statekeeper/utils"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sourcegraph/conc"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Config is the top-level statekeeper configuration.
type Config struct {
	LogLevel     utils.LogLevel `mapstructure:"log-level" yaml:"log-level"`
	Colour       bool           `mapstructure:"colour" yaml:"colour"`
	DatabasePath string         `mapstructure:"db-path" yaml:"db-path" validate:"required"`
	DBCacheSize  uint           `mapstructure:"db-cache-size" yaml:"db-cache-size"`

	Metrics     bool   `mapstructure:"metrics" yaml:"metrics"`
	MetricsHost string `mapstructure:"metrics-host" yaml:"metrics-host" validate:"required_if=Metrics true"`
	MetricsPort uint16 `mapstructure:"metrics-port" yaml:"metrics-port"`

	SealerQueueCapacity uint          `mapstructure:"sealer-queue-capacity" yaml:"sealer-queue-capacity"`
	PollInterval        time.Duration `mapstructure:"poll-interval" yaml:"poll-interval" validate:"gt=0"`
	L2Erc20BridgeAddr   string        `mapstructure:"l2-erc20-bridge-addr" yaml:"l2-erc20-bridge-addr" validate:"omitempty,eth_addr"`
	PreInsertTxs        bool          `mapstructure:"pre-insert-txs" yaml:"pre-insert-txs"`
}

// Validate checks the configuration for values the node cannot run with.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// KeeperDeps are the parts of the sequencer the embedder provides: where transactions
// come from, how they are executed and when miniblocks and batches are sealed.
type KeeperDeps struct {
	TxSource       keeper.TxSource
	Executor       keeper.Executor
	Policy         keeper.SealPolicy
	BatchEnvSource keeper.BatchEnvSource
}

type Node struct {
	cfg      *Config
	db       db.DB
	store    *blockstore.Store
	handle   *sealer.Handle
	registry *prometheus.Registry
	metrics  *httpService

	services []service.Service
	log      utils.Logger
}

// New opens the database and sets up the sealer and, if enabled, the metrics server.
// The keeper is attached separately with WithKeeper.
func New(cfg *Config) (*Node, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log, err := utils.NewZapLogger(cfg.LogLevel, cfg.Colour)
	if err != nil {
		return nil, err
	}
	if yamlConfig, err := yaml.Marshal(cfg); err == nil {
		log.Debugw("Running with config:\n" + string(yamlConfig))
	}

	dbLog, err := utils.NewZapLogger(utils.ERROR, cfg.Colour)
	if err != nil {
		return nil, fmt.Errorf("create DB logger: %w", err)
	}
	database, err := pebble.New(cfg.DatabasePath, cfg.DBCacheSize, dbLog)
	if err != nil {
		return nil, fmt.Errorf("open DB: %w", err)
	}

	n := &Node{
		cfg: cfg,
		db:  database,
		log: log,
	}

	var metricsListener net.Listener
	if cfg.Metrics {
		metricsListener, err = net.Listen("tcp", net.JoinHostPort(cfg.MetricsHost, strconv.Itoa(int(cfg.MetricsPort))))
		if err != nil {
			return nil, multierr.Append(fmt.Errorf("listen for metrics: %w", err), database.Close())
		}
		n.registry = prometheus.NewRegistry()
		n.db = database.WithListener(makeDBMetrics(n.registry))
	}

	n.store = blockstore.New(n.db, log)
	miniblockSealer, handle := sealer.New(n.store, cfg.SealerQueueCapacity, log)
	n.handle = handle
	n.services = append(n.services, miniblockSealer)

	if cfg.Metrics {
		miniblockSealer.WithListener(makeSealerMetrics(n.registry))
		makeChainMetrics(n.registry, n.store)
		n.metrics = makeMetrics(metricsListener, n.registry)
		n.services = append(n.services, n.metrics)
	}
	return n, nil
}

// WithKeeper adds a keeper that continues the chain from the last sealed miniblock.
func (n *Node) WithKeeper(deps KeeperDeps) (*Node, error) {
	cursor, err := n.Cursor()
	if err != nil {
		return nil, err
	}

	k := keeper.New(keeper.Config{
		PollInterval:      n.cfg.PollInterval,
		L2Erc20BridgeAddr: common.HexToAddress(n.cfg.L2Erc20BridgeAddr),
		PreInsertTxs:      n.cfg.PreInsertTxs,
	}, deps.TxSource, deps.Executor, deps.Policy, n.handle, n.log).WithBatchEnvSource(deps.BatchEnvSource, cursor)
	if n.registry != nil {
		k.WithListener(makeKeeperMetrics(n.registry))
	}

	n.log.Infow("Keeper attached", "nextMiniblock", cursor.NextMiniblock, "lastL1Batch", cursor.L1Batch)
	n.services = append(n.services, k)
	return n, nil
}

// Cursor describes where sequencing resumes. On an empty chain it is the zero cursor.
func (n *Node) Cursor() (updates.IoCursor, error) {
	head, err := n.store.Head()
	if errors.Is(err, blockstore.ErrEmptyChain) {
		return updates.IoCursor{}, nil
	} else if err != nil {
		return updates.IoCursor{}, fmt.Errorf("read chain head: %w", err)
	}
	return updates.IoCursor{
		NextMiniblock:          head.Number + 1,
		PrevMiniblockHash:      head.Hash,
		PrevMiniblockTimestamp: head.Timestamp,
		L1Batch:                head.L1BatchNumber,
	}, nil
}

// Run starts the services and blocks until the context is cancelled or one of them
// fails. The database is closed before returning.
func (n *Node) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		errMu  sync.Mutex
		runErr error
	)
	wg := conc.NewWaitGroup()
	for _, s := range n.services {
		wg.Go(func() {
			if err := s.Run(ctx); err != nil {
				n.log.Errorw("Service error", "name", reflect.TypeOf(s), "err", err)
				errMu.Lock()
				runErr = multierr.Append(runErr, err)
				errMu.Unlock()
				cancel()
			}
		})
	}

	<-ctx.Done()
	wg.Wait()
	n.log.Infow("Shutting down statekeeper...")
	if closeErr := n.db.Close(); closeErr != nil {
		n.log.Errorw("Error while closing the DB", "err", closeErr)
		runErr = multierr.Append(runErr, closeErr)
	}
	return runErr
}

func (n *Node) Config() Config {
	return *n.cfg
}

// Store is the block store the sealer writes to.
func (n *Node) Store() *blockstore.Store {
	return n.store
}

// MetricsAddr is the address the metrics server listens on, nil when it is disabled.
func (n *Node) MetricsAddr() net.Addr {
	if n.metrics == nil {
		return nil
	}
	return n.metrics.Addr()
}
