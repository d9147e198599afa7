package node

import (
	"errors"
	"math"
	"time"

	"github.com/NethermindEth/statekeeper/blockstore"
	"github.com/NethermindEth/statekeeper/core"
	"github.com/NethermindEth/statekeeper/db"
	"github.com/NethermindEth/statekeeper/keeper"
	"github.com/NethermindEth/statekeeper/sealer"
	"github.com/NethermindEth/statekeeper/updates"
	"github.com/prometheus/client_golang/prometheus"
)

func makeDBMetrics(registry prometheus.Registerer) db.EventListener {
	latencyBuckets := []float64{
		25,
		50,
		75,
		100,
		250,
		500,
		1000, // 1ms
		2000,
		3000,
		4000,
		5000,
		10000,
		50000,
		500000,
		math.Inf(0),
	}
	readLatencyHistogram := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "db",
		Name:      "read_latency",
		Buckets:   latencyBuckets,
	})
	writeLatencyHistogram := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "db",
		Name:      "write_latency",
		Buckets:   latencyBuckets,
	})
	commitLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "db",
		Name:      "commit_latency",
		Buckets: []float64{
			5000,
			10000,
			20000,
			30000,
			40000,
			50000,
			100000, // 100ms
			200000,
			300000,
			500000,
			1000000,
			math.Inf(0),
		},
	})

	registry.MustRegister(readLatencyHistogram, writeLatencyHistogram, commitLatency)
	return &db.SelectiveListener{
		OnIOCb: func(write bool, duration time.Duration) {
			if write {
				writeLatencyHistogram.Observe(float64(duration.Microseconds()))
			} else {
				readLatencyHistogram.Observe(float64(duration.Microseconds()))
			}
		},
		OnCommitCb: func(duration time.Duration) {
			commitLatency.Observe(float64(duration.Microseconds()))
		},
	}
}

func makeSealerMetrics(registry prometheus.Registerer) sealer.EventListener {
	queueDepth := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sealer",
		Name:      "queue_depth",
	})
	sealLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "sealer",
		Name:      "seal_latency",
	})
	sealedMiniblocks := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sealer",
		Name:      "miniblocks",
	})
	sealedTxs := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sealer",
		Name:      "transactions",
	})

	registry.MustRegister(queueDepth, sealLatency, sealedMiniblocks, sealedTxs)
	return &sealer.SelectiveListener{
		OnQueuedCb: func(depth int) {
			queueDepth.Set(float64(depth))
		},
		OnSealedCb: func(cmd *updates.MiniblockSealCommand, took time.Duration) {
			sealLatency.Observe(took.Seconds())
			sealedMiniblocks.Inc()
			sealedTxs.Add(float64(cmd.Miniblock.Len()))
		},
	}
}

func makeKeeperMetrics(registry prometheus.Registerer) keeper.EventListener {
	includedTxs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "keeper",
		Name:      "included_transactions",
	}, []string{"kind"})
	rejectedTxs := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "keeper",
		Name:      "rejected_transactions",
	})
	miniblockSize := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "keeper",
		Name:      "miniblock_transactions",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	})
	l1Batches := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "keeper",
		Name:      "l1_batches",
	})
	l1BatchMiniblocks := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "keeper",
		Name:      "l1_batch_miniblocks",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	})

	registry.MustRegister(includedTxs, rejectedTxs, miniblockSize, l1Batches, l1BatchMiniblocks)
	return &keeper.SelectiveListener{
		OnTxIncludedCb: func(kind core.TxKind) {
			includedTxs.WithLabelValues(kind.String()).Inc()
		},
		OnTxRejectedCb: func(string) {
			rejectedTxs.Inc()
		},
		OnMiniblockSealedCb: func(txCount int) {
			miniblockSize.Observe(float64(txCount))
		},
		OnL1BatchSealedCb: func(_, miniblockCount int) {
			l1Batches.Inc()
			l1BatchMiniblocks.Observe(float64(miniblockCount))
		},
	}
}

func makeChainMetrics(registry prometheus.Registerer, store *blockstore.Store) {
	head := func() *blockstore.MiniblockHeader {
		header, err := store.Head()
		if err != nil {
			if !errors.Is(err, blockstore.ErrEmptyChain) {
				return nil
			}
			return &blockstore.MiniblockHeader{}
		}
		return header
	}
	miniblockHeight := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "chain",
		Name:      "miniblock_height",
	}, func() float64 {
		if header := head(); header != nil {
			return float64(header.Number)
		}
		return math.NaN()
	})
	l1BatchHeight := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "chain",
		Name:      "l1_batch_height",
	}, func() float64 {
		if header := head(); header != nil {
			return float64(header.L1BatchNumber)
		}
		return math.NaN()
	})

	registry.MustRegister(miniblockHeight, l1BatchHeight)
}
