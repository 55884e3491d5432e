package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AMMMetrics holds all Prometheus metrics for the amm module
type AMMMetrics struct {
	// Swap metrics
	SwapsTotal        *prometheus.CounterVec
	SwapVolume        *prometheus.CounterVec
	SwapFeesCollected *prometheus.CounterVec
	ProtocolFees      *prometheus.CounterVec

	// Liquidity metrics
	LiquidityAdded   *prometheus.CounterVec
	LiquidityRemoved *prometheus.CounterVec
	PairReserves     *prometheus.GaugeVec
	LPShareSupply    *prometheus.GaugeVec

	// Factory metrics
	PairsCreated      *prometheus.CounterVec
	PairsDeprecated   prometheus.Counter
	ConfigsRegistered prometheus.Counter

	// Router metrics
	RoutesTotal   *prometheus.CounterVec
	RouteHops     prometheus.Histogram
	RouteFailedAt *prometheus.CounterVec
}

var (
	ammMetricsOnce sync.Once
	ammMetrics     *AMMMetrics
)

// NewAMMMetrics creates and registers amm metrics (singleton pattern)
func NewAMMMetrics() *AMMMetrics {
	ammMetricsOnce.Do(func() {
		ammMetrics = &AMMMetrics{
			SwapsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "ammx",
					Subsystem: "amm",
					Name:      "swaps_total",
					Help:      "Total number of swaps executed",
				},
				[]string{"pair", "asset_in", "asset_out", "status"},
			),
			SwapVolume: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "ammx",
					Subsystem: "amm",
					Name:      "swap_volume_total",
					Help:      "Total swap input volume in base units",
				},
				[]string{"pair", "asset_in"},
			),
			SwapFeesCollected: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "ammx",
					Subsystem: "amm",
					Name:      "swap_fees_total",
					Help:      "Total swap fees charged in base units",
				},
				[]string{"pair", "asset"},
			),
			ProtocolFees: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "ammx",
					Subsystem: "amm",
					Name:      "protocol_fees_total",
					Help:      "Total protocol fees sent to the fee address",
				},
				[]string{"asset"},
			),
			LiquidityAdded: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "ammx",
					Subsystem: "amm",
					Name:      "liquidity_added_total",
					Help:      "Total number of liquidity deposits",
				},
				[]string{"pair"},
			),
			LiquidityRemoved: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "ammx",
					Subsystem: "amm",
					Name:      "liquidity_removed_total",
					Help:      "Total number of liquidity withdrawals",
				},
				[]string{"pair"},
			),
			PairReserves: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "ammx",
					Subsystem: "amm",
					Name:      "pair_reserves",
					Help:      "Current pair reserves in base units",
				},
				[]string{"pair", "asset"},
			),
			LPShareSupply: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "ammx",
					Subsystem: "amm",
					Name:      "lp_share_supply",
					Help:      "Total LP shares of a pair",
				},
				[]string{"pair"},
			),
			PairsCreated: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "ammx",
					Subsystem: "amm",
					Name:      "pairs_created_total",
					Help:      "Total number of pairs created",
				},
				[]string{"kind"},
			),
			PairsDeprecated: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "ammx",
					Subsystem: "amm",
					Name:      "pairs_deprecated_total",
					Help:      "Total number of pairs deprecated",
				},
			),
			ConfigsRegistered: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "ammx",
					Subsystem: "amm",
					Name:      "pair_configs_registered_total",
					Help:      "Total number of pair config registrations and updates",
				},
			),
			RoutesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "ammx",
					Subsystem: "amm",
					Name:      "routes_total",
					Help:      "Total number of routes executed",
				},
				[]string{"mode", "status"},
			),
			RouteHops: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Namespace: "ammx",
					Subsystem: "amm",
					Name:      "route_hops",
					Help:      "Number of hops per executed route",
					Buckets:   []float64{1, 2, 3, 4, 5, 7, 10},
				},
			),
			RouteFailedAt: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "ammx",
					Subsystem: "amm",
					Name:      "route_failed_hop_total",
					Help:      "Route failures by failing hop index",
				},
				[]string{"hop"},
			),
		}
	})
	return ammMetrics
}

// GetAMMMetrics returns the singleton amm metrics instance
func GetAMMMetrics() *AMMMetrics {
	return NewAMMMetrics()
}
