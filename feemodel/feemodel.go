// Package feemodel derives the per-batch gas prices charged by the sequencer from the
// batch fee input.
package feemodel

import (
	"github.com/NethermindEth/statekeeper/core"
)

// MaxGasPerPubdataByte is the upper bound on the gas a transaction may be charged for one
// byte of pubdata. The base fee is kept high enough for this bound to cover the pubdata price.
const MaxGasPerPubdataByte = 50_000

// BatchBaseFee returns the base fee per gas for the batch. The enforced base fee, if any,
// always wins.
func BatchBaseFee(env *core.L1BatchEnv, version core.ProtocolVersionID) uint64 {
	if env.EnforcedBaseFee != nil {
		return *env.EnforcedBaseFee
	}
	baseFee, _ := DeriveBaseFeeAndGasPerPubdata(env.FeeInput, version)
	return baseFee
}

// DeriveBaseFeeAndGasPerPubdata returns the base fee and the gas charged per pubdata byte.
// Versions before 1.4.1 price pubdata off the L1 gas price; later versions use the fair
// pubdata price directly.
func DeriveBaseFeeAndGasPerPubdata(input core.BatchFeeInput, version core.ProtocolVersionID) (uint64, uint64) {
	if version.IsPre1_4_1() {
		pegged := input.IntoL1Pegged()
		ethPricePerPubdataByte := pegged.L1GasPrice * core.L1GasPerPubdataByte
		baseFee := max(pegged.FairL2GasPrice, ceilDiv(ethPricePerPubdataByte, MaxGasPerPubdataByte))
		return baseFee, gasPerPubdata(ethPricePerPubdataByte, baseFee)
	}

	independent := input.IntoPubdataIndependent()
	baseFee := max(independent.FairL2GasPrice, ceilDiv(independent.FairPubdataPrice, MaxGasPerPubdataByte))
	return baseFee, gasPerPubdata(independent.FairPubdataPrice, baseFee)
}

func gasPerPubdata(pubdataPrice, baseFee uint64) uint64 {
	if baseFee == 0 {
		return 0
	}
	return ceilDiv(pubdataPrice, baseFee)
}

func ceilDiv(a, b uint64) uint64 {
	if a == 0 {
		return 0
	}
	return (a-1)/b + 1
}
