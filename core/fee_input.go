package core

// L1GasPerPubdataByte is the amount of L1 gas needed to publish one byte of pubdata.
const L1GasPerPubdataByte = 17

type FeeInputKind uint8

const (
	L1PeggedFeeInput FeeInputKind = iota
	PubdataIndependentFeeInput
)

// BatchFeeInput holds the prices a batch was opened with. For the L1 pegged kind the pubdata
// price is derived from the L1 gas price.
type BatchFeeInput struct {
	Kind             FeeInputKind
	L1GasPrice       uint64
	FairL2GasPrice   uint64
	FairPubdataPrice uint64
}

func NewL1PeggedFeeInput(l1GasPrice, fairL2GasPrice uint64) BatchFeeInput {
	return BatchFeeInput{
		Kind:           L1PeggedFeeInput,
		L1GasPrice:     l1GasPrice,
		FairL2GasPrice: fairL2GasPrice,
	}
}

func NewPubdataIndependentFeeInput(fairL2GasPrice, fairPubdataPrice, l1GasPrice uint64) BatchFeeInput {
	return BatchFeeInput{
		Kind:             PubdataIndependentFeeInput,
		L1GasPrice:       l1GasPrice,
		FairL2GasPrice:   fairL2GasPrice,
		FairPubdataPrice: fairPubdataPrice,
	}
}

// PubdataPrice is the fair price of one byte of pubdata in wei.
func (f BatchFeeInput) PubdataPrice() uint64 {
	if f.Kind == L1PeggedFeeInput {
		return f.L1GasPrice * L1GasPerPubdataByte
	}
	return f.FairPubdataPrice
}

func (f BatchFeeInput) IntoPubdataIndependent() BatchFeeInput {
	return NewPubdataIndependentFeeInput(f.FairL2GasPrice, f.PubdataPrice(), f.L1GasPrice)
}

func (f BatchFeeInput) IntoL1Pegged() BatchFeeInput {
	return NewL1PeggedFeeInput(f.L1GasPrice, f.FairL2GasPrice)
}
