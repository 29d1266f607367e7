package storage

import (
	"github.com/bits-and-blooms/bloom/v3"
)

const (
	falsePositive = 0.01
)

// MakeBloom builds the transaction id filter kept alongside each block.
func MakeBloom(ids []string) ([]byte, error) {
	b := bloom.NewWithEstimates(MaxBlockTxCount, falsePositive)

	for _, id := range ids {
		b.AddString(id)
	}

	return b.GobEncode()
}

func BloomContains(b []byte, id string) (bool, error) {
	bloom := bloom.NewWithEstimates(MaxBlockTxCount, falsePositive)

	if err := bloom.GobDecode(b); err != nil {
		return false, err
	}

	return bloom.TestString(id), nil
}
