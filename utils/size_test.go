package utils_test

import (
	"testing"

	"github.com/NethermindEth/statekeeper/utils"
	"github.com/stretchr/testify/assert"
)

func TestDataSizeString(t *testing.T) {
	tests := map[utils.DataSize]string{
		0:       "0.00 B",
		1023:    "1023.00 B",
		1024:    "1.00 KiB",
		1536:    "1.50 KiB",
		1 << 20: "1.00 MiB",
		5 << 30: "5.00 GiB",
		1 << 40: "1.00 TiB",
		1 << 50: "1024.00 TiB",
	}
	for size, expected := range tests {
		assert.Equal(t, expected, size.String())
	}
}
