package indicator

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/hwchain/hwchain-cli/internal/domain"
)

func TestConsole(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	var buf bytes.Buffer
	c := NewConsole(&buf)
	pulse := &domain.Pulse{
		Value:       big.NewInt(3),
		From:        common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
		BlockNumber: 12,
	}

	c.Begin(pulse)
	c.Tick(pulse, 2)
	c.Center()

	assert.Equal(t,
		"▶ gate open for 3s from 0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266 (block 12)\n"+
			"  2\n"+
			"◆ gate centered\n",
		buf.String())
}
