package interactive

import (
	"context"
	"errors"
	"testing"

	"github.com/manifoldco/promptui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hwchain/hwchain-cli/internal/domain/config"
	"github.com/hwchain/hwchain-cli/internal/domain/models"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		name           string
		nonInteractive bool
		tty            bool
		promptErr      error
		want           bool
		wantErr        bool
		wantAsked      bool
	}{
		{name: "non-interactive skips", nonInteractive: true, tty: true, want: true},
		{name: "no terminal skips", tty: false, want: true},
		{name: "yes", tty: true, want: true, wantAsked: true},
		{name: "no", tty: true, promptErr: promptui.ErrAbort, want: false, wantAsked: true},
		{name: "ctrl-c", tty: true, promptErr: promptui.ErrInterrupt, want: false, wantAsked: true},
		{name: "broken prompt", tty: true, promptErr: errors.New("eof"), wantErr: true, wantAsked: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asked := false
			c := NewConfirmAdapter(&config.RuntimeConfig{NonInteractive: tt.nonInteractive})
			c.isTTY = func() bool { return tt.tty }
			c.run = func(string) error {
				asked = true
				return tt.promptErr
			}

			got, err := c.Confirm(context.Background(), "Deploy to base-sepolia?")
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantAsked, asked)
		})
	}
}

func TestSelectDeploymentWithoutTerminal(t *testing.T) {
	s := NewSelectorAdapter(&config.RuntimeConfig{})
	s.isTTY = func() bool { return false }
	ctx := context.Background()

	one := &models.Deployment{ID: "button/31337/Switch:default", ContractName: "Switch", Label: "default"}
	two := &models.Deployment{ID: "button/31337/Switch:v2", ContractName: "Switch", Label: "v2"}

	got, err := s.SelectDeployment(ctx, []*models.Deployment{one}, "pick")
	require.NoError(t, err)
	assert.Equal(t, one, got)

	_, err = s.SelectDeployment(ctx, []*models.Deployment{one, two}, "pick")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "button/31337/Switch:v2")

	_, err = s.SelectDeployment(ctx, nil, "pick")
	assert.Error(t, err)
}

func TestFuzzySearch(t *testing.T) {
	search := createFuzzySearchFunc([]string{"Switch:default 0x5FbDB", "TokenGate:default 0xe7f1"})
	assert.True(t, search("", 0))
	assert.True(t, search("switch", 0))
	assert.True(t, search("tkgt", 1))
	assert.False(t, search("tkgt", 0))
}
