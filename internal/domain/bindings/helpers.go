package bindings

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// GetEventID returns the event signature hash for a given event name
// This is a helper method that works alongside the generated ABI bindings
func (tokenGate *TokenGate) GetEventID(eventName string) (common.Hash, error) {
	event, exists := tokenGate.abi.Events[eventName]
	if !exists {
		return common.Hash{}, fmt.Errorf("event %s not found", eventName)
	}
	return event.ID, nil
}

// GetEventID returns the event signature hash for a given event name
func (tokenGateToken *TokenGateToken) GetEventID(eventName string) (common.Hash, error) {
	event, exists := tokenGateToken.abi.Events[eventName]
	if !exists {
		return common.Hash{}, fmt.Errorf("event %s not found", eventName)
	}
	return event.ID, nil
}

func (e *TokenGateGatePulse) String() string {
	return fmt.Sprintf(
		"%s: value=%s from=%s amount=%s timestamp=%s",
		e.ContractEventName(),
		e.Value.String(),
		e.From.Hex(),
		e.Amount.String(),
		e.Timestamp.String(),
	)
}

func (e *TokenGateTokenTransfer) String() string {
	return fmt.Sprintf(
		"%s: from=%s to=%s value=%s",
		e.ContractEventName(),
		e.From.Hex(),
		e.To.Hex(),
		e.Value.String(),
	)
}
