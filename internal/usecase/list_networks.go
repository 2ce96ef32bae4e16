package usecase

import (
	"context"
	"sync"
)

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Current  string          `json:"current"`
	Networks []NetworkStatus `json:"networks"`
}

// NetworkStatus represents the status of a network
type NetworkStatus struct {
	Name string `json:"name"`
	// ChainID is the configured chain ID, LiveChainID what the RPC reports
	ChainID     uint64 `json:"chainId"`
	LiveChainID uint64 `json:"liveChainId,omitempty"`
	RPCURL      string `json:"rpcUrl"`
	Error       error  `json:"-"`
}

// Mismatch reports a live chain ID that differs from the configured one
func (s NetworkStatus) Mismatch() bool {
	return s.ChainID != 0 && s.LiveChainID != 0 && s.ChainID != s.LiveChainID
}

// ListNetworks is a use case for listing available networks
type ListNetworks struct {
	resolver NetworkResolver
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(resolver NetworkResolver) *ListNetworks {
	return &ListNetworks{
		resolver: resolver,
	}
}

// Run resolves every configured network and probes their RPCs concurrently
func (uc *ListNetworks) Run(ctx context.Context) (*ListNetworksResult, error) {
	names := uc.resolver.GetNetworks(ctx)
	networks := make([]NetworkStatus, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		networks[i].Name = name
		info, err := uc.resolver.ResolveNetwork(ctx, name)
		if err != nil {
			networks[i].Error = err
			continue
		}
		networks[i].ChainID = info.ChainID
		networks[i].RPCURL = info.RPCURL

		wg.Add(1)
		go func(status *NetworkStatus) {
			defer wg.Done()
			status.LiveChainID, status.Error = uc.resolver.ProbeChainID(ctx, info)
		}(&networks[i])
	}
	wg.Wait()

	result := &ListNetworksResult{Networks: networks}
	if current, err := uc.resolver.ResolveNetwork(ctx, ""); err == nil {
		result.Current = current.Name
	}
	return result, nil
}
