package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hwchain/hwchain-cli/internal/domain"
	"github.com/hwchain/hwchain-cli/internal/domain/bindings"
	"github.com/hwchain/hwchain-cli/internal/domain/config"
	"github.com/hwchain/hwchain-cli/internal/domain/models"
)

// GatePulseTopic is topic0 of GatePulse(uint256,address,uint256,uint256)
var GatePulseTopic = crypto.Keccak256Hash([]byte("GatePulse(uint256,address,uint256,uint256)"))

const (
	seenLimit = 2048
	seenKeep  = 1024
)

// ListenGateParams contains parameters for the gate listener
type ListenGateParams struct {
	Address     string
	MetricsAddr string
}

// ListenGateResult summarizes a listener session once it has stopped
type ListenGateResult struct {
	SessionID  string         `json:"sessionId"`
	Gate       common.Address `json:"gate"`
	StartBlock uint64         `json:"startBlock"`
	LastBlock  uint64         `json:"lastBlock"`
	Received   int            `json:"received"`
	Duplicates int            `json:"duplicates"`
	Undecoded  int            `json:"undecoded"`
	Dropped    int            `json:"dropped"`
	Handled    int            `json:"handled"`
	// Abandoned counts queued pulses skipped after the drain timeout
	Abandoned int           `json:"abandoned"`
	Duration  time.Duration `json:"duration"`
}

// ListenGate follows GatePulse events and drives the gate indicator. It runs
// until ctx is cancelled, then drains the queue.
type ListenGate struct {
	config    *config.RuntimeConfig
	chain     ChainClient
	locator   *contractLocator
	indicator GateIndicator
	metrics   GateMetrics
	server    MetricsServer
	binding   *bindings.TokenGate
	log       *slog.Logger
}

// NewListenGate creates a new ListenGate use case
func NewListenGate(
	cfg *config.RuntimeConfig,
	chain ChainClient,
	registry DeploymentRepository,
	indicator GateIndicator,
	metrics GateMetrics,
	server MetricsServer,
	log *slog.Logger,
) *ListenGate {
	return &ListenGate{
		config:    cfg,
		chain:     chain,
		locator:   &contractLocator{chain: chain, registry: registry},
		indicator: indicator,
		metrics:   metrics,
		server:    server,
		binding:   bindings.NewTokenGate(),
		log:       log.With("component", "gate"),
	}
}

// gateSession is the state shared by the poller and the worker. Poller-owned
// and worker-owned counters are only read together after both have stopped.
type gateSession struct {
	gate  common.Address
	from  uint64
	queue chan domain.Pulse
	seen  *seenSet
	res   *ListenGateResult
}

// Run starts the listener
func (uc *ListenGate) Run(ctx context.Context, params ListenGateParams) (*ListenGateResult, error) {
	if uc.config.Network == nil || uc.config.Network.RPCURL == "" {
		return nil, fmt.Errorf("%w: set RPC_URL or --network", domain.ErrNoNetwork)
	}
	gate, _, err := uc.locator.locate(ctx, params.Address, uc.config.Gate.Address, models.ProjectTokenGate, models.ContractTokenGate)
	if err != nil {
		if errors.Is(err, domain.ErrNoContractAddress) {
			return nil, fmt.Errorf("%w: set GATE_ADDRESS or pass --address", err)
		}
		return nil, err
	}

	tip, err := uc.chain.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read current block: %w", err)
	}

	started := time.Now()
	s := &gateSession{
		gate:  gate,
		from:  tip + 1,
		queue: make(chan domain.Pulse, uc.config.Gate.QueueSize),
		seen:  newSeenSet(seenLimit, seenKeep),
		res: &ListenGateResult{
			SessionID:  uuid.NewString(),
			Gate:       gate,
			StartBlock: tip + 1,
			LastBlock:  tip,
		},
	}
	log := uc.log.With("session", s.res.SessionID)
	log.Info("listening", "gate", gate.Hex(), "from", s.from)

	drainCtx, cancelDrain := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelDrain()

	var worker sync.WaitGroup
	worker.Add(1)
	go func() {
		defer worker.Done()
		uc.work(drainCtx, s)
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(s.queue)
		uc.poll(gctx, s, log)
		return nil
	})
	metricsAddr := params.MetricsAddr
	if metricsAddr == "" {
		metricsAddr = uc.config.Gate.MetricsAddr
	}
	if metricsAddr != "" && uc.server != nil {
		g.Go(func() error {
			return uc.server.Serve(gctx, metricsAddr)
		})
	}
	runErr := g.Wait()

	log.Info("draining", "queued", len(s.queue), "timeout", uc.config.Gate.DrainTimeout)
	timer := time.AfterFunc(uc.config.Gate.DrainTimeout, cancelDrain)
	worker.Wait()
	timer.Stop()

	s.res.Duration = time.Since(started)
	if runErr != nil {
		return s.res, runErr
	}
	log.Info("stopped", "handled", s.res.Handled, "dropped", s.res.Dropped, "abandoned", s.res.Abandoned)
	return s.res, nil
}

func (uc *ListenGate) poll(ctx context.Context, s *gateSession, log *slog.Logger) {
	ticker := time.NewTicker(uc.config.Gate.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		uc.pollOnce(ctx, s, log)
	}
}

// pollOnce fetches [from, tip]. On an RPC error from is left unchanged so the
// range is retried on the next tick.
func (uc *ListenGate) pollOnce(ctx context.Context, s *gateSession, log *slog.Logger) {
	tip, err := uc.chain.BlockNumber(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Warn("block number failed", "error", err)
		}
		return
	}
	if tip < s.from {
		return
	}

	logs, err := uc.chain.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(s.from),
		ToBlock:   new(big.Int).SetUint64(tip),
		Addresses: []common.Address{s.gate},
		Topics:    [][]common.Hash{{GatePulseTopic}},
	})
	if err != nil {
		if ctx.Err() == nil {
			log.Warn("get logs failed", "from", s.from, "to", tip, "error", err)
		}
		return
	}

	sort.Slice(logs, func(i, j int) bool {
		if logs[i].BlockNumber != logs[j].BlockNumber {
			return logs[i].BlockNumber < logs[j].BlockNumber
		}
		return logs[i].Index < logs[j].Index
	})

	for i := range logs {
		if logs[i].Removed {
			continue
		}
		pulse, err := uc.decode(&logs[i])
		if err != nil {
			log.Warn("skipping undecodable log", "tx", logs[i].TxHash.Hex(), "index", logs[i].Index, "error", err)
			s.res.Undecoded++
			continue
		}
		if !s.seen.add(pulse.Key()) {
			s.res.Duplicates++
			uc.metrics.PulseDuplicate()
			continue
		}
		s.res.Received++
		uc.metrics.PulseReceived()

		select {
		case s.queue <- *pulse:
			uc.metrics.SetQueueDepth(len(s.queue))
		default:
			s.res.Dropped++
			uc.metrics.PulseDropped()
			log.Warn("queue full, dropping pulse", "tx", pulse.TxHash.Hex(), "value", pulse.Value)
		}
	}

	s.from = tip + 1
	s.res.LastBlock = tip
	uc.metrics.SetLastBlock(tip)
}

func (uc *ListenGate) decode(l *types.Log) (*domain.Pulse, error) {
	if len(l.Topics) == 0 {
		return nil, fmt.Errorf("log has no topics")
	}
	event, err := uc.binding.UnpackGatePulseEvent(l)
	if err != nil {
		return nil, err
	}
	return &domain.Pulse{
		ID:          uuid.NewString(),
		Value:       event.Value,
		From:        event.From,
		Amount:      event.Amount,
		Timestamp:   event.Timestamp,
		BlockNumber: l.BlockNumber,
		TxHash:      l.TxHash,
		LogIndex:    l.Index,
	}, nil
}

// work handles pulses one at a time until the queue is closed. Once ctx is
// done the remaining pulses are counted as abandoned.
func (uc *ListenGate) work(ctx context.Context, s *gateSession) {
	uc.indicator.Center()
	for pulse := range s.queue {
		uc.metrics.SetQueueDepth(len(s.queue))
		if ctx.Err() != nil {
			s.res.Abandoned++
			continue
		}
		uc.handle(ctx, &pulse)
		s.res.Handled++
	}
}

func (uc *ListenGate) handle(ctx context.Context, pulse *domain.Pulse) {
	kind := pulse.Kind()
	uc.log.Info("pulse",
		"id", pulse.ID,
		"kind", kind,
		"value", pulse.Value,
		"from", pulse.From.Hex(),
		"block", pulse.BlockNumber,
	)
	defer uc.metrics.PulseHandled(kind)

	if kind == domain.PulseCenter {
		uc.indicator.Center()
		return
	}

	uc.indicator.Begin(pulse)
	ticker := time.NewTicker(uc.config.Gate.Step)
	defer ticker.Stop()
countdown:
	for remaining := pulse.Seconds(); remaining > 0; remaining-- {
		uc.indicator.Tick(pulse, uint64(remaining))
		select {
		case <-ctx.Done():
			break countdown
		case <-ticker.C:
		}
	}
	uc.indicator.Center()
}

// seenSet remembers recent log keys in insertion order
type seenSet struct {
	limit int
	keep  int
	order []string
	keys  map[string]struct{}
}

func newSeenSet(limit, keep int) *seenSet {
	return &seenSet{limit: limit, keep: keep, keys: make(map[string]struct{}, limit)}
}

// add reports whether key is new. Above limit entries the set is trimmed to
// the keep most recent.
func (s *seenSet) add(key string) bool {
	if _, ok := s.keys[key]; ok {
		return false
	}
	s.keys[key] = struct{}{}
	s.order = append(s.order, key)
	if len(s.order) > s.limit {
		cut := len(s.order) - s.keep
		for _, old := range s.order[:cut] {
			delete(s.keys, old)
		}
		s.order = append([]string(nil), s.order[cut:]...)
	}
	return true
}

func (s *seenSet) len() int {
	return len(s.order)
}
