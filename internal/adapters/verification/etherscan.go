package verification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/hwchain/hwchain-cli/internal/domain"
	"github.com/hwchain/hwchain-cli/internal/domain/config"
	"github.com/hwchain/hwchain-cli/internal/domain/models"
	"github.com/hwchain/hwchain-cli/internal/usecase"
)

// EtherscanVerifier submits standard JSON input to the Etherscan v2 API and
// polls the verification GUID until it settles
type EtherscanVerifier struct {
	client   *http.Client
	apiURL   string
	apiKey   string
	limiter  *rate.Limiter
	poll     time.Duration
	timeout  time.Duration
	networks map[string]*config.Network
	log      *slog.Logger
}

// NewEtherscanVerifier creates a verifier from the verify settings
func NewEtherscanVerifier(cfg *config.RuntimeConfig, log *slog.Logger) *EtherscanVerifier {
	rps := cfg.Verify.RatePerSecond
	if rps <= 0 {
		rps = 4
	}
	poll, timeout := cfg.Verify.PollInterval, cfg.Verify.Timeout
	if poll <= 0 {
		poll = 5 * time.Second
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &EtherscanVerifier{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiURL:   cfg.Verify.APIURL,
		apiKey:   cfg.EtherscanAPIKey,
		limiter:  rate.NewLimiter(rate.Limit(rps), 1),
		poll:     poll,
		timeout:  timeout,
		networks: cfg.Networks,
		log:      log.With("component", "etherscan"),
	}
}

// etherscanResponse represents Etherscan API response
type etherscanResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  string `json:"result"`
}

// Verify submits the deployment for verification and waits for the outcome.
// A rejected or failed verification returns a FAILED info together with an
// error wrapping domain.ErrVerificationFailed.
func (v *EtherscanVerifier) Verify(ctx context.Context, req usecase.VerificationRequest) (*models.VerificationInfo, error) {
	if v.apiKey == "" {
		return nil, domain.ErrMissingAPIKey
	}
	if req.BuildInfo == nil || len(req.BuildInfo.Input) == 0 {
		return nil, fmt.Errorf("no build info for %s", req.Deployment.ContractName)
	}

	dep := req.Deployment
	info := &models.VerificationInfo{URL: v.explorerURL(dep)}

	form := url.Values{}
	form.Set("apikey", v.apiKey)
	form.Set("module", "contract")
	form.Set("action", "verifysourcecode")
	form.Set("contractaddress", dep.Address)
	form.Set("sourceCode", string(req.BuildInfo.Input))
	form.Set("codeformat", "solidity-standard-json-input")
	form.Set("contractname", req.Artifact.FullyQualifiedName())
	form.Set("compilerversion", compilerVersion(req.BuildInfo))
	if args := strings.TrimPrefix(dep.ConstructorArgs, "0x"); args != "" {
		form.Set("constructorArguements", args) // Note: Etherscan typo
	}

	submitted, err := v.do(ctx, http.MethodPost, dep.ChainID, form)
	if err != nil {
		return nil, fmt.Errorf("failed to submit verification: %w", err)
	}
	if submitted.Status != "1" {
		if isAlreadyVerified(submitted.Result) {
			return verified(info), nil
		}
		return failed(info, submitted.Result)
	}

	info.GUID = submitted.Result
	v.log.Debug("verification submitted", "guid", info.GUID, "address", dep.Address)

	return v.waitForResult(ctx, dep.ChainID, info)
}

// waitForResult polls checkverifystatus until pass, fail or timeout
func (v *EtherscanVerifier) waitForResult(ctx context.Context, chainID uint64, info *models.VerificationInfo) (*models.VerificationInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	ticker := time.NewTicker(v.poll)
	defer ticker.Stop()

	params := url.Values{}
	params.Set("apikey", v.apiKey)
	params.Set("module", "contract")
	params.Set("action", "checkverifystatus")
	params.Set("guid", info.GUID)

	pending := func() error {
		return fmt.Errorf("verification %s still pending after %s", info.GUID, v.timeout)
	}

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, pending()
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}

		result, err := v.do(ctx, http.MethodGet, chainID, params)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, pending()
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("failed to check status: %w", err)
		}

		switch {
		case strings.Contains(strings.ToLower(result.Result), "pending"):
			v.log.Debug("verification pending", "guid", info.GUID)
		case result.Status == "1", isAlreadyVerified(result.Result):
			return verified(info), nil
		default:
			return failed(info, result.Result)
		}
	}
}

// do sends one rate-limited API request
func (v *EtherscanVerifier) do(ctx context.Context, method string, chainID uint64, params url.Values) (*etherscanResponse, error) {
	if err := v.limiter.Wait(ctx); err != nil {
		if ctx.Err() == nil {
			// the next token arrives after the deadline
			return nil, fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
		}
		return nil, err
	}

	endpoint := v.apiURL + "?chainid=" + strconv.FormatUint(chainID, 10)

	var (
		httpReq *http.Request
		err     error
	)
	if method == http.MethodPost {
		httpReq, err = http.NewRequestWithContext(ctx, method, endpoint, strings.NewReader(params.Encode()))
		if err == nil {
			httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	} else {
		httpReq, err = http.NewRequestWithContext(ctx, method, endpoint+"&"+params.Encode(), nil)
	}
	if err != nil {
		return nil, err
	}

	resp, err := v.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	var result etherscanResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &result, nil
}

// explorerURL links the contract page for networks with a known explorer
func (v *EtherscanVerifier) explorerURL(dep *models.Deployment) string {
	var base string
	if n, ok := v.networks[dep.Network]; ok && n.ChainID == dep.ChainID {
		base = n.ExplorerURL
	}
	if base == "" {
		for _, n := range v.networks {
			if n.ChainID == dep.ChainID && n.ExplorerURL != "" {
				base = n.ExplorerURL
				break
			}
		}
	}
	if base == "" {
		return ""
	}
	return fmt.Sprintf("%s/address/%s#code", strings.TrimSuffix(base, "/"), dep.Address)
}

func compilerVersion(info *models.BuildInfo) string {
	version := info.SolcLongVersion
	if version == "" {
		version = info.SolcVersion
	}
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	return version
}

func isAlreadyVerified(result string) bool {
	return strings.Contains(strings.ToLower(result), "already verified")
}

func verified(info *models.VerificationInfo) *models.VerificationInfo {
	now := time.Now().UTC()
	info.Status = models.VerificationStatusVerified
	info.Reason = ""
	info.VerifiedAt = &now
	return info
}

func failed(info *models.VerificationInfo, reason string) (*models.VerificationInfo, error) {
	info.Status = models.VerificationStatusFailed
	info.Reason = reason
	return info, fmt.Errorf("%w: %s", domain.ErrVerificationFailed, reason)
}

// Ensure the adapter implements the interface
var _ usecase.ContractVerifier = (*EtherscanVerifier)(nil)
