package ethereum

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"poap-service/internal/domain"
	"poap-service/pkg/logger"
)

// Config locates the certificate contract and the minter key.
type Config struct {
	RPCURL          string
	ContractAddress string
	PrivateKey      string
	// GasLimit pins the gas for mint transactions; zero lets the node estimate.
	GasLimit uint64
}

// contract is the subset of *bind.BoundContract the ledger uses.
type contract interface {
	Call(opts *bind.CallOpts, results *[]interface{}, method string, params ...interface{}) error
	Transact(opts *bind.TransactOpts, method string, params ...interface{}) (*types.Transaction, error)
}

type waitMinedFunc func(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)

// Ledger talks to the POAP certificate contract. The contract enforces one
// certificate per (course, recipient); a duplicate mint reverts.
type Ledger struct {
	contract  contract
	auth      *bind.TransactOpts
	waitMined waitMinedFunc
	log       logger.Log
	closeFn   func()

	// sendMu serializes submissions so pending-nonce lookups do not collide.
	sendMu sync.Mutex
}

// Dial connects to the RPC endpoint and binds the contract with a keyed transactor.
func Dial(ctx context.Context, cfg Config, log logger.Log) (*Ledger, error) {
	address, key, err := parseConfig(cfg)
	if err != nil {
		return nil, err
	}
	parsed, err := abi.JSON(strings.NewReader(certificateABI))
	if err != nil {
		return nil, fmt.Errorf("parse contract abi: %w", err)
	}

	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial ledger rpc: %w", err)
	}
	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("read chain id: %w", err)
	}
	auth, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("build transactor: %w", err)
	}
	auth.GasLimit = cfg.GasLimit

	bound := bind.NewBoundContract(address, parsed, client, client, client)
	waitMined := func(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
		return bind.WaitMined(ctx, client, tx)
	}

	log.Info("ledger connected",
		"chain_id", chainID.String(),
		"contract", address.Hex(),
		"minter", auth.From.Hex(),
	)
	return newLedger(bound, auth, waitMined, log, client.Close), nil
}

func newLedger(c contract, auth *bind.TransactOpts, waitMined waitMinedFunc, log logger.Log, closeFn func()) *Ledger {
	if closeFn == nil {
		closeFn = func() {}
	}
	return &Ledger{contract: c, auth: auth, waitMined: waitMined, log: log, closeFn: closeFn}
}

func parseConfig(cfg Config) (common.Address, *ecdsa.PrivateKey, error) {
	if cfg.RPCURL == "" {
		return common.Address{}, nil, errors.New("ledger rpc url not configured")
	}
	if !common.IsHexAddress(cfg.ContractAddress) {
		return common.Address{}, nil, fmt.Errorf("invalid contract address %q", cfg.ContractAddress)
	}
	if cfg.PrivateKey == "" {
		return common.Address{}, nil, errors.New("ledger private key not configured")
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return common.Address{}, nil, fmt.Errorf("parse private key: %w", err)
	}
	return common.HexToAddress(cfg.ContractAddress), key, nil
}

func (l *Ledger) Exists(ctx context.Context, courseID int64, recipient string) (bool, error) {
	if err := domain.ValidateRecipient(recipient); err != nil {
		return false, err
	}
	var out []interface{}
	err := l.contract.Call(&bind.CallOpts{Context: ctx}, &out, methodExists,
		big.NewInt(courseID), common.HexToAddress(recipient))
	if err != nil {
		return false, fmt.Errorf("certificate exists: %w", err)
	}
	if len(out) != 1 {
		return false, fmt.Errorf("certificate exists: unexpected result %v", out)
	}
	exists, ok := out[0].(bool)
	if !ok {
		return false, fmt.Errorf("certificate exists: unexpected result type %T", out[0])
	}
	return exists, nil
}

// Mint submits mintPOAP and waits for the receipt. The returned id is the
// transaction hash.
func (l *Ledger) Mint(ctx context.Context, req domain.MintRequest) (string, error) {
	if err := domain.ValidateRecipient(req.Recipient); err != nil {
		return "", err
	}

	tx, err := l.send(ctx, req)
	if err != nil {
		return "", classifyMintError(err)
	}
	txHash := tx.Hash().Hex()
	l.log.Info("mint submitted", "tx", txHash, "course_id", req.CourseID, "recipient", req.Recipient)

	receipt, err := l.waitMined(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("wait for %s: %w", txHash, err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		// A revert in the block is most often a duplicate that raced the estimate.
		exists, existsErr := l.Exists(ctx, req.CourseID, req.Recipient)
		if existsErr == nil && exists {
			return "", fmt.Errorf("transaction %s reverted: %w", txHash, domain.ErrAlreadyMinted)
		}
		return "", fmt.Errorf("transaction %s reverted", txHash)
	}
	return txHash, nil
}

func (l *Ledger) send(ctx context.Context, req domain.MintRequest) (*types.Transaction, error) {
	l.sendMu.Lock()
	defer l.sendMu.Unlock()

	opts := *l.auth
	opts.Context = ctx
	return l.contract.Transact(&opts, methodMint,
		common.HexToAddress(req.Recipient),
		big.NewInt(req.CourseID),
		req.CourseName,
		req.CourseDescription,
	)
}

func (l *Ledger) Close() {
	l.closeFn()
}

// classifyMintError maps node and contract failures onto readable reasons.
// Context errors stay wrapped so callers can detect timeouts.
func classifyMintError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "already minted"):
		return fmt.Errorf("%s: %w", err.Error(), domain.ErrAlreadyMinted)
	case strings.Contains(msg, "insufficient funds"):
		return fmt.Errorf("minter account has insufficient funds for gas: %w", err)
	case strings.Contains(msg, "execution reverted"):
		return fmt.Errorf("contract rejected mint (minter not authorized or contract not deployed): %w", err)
	default:
		return fmt.Errorf("mint: %w", err)
	}
}
