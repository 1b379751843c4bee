package redis

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"
	"poap-service/internal/app"
	"poap-service/internal/domain"
	"poap-service/pkg/logger"
)

// CertificateCache wraps a ledger and remembers certified (course, recipient)
// pairs in Redis so repeat pre-checks skip the chain. Certificates are never
// revoked, so a marker cannot go stale; absence of a marker always defers to the ledger.
//
// Markers are stored as: SET certificate:{courseID}:{address} {txID|1}
type CertificateCache struct {
	client *redis.Client
	ledger app.Ledger
	log    logger.Log
}

func NewCertificateCache(client *redis.Client, ledger app.Ledger, log logger.Log) *CertificateCache {
	return &CertificateCache{client: client, ledger: ledger, log: log}
}

func (c *CertificateCache) Exists(ctx context.Context, courseID int64, recipient string) (bool, error) {
	key := c.key(courseID, recipient)
	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		c.log.Warn("certificate marker read failed", "key", key, logger.Err(err))
	} else if n > 0 {
		return true, nil
	}

	exists, err := c.ledger.Exists(ctx, courseID, recipient)
	if err != nil {
		return false, err
	}
	if exists {
		c.mark(ctx, key, "")
	}
	return exists, nil
}

func (c *CertificateCache) Mint(ctx context.Context, req domain.MintRequest) (string, error) {
	txID, err := c.ledger.Mint(ctx, req)
	switch {
	case err == nil:
		c.mark(ctx, c.key(req.CourseID, req.Recipient), txID)
	case errors.Is(err, domain.ErrAlreadyMinted):
		c.mark(ctx, c.key(req.CourseID, req.Recipient), "")
	}
	return txID, err
}

// unknownTx marks a pair certified by a mint this instance did not observe.
const unknownTx = "1"

// mark records a certified pair. It outlives the caller's context because the
// ledger state it mirrors is already committed.
func (c *CertificateCache) mark(ctx context.Context, key, txID string) {
	ctx = context.WithoutCancel(ctx)
	var err error
	if txID == "" {
		err = c.client.SetNX(ctx, key, unknownTx, 0).Err()
	} else {
		err = c.client.Set(ctx, key, txID, 0).Err()
	}
	if err != nil {
		c.log.Warn("certificate marker write failed", "key", key, logger.Err(err))
	}
}

func (c *CertificateCache) key(courseID int64, recipient string) string {
	addr := strings.ToLower(common.HexToAddress(recipient).Hex())
	return "certificate:" + strconv.FormatInt(courseID, 10) + ":" + addr
}
