package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"poap-service/internal/domain"
)

// Ledger is an in-process stand-in for the certificate contract. Like the
// contract it enforces one certificate per (course, recipient) atomically.
type Ledger struct {
	mu     sync.Mutex
	minted map[certificateKey]Certificate
}

// Certificate is a record minted by the in-memory ledger.
type Certificate struct {
	TokenID           int64
	TransactionID     string
	Recipient         string
	CourseID          int64
	CourseName        string
	CourseDescription string
}

type certificateKey struct {
	courseID  int64
	recipient common.Address
}

func NewLedger() *Ledger {
	return &Ledger{minted: make(map[certificateKey]Certificate)}
}

func (l *Ledger) Exists(ctx context.Context, courseID int64, recipient string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	key, err := newCertificateKey(courseID, recipient)
	if err != nil {
		return false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.minted[key]
	return ok, nil
}

func (l *Ledger) Mint(ctx context.Context, req domain.MintRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key, err := newCertificateKey(req.CourseID, req.Recipient)
	if err != nil {
		return "", err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.minted[key]; ok {
		return "", domain.ErrAlreadyMinted
	}

	txID := "0x" + strings.ReplaceAll(uuid.NewString(), "-", "")
	l.minted[key] = Certificate{
		TokenID:           int64(len(l.minted) + 1),
		TransactionID:     txID,
		Recipient:         key.recipient.Hex(),
		CourseID:          req.CourseID,
		CourseName:        req.CourseName,
		CourseDescription: req.CourseDescription,
	}
	return txID, nil
}

// Certificates returns every minted record; order is unspecified.
func (l *Ledger) Certificates() []Certificate {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Certificate, 0, len(l.minted))
	for _, cert := range l.minted {
		out = append(out, cert)
	}
	return out
}

func newCertificateKey(courseID int64, recipient string) (certificateKey, error) {
	if err := domain.ValidateRecipient(recipient); err != nil {
		return certificateKey{}, err
	}
	if courseID <= 0 {
		return certificateKey{}, fmt.Errorf("invalid course id %d", courseID)
	}
	return certificateKey{courseID: courseID, recipient: common.HexToAddress(recipient)}, nil
}
