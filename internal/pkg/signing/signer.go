package signing

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"golang.org/x/crypto/pbkdf2"
)

const (
	keyIterations = 1024
	keyLength     = 32
	nonceLength   = 8
)

var ErrMissingCredentials = errors.New("signing credentials are not configured")

// Credentials is one per-request credential set for the vendor API. The
// caller attaches it as headers alongside the account id; the vendor enforces
// the timestamp window, the nonce defeats replay across retries.
type Credentials struct {
	Timestamp string
	Nonce     string
	Signature string
}

// Signer produces per-call HMAC signatures from a key derived once at
// construction, so the shared secret itself never travels on the wire.
type Signer struct {
	accountID string
	key       []byte

	now     func() time.Time
	entropy io.Reader
}

// NewSigner derives the signing key from the shared secret and hex-encoded
// salt. Missing configuration is a deployment bug and fails construction.
func NewSigner(accountID, secret, saltHex string) (*Signer, error) {
	if accountID == "" || secret == "" || saltHex == "" {
		return nil, ErrMissingCredentials
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return nil, fmt.Errorf("decode salt: %w", err)
	}
	key := pbkdf2.Key([]byte(secret), salt, keyIterations, keyLength, sha256.New)
	return &Signer{
		accountID: accountID,
		key:       key,
		now:       time.Now,
		entropy:   rand.Reader,
	}, nil
}

// AccountID returns the configured vendor account identifier.
func (s *Signer) AccountID() string {
	return s.accountID
}

// Sign issues a fresh nonce, millisecond timestamp and signature.
func (s *Signer) Sign() (Credentials, error) {
	buf := make([]byte, nonceLength)
	if _, err := io.ReadFull(s.entropy, buf); err != nil {
		return Credentials{}, fmt.Errorf("generate nonce: %w", err)
	}
	nonce := hex.EncodeToString(buf)
	timestamp := strconv.FormatInt(s.now().UnixMilli(), 10)
	return Credentials{
		Timestamp: timestamp,
		Nonce:     nonce,
		Signature: s.sign(nonce, timestamp),
	}, nil
}

func (s *Signer) sign(nonce, timestamp string) string {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(s.accountID + nonce + timestamp))
	return hex.EncodeToString(mac.Sum(nil))
}
