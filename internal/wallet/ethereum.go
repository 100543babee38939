package wallet

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"os"
	"sync"

	"github.com/AlexZinkM/otc-desk/internal/auth"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Ethereum signs personal_sign (EIP-191) messages with a secp256k1 key
type Ethereum struct {
	mu      sync.Mutex
	key     *ecdsa.PrivateKey
	address common.Address
}

// LoadEthereumKeystore decrypts a keystore v3 JSON file
func LoadEthereumKeystore(path string, passphrase []byte) (*Ethereum, error) {
	keyjson, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keystore: %w", err)
	}
	key, err := keystore.DecryptKey(keyjson, string(passphrase))
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt keystore: %w", err)
	}
	return &Ethereum{key: key.PrivateKey, address: key.Address}, nil
}

// NewEthereum wraps an existing private key
func NewEthereum(key *ecdsa.PrivateKey) *Ethereum {
	return &Ethereum{key: key, address: ethcrypto.PubkeyToAddress(key.PublicKey)}
}

func (e *Ethereum) Kind() string { return KindEthereum }

// Address is the EIP-55 checksummed address
func (e *Ethereum) Address() string { return e.address.Hex() }

// SignMessage returns the 65-byte [R || S || V] signature, V in {27, 28},
// hex encoded with 0x prefix
func (e *Ethereum) SignMessage(ctx context.Context, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.key == nil {
		return "", auth.ErrSignatureDeclined
	}

	sig, err := ethcrypto.Sign(accounts.TextHash([]byte(message)), e.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign message: %w", err)
	}
	sig[ethcrypto.RecoveryIDOffset] += 27
	return hexutil.Encode(sig), nil
}

// Lock drops the private key; later signatures are declined
func (e *Ethereum) Lock() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.key != nil {
		e.key.D.SetUint64(0)
		e.key = nil
	}
}
