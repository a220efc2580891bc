// Package keystore stores private keys encrypted at rest. Key files are
// JSON containers holding an aes-128-ctr ciphertext, the pbkdf2 salt, and
// a sha256 MAC over the derived key and ciphertext.
package keystore

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/pbkdf2"
)

const (
	kdfIterations = 4096
	kdfKeyLength  = 32
)

// KeyStore manages encrypted key files under a single directory.
type KeyStore struct {
	keyDir string
}

type encryptedKey struct {
	Account   string    `json:"account"`
	Crypto    keyCrypto `json:"crypto"`
	Version   int       `json:"version"`
	Timestamp int64     `json:"timestamp"`
}

type keyCrypto struct {
	Cipher       string       `json:"cipher"`
	CipherText   string       `json:"ciphertext"`
	CipherParams cipherParams `json:"cipherparams"`
	KDF          string       `json:"kdf"`
	KDFParams    kdfParams    `json:"kdfparams"`
	MAC          string       `json:"mac"`
}

type cipherParams struct {
	IV string `json:"iv"`
}

type kdfParams struct {
	DKLen int    `json:"dklen"`
	N     int    `json:"n"`
	Salt  string `json:"salt"`
}

// NewKeyStore creates a keystore rooted at keyDir.
func NewKeyStore(keyDir string) *KeyStore {
	return &KeyStore{keyDir: keyDir}
}

// StoreKey encrypts privateKey under password and writes it as a key file
// named after the owning account. It returns the file path.
func (ks *KeyStore) StoreKey(account string, privateKey ed25519.PrivateKey, password string) (string, error) {
	if err := os.MkdirAll(ks.keyDir, 0700); err != nil {
		return "", err
	}

	salt := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}
	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", err
	}

	derivedKey := pbkdf2.Key([]byte(password), salt, kdfIterations, kdfKeyLength, sha256.New)

	block, err := aes.NewCipher(derivedKey[:16])
	if err != nil {
		return "", err
	}
	cipherText := make([]byte, len(privateKey))
	cipher.NewCTR(block, iv).XORKeyStream(cipherText, privateKey)

	mac := sha256.Sum256(append(derivedKey[16:32], cipherText...))

	key := &encryptedKey{
		Account: account,
		Crypto: keyCrypto{
			Cipher:     "aes-128-ctr",
			CipherText: hex.EncodeToString(cipherText),
			CipherParams: cipherParams{
				IV: hex.EncodeToString(iv),
			},
			KDF: "pbkdf2",
			KDFParams: kdfParams{
				DKLen: kdfKeyLength,
				N:     kdfIterations,
				Salt:  hex.EncodeToString(salt),
			},
			MAC: hex.EncodeToString(mac[:]),
		},
		Version:   1,
		Timestamp: time.Now().Unix(),
	}

	data, err := json.MarshalIndent(key, "", "  ")
	if err != nil {
		return "", err
	}

	filename := fmt.Sprintf("UTC--%s--%s",
		time.Now().UTC().Format("2006-01-02T15-04-05.000000000Z"),
		strings.ToLower(account))
	keyPath := filepath.Join(ks.keyDir, filename)

	if err := os.WriteFile(keyPath, data, 0600); err != nil {
		return "", err
	}
	return keyPath, nil
}

// LoadKey decrypts the key file at keyPath with password and returns the
// private key it holds.
func (ks *KeyStore) LoadKey(keyPath, password string) (ed25519.PrivateKey, error) {
	data, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, err
	}

	var key encryptedKey
	if err := json.Unmarshal(data, &key); err != nil {
		return nil, fmt.Errorf("malformed key file: %w", err)
	}
	if key.Crypto.Cipher != "aes-128-ctr" || key.Crypto.KDF != "pbkdf2" {
		return nil, fmt.Errorf("unsupported key file scheme %s/%s", key.Crypto.Cipher, key.Crypto.KDF)
	}

	salt, err := hex.DecodeString(key.Crypto.KDFParams.Salt)
	if err != nil {
		return nil, fmt.Errorf("malformed salt: %w", err)
	}
	iv, err := hex.DecodeString(key.Crypto.CipherParams.IV)
	if err != nil {
		return nil, fmt.Errorf("malformed iv: %w", err)
	}
	cipherText, err := hex.DecodeString(key.Crypto.CipherText)
	if err != nil {
		return nil, fmt.Errorf("malformed ciphertext: %w", err)
	}
	mac, err := hex.DecodeString(key.Crypto.MAC)
	if err != nil {
		return nil, fmt.Errorf("malformed mac: %w", err)
	}

	derivedKey := pbkdf2.Key([]byte(password), salt, key.Crypto.KDFParams.N, key.Crypto.KDFParams.DKLen, sha256.New)

	wantMAC := sha256.Sum256(append(derivedKey[16:32], cipherText...))
	if !bytes.Equal(wantMAC[:], mac) {
		return nil, errors.New("wrong password or corrupted key file")
	}

	block, err := aes.NewCipher(derivedKey[:16])
	if err != nil {
		return nil, err
	}
	privateKey := make([]byte, len(cipherText))
	cipher.NewCTR(block, iv).XORKeyStream(privateKey, cipherText)

	if len(privateKey) != ed25519.PrivateKeySize {
		return nil, errors.New("decrypted key has wrong length")
	}
	return ed25519.PrivateKey(privateKey), nil
}
