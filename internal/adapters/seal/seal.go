// Package seal encrypts snapshots with an age passphrase before they are
// committed to a remote repository.
package seal

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"filippo.io/age"
	"filippo.io/age/armor"
)

var (
	ErrEmptyPassphrase = errors.New("passphrase cannot be empty")
	ErrWrongPassphrase = errors.New("wrong passphrase or corrupted data")
)

type PassphraseSealer struct {
	passphrase string
	workFactor int
}

// New returns a sealer for passphrase. workFactor is the scrypt log2 cost; 0
// keeps age's default.
func New(passphrase string, workFactor int) (*PassphraseSealer, error) {
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}
	return &PassphraseSealer{passphrase: passphrase, workFactor: workFactor}, nil
}

// Seal returns the ASCII-armored age encryption of plaintext.
func (s *PassphraseSealer) Seal(plaintext []byte) ([]byte, error) {
	recipient, err := age.NewScryptRecipient(s.passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating age recipient: %w", err)
	}
	if s.workFactor > 0 {
		recipient.SetWorkFactor(s.workFactor)
	}

	var buf bytes.Buffer
	armorWriter := armor.NewWriter(&buf)

	w, err := age.Encrypt(armorWriter, recipient)
	if err != nil {
		return nil, fmt.Errorf("initializing age encryption: %w", err)
	}
	if _, err := w.Write(plaintext); err != nil {
		return nil, fmt.Errorf("encrypting snapshot: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing encryption: %w", err)
	}
	if err := armorWriter.Close(); err != nil {
		return nil, fmt.Errorf("finalizing armor: %w", err)
	}

	return buf.Bytes(), nil
}

func (s *PassphraseSealer) Open(sealed []byte) ([]byte, error) {
	identity, err := age.NewScryptIdentity(s.passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating age identity: %w", err)
	}

	r, err := age.Decrypt(armor.NewReader(bytes.NewReader(sealed)), identity)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWrongPassphrase, err)
	}

	plaintext, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading decrypted snapshot: %w", err)
	}
	return plaintext, nil
}
