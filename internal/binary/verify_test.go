package binary

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // Using ProtonMail's maintained fork
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
)

// newTestEntity generates a throwaway signing key.
func newTestEntity(t *testing.T, name string) *openpgp.Entity {
	t.Helper()

	entity, err := openpgp.NewEntity(name, "test", name+"@example.com", &packet.Config{
		Algorithm: packet.PubKeyAlgoEdDSA,
	})
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	return entity
}

// writeKeyring writes the public part of entity to a keyring file.
func writeKeyring(t *testing.T, entity *openpgp.Entity, armored bool) string {
	t.Helper()

	var buf bytes.Buffer
	if armored {
		w, err := armor.Encode(&buf, openpgp.PublicKeyType, nil)
		if err != nil {
			t.Fatalf("failed to create armor encoder: %v", err)
		}
		if err := entity.Serialize(w); err != nil {
			t.Fatalf("failed to serialize key: %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("failed to close armor encoder: %v", err)
		}
	} else if err := entity.Serialize(&buf); err != nil {
		t.Fatalf("failed to serialize key: %v", err)
	}

	return writeTestFile(t, "keyring.gpg", buf.Bytes())
}

// detachSign signs data with entity.
func detachSign(t *testing.T, entity *openpgp.Entity, data []byte, armored bool) []byte {
	t.Helper()

	var buf bytes.Buffer
	var err error
	if armored {
		err = openpgp.ArmoredDetachSign(&buf, entity, bytes.NewReader(data), nil)
	} else {
		err = openpgp.DetachSign(&buf, entity, bytes.NewReader(data), nil)
	}
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}
	return buf.Bytes()
}

func TestVerifierVerifyFile(t *testing.T) {
	signer := newTestEntity(t, "release")
	stranger := newTestEntity(t, "stranger")
	archive := []byte("archive bytes")

	tests := []struct {
		name           string
		armoredKeyring bool
		signature      []byte
		content        []byte
		wantErr        bool
	}{
		{
			name:           "armored_signature",
			armoredKeyring: true,
			signature:      detachSign(t, signer, archive, true),
			content:        archive,
		},
		{
			name:           "binary_signature",
			armoredKeyring: true,
			signature:      detachSign(t, signer, archive, false),
			content:        archive,
		},
		{
			name:           "binary_keyring",
			armoredKeyring: false,
			signature:      detachSign(t, signer, archive, true),
			content:        archive,
		},
		{
			name:           "tampered_content",
			armoredKeyring: true,
			signature:      detachSign(t, signer, archive, true),
			content:        []byte("archive bytes, modified"),
			wantErr:        true,
		},
		{
			name:           "unknown_signer",
			armoredKeyring: true,
			signature:      detachSign(t, stranger, archive, true),
			content:        archive,
			wantErr:        true,
		},
		{
			name:           "garbage_signature",
			armoredKeyring: true,
			signature:      []byte("not a signature"),
			content:        archive,
			wantErr:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := NewVerifier(writeKeyring(t, signer, tt.armoredKeyring))
			filePath := writeTestFile(t, "archive.tar.gz", tt.content)
			sigPath := writeTestFile(t, "archive.tar.gz.sig", tt.signature)

			err := verifier.VerifyFile(filePath, sigPath)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestVerifierVerifyFile_MissingInputs(t *testing.T) {
	signer := newTestEntity(t, "release")
	archive := []byte("archive bytes")
	filePath := writeTestFile(t, "archive.tar.gz", archive)
	sigPath := writeTestFile(t, "archive.tar.gz.asc", detachSign(t, signer, archive, true))
	missing := filepath.Join(t.TempDir(), "missing")

	tests := []struct {
		name     string
		keyring  string
		file     string
		sig      string
		contains string
	}{
		{name: "missing_keyring", keyring: missing, file: filePath, sig: sigPath, contains: "open keyring"},
		{name: "missing_file", keyring: writeKeyring(t, signer, true), file: missing, sig: sigPath, contains: "open file"},
		{name: "missing_signature", keyring: writeKeyring(t, signer, true), file: filePath, sig: missing, contains: "open signature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewVerifier(tt.keyring).VerifyFile(tt.file, tt.sig)
			if err == nil {
				t.Fatal("expected error but got none")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("expected error containing %q, got: %v", tt.contains, err)
			}
		})
	}
}

func TestVerifierLoadKeyring_Invalid(t *testing.T) {
	keyringPath := writeTestFile(t, "keyring.gpg", []byte("definitely not a keyring"))

	if _, err := NewVerifier(keyringPath).loadKeyring(); err == nil {
		t.Error("expected error but got none")
	}
}

func TestCalculateSHA256(t *testing.T) {
	path := writeTestFile(t, "hello", []byte("hello"))

	got, err := calculateSHA256(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	const want = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}

	if _, err := calculateSHA256(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}
