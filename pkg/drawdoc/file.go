package drawdoc

import (
	"bytes"
	"compress/zlib"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	secureMagic      = "TECHDRAW_ENVELOPE"
	secureVersionV1  = uint16(1)
	secureFlagComp   = uint16(1 << 0)
	secureFlagEnc    = uint16(1 << 1)
	secureSaltSize   = 16
	secureNonceSize  = 12
	secureHeaderSize = len(secureMagic) + 2 + 2 + secureSaltSize + secureNonceSize + 8
	kdfIterations    = 200000
)

type EncryptionOptions struct {
	Enabled  bool
	Password string
}

type SaveOptions struct {
	Compression bool
	Encryption  EncryptionOptions
}

type LoadOptions struct {
	Password string
}

type EnvelopeInfo struct {
	Wrapped     bool
	Compressed  bool
	Encrypted   bool
	EnvelopeVer uint16
}

// Save writes elements to path as a plain JSON snapshot.
func Save(path string, elements []Element) error {
	return SaveWithOptions(path, elements, SaveOptions{})
}

// SaveWithOptions writes a snapshot, wrapping it in an envelope when
// compression or encryption is requested. The write goes through a
// temporary file so a failed save never truncates the previous one.
func SaveWithOptions(path string, elements []Element, opts SaveOptions) error {
	blob, err := Encode(elements, opts)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Encode serializes elements and applies the envelope options.
func Encode(elements []Element, opts SaveOptions) ([]byte, error) {
	for i, el := range elements {
		if err := CheckShape(el); err != nil {
			return nil, fmt.Errorf("element[%d]: %w", i, err)
		}
	}
	blob, err := Serialize(elements)
	if err != nil {
		return nil, err
	}
	if opts.Encryption.Enabled && strings.TrimSpace(opts.Encryption.Password) == "" {
		return nil, ErrPasswordRequired
	}
	if opts.Compression {
		blob, err = deflate(blob)
		if err != nil {
			return nil, err
		}
	}
	if opts.Compression || opts.Encryption.Enabled {
		blob, err = encodeSecureEnvelope(blob, opts)
		if err != nil {
			return nil, err
		}
	}
	return blob, nil
}

// Load reads a snapshot written by Save.
func Load(path string) ([]Element, error) {
	return LoadWithOptions(path, LoadOptions{})
}

func LoadWithOptions(path string, opts LoadOptions) ([]Element, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(b, opts)
}

// Decode unwraps an optional envelope and deserializes the payload.
func Decode(b []byte, opts LoadOptions) ([]Element, error) {
	if isSecureEnvelope(b) {
		var err error
		b, err = decodeSecureEnvelope(b, opts)
		if err != nil {
			return nil, err
		}
	}
	return Deserialize(b)
}

// InspectEnvelope reports how the file at path is wrapped without
// decrypting it.
func InspectEnvelope(path string) (EnvelopeInfo, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return EnvelopeInfo{}, err
	}
	if !isSecureEnvelope(b) {
		return EnvelopeInfo{}, nil
	}
	h, _, err := readEnvelope(b)
	if err != nil {
		return EnvelopeInfo{}, err
	}
	return h.info(), nil
}

// envelopeHeader follows the magic string, little endian.
type envelopeHeader struct {
	Version uint16
	Flags   uint16
	Salt    [secureSaltSize]byte
	Nonce   [secureNonceSize]byte
	Length  uint64
}

func (h envelopeHeader) info() EnvelopeInfo {
	return EnvelopeInfo{
		Wrapped:     true,
		Compressed:  h.Flags&secureFlagComp != 0,
		Encrypted:   h.Flags&secureFlagEnc != 0,
		EnvelopeVer: h.Version,
	}
}

func isSecureEnvelope(b []byte) bool {
	return bytes.HasPrefix(b, []byte(secureMagic))
}

// readEnvelope parses the header and returns it with the payload that
// follows. The payload length must match the header exactly.
func readEnvelope(b []byte) (envelopeHeader, []byte, error) {
	var h envelopeHeader
	if !isSecureEnvelope(b) || len(b) < secureHeaderSize {
		return h, nil, ErrInvalidSecureFile
	}
	r := bytes.NewReader(b[len(secureMagic):])
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return h, nil, ErrInvalidSecureFile
	}
	if h.Version != secureVersionV1 {
		return h, nil, fmt.Errorf("%w: envelope version %d", ErrUnsupportedVer, h.Version)
	}
	payload := b[secureHeaderSize:]
	if uint64(len(payload)) != h.Length {
		return h, nil, ErrInvalidSecureFile
	}
	return h, payload, nil
}

func newGCM(password string, salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(password), salt, kdfIterations, 32, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func encodeSecureEnvelope(payload []byte, opts SaveOptions) ([]byte, error) {
	h := envelopeHeader{Version: secureVersionV1}
	if opts.Compression {
		h.Flags |= secureFlagComp
	}
	if opts.Encryption.Enabled {
		h.Flags |= secureFlagEnc
		if _, err := io.ReadFull(rand.Reader, h.Salt[:]); err != nil {
			return nil, err
		}
		if _, err := io.ReadFull(rand.Reader, h.Nonce[:]); err != nil {
			return nil, err
		}
		gcm, err := newGCM(opts.Encryption.Password, h.Salt[:])
		if err != nil {
			return nil, err
		}
		payload = gcm.Seal(nil, h.Nonce[:], payload, nil)
	}
	h.Length = uint64(len(payload))

	var buf bytes.Buffer
	buf.Grow(secureHeaderSize + len(payload))
	buf.WriteString(secureMagic)
	if err := binary.Write(&buf, binary.LittleEndian, h); err != nil {
		return nil, err
	}
	buf.Write(payload)
	return buf.Bytes(), nil
}

func decodeSecureEnvelope(b []byte, opts LoadOptions) ([]byte, error) {
	h, payload, err := readEnvelope(b)
	if err != nil {
		return nil, err
	}
	info := h.info()
	if info.Encrypted {
		if strings.TrimSpace(opts.Password) == "" {
			return nil, ErrPasswordRequired
		}
		gcm, err := newGCM(opts.Password, h.Salt[:])
		if err != nil {
			return nil, err
		}
		if payload, err = gcm.Open(nil, h.Nonce[:], payload, nil); err != nil {
			return nil, ErrInvalidPassword
		}
	}
	if info.Compressed {
		zr, err := zlib.NewReader(bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSecureFile, err)
		}
		defer zr.Close()
		return io.ReadAll(zr)
	}
	return append([]byte(nil), payload...), nil
}

func deflate(in []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.BestSpeed)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(in); err != nil {
		zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
