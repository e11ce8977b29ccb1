package admin

// The authenticated key exchange and bulk-encryption engine of spec
// section 4.3. original_source's client/crypto.py builds this on top of
// the `monocypher` library (X25519 key exchange, Blake2b-512 KDF, and an
// incremental authenticated-encryption stream). monocypher has no Go
// port in the retrieved pack, but
// _examples/other_examples/434796ae_educationofjon-core__rhp-v2-transport.go.go
// performs the same X25519 -> BLAKE2b -> AEAD-stream handshake using
// golang.org/x/crypto's curve25519/blake2b/chacha20poly1305, which is
// what this file is modeled on.

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/curve25519"
)

const (
	macSize          = 16
	kxNonceSize      = 24 // matches monocypher's NONCE_SIZE, carried over to chacha20poly1305.NewX
	publicKeySize    = 32
	hexSecretKeyLen  = 64
	authChallengeLen = 8
)

// cryptoHandler performs the client side of the X25519 key exchange and
// holds the derived send/receive key material; the two AEAD streams built
// from it once encryption is enabled live on the Connection.
type cryptoHandler struct {
	password      []byte
	ourSecret     [32]byte
	ourPublic     [32]byte
	theirPublic   [32]byte
	kxNonce       []byte
	sharedKeys    [64]byte // [:32] send key, [32:] receive key
	methods       uint8
}

// newCryptoHandler builds a handler for the given optional password and
// optional 64-hex-character secret key, mirroring
// original_source/libottdadmin2/client/crypto.py's CryptoHandler.__init__.
// When secretKeyHex is empty a fresh key is generated with a
// cryptographic RNG, matching monocypher's generate_key() fallback.
func newCryptoHandler(password, secretKeyHex string) (*cryptoHandler, error) {
	h := &cryptoHandler{password: []byte(password)}

	if password != "" {
		h.methods |= AuthMethodMask(AuthX25519PAKE)
	}
	if secretKeyHex != "" {
		if len(secretKeyHex) != hexSecretKeyLen {
			return nil, fmt.Errorf("admin: secret_key must be exactly %d hex characters, got %d", hexSecretKeyLen, len(secretKeyHex))
		}
		h.methods |= AuthMethodMask(AuthX25519AuthorizedKey)
		var secret [32]byte
		if _, err := decodeHex(secret[:], secretKeyHex); err != nil {
			return nil, fmt.Errorf("admin: invalid secret_key hex: %w", err)
		}
		h.ourSecret = secret
	} else {
		if _, err := rand.Read(h.ourSecret[:]); err != nil {
			return nil, fmt.Errorf("admin: generating secret key: %w", err)
		}
	}

	pub, err := curve25519.X25519(h.ourSecret[:], curve25519.Basepoint)
	if err != nil {
		return nil, fmt.Errorf("admin: computing public key: %w", err)
	}
	copy(h.ourPublic[:], pub)
	return h, nil
}

// decodeHex is a tiny hex decoder used because fmt.Sscanf("%x", ...) does
// not reliably fill a fixed byte array across all Go versions.
func decodeHex(dst []byte, s string) (int, error) {
	if len(s) != len(dst)*2 {
		return 0, fmt.Errorf("admin: hex string has wrong length")
	}
	for i := range dst {
		hi, err := hexNibble(s[i*2])
		if err != nil {
			return 0, err
		}
		lo, err := hexNibble(s[i*2+1])
		if err != nil {
			return 0, err
		}
		dst[i] = hi<<4 | lo
	}
	return len(dst), nil
}

func hexNibble(c byte) (byte, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	default:
		return 0, fmt.Errorf("admin: invalid hex digit %q", c)
	}
}

// availableMethods returns the bitmask of authentication methods this
// handler is configured to advertise.
func (h *cryptoHandler) availableMethods() uint8 { return h.methods }

// onAuthRequest performs step 3-4 of spec section 4.3: derive the shared
// key material from the server's public key and our payload (password or
// empty for authorized-key), then lock a random 8-byte challenge under
// the send key, keyed by the server's key-exchange nonce and bound to our
// public key as associated data.
func (h *cryptoHandler) onAuthRequest(method AuthenticationMethod, theirPublic [32]byte, kxNonce []byte) (ourPublic [32]byte, ciphertext, mac []byte, err error) {
	if h.methods&AuthMethodMask(method) == 0 {
		return ourPublic, nil, nil, ErrUnexpectedAuthMethod
	}
	if len(kxNonce) != kxNonceSize {
		return ourPublic, nil, nil, fmt.Errorf("admin: key exchange nonce must be %d bytes, got %d", kxNonceSize, len(kxNonce))
	}

	h.theirPublic = theirPublic
	h.kxNonce = append([]byte(nil), kxNonce...)

	var payload []byte
	switch method {
	case AuthX25519PAKE:
		payload = h.password
	case AuthX25519AuthorizedKey:
		payload = nil
	default:
		return ourPublic, nil, nil, fmt.Errorf("admin: unknown authentication method %d", method)
	}

	shared, err := curve25519.X25519(h.ourSecret[:], h.theirPublic[:])
	if err != nil {
		return ourPublic, nil, nil, fmt.Errorf("admin: key exchange failed: %w", err)
	}

	digest, err := blake2b.New512(nil)
	if err != nil {
		return ourPublic, nil, nil, err
	}
	digest.Write(shared)
	digest.Write(h.theirPublic[:])
	digest.Write(h.ourPublic[:])
	digest.Write(payload)
	copy(h.sharedKeys[:], digest.Sum(nil))
	wipe(shared)

	aead, err := chacha20poly1305.NewX(h.sendKey())
	if err != nil {
		return ourPublic, nil, nil, err
	}

	var challenge [authChallengeLen]byte
	if _, err := rand.Read(challenge[:]); err != nil {
		return ourPublic, nil, nil, err
	}

	sealed := aead.Seal(nil, h.kxNonce, challenge[:], h.ourPublic[:])
	ciphertext = sealed[:authChallengeLen]
	mac = sealed[authChallengeLen:]
	return h.ourPublic, ciphertext, mac, nil
}

func (h *cryptoHandler) sendKey() []byte { return h.sharedKeys[:32] }
func (h *cryptoHandler) recvKey() []byte { return h.sharedKeys[32:] }

// wipe zeroes a byte slice, mirroring monocypher's wipe() call on the
// shared-secret buffer once it has been consumed by the KDF.
func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// aeadStream is one direction's incremental authenticated-encryption
// stream, instantiated once per connection after ServerEnableEncryption.
// Each call adds a per-direction counter to the last 8 bytes (read as a
// little-endian uint64) of the server's encryption nonce and then
// increments it, so every sealed/opened frame uses a fresh nonce
// without renegotiating key material - the Go equivalent of monocypher's
// IncrementalAuthenticatedEncryption.
type aeadStream struct {
	aead    cipher.AEAD
	base    [kxNonceSize]byte
	counter uint64
}

func newAEADStream(key, nonce []byte) (*aeadStream, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	s := &aeadStream{aead: aead}
	copy(s.base[:], nonce)
	return s, nil
}

func (s *aeadStream) nextNonce() [kxNonceSize]byte {
	n := s.base
	binary.LittleEndian.PutUint64(n[kxNonceSize-8:], binary.LittleEndian.Uint64(n[kxNonceSize-8:])+s.counter)
	s.counter++
	return n
}

// seal encrypts body (the id||payload portion of a frame) with length as
// associated data, per spec section 4.1's framing rule.
func (s *aeadStream) seal(length uint16, body []byte) []byte {
	nonce := s.nextNonce()
	var lenBuf [2]byte
	binary.LittleEndian.PutUint16(lenBuf[:], length)
	return s.aead.Seal(nil, nonce[:], body, lenBuf[:])
}

func (s *aeadStream) open(length uint16, sealed []byte) ([]byte, error) {
	nonce := s.nextNonce()
	var lenBuf [2]byte
	binary.LittleEndian.PutUint16(lenBuf[:], length)
	out, err := s.aead.Open(nil, nonce[:], sealed, lenBuf[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCryptoFailure, err)
	}
	return out, nil
}

// encryptFrame renders a post-handshake frame: the 2-byte length prefix
// stays plaintext and doubles as the AEAD's associated data, while
// id||Body is sealed as a single ciphertext+tag unit (spec section 4.1's
// framing rule).
func encryptFrame(p *Packet, stream *aeadStream) ([]byte, error) {
	plaintext := make([]byte, 1+len(p.Body))
	plaintext[0] = p.ID
	copy(plaintext[1:], p.Body)

	total := 2 + len(plaintext) + macSize
	if total > SendMTU {
		return nil, fmt.Errorf("admin: encrypted packet is %d bytes, exceeds SEND_MTU %d", total, SendMTU)
	}
	sealed := stream.seal(uint16(total), plaintext)

	buf := make([]byte, 2+len(sealed))
	binary.LittleEndian.PutUint16(buf[0:2], uint16(total))
	copy(buf[2:], sealed)
	return buf, nil
}

// extractEncryptedFrame is extractFrame's counterpart once encryption is
// active: the length prefix is read plaintext to learn the frame's extent
// and to reconstruct the associated data the sender used, then the
// remainder is opened as one sealed id||body unit.
func extractEncryptedFrame(buf []byte, stream *aeadStream) (consumed int, pkt *Packet, ok bool, err error) {
	if len(buf) < 2 {
		return 0, nil, false, nil
	}
	length := binary.LittleEndian.Uint16(buf[0:2])
	if int(length) < 2+macSize+1 {
		return 0, nil, false, ErrInvalidHeader
	}
	if int(length) > len(buf) {
		return 0, nil, false, nil
	}
	plaintext, err := stream.open(length, buf[2:length])
	if err != nil {
		return 0, nil, false, err
	}
	return int(length), newDecodePacket(plaintext[0], append([]byte(nil), plaintext[1:]...)), true, nil
}
