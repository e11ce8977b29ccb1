package admin

import (
	"errors"
	"testing"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/curve25519"
)

// TestHandshakeDerivesMatchingKeys mirrors a full client/server key
// exchange: both sides compute curve25519.X25519 against the same pair of
// ephemeral keys and feed it through the same BLAKE2b-512 KDF, so they
// must arrive at the same 64 bytes of key material.
func TestHandshakeDerivesMatchingKeys(t *testing.T) {
	client, err := newCryptoHandler("hunter2", "")
	if err != nil {
		t.Fatalf("newCryptoHandler (client): %v", err)
	}
	server, err := newCryptoHandler("hunter2", "")
	if err != nil {
		t.Fatalf("newCryptoHandler (server): %v", err)
	}

	nonce := make([]byte, kxNonceSize)
	for i := range nonce {
		nonce[i] = byte(i)
	}

	clientPub, ciphertext, mac, err := client.onAuthRequest(AuthX25519PAKE, server.ourPublic, nonce)
	if err != nil {
		t.Fatalf("client.onAuthRequest: %v", err)
	}
	_ = ciphertext
	_ = mac

	serverPub, _, _, err := server.onAuthRequest(AuthX25519PAKE, clientPub, nonce)
	if err != nil {
		t.Fatalf("server.onAuthRequest: %v", err)
	}
	if serverPub != server.ourPublic {
		t.Fatal("server.onAuthRequest returned an unexpected public key")
	}

	// The server hashes the same inputs in the same order as the client
	// (shared secret, server public key, client public key, password), so
	// both ends hold one 64-byte block: its first half is the client's
	// send key (the server's receive key) and its second half the client's
	// receive key (the server's send key). onAuthRequest always puts the
	// peer's public key first, so the server's block is computed here.
	shared, err := curve25519.X25519(server.ourSecret[:], clientPub[:])
	if err != nil {
		t.Fatalf("server key exchange: %v", err)
	}
	kdfInput := append(append(append(shared, server.ourPublic[:]...), clientPub[:]...), "hunter2"...)
	serverKeys := blake2b.Sum512(kdfInput)
	if string(client.sendKey()) != string(serverKeys[:32]) {
		t.Fatal("client send key does not match server receive key")
	}
	if string(client.recvKey()) != string(serverKeys[32:]) {
		t.Fatal("client receive key does not match server send key")
	}
}

func TestOnAuthRequestRejectsUnadvertisedMethod(t *testing.T) {
	h, err := newCryptoHandler("", "")
	if err != nil {
		t.Fatalf("newCryptoHandler: %v", err)
	}
	var theirPublic [32]byte
	nonce := make([]byte, kxNonceSize)
	_, _, _, err = h.onAuthRequest(AuthX25519PAKE, theirPublic, nonce)
	if err != ErrUnexpectedAuthMethod {
		t.Fatalf("err = %v, want ErrUnexpectedAuthMethod", err)
	}
}

func TestAEADStreamRoundTrip(t *testing.T) {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	nonce := make([]byte, kxNonceSize)

	sender, err := newAEADStream(key, nonce)
	if err != nil {
		t.Fatalf("newAEADStream (sender): %v", err)
	}
	receiver, err := newAEADStream(key, nonce)
	if err != nil {
		t.Fatalf("newAEADStream (receiver): %v", err)
	}

	plaintext := []byte{idServerPong, 1, 2, 3, 4}
	sealed := sender.seal(uint16(len(plaintext)+2+macSize), plaintext)

	opened, err := receiver.open(uint16(len(plaintext)+2+macSize), sealed)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if string(opened) != string(plaintext) {
		t.Fatal("decrypted plaintext does not match original")
	}
}

func TestAEADStreamRejectsTamperedCiphertext(t *testing.T) {
	key := make([]byte, 32)
	nonce := make([]byte, kxNonceSize)
	sender, _ := newAEADStream(key, nonce)
	receiver, _ := newAEADStream(key, nonce)

	sealed := sender.seal(10, []byte{1, 2, 3})
	sealed[0] ^= 0xFF

	if _, err := receiver.open(10, sealed); !errors.Is(err, ErrCryptoFailure) {
		t.Fatalf("err = %v, want ErrCryptoFailure", err)
	}
}

func TestEncryptedFrameRoundTrip(t *testing.T) {
	key := make([]byte, 32)
	nonce := make([]byte, kxNonceSize)
	sendStream, _ := newAEADStream(key, nonce)
	recvStream, _ := newAEADStream(key, nonce)

	p := newEncodePacket(idServerPong)
	p.WriteUint32(99)

	frame, err := encryptFrame(p, sendStream)
	if err != nil {
		t.Fatalf("encryptFrame: %v", err)
	}

	consumed, decoded, ok, err := extractEncryptedFrame(frame, recvStream)
	if err != nil {
		t.Fatalf("extractEncryptedFrame: %v", err)
	}
	if !ok || consumed != len(frame) {
		t.Fatalf("extractEncryptedFrame: ok=%v consumed=%d want %d", ok, consumed, len(frame))
	}
	if decoded.ID != idServerPong {
		t.Fatalf("decoded id = %d, want %d", decoded.ID, idServerPong)
	}
	v, err := decoded.ReadUint32()
	if err != nil || v != 99 {
		t.Fatalf("payload = %v, %v", v, err)
	}
}
