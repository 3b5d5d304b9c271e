package netio

import (
	"net"
	"testing"
	"time"
)

func TestConnPlaintextRoundTrip(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	wrapped := NewConn(server)

	go func() {
		client.Write([]byte("hello"))
	}()

	buf := make([]byte, 5)
	n, err := wrapped.Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(buf[:n]) != "hello" {
		t.Fatalf("Read = %q, want hello", buf[:n])
	}
}

func TestConnEncryptionRoundTripBothDirections(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	secret := []byte("0123456789abcdef")
	serverSide := NewConn(server)
	if err := serverSide.EnableEncryption(secret); err != nil {
		t.Fatalf("EnableEncryption: %v", err)
	}

	// The client side isn't wrapped, so it sees whatever serverSide.Write
	// actually puts on the wire; decrypt it by hand with an independent
	// cipher keyed the same way, mirroring what a real client would do.
	var clientDec StreamCipher
	if err := clientDec.Enable(secret); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		serverSide.Write([]byte("ping"))
	}()

	raw := make([]byte, 4)
	if _, err := client.Read(raw); err != nil {
		t.Fatalf("client read: %v", err)
	}
	<-done
	clientDec.Decrypt(raw)
	if string(raw) != "ping" {
		t.Fatalf("decrypted = %q, want ping", raw)
	}

	// And the reverse: client encrypts with its own independent cipher,
	// serverSide.Read should transparently decrypt it.
	var clientEnc StreamCipher
	if err := clientEnc.Enable(secret); err != nil {
		t.Fatal(err)
	}
	out := []byte("pong")
	clientEnc.Encrypt(out)

	doneWrite := make(chan struct{})
	go func() {
		defer close(doneWrite)
		client.Write(out)
	}()

	in := make([]byte, 4)
	n, err := serverSide.Read(in)
	if err != nil {
		t.Fatalf("server read: %v", err)
	}
	<-doneWrite
	if string(in[:n]) != "pong" {
		t.Fatalf("server decrypted = %q, want pong", in[:n])
	}
}

func TestConnReadByteOneAtATime(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	wrapped := NewConn(server)
	go client.Write([]byte{0xAB})

	b, err := wrapped.ReadByte()
	if err != nil {
		t.Fatalf("ReadByte: %v", err)
	}
	if b != 0xAB {
		t.Fatalf("ReadByte = %#x, want 0xAB", b)
	}
}

func TestConnDeadlinePropagatesToUnderlyingPipe(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	wrapped := NewConn(server)
	if err := wrapped.SetReadDeadline(time.Now().Add(-time.Second)); err != nil {
		t.Fatalf("SetReadDeadline: %v", err)
	}
	buf := make([]byte, 1)
	if _, err := wrapped.Read(buf); err == nil {
		t.Fatal("expected a deadline-exceeded error")
	}
}
