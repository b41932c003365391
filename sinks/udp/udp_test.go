package udp

import (
	"context"
	"net"
	"testing"
	"time"

	"dirpx.dev/pulselog/level"
	"dirpx.dev/pulselog/record"
)

func TestValidateRejectsOutOfRangeRetryCount(t *testing.T) {
	c := Config{ServerAddr: "127.0.0.1", ServerPort: 9999, RetryCount: 0}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for RetryCount out of [1,10]")
	}
}

func TestSendRoundTrip(t *testing.T) {
	ln, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0})
	if err != nil {
		t.Fatalf("ListenUDP: %v", err)
	}
	defer ln.Close()

	port := ln.LocalAddr().(*net.UDPAddr).Port

	s, err := New(Config{ServerAddr: "127.0.0.1", ServerPort: port, AuthToken: "tok", AppID: "A", RetryCount: 3})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Cleanup(context.Background())

	r := record.New(level.Error, "gateway", "x")
	r.AppID = "ignored-because-sink-stamps-its-own"

	recvErr := make(chan error, 1)
	recvBuf := make(chan []byte, 1)
	go func() {
		buf := make([]byte, 4096)
		_ = ln.SetReadDeadline(time.Now().Add(2 * time.Second))
		n, _, err := ln.ReadFromUDP(buf)
		if err != nil {
			recvErr <- err
			return
		}
		recvBuf <- buf[:n]
	}()

	if err := s.Process(context.Background(), record.Encode(&r)); err != nil {
		t.Fatalf("Process: %v", err)
	}

	select {
	case err := <-recvErr:
		t.Fatalf("ReadFromUDP: %v", err)
	case raw := <-recvBuf:
		got, err := record.DecodeNet(raw)
		if err != nil {
			t.Fatalf("DecodeNet: %v", err)
		}
		if got.Level != level.Error || got.Message != "x" || got.AuthToken != "tok" || got.AppID != "A" {
			t.Fatalf("unexpected net record: %+v", got)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for datagram")
	}
}
