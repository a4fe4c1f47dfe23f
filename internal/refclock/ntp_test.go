package refclock

import (
	"encoding/binary"
	"fmt"
	"net"
	"testing"
	"time"
)

// fakeNTPServer отвечает на один запрос датаграммой respond(req).
func fakeNTPServer(t *testing.T, respond func(req []byte) []byte) string {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	go func() {
		buf := make([]byte, 64)
		size, addr, err := conn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		_, _ = conn.WriteToUDP(respond(buf[:size]), addr)
	}()
	return fmt.Sprintf("127.0.0.1:%d", conn.LocalAddr().(*net.UDPAddr).Port)
}

func ntpServerResponse(at time.Time) []byte {
	resp := make([]byte, 48)
	resp[0] = 0x1c // LI=0, VN=3, mode=4 (server)
	ntpEpoch := time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	binary.BigEndian.PutUint32(resp[40:], uint32(at.Sub(ntpEpoch)/time.Second))
	return resp
}

func TestNTP_Now(t *testing.T) {
	want := time.Date(2024, 5, 17, 10, 30, 0, 0, time.UTC)
	host := fakeNTPServer(t, func([]byte) []byte {
		return ntpServerResponse(want)
	})
	got, err := NewNTP(host, time.Second).Now()
	if err != nil {
		t.Fatalf("Now: %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("Now = %v, want %v", got, want)
	}
}

func TestNTP_ShortResponse(t *testing.T) {
	host := fakeNTPServer(t, func([]byte) []byte {
		return ntpServerResponse(time.Now())[:40]
	})
	if _, err := NewNTP(host, time.Second).Now(); err == nil {
		t.Error("обрезанный ответ: ожидали ошибку, не сэмпл 1900 года")
	}
}

func TestNTP_WrongMode(t *testing.T) {
	host := fakeNTPServer(t, func([]byte) []byte {
		resp := ntpServerResponse(time.Now())
		resp[0] = 0x1b // mode 3 = client
		return resp
	})
	if _, err := NewNTP(host, time.Second).Now(); err == nil {
		t.Error("mode client: ожидали ошибку")
	}
}

func TestNTP_EmptyTimestamp(t *testing.T) {
	host := fakeNTPServer(t, func([]byte) []byte {
		resp := make([]byte, 48)
		resp[0] = 0x1c
		return resp
	})
	if _, err := NewNTP(host, time.Second).Now(); err == nil {
		t.Error("нулевой transmit timestamp: ожидали ошибку")
	}
}
