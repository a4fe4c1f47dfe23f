package refclock

import (
	"fmt"
	"net"
	"strings"
	"time"
)

// NTP — опорные часы по NTP (клиент).
// Минимальный NTP client (один запрос — время с сервера).
type NTP struct {
	host    string
	timeout time.Duration
}

// NewNTP создаёт NTP источник. host — адрес сервера, опционально с портом
// (по умолчанию 123).
func NewNTP(host string, timeout time.Duration) *NTP {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &NTP{host: host, timeout: timeout}
}

// Name возвращает имя источника.
func (n *NTP) Name() string {
	return fmt.Sprintf("ntp:%s", n.host)
}

// Now запрашивает время у NTP сервера (RFC 5905, упрощённо). Ответ на
// неаутентифицированном сокете проверяется перед разбором: полные 48 байт,
// версия 3/4, mode server — обрезанная или чужая датаграмма не должна
// превратиться в "валидный" сэмпл 1900 года.
func (n *NTP) Now() (time.Time, error) {
	hostport := n.host
	if !strings.Contains(hostport, ":") {
		hostport += ":123"
	}
	addr, err := net.ResolveUDPAddr("udp", hostport)
	if err != nil {
		return time.Time{}, fmt.Errorf("ntp resolve %s: %w", n.host, err)
	}
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return time.Time{}, fmt.Errorf("ntp dial %s: %w", n.host, err)
	}
	defer conn.Close()
	if err := conn.SetDeadline(time.Now().Add(n.timeout)); err != nil {
		return time.Time{}, err
	}
	// NTP request: 48 bytes, first byte = 0x1b (version 4, client)
	req := make([]byte, 48)
	req[0] = 0x1b
	if _, err := conn.Write(req); err != nil {
		return time.Time{}, fmt.Errorf("ntp send: %w", err)
	}
	resp := make([]byte, 48)
	size, err := conn.Read(resp)
	if err != nil {
		return time.Time{}, fmt.Errorf("ntp recv: %w", err)
	}
	if size != len(resp) {
		return time.Time{}, fmt.Errorf("ntp %s: short response (%d bytes)", n.host, size)
	}
	if vn := resp[0] >> 3 & 0x07; vn < 3 || vn > 4 {
		return time.Time{}, fmt.Errorf("ntp %s: unexpected version %d", n.host, vn)
	}
	// mode 4 = server
	if mode := resp[0] & 0x07; mode != 4 {
		return time.Time{}, fmt.Errorf("ntp %s: unexpected mode %d", n.host, mode)
	}
	// Transmit timestamp: seconds в байтах 40-43 (big-endian), fraction 44-47
	sec := uint32(resp[40])<<24 | uint32(resp[41])<<16 | uint32(resp[42])<<8 | uint32(resp[43])
	frac := uint32(resp[44])<<24 | uint32(resp[45])<<16 | uint32(resp[46])<<8 | uint32(resp[47])
	if sec == 0 {
		return time.Time{}, fmt.Errorf("ntp %s: empty transmit timestamp", n.host)
	}
	// NTP epoch = 1900-01-01
	ntpEpoch := time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	t := ntpEpoch.Add(time.Duration(sec)*time.Second + time.Duration(frac)*time.Second/0x100000000)
	return t.UTC(), nil
}

// Close не требует освобождения ресурсов.
func (n *NTP) Close() error {
	return nil
}
