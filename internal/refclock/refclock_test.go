package refclock

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/shiwa/timecard-mini/taas-node/internal/config"
)

func cfgWithProtocol(p string) config.RefClockConfig {
	return config.RefClockConfig{Protocol: p}
}

func TestParseRMC(t *testing.T) {
	tests := []struct {
		line string
		want time.Time
		ok   bool
	}{
		{
			line: "$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*6A",
			want: time.Date(1994, 3, 23, 12, 35, 19, 0, time.UTC),
			ok:   true,
		},
		{
			line: "$GNRMC,081836.50,A,3751.65,S,14507.36,E,000.0,360.0,130625,011.3,E*62",
			want: time.Date(2025, 6, 13, 8, 18, 36, 500_000_000, time.UTC),
			ok:   true,
		},
		{
			// status V — нет fix
			line: "$GPRMC,123519,V,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*6A",
			ok:   false,
		},
		{
			line: "$GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47",
			ok:   false,
		},
		{
			line: "garbage",
			ok:   false,
		},
	}
	for _, tt := range tests {
		got, ok := parseRMC(tt.line)
		if ok != tt.ok {
			t.Errorf("parseRMC(%q): ok = %v, want %v", tt.line, ok, tt.ok)
			continue
		}
		if ok && !got.Equal(tt.want) {
			t.Errorf("parseRMC(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

type nopCloser struct {
	io.Reader
}

func (nopCloser) Close() error { return nil }

func nmeaFromFeed(feed string) *NMEA {
	return newNMEA(nopCloser{strings.NewReader(feed)}, "test", 0)
}

func TestNMEA_Now_FreshFix(t *testing.T) {
	feed := "$GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47\r\n" +
		"$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*6A\r\n"
	got, err := nmeaFromFeed(feed).Now()
	if err != nil {
		t.Fatalf("Now: %v", err)
	}
	want := time.Date(1994, 3, 23, 12, 35, 19, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Now = %v, want %v", got, want)
	}
}

func TestNMEA_Now_NoStaleReplay(t *testing.T) {
	// Один валидный RMC, затем фид умирает: первый сэмпл успешен, повторный
	// вызов обязан вернуть ошибку, а не закэшированный fix — иначе
	// рекалибровка утащит отдаваемое время назад к нему.
	n := nmeaFromFeed("$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*6A\r\n")
	if _, err := n.Now(); err != nil {
		t.Fatalf("первый Now: %v", err)
	}
	if _, err := n.Now(); err == nil {
		t.Error("мёртвый фид: ожидали ошибку, не устаревший fix")
	}
}

func TestNMEA_Now_DeadFeed(t *testing.T) {
	if _, err := nmeaFromFeed("").Now(); err == nil {
		t.Error("пустой фид: ожидали ошибку")
	}
}

func TestNMEA_Offset(t *testing.T) {
	n := newNMEA(nopCloser{strings.NewReader(
		"$GNRMC,081836.50,A,3751.65,S,14507.36,E,000.0,360.0,130625,011.3,E*62\r\n")},
		"test", int64(250*time.Millisecond))
	got, err := n.Now()
	if err != nil {
		t.Fatalf("Now: %v", err)
	}
	want := time.Date(2025, 6, 13, 8, 18, 36, 750_000_000, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Now с offset = %v, want %v", got, want)
	}
}

func TestFactory_Unknown(t *testing.T) {
	if _, err := New(cfgWithProtocol("ptp")); err == nil {
		t.Error("New(ptp): ожидали ошибку неизвестного протокола")
	}
}

func TestFactory_SystemDefault(t *testing.T) {
	c, err := New(cfgWithProtocol(""))
	if err != nil {
		t.Fatalf("New(system): %v", err)
	}
	if c.Name() != "system" {
		t.Errorf("Name = %q, want system", c.Name())
	}
	now, err := c.Now()
	if err != nil {
		t.Fatalf("Now: %v", err)
	}
	if d := time.Since(now); d < -time.Second || d > time.Second {
		t.Errorf("системное время расходится с time.Now на %v", d)
	}
}
