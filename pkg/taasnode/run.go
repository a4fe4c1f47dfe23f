// Package taasnode предоставляет цикл обслуживания TaaS узла: UDP запрос →
// чтение тиков → экстраполяция UTC → сырая метка или подписанный сертификат.
// Цикл однопоточный; периодическая рекалибровка якоря вплетена в него через
// таймаут приёма, отдельных потоков нет.
package taasnode

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/shiwa/timecard-mini/taas-node/internal/anchor"
	"github.com/shiwa/timecard-mini/taas-node/internal/cert"
	"github.com/shiwa/timecard-mini/taas-node/internal/hwclock"
	"github.com/shiwa/timecard-mini/taas-node/internal/logger"
	"github.com/shiwa/timecard-mini/taas-node/internal/refclock"
)

// Размер датаграммы запроса-сертификата; любой другой размер — trigger,
// ответом на который служит сырая 8-байтовая метка.
const hashRequestSize = cert.HashSize

// Node — связанный UDP сокет и зависимости цикла обслуживания.
type Node struct {
	conn          *net.UDPConn
	ticks         hwclock.TickReader
	model         *anchor.Model
	signer        *cert.Signer
	refclk        refclock.Clock
	driftInterval time.Duration
	recvTimeout   time.Duration
	lastCal       time.Time
}

// Options — параметры цикла обслуживания.
type Options struct {
	// Port — UDP порт; 0 — эфемерный (тесты).
	Port int
	// DriftInterval — интервал рекалибровки якоря.
	DriftInterval time.Duration
	// RecvTimeout — таймаут приёма; задаёт гранулярность проверки дрейфа.
	RecvTimeout time.Duration
}

// NewNode привязывает сокет и ставит начальный якорь по опорным часам.
// Ошибка bind фатальна для узла. signer может быть nil (unsigned режим).
func NewNode(o Options, ticks hwclock.TickReader, model *anchor.Model, signer *cert.Signer, refclk refclock.Clock) (*Node, error) {
	if o.DriftInterval <= 0 {
		o.DriftInterval = 60 * time.Second
	}
	if o.RecvTimeout <= 0 {
		o.RecvTimeout = time.Second
	}
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: o.Port})
	if err != nil {
		return nil, fmt.Errorf("bind udp :%d: %w", o.Port, err)
	}
	n := &Node{
		conn:          conn,
		ticks:         ticks,
		model:         model,
		signer:        signer,
		refclk:        refclk,
		driftInterval: o.DriftInterval,
		recvTimeout:   o.RecvTimeout,
	}
	if err := n.establishAnchor(); err != nil {
		conn.Close()
		return nil, err
	}
	return n, nil
}

// Addr возвращает локальный адрес сокета.
func (n *Node) Addr() *net.UDPAddr {
	return n.conn.LocalAddr().(*net.UDPAddr)
}

// Close закрывает сокет узла.
func (n *Node) Close() error {
	return n.conn.Close()
}

// establishAnchor берёт сэмпл опорных часов и тиков вплотную друг к другу
// и безусловно ставит якорь.
func (n *Node) establishAnchor() error {
	now, err := n.refclk.Now()
	if err != nil {
		return fmt.Errorf("reference clock %s: %w", n.refclk.Name(), err)
	}
	ticks := n.ticks.ReadTicks()
	n.model.Establish(uint64(now.UnixNano()), ticks)
	n.lastCal = time.Now()
	return nil
}

// driftCheck выполняет рекалибровку, если интервал истёк. Дрейф только
// логируется; при недоступных опорных часах старый якорь остаётся в силе.
func (n *Node) driftCheck() {
	elapsed := time.Since(n.lastCal)
	if elapsed < n.driftInterval {
		return
	}
	now, err := n.refclk.Now()
	if err != nil {
		logger.Error("drift check: reference clock %s: %v", n.refclk.Name(), err)
		n.lastCal = time.Now()
		return
	}
	ticks := n.ticks.ReadTicks()
	drift := n.model.Recalibrate(uint64(now.UnixNano()), ticks)
	n.lastCal = time.Now()
	logger.Info("drift %+d ns за %v", drift, elapsed.Round(time.Millisecond))
}

// Serve обслуживает запросы до отмены ctx. Отмена наблюдается в начале каждой
// итерации и после каждого таймаута приёма; ошибок, завершающих цикл, кроме
// закрытия сокета, нет.
func (n *Node) Serve(ctx context.Context) error {
	buf := make([]byte, 2048)
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := n.conn.SetReadDeadline(time.Now().Add(n.recvTimeout)); err != nil {
			return fmt.Errorf("set read deadline: %w", err)
		}
		size, addr, err := n.conn.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				// Нет запроса в этом интервале — только проверка дрейфа.
				n.driftCheck()
				continue
			}
			// Временная ошибка приёма: пропустить итерацию.
			logger.Error("recv: %v", err)
			continue
		}

		ticks := n.ticks.ReadTicks()
		utcNs := n.model.Extrapolate(ticks)
		resp := n.respond(buf[:size], utcNs)
		if _, err := n.conn.WriteToUDP(resp, addr); err != nil {
			logger.Error("send %s: %v", addr, err)
		}

		n.driftCheck()
	}
}

// respond выбирает форму ответа по длине запроса: ровно 32 байта при
// загруженном ключе — сертификат, иначе сырая метка. 32-байтовый запрос без
// ключа деградирует до сырой метки — это поведение референсного узла,
// протокол не имеет формы отказа.
func (n *Node) respond(req []byte, utcNs uint64) []byte {
	if len(req) == hashRequestSize && n.signer.Available() {
		var c cert.Certificate
		copy(c.Hash[:], req)
		c.UTCNs = utcNs
		sig, err := n.signer.Sign(c.Hash, utcNs)
		if err != nil {
			return rawTimestamp(utcNs)
		}
		c.Sig = sig
		out := c.Encode()
		return out[:]
	}
	return rawTimestamp(utcNs)
}

// rawTimestamp — 8 байт UTC наносекунд, little-endian (порядок байт
// референсного развёртывания).
func rawTimestamp(utcNs uint64) []byte {
	out := make([]byte, 8)
	binary.LittleEndian.PutUint64(out, utcNs)
	return out
}
