package taasnode

import (
	"context"

	"github.com/shiwa/timecard-mini/taas-node/internal/anchor"
	"github.com/shiwa/timecard-mini/taas-node/internal/cert"
	"github.com/shiwa/timecard-mini/taas-node/internal/config"
	"github.com/shiwa/timecard-mini/taas-node/internal/hwclock"
	"github.com/shiwa/timecard-mini/taas-node/internal/logger"
	"github.com/shiwa/timecard-mini/taas-node/internal/refclock"
	"github.com/shiwa/timecard-mini/taas-node/internal/rtsched"
)

// RunDaemon поднимает узел целиком и обслуживает запросы до отмены ctx.
// Порядок старта: best-effort real-time шаги, затем устройство таймера
// (фатально), ключ (деградация до unsigned), опорные часы и bind (фатально).
// Все ресурсы освобождаются на любом пути выхода через defer.
func RunDaemon(ctx context.Context, cfg *config.Config, quiet bool) error {
	logger.Quiet = quiet

	caps := rtsched.Setup(rtsched.Options{CPUCore: cfg.CPUCore, Priority: cfg.RTPriority},
		func(step string, err error) {
			logger.Error("warning: %s: %v", step, err)
		})
	logger.Info("rt: cpu_pinned=%v memory_locked=%v sched_fifo=%v",
		caps.CPUPinned, caps.MemoryLocked, caps.Realtime)

	dev, err := hwclock.Open(cfg.Device)
	if err != nil {
		return err
	}
	defer dev.Close()

	var signer *cert.Signer
	if cfg.SigningKey == "" {
		logger.Error("warning: signing key not configured, unsigned mode")
	} else if signer, err = cert.Load(cfg.SigningKey); err != nil {
		logger.Error("warning: %v, unsigned mode", err)
		signer = nil
	}

	refclk, err := refclock.New(cfg.ReferenceClock)
	if err != nil {
		return err
	}
	defer refclk.Close()

	node, err := NewNode(Options{
		Port:          cfg.Port,
		DriftInterval: cfg.DriftIntervalDuration(),
		RecvTimeout:   cfg.RecvTimeoutDuration(),
	}, dev, anchor.NewModel(cfg.TickNs), signer, refclk)
	if err != nil {
		return err
	}
	defer node.Close()

	logger.Info("serving on :%d, device %s, refclock %s, signed=%v",
		node.Addr().Port, cfg.Device, refclk.Name(), signer.Available())
	return node.Serve(ctx)
}
