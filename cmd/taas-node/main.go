// taas-node — пользовательский узел Time-as-a-Service: отображает аппаратный
// счётчик тиков (драйвер taas_timer), держит линейный якорь tick→UTC с
// периодической рекалибровкой и отдаёт по UDP сырые метки времени либо
// подписанные сертификаты (ed25519) на клиентский хэш.
//
// Использование:
//
//	taas-node -config taas-node.yml — запуск daemon
//	taas-node -port 1588 -device /dev/taas_timer — запуск с переопределениями
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/shiwa/timecard-mini/taas-node/internal/config"
	"github.com/shiwa/timecard-mini/taas-node/internal/logger"
	"github.com/shiwa/timecard-mini/taas-node/pkg/taasnode"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигу (по умолчанию taas-node.yml)")
	device := flag.String("device", "", "устройство таймера (переопределяет config)")
	port := flag.Int("port", 0, "UDP порт (переопределяет config)")
	keyPath := flag.String("key", "", "файл ключа ed25519 (переопределяет config)")
	cpu := flag.Int("cpu", -2, "ядро для привязки, -1 — без привязки (переопределяет config)")
	quiet := flag.Bool("quiet", false, "меньше вывода")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg == nil {
		cfg = config.Default()
	}

	if *device != "" {
		cfg.Device = *device
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *keyPath != "" {
		cfg.SigningKey = *keyPath
	}
	if *cpu != -2 {
		cfg.CPUCore = *cpu
	}

	runDaemonWithShutdown(cfg, *quiet)
}

// loadConfig читает конфиг. Дефолтный taas-node.yml опционален; явно
// указанный через -config путь обязан существовать.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = "taas-node.yml"
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, nil
		}
	}
	return config.Load(path)
}

// runDaemonWithShutdown запускает узел через taasnode.RunDaemon с контекстом;
// по SIGINT/SIGTERM контекст отменяется, цикл наблюдает отмену на границе
// итерации и освобождает отображение, сокет и ключ через defer.
func runDaemonWithShutdown(cfg *config.Config, quiet bool) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("получен сигнал %v, остановка daemon", sig)
		cancel()
	}()

	if err := taasnode.RunDaemon(ctx, cfg, quiet); err != nil && err != context.Canceled {
		log.Fatalf("taas: %v", err)
	}
	logger.Info("daemon остановлен")
}
