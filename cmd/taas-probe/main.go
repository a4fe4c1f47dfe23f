// taas-probe — клиент для измерения джиттера taas-node: шлёт серию trigger
// запросов, меряет round-trip задержку и печатает сводку
// (min/avg/max/stdev/jitter) и последнюю аппаратную метку.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/shiwa/timecard-mini/taas-node/internal/probe"
)

func main() {
	host := flag.String("host", "127.0.0.1", "адрес узла")
	port := flag.Int("port", 1588, "UDP порт узла")
	count := flag.Int("count", 10000, "количество запросов")
	timeout := flag.Duration("timeout", time.Second, "таймаут ответа")
	flag.Parse()

	addr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", *host, *port))
	if err != nil {
		log.Fatalf("taas-probe: resolve: %v", err)
	}
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		log.Fatalf("taas-probe: dial: %v", err)
	}
	defer conn.Close()

	latencies := make([]float64, 0, *count)
	req := []byte("T")
	resp := make([]byte, 16)
	var lastTS uint64

	for i := 0; i < *count; i++ {
		if err := conn.SetDeadline(time.Now().Add(*timeout)); err != nil {
			log.Fatalf("taas-probe: deadline: %v", err)
		}
		t0 := time.Now()
		if _, err := conn.Write(req); err != nil {
			log.Fatalf("taas-probe: send: %v", err)
		}
		size, err := conn.Read(resp)
		if err != nil {
			log.Fatalf("taas-probe: recv (запрос %d): %v", i, err)
		}
		rtt := time.Since(t0)
		if size != 8 {
			log.Fatalf("taas-probe: ответ %d байт, ожидали 8", size)
		}
		lastTS = binary.LittleEndian.Uint64(resp[:8])
		latencies = append(latencies, float64(rtt.Nanoseconds())/1000.0)
	}

	s := probe.Compute(latencies)
	fmt.Printf("Запросов:          %d\n", s.Count)
	fmt.Printf("Задержка min:      %.2f us\n", s.MinUs)
	fmt.Printf("Задержка avg:      %.2f us\n", s.AvgUs)
	fmt.Printf("Задержка max:      %.2f us\n", s.MaxUs)
	fmt.Printf("Stdev:             %.2f us\n", s.StdevUs)
	fmt.Printf("Jitter (max-min):  %.2f us\n", s.JitterUs)
	fmt.Printf("Последняя метка:   %d ns\n", lastTS)
}
