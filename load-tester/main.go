package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

type Config struct {
	Endpoint      string
	Total         int
	Rate          int
	Concurrency   int
	ReplayPercent int
	TagID         string
}

func parseFlags() *Config {
	c := &Config{}
	flag.StringVar(&c.Endpoint, "endpoint", "", "Forwarder events URL, e.g. http://localhost:8080/events (required)")
	flag.IntVar(&c.Total, "total", 10000, "Total requests")
	flag.IntVar(&c.Rate, "rate", 2000, "Requests per second")
	flag.IntVar(&c.Concurrency, "concurrency", 0, "Worker count (0=auto)")
	flag.IntVar(&c.ReplayPercent, "replay-percent", 0, "Percent of requests that resend a previous event")
	flag.StringVar(&c.TagID, "tid", "", "Tag id placed in every payload (empty = rely on forwarder settings)")
	flag.Parse()

	if c.Endpoint == "" {
		fmt.Fprintln(os.Stderr, "Error: -endpoint is required")
		flag.Usage()
		os.Exit(1)
	}

	if c.Concurrency == 0 {
		c.Concurrency = max(c.Rate/20, 50)
	}
	c.ReplayPercent = min(max(c.ReplayPercent, 0), 100)

	return c
}

type Stats struct {
	accepted uint64
	rejected uint64
	failed   uint64
	latency  int64 // microseconds
}

func (s *Stats) AddAccepted(d time.Duration) {
	atomic.AddUint64(&s.accepted, 1)
	atomic.AddInt64(&s.latency, d.Microseconds())
}

func (s *Stats) AddRejected() { atomic.AddUint64(&s.rejected, 1) }

func (s *Stats) AddFailed() { atomic.AddUint64(&s.failed, 1) }

func (s *Stats) StartLogger(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	var last uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ok := atomic.LoadUint64(&s.accepted)
			latTotal := atomic.LoadInt64(&s.latency)
			avg := 0.0
			if ok > 0 {
				avg = float64(latTotal) / float64(ok) / 1000.0
			}
			log.Printf("[STATS] 1s -> 202: %d | 4xx: %d | ERR: %d | AvgLat: %.2fms | Total 202: %d",
				ok-last, atomic.LoadUint64(&s.rejected), atomic.LoadUint64(&s.failed), avg, ok)
			last = ok
		}
	}
}

// eventRing keeps recently sent bodies for replay.
type eventRing struct {
	mu  sync.Mutex
	buf [][]byte
	max int
}

func (r *eventRing) add(body []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.buf) >= r.max {
		r.buf = r.buf[1:]
	}
	r.buf = append(r.buf, body)
}

func (r *eventRing) random(rng *rand.Rand) ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.buf) == 0 {
		return nil, false
	}
	return r.buf[rng.Intn(len(r.buf))], true
}

func main() {
	cfg := parseFlags()
	stats := &Stats{}
	ring := &eventRing{max: 10000}

	client := &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        cfg.Concurrency,
			MaxIdleConnsPerHost: cfg.Concurrency,
			IdleConnTimeout:     90 * time.Second,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
		},
	}

	log.Printf("Starting Load Test: Target=%s Rate=%d/s Total=%d Workers=%d", cfg.Endpoint, cfg.Rate, cfg.Total, cfg.Concurrency)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go stats.StartLogger(ctx)

	jobs := make(chan struct{}, cfg.Rate*2)
	var wg sync.WaitGroup
	seed := rand.New(rand.NewSource(time.Now().UnixNano()))

	for i := 0; i < cfg.Concurrency; i++ {
		wg.Add(1)
		gen := &generator{rng: rand.New(rand.NewSource(seed.Int63())), tid: cfg.TagID}
		go startWorker(client, cfg, jobs, stats, ring, gen, &wg)
	}

	remaining := cfg.Total
	for remaining > 0 {
		start := time.Now()
		batch := min(cfg.Rate, remaining)
		for i := 0; i < batch; i++ {
			jobs <- struct{}{}
		}
		remaining -= batch

		if elapsed := time.Since(start); elapsed < time.Second {
			time.Sleep(time.Second - elapsed)
		}
	}

	close(jobs)
	wg.Wait()

	log.Printf("DONE. Accepted: %d | Rejected: %d | Failed: %d",
		atomic.LoadUint64(&stats.accepted), atomic.LoadUint64(&stats.rejected), atomic.LoadUint64(&stats.failed))
}

func startWorker(client *http.Client, cfg *Config, jobs <-chan struct{}, stats *Stats, ring *eventRing, gen *generator, wg *sync.WaitGroup) {
	defer wg.Done()

	for range jobs {
		body, replayed := []byte(nil), false
		if cfg.ReplayPercent > 0 && gen.rng.Intn(100) < cfg.ReplayPercent {
			body, replayed = ring.random(gen.rng)
		}
		if !replayed {
			body, _ = json.Marshal(gen.next())
			ring.add(body)
		}

		start := time.Now()
		status, err := post(client, cfg.Endpoint, body, gen.userAgent())
		switch {
		case err != nil:
			stats.AddFailed()
		case status == http.StatusAccepted:
			stats.AddAccepted(time.Since(start))
		default:
			stats.AddRejected()
		}
	}
}

func post(client *http.Client, url string, body []byte, userAgent string) (int, error) {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	// drain so the connection is reused
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp.StatusCode, nil
}

var (
	standardTypes  = []string{"pageview", "pageview", "pageview", "lead", "signup", "viewcategory", "watchvideo"}
	ecommerceNames = []string{"Product Added", "Order Completed", "Products Searched", "Product Viewed"}
	userAgents     = []string{
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Mobile/15E148",
	}
	categories = []string{"shoes", "bags", "hats"}
	currencies = []string{"TRY", "USD", "EUR"}
)

// generator produces request bodies in the shape POST /events accepts.
type generator struct {
	rng *rand.Rand
	tid string
}

func (g *generator) userAgent() string {
	return userAgents[g.rng.Intn(len(userAgents))]
}

func (g *generator) next() map[string]any {
	payload := map[string]any{}
	if g.tid != "" {
		payload["tid"] = g.tid
	}

	evt := map[string]any{
		"payload": payload,
		"client": map[string]any{
			"url":       fmt.Sprintf("https://shop.example/p/%d", g.rng.Intn(500)),
			"referer":   "https://www.pinterest.com/",
			"timestamp": time.Now().UnixMilli(),
			"ip":        fmt.Sprintf("198.51.100.%d", g.rng.Intn(254)+1),
		},
	}

	switch n := g.rng.Intn(10); {
	case n < 6:
		evt["type"] = standardTypes[g.rng.Intn(len(standardTypes))]
	case n < 9:
		evt["type"] = "ecommerce"
		evt["name"] = ecommerceNames[g.rng.Intn(len(ecommerceNames))]
		payload["ecommerce"] = g.order()
	default:
		evt["type"] = "event"
		payload["ev"] = "custom_click"
	}
	return evt
}

func (g *generator) order() map[string]any {
	products := make([]map[string]any, g.rng.Intn(3)+1)
	for i := range products {
		products[i] = map[string]any{
			"product_id": fmt.Sprintf("p_%d", g.rng.Intn(1000)),
			"sku":        fmt.Sprintf("sku_%d", g.rng.Intn(1000)),
			"category":   categories[g.rng.Intn(len(categories))],
			"price":      float64(g.rng.Intn(10000)) / 100,
		}
	}
	return map[string]any{
		"order_id": fmt.Sprintf("ord_%d", g.rng.Intn(100000)),
		"currency": currencies[g.rng.Intn(len(currencies))],
		"revenue":  float64(g.rng.Intn(50000)) / 100,
		"quantity": len(products),
		"products": products,
	}
}
