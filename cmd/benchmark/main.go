package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/punchamoorthee/ledgerview/internal/models"
	"github.com/punchamoorthee/ledgerview/internal/service"
)

// Config holds the benchmark settings
var (
	targetURL   string
	concurrency int
	duration    time.Duration
	workload    string
	userID      string
	accounts    int
)

// Metrics
var (
	totalRequests uint64
	deposits      uint64
	withdrawals   uint64
	failOther     uint64
)

func init() {
	flag.StringVar(&targetURL, "url", "http://localhost:8080", "API Base URL")
	flag.IntVar(&concurrency, "workers", 10, "Number of concurrent workers")
	flag.DurationVar(&duration, "duration", 30*time.Second, "Test duration")
	flag.StringVar(&workload, "workload", "uniform", "Workload type: uniform | hotspot")
	flag.StringVar(&userID, "user", "1", "X-User-Id sent with every request")
	flag.IntVar(&accounts, "accounts", 5, "Account ids 1..N receive traffic")
}

func main() {
	flag.Parse()
	log.Printf("Starting Benchmark: %s | Workers: %d | Duration: %s", workload, concurrency, duration)

	client := &http.Client{Timeout: 5 * time.Second}
	ctx, cancel := context.WithTimeout(context.Background(), duration)
	defer cancel()

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < concurrency; i++ {
		g.Go(func() error {
			worker(ctx, client)
			return nil
		})
	}
	_ = g.Wait()
	elapsed := time.Since(start)

	inconsistent := reconcileAll(client)
	printResults(elapsed, inconsistent)
	if inconsistent > 0 {
		os.Exit(1)
	}
}

func worker(ctx context.Context, client *http.Client) {
	for ctx.Err() == nil {
		id := pickAccount()
		op, counter := "deposit", &deposits
		if rand.Float32() < 0.5 {
			op, counter = "withdraw", &withdrawals
		}

		body, _ := json.Marshal(models.EntryRequest{Amount: 100, Description: "bench " + op})
		url := fmt.Sprintf("%s/api/v1/accounts/%d/%s", targetURL, id, op)
		req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-Id", userID)

		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() == nil {
				atomic.AddUint64(&failOther, 1)
			}
			continue
		}

		atomic.AddUint64(&totalRequests, 1)
		if resp.StatusCode == http.StatusOK {
			atomic.AddUint64(counter, 1)
		} else {
			atomic.AddUint64(&failOther, 1)
		}
		resp.Body.Close()
	}
}

func pickAccount() int {
	if workload == "hotspot" {
		// Hotspot: 90% of traffic goes to Account 1
		if rand.Float32() < 0.90 {
			return 1
		}
	}
	return rand.Intn(accounts) + 1
}

// reconcileAll checks every account after the run and returns how many
// are out of balance.
func reconcileAll(client *http.Client) int {
	bad := 0
	for id := 1; id <= accounts; id++ {
		req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/api/v1/accounts/%d/reconcile", targetURL, id), nil)
		req.Header.Set("X-User-Id", userID)
		resp, err := client.Do(req)
		if err != nil {
			log.Printf("reconcile %d: %v", id, err)
			bad++
			continue
		}
		var rec service.Reconciliation
		err = json.NewDecoder(resp.Body).Decode(&rec)
		resp.Body.Close()
		if err != nil || resp.StatusCode != http.StatusOK || !rec.Consistent {
			log.Printf("account %d out of balance: status=%d balance=%d sum=%d", id, resp.StatusCode, rec.Balance, rec.Sum)
			bad++
		}
	}
	return bad
}

func printResults(d time.Duration, inconsistent int) {
	total := atomic.LoadUint64(&totalRequests)

	results := map[string]interface{}{
		"workload":       workload,
		"duration_sec":   d.Seconds(),
		"total_requests": total,
		"throughput_tps": float64(total) / d.Seconds(),
		"deposits":       atomic.LoadUint64(&deposits),
		"withdrawals":    atomic.LoadUint64(&withdrawals),
		"errors":         atomic.LoadUint64(&failOther),
		"inconsistent":   inconsistent,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(results)

	filename := fmt.Sprintf("results_%s.json", workload)
	file, err := os.Create(filename)
	if err != nil {
		log.Printf("write results: %v", err)
		return
	}
	defer file.Close()
	json.NewEncoder(file).Encode(results)
}
