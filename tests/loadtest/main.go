package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const (
	baseURL      = "http://127.0.0.1:8080"
	numWorkers   = 50
	testDuration = 10 * time.Second
)

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	limited   int64
	latencies []time.Duration
}

var reads = []string{"/meals?limit=20", "/meals", "/summary", "/computed", "/ongoing", "/memories"}

func main() {
	fmt.Println("=== MilkTracker Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n\n", numWorkers, testDuration)

	// Wait for server
	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	// Phase 1: Read-only load, served mostly from the response cache
	fmt.Println("\n--- Phase 1: Reads (GET only) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		return doGet(reads[rng.Intn(len(reads))])
	})

	// Phase 2: Reads mixed with idempotent vitamin confirmations
	fmt.Println("\n--- Phase 2: Mixed load (80% GET, 20% POST /vitamins) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		if rng.Float64() < 0.20 {
			subject := []string{"baby", "mother"}[rng.Intn(2)]
			return doPost("/vitamins", map[string]string{"subject": subject})
		}
		return doGet(reads[rng.Intn(len(reads))])
	})

	// Phase 3: Recording churn, every meal started is cancelled again
	fmt.Println("\n--- Phase 3: Recording churn (start/pause/resume/cancel) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		now := time.Now()
		switch r := rng.Float64(); {
		case r < 0.15:
			return doPost("/meals/start", map[string]string{
				"date":       now.Format("2006-01-02"),
				"start_time": now.Format("15:04"),
			})
		case r < 0.30:
			return doPost("/meals/pause", nil)
		case r < 0.45:
			return doPost("/meals/resume", nil)
		case r < 0.55:
			return doPost("/meals/cancel", nil)
		default:
			return doGet("/computed")
		}
	})
	doPost("/meals/cancel", nil)
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			if r.status == http.StatusTooManyRequests {
				s.limited++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-26s %8s %6s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "429", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 99))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		avg := avgDuration(s.latencies)
		p50 := percentile(s.latencies, 0.50)
		p95 := percentile(s.latencies, 0.95)
		p99 := percentile(s.latencies, 0.99)

		fmt.Printf("  %-26s %8d %6d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, s.limited, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 99))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func endpointName(method, path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return method + " " + path
}

func finish(endpoint string, resp *http.Response, err error, lat time.Duration) result {
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode >= 300 && resp.StatusCode != http.StatusTooManyRequests}
}

func doGet(path string) result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + path)
	return finish(endpointName(http.MethodGet, path), resp, err, time.Since(start))
}

func doPost(path string, body any) result {
	var data []byte
	if body != nil {
		data, _ = json.Marshal(body)
	}
	start := time.Now()
	resp, err := httpClient.Post(baseURL+path, "application/json", bytes.NewReader(data))
	return finish(endpointName(http.MethodPost, path), resp, err, time.Since(start))
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
