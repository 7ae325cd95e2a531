package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

func main() {
	baseURL := "http://localhost:8080/api"
	token := "paste-a-valid-jwt-here"

	var successCount int64
	var limitedCount int64
	var errorCount int64
	var wg sync.WaitGroup

	numRequests := 500
	concurrentWorkers := 25

	startTime := time.Now()

	jobs := make(chan int, numRequests)
	results := make(chan int, numRequests)

	// start workers
	for w := 0; w < concurrentWorkers; w++ {
		wg.Add(1)
		go worker(w, jobs, results, baseURL, token, &wg)
	}

	// send jobs
	for j := 0; j < numRequests; j++ {
		jobs <- j
	}
	close(jobs)

	wg.Wait()
	close(results)

	for status := range results {
		switch {
		case status == http.StatusTooManyRequests:
			atomic.AddInt64(&limitedCount, 1)
		case status >= 200 && status < 300:
			atomic.AddInt64(&successCount, 1)
		default:
			atomic.AddInt64(&errorCount, 1)
		}
	}

	duration := time.Since(startTime)
	requestsPerSecond := float64(numRequests) / duration.Seconds()

	fmt.Println("Load Test Results:")
	fmt.Println("==================")
	fmt.Printf("Total Requests: %d\n", numRequests)
	fmt.Printf("Successful: %d\n", successCount)
	fmt.Printf("Rate Limited (429): %d\n", limitedCount)
	fmt.Printf("Failed: %d\n", errorCount)
	fmt.Printf("Duration: %v\n", duration)
	fmt.Printf("Requests/sec: %.2f\n", requestsPerSecond)
}

func worker(
	id int,
	jobs <-chan int,
	results chan<- int,
	baseURL, token string,
	wg *sync.WaitGroup,
) {
	defer wg.Done()

	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	for range jobs {
		payload := map[string]interface{}{
			"course_id": "load-test-course",
			"xp_delta":  1,
		}

		jsonData, _ := json.Marshal(payload)

		req, err := http.NewRequest(
			"POST",
			baseURL+"/progress",
			bytes.NewBuffer(jsonData),
		)
		if err != nil {
			results <- 0
			continue
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := client.Do(req)
		if err != nil {
			log.Printf("Worker %d error: %v\n", id, err)
			results <- 0
			continue
		}

		resp.Body.Close()
		results <- resp.StatusCode

		time.Sleep(10 * time.Millisecond)
	}
}
