package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

func main() {
	baseURL := os.Getenv("E2E_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	// Wait for server to start
	time.Sleep(2 * time.Second)

	// 1. Health Check
	checkEndpoint(baseURL, "GET", "/health", 200)

	// 2. Force a refresh from the configured source
	snapshotID := refresh(baseURL)
	fmt.Printf("Snapshot ID: %s\n", snapshotID)

	// 3. Full dashboard and summaries
	checkEndpoint(baseURL, "GET", "/dashboard", 200)
	checkEndpoint(baseURL, "GET", "/summary", 200)

	// 4. Per-market views
	for _, m := range []string{"domestic", "foreign"} {
		checkEndpoint(baseURL, "GET", "/holdings/"+m, 200)
		checkEndpoint(baseURL, "GET", "/brokers/"+m, 200)
		checkEndpoint(baseURL, "GET", "/top-gainers/"+m+"?n=5", 200)
	}

	// 5. Bad input
	checkEndpoint(baseURL, "GET", "/holdings/mars", 400)

	// 6. Metrics
	checkEndpoint(baseURL, "GET", "/metrics", 200)

	fmt.Println("ALL TESTS PASSED")
}

func checkEndpoint(baseURL, method, path string, expectedStatus int) []byte {
	fmt.Printf("Testing %s %s...\n", method, path)
	req, _ := http.NewRequest(method, baseURL+path, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != expectedStatus {
		log.Fatalf("Expected status %d, got %d. Body: %s", expectedStatus, resp.StatusCode, string(respBody))
	}
	if len(respBody) > 300 {
		fmt.Printf("Response: %s...\n", string(respBody[:300]))
	} else {
		fmt.Printf("Response: %s\n", string(respBody))
	}
	return respBody
}

func refresh(baseURL string) string {
	body := checkEndpoint(baseURL, "POST", "/refresh", 200)
	var res struct {
		SnapshotID string `json:"snapshot_id"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		log.Fatalf("Decode refresh response: %v", err)
	}
	return res.SnapshotID
}
