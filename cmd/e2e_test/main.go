package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

var baseURL = "http://localhost:8080"

// Runs against a server whose oracle knows the E2E_SYMBOL price.
func main() {
	if v := os.Getenv("E2E_BASE_URL"); v != "" {
		baseURL = v
	}
	symbol := "INFY"
	if v := os.Getenv("E2E_SYMBOL"); v != "" {
		symbol = v
	}
	portfolio := fmt.Sprintf("e2e-%d", time.Now().UnixNano())

	// Wait for server to start
	time.Sleep(2 * time.Second)

	// 1. Health Check
	checkEndpoint("GET", "/health", nil, 200)

	// 2. Two lots of the same symbol
	checkEndpoint("POST", "/portfolio/"+portfolio+"/lots", map[string]interface{}{"symbol": symbol, "amount": 5, "price": 100.0}, 201)
	checkEndpoint("POST", "/portfolio/"+portfolio+"/lots", map[string]interface{}{"symbol": symbol, "amount": 3, "price": 120.0}, 201)

	// 3. Portfolio and profits
	checkEndpoint("GET", "/portfolio/"+portfolio, nil, 200)
	checkEndpoint("GET", "/profit/"+portfolio+"/"+symbol, nil, 200)
	checkEndpoint("GET", "/profit/"+portfolio, nil, 200)

	// 4. Invalid selector combination
	checkEndpoint("POST", "/portfolio/"+portfolio+"/remove", map[string]interface{}{"symbol": symbol, "amount": 1, "price": 100.0}, 400)

	// 5. Partial removal, then everything
	checkEndpoint("POST", "/portfolio/"+portfolio+"/remove", map[string]interface{}{"symbol": symbol, "amount": 6}, 200)
	checkEndpoint("POST", "/portfolio/"+portfolio+"/remove", map[string]interface{}{"symbol": symbol}, 200)

	// 6. Gone
	checkEndpoint("GET", "/profit/"+portfolio+"/"+symbol, nil, 404)

	fmt.Println("ALL TESTS PASSED")
}

func checkEndpoint(method, path string, body interface{}, expectedStatus int) {
	fmt.Printf("Testing %s %s...\n", method, path)
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, _ := http.NewRequest(method, baseURL+path, bodyReader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != expectedStatus {
		log.Fatalf("Expected status %d, got %d. Body: %s", expectedStatus, resp.StatusCode, string(respBody))
	}
	fmt.Printf("Response: %s\n", string(respBody))
}
