package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

const (
	defaultAPIBase = "http://localhost:8080"
)

var (
	apiBase    string
	client     = &http.Client{Timeout: 30 * time.Second}
	testDate   string
	createdIDs = make(map[string]string) // track created resources for cleanup
)

func main() {
	fmt.Println("=== Habit Hub E2E Smoke Test ===")
	fmt.Println()

	// Load config from env
	apiBase = getEnv("API_BASE_URL", defaultAPIBase)

	fmt.Printf("API Base: %s\n", apiBase)
	fmt.Println()

	// Test date (today)
	testDate = time.Now().Format("2006-01-02")

	// Run smoke tests
	steps := []struct {
		name string
		fn   func() error
	}{
		{"Healthz", testHealthz},
		{"Get Plan", testGetPlan},
		{"Get Day Checklist", testGetDayChecklist},
		{"Set Completion", testSetCompletion},
		{"Clear Completion", testClearCompletion},
		{"Append Food Entry", testAppendFood},
		{"List Food Entries", testListFood},
		{"Week Summary", testWeekSummary},
		{"Week Report (text)", testWeekReport},
		{"Create Report (TXT)", testCreateReport},
		{"List Reports", testListReports},
		{"Download Report", testDownloadReport},
		{"Delete Report", testDeleteReport},
	}

	failed := false
	for i, step := range steps {
		fmt.Printf("[%d/%d] %s... ", i+1, len(steps), step.name)
		if err := step.fn(); err != nil {
			fmt.Printf("❌ FAILED\n")
			fmt.Printf("  Error: %v\n\n", err)
			failed = true
			break
		}
		fmt.Printf("✅ OK\n")
	}

	fmt.Println()
	if failed {
		fmt.Println("❌ SMOKE TEST FAILED")
		os.Exit(1)
	}

	fmt.Println("✅ ALL SMOKE TESTS PASSED")
}

func testHealthz() error {
	resp, err := client.Get(apiBase + "/healthz")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return expectStatus(resp, http.StatusOK)
}

func testGetPlan() error {
	resp, err := client.Get(apiBase + "/v1/plan")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := expectStatus(resp, http.StatusOK); err != nil {
		return err
	}

	var result struct {
		Name   string `json:"name"`
		Source string `json:"source"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if result.Name == "" {
		return fmt.Errorf("plan has empty name")
	}
	return nil
}

func testGetDayChecklist() error {
	resp, err := client.Get(apiBase + "/v1/checklist/day?date=" + testDate)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := expectStatus(resp, http.StatusOK); err != nil {
		return err
	}

	var day struct {
		Date  string `json:"date"`
		Items []struct {
			Key string `json:"key"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&day); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if day.Date != testDate {
		return fmt.Errorf("expected date=%s, got %s", testDate, day.Date)
	}
	if len(day.Items) > 0 {
		createdIDs["item_key"] = day.Items[0].Key
	}
	return nil
}

func testSetCompletion() error {
	key := createdIDs["item_key"]
	if key == "" {
		return fmt.Errorf("no checklist item available for today")
	}

	payload := map[string]string{
		"date":     testDate,
		"item_key": key,
	}
	resp, err := doJSON("PUT", "/v1/checklist/completions", payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return expectStatus(resp, http.StatusOK)
}

func testClearCompletion() error {
	key := createdIDs["item_key"]
	target := fmt.Sprintf("%s/v1/checklist/completions?date=%s&item_key=%s", apiBase, testDate, key)
	req, err := http.NewRequest("DELETE", target, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return expectStatus(resp, http.StatusNoContent)
}

func testAppendFood() error {
	payload := map[string]string{
		"date":       testDate,
		"entry_text": "smoke test: oatmeal with berries",
	}
	resp, err := doJSON("POST", "/v1/food", payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return expectStatus(resp, http.StatusCreated)
}

func testListFood() error {
	resp, err := client.Get(apiBase + "/v1/food?date=" + testDate)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := expectStatus(resp, http.StatusOK); err != nil {
		return err
	}

	var result struct {
		Entries []struct {
			EntryText string `json:"entry_text"`
		} `json:"entries"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if len(result.Entries) == 0 {
		return fmt.Errorf("expected at least one food entry")
	}
	return nil
}

func testWeekSummary() error {
	resp, err := client.Get(apiBase + "/v1/week/summary?date=" + testDate)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := expectStatus(resp, http.StatusOK); err != nil {
		return err
	}

	var summary struct {
		WeekStart string `json:"week_start"`
		Days      []any  `json:"days"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if len(summary.Days) != 7 {
		return fmt.Errorf("expected 7 days, got %d", len(summary.Days))
	}
	return nil
}

func testWeekReport() error {
	resp, err := client.Get(apiBase + "/v1/week/report?date=" + testDate)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := expectStatus(resp, http.StatusOK); err != nil {
		return err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return err
	}
	if !strings.Contains(string(body), "Totals") {
		return fmt.Errorf("report does not contain a Totals section")
	}
	return nil
}

func testCreateReport() error {
	payload := map[string]string{
		"date":   testDate,
		"format": "txt",
	}
	resp, err := doJSON("POST", "/v1/reports", payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := expectStatus(resp, http.StatusCreated); err != nil {
		return err
	}

	var report struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if report.ID == "" {
		return fmt.Errorf("report has no id")
	}
	createdIDs["report"] = report.ID
	return nil
}

func testListReports() error {
	resp, err := client.Get(apiBase + "/v1/reports")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := expectStatus(resp, http.StatusOK); err != nil {
		return err
	}

	var result struct {
		Reports []struct {
			ID string `json:"id"`
		} `json:"reports"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	for _, r := range result.Reports {
		if r.ID == createdIDs["report"] {
			return nil
		}
	}
	return fmt.Errorf("created report %s not found in list", createdIDs["report"])
}

func testDownloadReport() error {
	resp, err := client.Get(apiBase + "/v1/reports/" + createdIDs["report"] + "/download")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := expectStatus(resp, http.StatusOK); err != nil {
		return err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024*1024))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return fmt.Errorf("downloaded report is empty")
	}
	return nil
}

func testDeleteReport() error {
	req, err := http.NewRequest("DELETE", apiBase+"/v1/reports/"+createdIDs["report"], nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return expectStatus(resp, http.StatusNoContent)
}

// ---- helpers ----

func doJSON(method, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(method, apiBase+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return client.Do(req)
}

func expectStatus(resp *http.Response, want int) error {
	if resp.StatusCode != want {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
