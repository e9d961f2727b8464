// The cron binary is the external periodic trigger: it hits the server's
// scheduled-sync endpoint on an interval, authenticating with the shared
// cron secret. Run it next to the API server or from any host that can
// reach it.
package main

import (
	"encoding/json"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	target := flag.String("target", "http://localhost:8080", "base URL of the mirror API server")
	interval := flag.Duration("interval", 5*time.Minute, "time between sync triggers")
	once := flag.Bool("once", false, "trigger a single sync and exit")
	flag.Parse()

	// Same secret the server is configured with; empty means no auth.
	secret := os.Getenv("MIRROR_CRON_SECRET")
	client := &http.Client{Timeout: 2 * time.Minute}

	log.Printf("Cron trigger targeting %s every %s", *target, *interval)

	trigger(client, *target, secret)
	if *once {
		return
	}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	for range ticker.C {
		trigger(client, *target, secret)
	}
}

func trigger(client *http.Client, target, secret string) {
	req, err := http.NewRequest("GET", target+"/api/cron", nil)
	if err != nil {
		log.Printf("Bad target URL: %v", err)
		return
	}
	if secret != "" {
		req.Header.Set("Authorization", "Bearer "+secret)
	}

	resp, err := client.Do(req)
	if err != nil {
		log.Printf("Sync trigger failed: %v", err)
		return
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != 200 {
		log.Printf("Sync trigger rejected: status %d: %s", resp.StatusCode, body)
		return
	}

	var result struct {
		Users    int `json:"users"`
		Mirrored int `json:"mirrored"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		log.Printf("Sync trigger: decode response: %v", err)
		return
	}
	log.Printf("Sync complete: %d users, %d tracks mirrored", result.Users, result.Mirrored)
}
