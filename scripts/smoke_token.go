// Manual smoke test for the token endpoint. Run the server, then:
//
//	go run scripts/smoke_token.go -addr http://localhost:8000 -key <caller key>
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
)

func main() {
	addr := flag.String("addr", "http://localhost:8000", "server base URL")
	key := flag.String("key", "", "caller API key")
	agentName := flag.String("agent", "", "agent name to request (empty for the server default)")
	flag.Parse()

	body := "{}"
	if *agentName != "" {
		body = fmt.Sprintf(`{"agent_name": %q}`, *agentName)
	}

	req, err := http.NewRequest("POST", *addr+"/token", strings.NewReader(body))
	if err != nil {
		log.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if *key != "" {
		req.Header.Set("X-API-Key", *key)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("Failed to read response: %v", err)
	}

	fmt.Printf("status: %s\n", resp.Status)

	var pretty map[string]any
	if err := json.Unmarshal(payload, &pretty); err != nil {
		fmt.Println(string(payload))
		return
	}
	for _, field := range []string{"token", "room_name", "participant", "agent", "detail"} {
		if value, ok := pretty[field]; ok {
			fmt.Printf("%s: %v\n", field, value)
		}
	}
}
