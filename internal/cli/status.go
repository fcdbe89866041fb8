// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dravisapp/dravis-tui/internal/backend"
	"github.com/dravisapp/dravis-tui/internal/config"
)

// =============================================================================
// STATUS COMMAND
// =============================================================================

// HandleStatus reports backend reachability and document count.
func HandleStatus(args Args) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]"), err)
		os.Exit(1)
	}
	client := backend.NewClient(cfg.Backend.BaseURL)

	healthErr := client.Health(context.Background())
	online := healthErr == nil

	var docCount int
	pinSet := false
	if online {
		docCount = len(client.ListDocuments(context.Background()))
		pinSet, _ = client.PinExists(context.Background())
	}

	if args.JSON {
		out, _ := json.Marshal(map[string]interface{}{
			"backend":   cfg.Backend.BaseURL,
			"online":    online,
			"documents": docCount,
			"pin_set":   pinSet,
		})
		fmt.Println(string(out))
		if !online {
			os.Exit(1)
		}
		return
	}

	fmt.Println(welcomeStyle.Render("DRAVIS status"))
	fmt.Printf("  %s %s\n", infoStyle.Render("Backend:"), cfg.Backend.BaseURL)
	if online {
		fmt.Printf("  %s %s\n", infoStyle.Render("State:"), successStyle.Render("online"))
		fmt.Printf("  %s %d\n", infoStyle.Render("Documents:"), docCount)
		if pinSet {
			fmt.Printf("  %s %s\n", infoStyle.Render("PIN:"), "configured")
		} else {
			fmt.Printf("  %s %s\n", infoStyle.Render("PIN:"), "not set")
		}
	} else {
		fmt.Printf("  %s %s\n", infoStyle.Render("State:"), errorStyle.Render("offline"))
		fmt.Println(infoStyle.Render("  Start the backend and try again."))
		os.Exit(1)
	}
}
