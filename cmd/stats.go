package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"firestige.xyz/fastpath/internal/api"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated counters from a running engine",
	Run: func(cmd *cobra.Command, args []string) {
		resp, err := apiClient().Get(apiAddr + "/api/v1/stats")
		if err != nil {
			exitWithError("failed to query admin api", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			exitWithError(fmt.Sprintf("admin api returned %s", resp.Status), nil)
		}

		var st api.StatsResponse
		if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
			exitWithError("failed to decode stats", err)
		}

		fmt.Println("[RECEIVE HOOK]")
		fmt.Printf("  Total:       %d\n", st.Receive.PacketsTotal)
		fmt.Printf("  Passed:      %d\n", st.Receive.PacketsPassed)
		fmt.Printf("  Dropped:     %d\n", st.Receive.PacketsDropped)
		fmt.Printf("  Reflected:   %d\n", st.Receive.PacketsReflected)
		fmt.Println("[TRANSMIT HOOK]")
		fmt.Printf("  Total:       %d\n", st.Transmit.PacketsTotal)
		fmt.Printf("  Cache Hits:  %d\n", st.Transmit.CacheHits)
		fmt.Printf("  Cache Miss:  %d\n", st.Transmit.CacheMisses)
		fmt.Println("[CACHE]")
		fmt.Printf("  Size:        %d / %d\n", st.Cache.Size, st.Cache.Capacity)
		fmt.Printf("  Evictions:   %d\n", st.Cache.Evictions)
		fmt.Printf("[ROUTES]       %d entries\n", st.Routes)
	},
}

func apiClient() *http.Client {
	return &http.Client{Timeout: 5 * time.Second}
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
