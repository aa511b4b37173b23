package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"firestige.xyz/fastpath/internal/api"
)

var routeFlags api.RouteModel

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Manage the route table of a running engine",
}

var routesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List route entries",
	Run: func(cmd *cobra.Command, args []string) {
		resp, err := apiClient().Get(apiAddr + "/api/v1/routes")
		if err != nil {
			exitWithError("failed to query admin api", err)
		}
		defer resp.Body.Close()

		var routes []api.RouteModel
		if err := json.NewDecoder(resp.Body).Decode(&routes); err != nil {
			exitWithError("failed to decode routes", err)
		}
		if len(routes) == 0 {
			fmt.Println("no routes")
			return
		}
		for _, r := range routes {
			prefix := "-"
			if r.PrefixLen != nil {
				prefix = fmt.Sprintf("/%d", *r.PrefixLen)
			}
			fmt.Printf("%-16s %-6d %-5s %-4s %s\n", r.DstIP, r.DstPort, r.Protocol, prefix, r.Action)
		}
	},
}

var routesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Insert a route entry",
	Run: func(cmd *cobra.Command, args []string) {
		routesMutate(http.MethodPost, http.StatusCreated)
	},
}

var routesDelCmd = &cobra.Command{
	Use:   "del",
	Short: "Delete a route entry",
	Run: func(cmd *cobra.Command, args []string) {
		routesMutate(http.MethodDelete, http.StatusOK)
	},
}

func routesMutate(method string, wantStatus int) {
	body, err := json.Marshal(routeFlags)
	if err != nil {
		exitWithError("failed to encode route", err)
	}
	req, err := http.NewRequest(method, apiAddr+"/api/v1/routes", bytes.NewReader(body))
	if err != nil {
		exitWithError("failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := apiClient().Do(req)
	if err != nil {
		exitWithError("failed to reach admin api", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		var apiErr api.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		exitWithError(fmt.Sprintf("admin api returned %s: %s", resp.Status, apiErr.Error), nil)
	}
	fmt.Println("ok")
}

func init() {
	for _, c := range []*cobra.Command{routesAddCmd, routesDelCmd} {
		c.Flags().StringVar(&routeFlags.DstIP, "dst-ip", "", "destination IPv4 address")
		c.Flags().Uint16Var(&routeFlags.DstPort, "dst-port", 0, "destination port")
		c.Flags().StringVar(&routeFlags.Protocol, "protocol", "tcp", "protocol (tcp, udp, or number)")
		c.Flags().StringVar(&routeFlags.Action, "action", "pass", "route action (pass, drop, reflect)")
		c.MarkFlagRequired("dst-ip")
	}
	routesCmd.AddCommand(routesListCmd)
	routesCmd.AddCommand(routesAddCmd)
	routesCmd.AddCommand(routesDelCmd)
	rootCmd.AddCommand(routesCmd)
}
