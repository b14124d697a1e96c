package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	token   string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "custody-cli",
		Short: "Custody engine CLI",
		Long:  `A command line interface for operating the custody ledger and transfer engine.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the custody API")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token for authenticated requests")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(balanceCmd())
	rootCmd.AddCommand(transfersCmd())
	rootCmd.AddCommand(ordersCmd())
	rootCmd.AddCommand(consistencyCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func balanceCmd() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "balance <owner-id>",
		Short: "Show the derived wallet balance for an owner",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			path := "/api/v1/wallets/" + args[0] + "/balance"
			if at != "" {
				path += "?at=" + at
			}
			doRequest(http.MethodGet, path, nil)
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Balance at a point in time (RFC 3339)")

	return cmd
}

func transfersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfers",
		Short: "Transfer operations",
	}

	var (
		owner  string
		status string
		reason string
	)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List transfers",
		Run: func(cmd *cobra.Command, args []string) {
			path := "/api/v1/transfers?owner_id=" + owner
			if status != "" {
				path += "&status=" + status
			}
			doRequest(http.MethodGet, path, nil)
		},
	}
	listCmd.Flags().StringVar(&owner, "owner", "", "Filter by owner ID")
	listCmd.Flags().StringVar(&status, "status", "", "Filter by status")

	completeCmd := &cobra.Command{
		Use:   "complete <transfer-id>",
		Short: "Confirm settlement of a pending transfer",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPost, "/api/v1/transfers/"+args[0]+"/complete", map[string]any{"reason": reason})
		},
	}
	completeCmd.Flags().StringVar(&reason, "reason", "", "Settlement justification")

	failCmd := &cobra.Command{
		Use:   "fail <transfer-id>",
		Short: "Void a pending transfer",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPost, "/api/v1/transfers/"+args[0]+"/fail", map[string]any{"reason": reason})
		},
	}
	failCmd.Flags().StringVar(&reason, "reason", "", "Settlement justification")

	cmd.AddCommand(listCmd, completeCmd, failCmd)

	return cmd
}

func ordersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Payment order operations",
	}

	var (
		status string
		rail   string
		search string
	)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List payment orders",
		Run: func(cmd *cobra.Command, args []string) {
			path := fmt.Sprintf("/api/v1/orders?status=%s&rail=%s&search=%s", status, rail, search)
			doRequest(http.MethodGet, path, nil)
		},
	}
	listCmd.Flags().StringVar(&status, "status", "", "Filter by status")
	listCmd.Flags().StringVar(&rail, "rail", "", "Filter by rail")
	listCmd.Flags().StringVar(&search, "search", "", "Search beneficiary or proof references")

	var (
		toStatus        string
		rate            string
		convertedAmount string
		fee             string
		evidenceRef     string
		reference       string
		reason          string
	)

	advanceCmd := &cobra.Command{
		Use:   "advance <order-id>",
		Short: "Apply one status transition to an order",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPost, "/api/v1/orders/"+args[0]+"/status", map[string]any{
				"status":           toStatus,
				"rate":             rate,
				"converted_amount": convertedAmount,
				"fee":              fee,
				"evidence_ref":     evidenceRef,
				"reference":        reference,
				"reason":           reason,
			})
		},
	}
	advanceCmd.Flags().StringVar(&toStatus, "status", "", "Target status")
	advanceCmd.Flags().StringVar(&rate, "rate", "", "Exchange rate (required for processing)")
	advanceCmd.Flags().StringVar(&convertedAmount, "converted-amount", "", "Converted amount (required for processing)")
	advanceCmd.Flags().StringVar(&fee, "fee", "", "Total fee (required for processing)")
	advanceCmd.Flags().StringVar(&evidenceRef, "evidence", "", "Evidence file reference (completion proof)")
	advanceCmd.Flags().StringVar(&reference, "reference", "", "Settlement reference (completion proof)")
	advanceCmd.Flags().StringVar(&reason, "reason", "", "Operator justification")
	advanceCmd.MarkFlagRequired("status")
	advanceCmd.MarkFlagRequired("reason")

	cmd.AddCommand(listCmd, advanceCmd)

	return cmd
}

func consistencyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consistency",
		Short: "Check that wallet folds match the global ledger totals",
		Run: func(cmd *cobra.Command, args []string) {
			result := fetch(http.MethodGet, "/api/v1/reconciliation", nil)

			if consistent, ok := result["consistent"].(bool); ok && consistent {
				fmt.Println("Consistency check PASSED")
			} else {
				fmt.Println("Consistency check FAILED")
			}
			fmt.Printf("Total deposits:  %v\n", result["total_deposits"])
			fmt.Printf("Total payouts:   %v\n", result["total_payouts"])
			fmt.Printf("Sum of balances: %v\n", result["sum_of_balances"])
			if negatives, ok := result["negative_wallets"].([]any); ok && len(negatives) > 0 {
				fmt.Printf("Negative wallets: %v\n", negatives)
			}
		},
	}
}

// doRequest performs the request and pretty-prints the JSON response.
func doRequest(method, path string, body map[string]any) {
	result := fetch(method, path, body)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Printf("Failed to format response: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func fetch(method, path string, body map[string]any) map[string]any {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			fmt.Printf("Failed to encode request: %v\n", err)
			os.Exit(1)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, baseURL+path, reqBody)
	if err != nil {
		fmt.Printf("Failed to build request: %v\n", err)
		os.Exit(1)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 400 {
		fmt.Printf("Request failed (status %d)\n%s\n", resp.StatusCode, string(data))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		// List endpoints return arrays; fall back to raw output.
		fmt.Println(string(data))
		os.Exit(0)
	}

	return result
}
