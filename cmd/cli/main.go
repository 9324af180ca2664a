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
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "kopledger-cli",
		Short: "Kopledger CLI tool",
		Long:  `A command line interface for the cooperative ledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the kopledger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(payCmd())
	rootCmd.AddCommand(transformCmd())
	rootCmd.AddCommand(batchCmd())
	rootCmd.AddCommand(balanceCmd())
	rootCmd.AddCommand(auditCmd())
	rootCmd.AddCommand(stockCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func payCmd() *cobra.Command {
	var (
		memberID string
		kind     string
		amount   string
		note     string
	)

	cmd := &cobra.Command{
		Use:   "pay",
		Short: "Record a settlement payment",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"member_id": memberID,
				"kind":      kind,
				"amount":    amount,
			}
			if note != "" {
				body["note"] = note
			}
			return postJSON("/api/v1/payments", body)
		},
	}

	cmd.Flags().StringVar(&memberID, "member", "", "Member ID")
	cmd.Flags().StringVar(&kind, "kind", "debt_payment", "Payment kind (debt_payment or credit_payment)")
	cmd.Flags().StringVar(&amount, "amount", "", "Payment amount")
	cmd.Flags().StringVar(&note, "note", "", "Optional note")
	_ = cmd.MarkFlagRequired("member")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func transformCmd() *cobra.Command {
	var (
		source   string
		target   string
		quantity int64
	)

	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Re-denominate stock between units",
		RunE: func(cmd *cobra.Command, args []string) error {
			return postJSON("/api/v1/transformations", map[string]any{
				"source_code": source,
				"target_code": target,
				"quantity":    quantity,
			})
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Source stock item code")
	cmd.Flags().StringVar(&target, "target", "", "Target stock item code")
	cmd.Flags().Int64Var(&quantity, "quantity", 0, "Source quantity to transform")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("quantity")

	return cmd
}

func batchCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Submit a batch of payments from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read batch file: %w", err)
			}
			return postRaw("/api/v1/payments/batch", payload)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Path to a JSON file with a payments array")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func balanceCmd() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "balance <member-id>",
		Short: "Show a member's outstanding balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON(fmt.Sprintf("/api/v1/members/%s/balance?kind=%s", args[0], kind))
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "debt_payment", "Balance kind (debt_payment or credit_payment)")

	return cmd
}

func auditCmd() *cobra.Command {
	var (
		category string
		actor    string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "List recent audit trail entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/audit?limit=%d", limit)
			if category != "" {
				path += "&category=" + category
			}
			if actor != "" {
				path += "&actor=" + actor
			}
			return getJSON(path)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Filter by category")
	cmd.Flags().StringVar(&actor, "actor", "", "Filter by actor")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum entries to return")

	return cmd
}

func stockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stock",
		Short: "List stock items and quantities",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/stock")
		},
	}
}

func postJSON(path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return postRaw(path, payload)
}

func postRaw(path string, payload []byte) error {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func getJSON(path string) error {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		fmt.Println(string(body))
	} else {
		printJSON(decoded)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(out))
}
