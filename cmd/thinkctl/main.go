// Package main implements the thinkctl CLI for manual operations against the thinkd HTTP API.
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var (
	// serverURL is the base URL for the thinkd HTTP server
	serverURL string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "thinkctl",
	Short: "CLI for thinkd HTTP server operations",
	Long: `thinkctl is a command-line interface for inspecting a running thinkd daemon.
It provides commands for listing reasoning sessions, dumping their history,
and checking server health.`,
	Version: version,
}

var historyLimit int

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:9190", "thinkd server URL")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "limit output to the most recent N records (0 = all)")
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(branchesCmd)
}

// healthCmd checks server health
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check thinkd server health",
	Long: `Check the health status of the thinkd HTTP server.

Examples:
  # Check health
  thinkctl health

  # Check health on a different server
  thinkctl health --server http://localhost:8080`,
	RunE: runHealth,
}

// sessionsCmd lists live sessions
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List live reasoning sessions",
	RunE:  runSessions,
}

// historyCmd dumps the main history of a session
var historyCmd = &cobra.Command{
	Use:   "history <session-id>",
	Short: "Show a session's main reasoning history",
	Long: `Show the main reasoning history of a session, oldest first.

Examples:
  # Full history
  thinkctl history my-session

  # Last 10 records
  thinkctl history my-session --limit 10`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

// branchesCmd lists a session's branches
var branchesCmd = &cobra.Command{
	Use:   "branches <session-id>",
	Short: "List a session's reasoning branches",
	Args:  cobra.ExactArgs(1),
	RunE:  runBranches,
}

// HealthResponse matches internal/http/types.go HealthResponse
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// SessionSummary matches internal/http/types.go SessionSummary
type SessionSummary struct {
	ID              string    `json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	HistoryLength   int       `json:"history_length"`
	BranchCount     int       `json:"branch_count"`
	EvictedChains   int       `json:"evicted_chains"`
	EvictedRecords  int       `json:"evicted_records"`
	EvictedBranches int       `json:"evicted_branches"`
}

// SessionsResponse matches internal/http/types.go SessionsResponse
type SessionsResponse struct {
	Sessions []SessionSummary `json:"sessions"`
	Count    int              `json:"count"`
}

// ThoughtRecord mirrors the wire shape of internal/thinking.Record
type ThoughtRecord struct {
	Text           string `json:"text"`
	SequenceNumber int    `json:"sequenceNumber"`
	EstimatedTotal int    `json:"estimatedTotal"`
	ContinuesNext  bool   `json:"continuesNext"`
	IsRevision     bool   `json:"isRevision,omitempty"`
	BranchID       string `json:"branchId,omitempty"`
}

// HistoryResponse matches internal/http/types.go HistoryResponse
type HistoryResponse struct {
	SessionID string          `json:"session_id"`
	Records   []ThoughtRecord `json:"records"`
	Count     int             `json:"count"`
}

// BranchMeta mirrors internal/thinking.BranchMeta
type BranchMeta struct {
	CreatedAt      time.Time `json:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
	Length         int       `json:"length"`
}

// BranchesResponse matches internal/http/types.go BranchesResponse
type BranchesResponse struct {
	SessionID string                `json:"session_id"`
	Branches  map[string]BranchMeta `json:"branches"`
	Count     int                   `json:"count"`
}

// getJSON issues a GET against the server and decodes the JSON response.
func getJSON(path string, out any) error {
	url := serverURL + path

	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// runHealth handles the health command
func runHealth(cmd *cobra.Command, args []string) error {
	var resp HealthResponse
	if err := getJSON("/health", &resp); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	fmt.Printf("Server Status: %s\n", resp.Status)
	fmt.Printf("Server URL: %s\n", serverURL)
	return nil
}

// runSessions handles the sessions command
func runSessions(cmd *cobra.Command, args []string) error {
	var resp SessionsResponse
	if err := getJSON("/api/v1/sessions", &resp); err != nil {
		return err
	}

	if resp.Count == 0 {
		fmt.Println("No live sessions")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tHISTORY\tBRANCHES\tEVICTED")
	for _, s := range resp.Sessions {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n",
			s.ID,
			s.CreatedAt.Format(time.RFC3339),
			s.HistoryLength,
			s.BranchCount,
			s.EvictedRecords+s.EvictedBranches)
	}
	return w.Flush()
}

// runHistory handles the history command
func runHistory(cmd *cobra.Command, args []string) error {
	path := fmt.Sprintf("/api/v1/sessions/%s/history", args[0])
	if historyLimit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, historyLimit)
	}

	var resp HistoryResponse
	if err := getJSON(path, &resp); err != nil {
		return err
	}

	for _, r := range resp.Records {
		marker := " "
		if r.IsRevision {
			marker = "~"
		}
		fmt.Printf("%s %d/%d  %s\n", marker, r.SequenceNumber, r.EstimatedTotal, r.Text)
	}
	fmt.Fprintf(os.Stderr, "\n[thinkctl] %d record(s) in session %s\n", resp.Count, resp.SessionID)
	return nil
}

// runBranches handles the branches command
func runBranches(cmd *cobra.Command, args []string) error {
	path := fmt.Sprintf("/api/v1/sessions/%s/branches", args[0])

	var resp BranchesResponse
	if err := getJSON(path, &resp); err != nil {
		return err
	}

	if resp.Count == 0 {
		fmt.Println("No branches")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "BRANCH\tLENGTH\tCREATED\tLAST ACCESS")
	for id, meta := range resp.Branches {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
			id,
			meta.Length,
			meta.CreatedAt.Format(time.RFC3339),
			meta.LastAccessedAt.Format(time.RFC3339))
	}
	return w.Flush()
}
