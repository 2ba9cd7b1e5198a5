package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rag-compare-be/internal/config"
	"rag-compare-be/internal/pkg/logger"
	"rag-compare-be/pkg/apiclient"
	"rag-compare-be/pkg/session"

	"github.com/fatih/color"
)

func main() {
	// 1. Configuration (shares .env with the server)
	cfg := config.Load()

	// 2. Local state: seed from disk, then persist every commit back
	consoleLogger := logger.NewIsolatedLogger("logs/console.log")
	sink := session.NewFileSink(cfg.State.Dir, consoleLogger)
	store := session.NewStore()
	store.Seed(sink.Load())
	store.Subscribe(sink.Persist)

	api := apiclient.New(cfg.App.BaseURL)

	color.Cyan("🚀 RAG Comparison Console")
	fmt.Printf("State file: %s\n", sink.Path())

	// 3. The server list is authoritative; disk state carries us through
	// offline starts.
	ctx := context.Background()
	if sessions, err := api.ListSessions(ctx); err != nil {
		color.Red("Could not reach the server (%v); using local state.", err)
	} else {
		store.ReplaceAll(sessions)
	}

	snap := store.Snapshot()
	fmt.Printf("Loaded %d sessions. Type a prompt to compare, or /help for commands.\n", len(snap.Sessions))

	runLoop(ctx, store, api)
}

func runLoop(ctx context.Context, store *session.Store, api *apiclient.Client) {
	scanner := bufio.NewScanner(os.Stdin)
	// Prompts can be long; the default 64KB token limit stays.

	for {
		printPrompt(store.Snapshot())

		if !scanner.Scan() {
			fmt.Println("\n👋 Goodbye!")
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := handleCommand(ctx, store, api, line); quit {
				fmt.Println("👋 Goodbye!")
				return
			}
			continue
		}

		compare(ctx, store, api, line)
	}
}

// handleCommand dispatches a /command line. Returns true on /quit.
func handleCommand(ctx context.Context, store *session.Store, api *apiclient.Client, line string) bool {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/quit", "/exit":
		return true

	case "/help":
		printHelp()

	case "/sessions":
		printSessions(store.Snapshot())

	case "/switch":
		if arg == "" {
			color.Yellow("Usage: /switch <session-id>")
			return false
		}
		store.SetCurrentSession(arg)
		snap := store.Snapshot()
		if snap.CurrentSessionID == "" {
			color.Yellow("Unknown session id; selection cleared.")
			return false
		}
		color.Green("Switched to session %s", shortID(snap.CurrentSessionID))
		if snap.Current != nil {
			printComparison(snap.Current)
		}

	case "/delete":
		if arg == "" {
			color.Yellow("Usage: /delete <session-id>")
			return false
		}
		// Fire-and-forget: the local delete is not gated on the server's
		// answer.
		if err := api.DeleteSession(ctx, arg); err != nil {
			color.Red("Server delete failed: %v", err)
		}
		store.DeleteSession(arg)
		color.Green("Deleted session %s", shortID(arg))

	case "/clear":
		if deleted, err := api.DeleteAllSessions(ctx); err != nil {
			color.Red("Server clear failed: %v", err)
		} else {
			color.Green("Deleted %d sessions server-side.", deleted)
		}
		store.ClearAll()

	case "/docs":
		printDocuments(ctx, api)

	case "/upload":
		if arg == "" {
			color.Yellow("Usage: /upload <path to .txt or .md file>")
			return false
		}
		uploadDocument(ctx, api, arg)

	default:
		color.Yellow("Unknown command %s. Try /help.", cmd)
	}
	return false
}

func compare(ctx context.Context, store *session.Store, api *apiclient.Client, prompt string) {
	snap := store.Snapshot()
	color.Yellow("Running baseline and RAG pipelines...")

	res, err := api.Compare(ctx, prompt, snap.CurrentSessionID, 0)
	if err != nil {
		// State is left untouched; the prompt can simply be retried.
		color.Red("Compare failed: %v", err)
		return
	}

	store.ApplyResult(*res)
	printComparison(res)
}

func printPrompt(snap session.State) {
	if snap.CurrentSessionID == "" {
		fmt.Print("(new session) > ")
		return
	}
	fmt.Printf("(%s) > ", shortID(snap.CurrentSessionID))
}

func printHelp() {
	fmt.Println(`Commands:
  /sessions        list known sessions (* marks the selected one)
  /switch <id>     select a session
  /delete <id>     delete a session
  /clear           delete all sessions
  /docs            list uploaded documents and their ingest status
  /upload <path>   upload a .txt or .md document for retrieval
  /quit            exit

Anything else is sent as a prompt to both pipelines.`)
}

func printSessions(snap session.State) {
	if len(snap.Sessions) == 0 {
		color.Yellow("No sessions yet.")
		return
	}
	for _, s := range snap.Sessions {
		marker := " "
		if s.ID == snap.CurrentSessionID {
			marker = "*"
		}
		fmt.Printf("%s %s  %3d msgs  updated %s\n",
			marker, s.ID, len(s.Messages), s.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	}
}

func printDocuments(ctx context.Context, api *apiclient.Client) {
	docs, err := api.ListDocuments(ctx)
	if err != nil {
		color.Red("Failed to list documents: %v", err)
		return
	}
	if len(docs) == 0 {
		color.Yellow("No documents uploaded.")
		return
	}
	for _, d := range docs {
		fmt.Printf("%s  %-7s  %4d chunks  %s\n", d.Id, d.Status, d.ChunkCount, d.FileName)
	}
}

func uploadDocument(ctx context.Context, api *apiclient.Client, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		color.Red("Failed to read %s: %v", path, err)
		return
	}

	res, err := api.UploadDocument(ctx, filepath.Base(path), data)
	if err != nil {
		color.Red("Upload failed: %v", err)
		return
	}
	color.Green("Uploaded %s (id %s, status %s). Ingest runs in the background.", res.FileName, res.Id, res.Status)
}

func printComparison(res *session.Comparison) {
	color.Cyan("\n==== Baseline (%.0f ms) ====", res.Baseline.LatencyMS)
	fmt.Println(res.Baseline.Answer)

	color.Green("\n==== RAG (%.0f ms) ====", res.RAG.LatencyMS)
	fmt.Println(res.RAG.Answer)

	color.Yellow("\nAnswer similarity: %.3f  |  session %s", res.Metrics.SemanticSimilarity, shortID(res.SessionID))
	fmt.Println()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
