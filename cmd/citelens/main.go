package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/citelens/internal/library"
	"github.com/csheth/citelens/internal/llm"
	"github.com/csheth/citelens/internal/tui"
)

func main() {
	libraryDir := flag.String("library", filepath.Join(".", "contracts"), "folder of contract-set folders, each holding PDFs")
	pdfPath := flag.String("pdf", "", "open a single PDF instead of scanning the library")
	noAltScreen := flag.Bool("no-alt-screen", false, "disable the alternate screen buffer")
	llmProvider := flag.String("llm-provider", "auto", "llm provider: auto, openai or ollama")
	llmModel := flag.String("llm-model", "", "override the provider's default model")
	llmEndpoint := flag.String("llm-endpoint", "", "custom provider endpoint (eg. http://localhost:11434)")
	sessionPath := flag.String("session", "", "append the question/answer transcript to this JSON file")
	logPath := flag.String("log", "", "append logs to this file instead of discarding them")
	flag.Parse()

	if *logPath != "" {
		logFile, err := tea.LogToFile(*logPath, "citelens")
		if err != nil {
			fmt.Println("failed to open log file:", err)
			os.Exit(1)
		}
		defer logFile.Close()
	} else {
		log.SetOutput(os.Stderr)
	}

	var sets []library.Set
	if *pdfPath != "" {
		absPath, err := filepath.Abs(*pdfPath)
		if err != nil {
			fmt.Println("failed to resolve PDF path:", err)
			os.Exit(1)
		}
		sets = []library.Set{library.SingleDocument(absPath)}
	} else {
		absDir, err := filepath.Abs(*libraryDir)
		if err != nil {
			fmt.Println("failed to resolve library path:", err)
			os.Exit(1)
		}
		sets, err = library.Scan(absDir)
		if err != nil {
			fmt.Println("failed to scan library:", err)
			os.Exit(1)
		}
	}

	llmClient, err := llm.NewFromEnv(llm.Config{
		Provider: *llmProvider,
		Model:    *llmModel,
		Endpoint: *llmEndpoint,
	})
	if err != nil {
		fmt.Println("LLM disabled:", err)
	}

	opts := []tea.ProgramOption{}
	if !*noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Library:     sets,
			LLM:         llmClient,
			SessionPath: *sessionPath,
		}),
		opts...,
	)

	if _, err := program.Run(); err != nil {
		fmt.Println("program error:", err)
		os.Exit(1)
	}
}
