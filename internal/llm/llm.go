package llm

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	defaultOllamaModel = "ministral-3:latest"
	defaultOpenAIModel = "gpt-4-turbo-preview"
	defaultOpenAIBase  = "https://api.openai.com/v1"

	// Prompt budget assumes roughly 4 chars/token and leaves headroom under
	// the smallest context window we target.
	maxPromptChars = 120_000
)

const defaultLLMHTTPTimeout = 3 * time.Minute

// Config describes how to build an LLM client.
type Config struct {
	Provider   string
	Model      string
	Endpoint   string
	HTTPClient *http.Client
}

// Source is one page of context handed to the model. Citations resolve
// against these by quote containment.
type Source struct {
	DocumentID   string
	DocumentName string
	PageNumber   int
	SectionRef   string
	Text         string
}

// Citation points back into a source: the document, the page, and the quoted
// snippet the viewer will locate and highlight.
type Citation struct {
	DocumentID   string
	DocumentName string
	PageNumber   int
	SectionRef   string
	Snippet      string
}

// Answer is a generated response with the citations actually used in it.
type Answer struct {
	Text       string
	Citations  []Citation
	Confidence float64
}

// Client answers questions about a set of page sources.
type Client interface {
	Answer(ctx context.Context, question string, sources []Source) (Answer, error)
	Name() string
}

// NewFromEnv inspects CLI arguments & environment variables to build a
// client. OpenAI is picked when requested explicitly or when an API key is
// present; Ollama is the local default.
func NewFromEnv(cfg Config) (Client, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	apiKey := os.Getenv("OPENAI_API_KEY")

	switch provider {
	case "", "auto":
		if apiKey != "" {
			return newOpenAIClient(cfg, apiKey), nil
		}
		return newOllamaClient(cfg), nil
	case "openai":
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
		return newOpenAIClient(cfg, apiKey), nil
	case "ollama":
		return newOllamaClient(cfg), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}

func newOllamaClient(cfg Config) *ollamaClient {
	host := cfg.Endpoint
	if host == "" {
		if env := os.Getenv("OLLAMA_HOST"); env != "" {
			host = strings.TrimRight(env, "/")
		} else {
			host = "http://localhost:11434"
		}
	}
	model := cfg.Model
	if model == "" {
		if env := os.Getenv("OLLAMA_MODEL"); env != "" {
			model = env
		} else {
			model = defaultOllamaModel
		}
	}
	return &ollamaClient{host: host, model: model, client: pickHTTPClient(cfg.HTTPClient)}
}

func newOpenAIClient(cfg Config, apiKey string) *openAIClient {
	base := cfg.Endpoint
	if base == "" {
		base = defaultOpenAIBase
	}
	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	return &openAIClient{
		apiKey: apiKey,
		model:  model,
		base:   strings.TrimRight(base, "/"),
		client: pickHTTPClient(cfg.HTTPClient),
	}
}

func pickHTTPClient(custom *http.Client) *http.Client {
	if custom != nil {
		return custom
	}
	// Allow longer-running generations (Ollama often needs >60s) and rely on the caller's context for cancellation.
	return &http.Client{Timeout: defaultLLMHTTPTimeout}
}
