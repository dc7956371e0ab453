// Package diagnostics verifies credentials against Azure AI Search and
// Azure OpenAI and prints human-readable results.
package diagnostics

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/liliang-cn/azrag/internal/config"
	"github.com/liliang-cn/azrag/internal/llm"
	"github.com/liliang-cn/azrag/internal/search"
	"github.com/liliang-cn/azrag/internal/service"
)

// IndexLister lists search indexes
type IndexLister interface {
	ListIndexes(ctx context.Context) ([]string, error)
}

// Completer sends a single prompt to a chat deployment
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// ErrCheckFailed is returned when a check fails after printing its diagnosis
var ErrCheckFailed = errors.New("credential check failed")

var forbiddenSteps = []string{
	"Go to Azure Portal",
	"Navigate to your Search service",
	"Go to 'Keys' section",
	"Copy the 'Primary admin key' (not the query key)",
	"Update your .env file with the correct key",
}

// Checker runs credential checks
type Checker struct {
	out       io.Writer
	newSearch func(cfg *config.Config) (IndexLister, error)
	newChat   func(cfg *config.Config) (Completer, error)
}

// NewChecker creates a checker that talks to the real services
func NewChecker(out io.Writer) *Checker {
	return &Checker{
		out: out,
		newSearch: func(cfg *config.Config) (IndexLister, error) {
			client, err := search.NewClient(cfg.Search.Endpoint, cfg.Search.AdminKey, &search.ClientOptions{
				APIVersion: cfg.Search.APIVersion,
			})
			if err != nil {
				return nil, err
			}
			return service.NewIndexService(client, cfg, nil), nil
		},
		newChat: func(cfg *config.Config) (Completer, error) {
			return llm.NewClient(llm.Config{
				Endpoint:   cfg.OpenAI.Endpoint,
				APIKey:     cfg.OpenAI.APIKey,
				Deployment: cfg.OpenAI.Deployment,
				APIVersion: cfg.OpenAI.APIVersion,
			})
		},
	}
}

// CheckSearch validates the search settings and lists the service's indexes
func (c *Checker) CheckSearch(ctx context.Context, cfg *config.Config) error {
	if err := cfg.ValidateSearch(); err != nil {
		c.printConfigError(err, func(missing []string) {
			fmt.Fprintln(c.out, "\nMissing environment variables:")
			for _, v := range missing {
				fmt.Fprintf(c.out, "❌ %s not found\n", v)
			}
		})
		return err
	}

	client, err := c.newSearch(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out, "\nTesting Azure Search permissions...")
	indexes, err := client.ListIndexes(ctx)
	if err != nil {
		fmt.Fprintln(c.out, "\n❌ Error connecting to Azure Search:")
		if search.IsForbidden(err) {
			fmt.Fprintln(c.out, "Permission denied. Please verify your API key has admin permissions.")
			fmt.Fprintln(c.out, "\nTo fix this:")
			for i, step := range forbiddenSteps {
				fmt.Fprintf(c.out, "%d. %s\n", i+1, step)
			}
		} else {
			fmt.Fprintf(c.out, "Error details: %v\n", err)
		}
		return fmt.Errorf("%w: %w", ErrCheckFailed, err)
	}

	fmt.Fprintln(c.out, "✅ Successfully connected to Azure Search")
	fmt.Fprintf(c.out, "Found %d existing indexes:\n", len(indexes))
	for _, name := range indexes {
		fmt.Fprintf(c.out, "  - %s\n", name)
	}
	return nil
}

// CheckOpenAI validates the openai settings and sends a tiny completion
func (c *Checker) CheckOpenAI(ctx context.Context, cfg *config.Config) error {
	fmt.Fprintln(c.out, "\nChecking Azure OpenAI credentials:")
	if err := cfg.ValidateOpenAI(); err != nil {
		c.printConfigError(err, func(missing []string) {
			fmt.Fprintln(c.out, "❌ Missing environment variables:")
			for _, v := range missing {
				fmt.Fprintf(c.out, "  - %s\n", v)
			}
		})
		return err
	}

	client, err := c.newChat(cfg)
	if err != nil {
		return err
	}

	if _, err := client.Complete(ctx, "Hello", 5); err != nil {
		fmt.Fprintln(c.out, "\n❌ Error connecting to Azure OpenAI:")
		fmt.Fprintf(c.out, "Error details: %v\n", err)
		return fmt.Errorf("%w: %w", ErrCheckFailed, err)
	}

	fmt.Fprintln(c.out, "✅ Successfully connected to Azure OpenAI")
	fmt.Fprintf(c.out, "✅ Deployment '%s' is working\n", cfg.OpenAI.Deployment)
	return nil
}

func (c *Checker) printConfigError(err error, printMissing func([]string)) {
	var missing *config.MissingError
	var endpoint *config.EndpointError
	switch {
	case errors.As(err, &missing):
		printMissing(missing.Vars)
	case errors.As(err, &endpoint):
		fmt.Fprintln(c.out, "\n❌ Invalid endpoint format.")
		fmt.Fprintf(c.out, "Expected format: %s\n", endpoint.Expected)
		fmt.Fprintf(c.out, "Current value: %s\n", endpoint.Value)
	default:
		fmt.Fprintf(c.out, "❌ %v\n", err)
	}
}
