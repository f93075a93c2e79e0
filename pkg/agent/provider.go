package agent

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/schat/pkg/domain"
)

// Provider describes how to talk to one agent CLI.
type Provider struct {
	Name         string            `mapstructure:"name" json:"name"`
	Command      string            `mapstructure:"command" json:"command"`
	Args         []string          `mapstructure:"args" json:"args"`                   // Fixed leading flags
	ContinueArgs []string          `mapstructure:"continue_args" json:"continue_args"` // Added on continuation only
	ModelFlag    string            `mapstructure:"model_flag" json:"model_flag"`
	Model        string            `mapstructure:"model" json:"model"`
	PromptFlag   string            `mapstructure:"prompt_flag" json:"prompt_flag"` // Empty means positional
	Preamble     string            `mapstructure:"preamble" json:"preamble"`       // Prepended on a new session only
	Timeout      time.Duration     `mapstructure:"timeout" json:"timeout"`
	Env          map[string]string `mapstructure:"env" json:"env"`
	Description  string            `mapstructure:"description" json:"description"`
}

// Validate checks the fields every provider needs.
func (p Provider) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("provider name is required")
	}
	if strings.TrimSpace(p.Command) == "" {
		return fmt.Errorf("provider %q: command is required", p.Name)
	}
	if p.Timeout < 0 {
		return fmt.Errorf("provider %q: timeout must not be negative", p.Name)
	}
	return nil
}

// BuildArgs returns the argument list for one turn.
func (p Provider) BuildArgs(prompt string, newSession bool) []string {
	args := make([]string, 0, len(p.Args)+len(p.ContinueArgs)+4)
	args = append(args, p.Args...)
	if !newSession {
		args = append(args, p.ContinueArgs...)
	}
	if p.ModelFlag != "" && p.Model != "" {
		args = append(args, p.ModelFlag, p.Model)
	}
	if p.PromptFlag != "" {
		args = append(args, p.PromptFlag)
	}
	return append(args, p.fullPrompt(prompt, newSession))
}

func (p Provider) fullPrompt(prompt string, newSession bool) string {
	if !newSession || p.Preamble == "" {
		return prompt
	}
	return p.Preamble + " " + prompt
}

// CommandLine renders the provider as a human readable command (for listings).
func (p Provider) CommandLine() string {
	parts := append([]string{p.Command}, p.BuildArgs("<prompt>", true)...)
	return strings.Join(parts, " ")
}

// Built-in providers.
var (
	Cursor = Provider{
		Name:         "cursor",
		Command:      "cursor-agent",
		Args:         []string{"--sandbox", "enabled", "--mode", "ask"},
		ContinueArgs: []string{"--continue"},
		ModelFlag:    "--model",
		Model:        "gemini-3-flash",
		PromptFlag:   "-p",
		Preamble:     "Return output in markdown format. Rationale is not needed.",
		Description:  "Cursor agent CLI in ask mode",
	}

	OpenCode = Provider{
		Name:         "opencode",
		Command:      "opencode",
		Args:         []string{"run"},
		ContinueArgs: []string{"--continue"},
		ModelFlag:    "--model",
		Preamble:     "Always return output in markdown format. Do not use any tools without explicit request.",
		Description:  "OpenCode AI CLI",
	}
)

// DefaultProvider is used when none is requested.
const DefaultProvider = "opencode"

// Catalog holds the providers known to the application.
type Catalog struct {
	providers map[string]Provider
}

// NewCatalog creates a catalog with the given providers.
func NewCatalog(providers ...Provider) *Catalog {
	c := &Catalog{providers: make(map[string]Provider)}
	for _, p := range providers {
		c.Add(p)
	}
	return c
}

// DefaultCatalog returns a catalog with the built-in providers.
func DefaultCatalog() *Catalog {
	return NewCatalog(Cursor, OpenCode)
}

// Add registers (or replaces) a provider by name.
func (c *Catalog) Add(p Provider) {
	c.providers[p.Name] = p
}

// Lookup returns the provider registered under name.
func (c *Catalog) Lookup(name string) (Provider, error) {
	p, ok := c.providers[name]
	if !ok {
		return Provider{}, fmt.Errorf("%w %q: valid options are %s", domain.ErrUnknownProvider, name, strings.Join(c.Names(), ", "))
	}
	return p, nil
}

// Names returns the registered provider names, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.providers))
	for name := range c.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns the registered providers sorted by name.
func (c *Catalog) All() []Provider {
	names := c.Names()
	out := make([]Provider, 0, len(names))
	for _, name := range names {
		out = append(out, c.providers[name])
	}
	return out
}
