package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/aretw0/schat/pkg/agent"
)

// ListProviders prints the providers available with the given config file.
func ListProviders(w io.Writer, configPath string) error {
	catalog, err := agent.LoadCatalog(configPath)
	if err != nil {
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("NAME", "COMMAND", "DESCRIPTION")
	for _, p := range catalog.All() {
		name := p.Name
		if name == agent.DefaultProvider {
			name += " (default)"
		}
		t.Row(name, p.CommandLine(), p.Description)
	}

	_, err = fmt.Fprintln(w, t.Render())
	return err
}
