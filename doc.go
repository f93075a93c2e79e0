/*
Package schat is a terminal front-end for command-line coding agents.

schat keeps a conversation with an external agent process (cursor-agent,
opencode or any configured CLI) one exchange at a time. Every prompt spawns
the agent; the first prompt of a conversation opens a new agent session and
later prompts ask the agent to continue it.

The building blocks live in sub-packages:

  - pkg/adapters/process runs the agent with timeout and cancellation control.
  - pkg/agent maps prompts onto a provider's command line and normalizes results.
  - pkg/session owns the input buffer, the history and the single-flight controller.
  - pkg/observability, pkg/adapters/http and pkg/adapters/mcp expose the session.

The schat command in cmd/schat wires them into a terminal UI, a headless
line mode and an MCP server.
*/
package schat
