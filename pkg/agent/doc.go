/*
Package agent turns a conversational turn into an invocation of an external
agent CLI and normalizes the outcome.

A Provider describes the agent binary contract: which command to run, which
flags select a continued session, and which instructional preamble opens a
new one. The Invoker builds the argument list from a Provider, delegates the
execution to a process executor and maps the CommandResult into an
InvokeResult.

New-session and continuation invocations differ in exactly two respects:
a new session prepends the preamble to the prompt, and a continuation adds
the provider's ContinueArgs.
*/
package agent
