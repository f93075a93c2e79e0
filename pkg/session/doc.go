/*
Package session implements the conversation engine behind schat.

A Controller owns the input buffer, the conversation history, the
"next turn starts a new agent session" flag and the in-flight marker.
Methods on the Controller are the only mutation surface; renderers read
through Snapshot.

Submission is two-phase: Submit records the in-flight exchange and returns
a Ticket immediately, and the Ticket is settled exactly once when the agent
invocation finishes. At most one exchange is in flight at a time, so the
history is always in submission order.
*/
package session
