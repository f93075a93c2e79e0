/*
Package domain contains the core domain models of the schat session engine.

It defines the entities exchanged between the session controller, the agent
invoker and the process executor. This package is kept pure and free of
external dependencies like I/O or terminal rendering.

# Key Entities

  - Exchange: One prompt/response pair with a lifecycle status.
  - CommandResult: The uniform outcome of running an external process.
  - InvokeResult: The normalized outcome of one agent invocation.
  - LifecycleHooks: Callbacks fired when exchanges are submitted or settled.
*/
package domain
