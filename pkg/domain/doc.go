/*
Package domain contains the shared vocabulary of the navigation runtime.

It defines the observability events emitted while coordinators start, clean
up and close, the sentinel errors returned by snapshot stores and the action
codec, and a small state diff used to report what an action changed. The
package is kept pure and free of I/O.

# Key Entities

  - LifecycleHooks: callbacks for coordinator, screen, effect and action events.
  - CloseReason: interactive (user removed the screen) or system (state cleared the route).
  - StateDiff: dotted-path changes between two flattened state snapshots.
*/
package domain
