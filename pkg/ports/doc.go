/*
Package ports defines the driven ports (interfaces) of the navigation runtime.

These interfaces decouple coordinators and the application facade from the
host UI toolkit and from persistence backends.

# Key Interfaces

  - ScreenStack: push, present, pop and dismiss on a host navigation container,
    plus a removal callback for screens the user closed interactively.
  - SnapshotStore: persists serialized root state per session.
  - DistributedLocker: serializes snapshot writes across replicas.
*/
package ports
