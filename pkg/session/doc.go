/*
Package session serializes access to stored navigation snapshots.

A Manager wraps a SnapshotStore with per-session locks, reference counted so
idle sessions cost nothing, and optionally a DistributedLocker so several
inspector replicas sharing one store never interleave writes to a session.
*/
package session
