/*
Package session implements the traversal state machine and its persistence orchestration.

  - Machine holds one traversal (position, answers, back-stack) and implements
    Start, SelectOption, GoBack and Reset with downstream-discard semantics.
  - Tracker wraps a Machine with a durable slot and an explicit one-shot hydration step.
  - Manager serves many sessions from a StateStore, serializing access per session
    with reference-counted local locks and an optional distributed locker.
*/
package session
