/*
Package engine holds the stateless traversal functions over a domain.Graph.

Every function is pure: it takes the graph as a parameter and never mutates it,
so one graph value can back any number of concurrent sessions.

Validate is meant for load and test time. At runtime the session machine
trusts a validated graph and treats an unresolvable edge as a no-op.
*/
package engine
