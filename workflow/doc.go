// Package workflow implements the typed-node DAG executor used for
// graph-defined applications. A Graph is a list of typed nodes plus a
// source -> target edge list; node inputs are wired either to inline
// literals or to another node's output by reference.
//
// Execution is wave-based: validation runs Kahn's algorithm once to reject
// cycles and to group nodes into topological waves, then each wave runs its
// nodes concurrently. Every node's outputs are retained by node id for the
// lifetime of the run so downstream references always resolve against
// completed ancestors.
package workflow
