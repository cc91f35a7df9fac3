// Package cdcl is the public facade of an incremental CDCL SAT
// solver, mirroring the IPASIR-style contract: a stateless surface
// enforcing the API state machine (spec §4.1), forwarding to
// internal/extmap's external mapping layer and, beneath it,
// internal/engine's CDCL core. Status codes follow the usual
// convention: 10 satisfiable, 20 unsatisfiable, 0 unknown/interrupted.
package cdcl
