/*
Package domain holds the shared vocabulary of the shunt engine: the error
kinds a run can fail with, the lifecycle events the engine emits, and the
run records that effect-tracking collaborators persist.

It has no dependencies on the engine itself so that adapters and hook
consumers can be written against it in isolation.
*/
package domain
