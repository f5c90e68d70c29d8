/*
Package ports defines the driven ports (interfaces) consumed by the shunt
engine's collaborators.

These interfaces decouple run-record persistence from concrete backends,
letting the recorder work with in-memory, Redis, or custom stores. The
package also ships a contract test suite (RunRunStoreContract) that every
adapter should run against its implementation.
*/
package ports
