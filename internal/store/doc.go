// Package store defines the persistence interfaces of the engine: the
// canonical in-memory sentence record table, the durable local persister,
// and the opaque remote snapshot store. Implementations live under
// internal/store and internal/platform.
package store
