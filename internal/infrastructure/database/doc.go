// Package database provides SQLite storage for the Happy Herbs appliance.
//
// The appliance keeps a local record of published sensor measurements so a
// history survives broker outages. SQLite fits the single-writer embedded
// profile: one process, one file, WAL mode for read concurrency.
//
// The schema is applied idempotently at startup via InitSchema; there is no
// migration chain because the appliance owns its database file exclusively
// and the schema is a single table.
package database
