// Package store registers and opens the project.Store backends.
//
// Backends live in sub-packages and register themselves on import:
//
//	memory      ordered in-memory radix trees
//	sqlstore    sqlite, mysql and postgres through database/sql
//	redisstore  lexicographic sorted sets in Redis
//
// Import store/all to link every backend.
package store
