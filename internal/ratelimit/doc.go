// Package ratelimit enforces the per-client daily generation quota.
//
// The policy is a fixed window: the first admitted request from an identity
// opens a window of configurable length (24 hours by default) and at most
// Quota requests are admitted until the window ends. Windows do not slide, so
// a client can spend a full quota just before a window closes and another
// full quota just after it reopens.
//
// Counting state lives behind the Store interface. MemoryStore keeps it in
// process memory and is lost on restart; RedisStore shares it between
// processes and lets Redis expire finished windows.
package ratelimit
