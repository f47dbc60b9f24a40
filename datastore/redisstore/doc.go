/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package redisstore implements the DataStore interface on Redis lists.
//
// Each sequence is one list under a prefixed key. Entries are "v:<value>"
// for present elements and "n" for nulls. Streams page through the list
// with LRANGE; First and Count map to LINDEX and LLEN, so the adapter can
// push those operators down to the server.
package redisstore
