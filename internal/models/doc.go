// Package models defines domain entities and persistence interfaces for the playlist filtering service.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing Spotify data
//   - [Playlist] : Basic playlist metadata
//   - [Track] : Song metadata with artists, duration and ISRC for duplicate matching
//   - [Artist] : Artist id/name pair as it appears on a track
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [FilterRun] : One completed filter run with per-category counts and outcome
//
// All persistent entities implement the Model interface providing ID generation, timestamps and validation.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
