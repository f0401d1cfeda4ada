// Package models defines the entities passed between the library server, the metadata
// client, and the player pipeline.
//
//   - [SongMetadata] : one audio file as published by `api/meta`
//   - [IndexDocument] : the searchable projection of a song, keyed by its ordinal
//
// Songs are immutable once fetched; ordering and projection produce new values.
package models
