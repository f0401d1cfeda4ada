// Package library turns directories of audio files into the song list served at api/meta.
//
// A [Scanner] walks the configured roots. Each regular file is sniffed with mimetype and
// kept only when it is audio/* and carries title, album and artist tags (read with
// dhowden/tag). Its blob ref is the SHA-224 of the file content, so the same recording
// found twice is listed once.
//
// A [Catalog] holds the last successful scan. [Catalog.Bootstrap] retries the first scan
// with a doubling pause, [Catalog.Run] rescans on a ticker, and [Catalog.OnRefresh] hooks
// let the HTTP server rebuild its player session from the new snapshot.
package library
