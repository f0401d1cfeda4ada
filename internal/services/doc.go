// Package services retrieves the song metadata list a player session is built from.
//
// # Fetcher
//
// [Fetcher] is the one capability the session pipeline needs. [MetaService] implements it
// over HTTP against a server's api/meta route; [StaticFetcher] serves a fixed list, such
// as a response saved to disk and loaded with [LoadMetaFile].
//
// # Authentication
//
// Servers behind a proxy may require a bearer token. [NewMetaService] wraps the client
// with an [oauth2.StaticTokenSource] so the Authorization header is set on every request.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrAPIRequest] : transport failure or non-2xx status
//   - [shared.ErrInvalidResponse] : body is not a JSON array of songs
//
// Neither is swallowed; the session builder wraps both as initialization failures.
package services
