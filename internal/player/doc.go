// Package player turns a raw song list into everything the player page needs.
//
// [Init] fetches metadata through a [services.Fetcher], orders it with [metadata.Sort],
// indexes it with [search.Build], renders one playlist container per song with
// [RenderPlaylist] and builds the AmplitudeJS configuration with [BuildConfig]. All four
// outputs come from the same sorted slice, so song ordinal i means the same song in the
// index, in the markup and in the playback engine.
package player
