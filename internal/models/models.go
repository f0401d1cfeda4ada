// package models defines the data model shared by the library server and the player pipeline
package models

import "strings"

// SongMetadata is one entry of the `api/meta` listing.
//
// Field names are serialized exactly as declared (Title, Artist, ...). Absent fields
// decode to the empty string.
type SongMetadata struct {
	Title     string
	Artist    string
	Album     string
	Genre     string
	BlobRef   string
	MediaType string `json:",omitempty"`
}

// IndexDocument is the projection of a song registered with a search engine.
//
// Index is the song's position in the sorted sequence and doubles as the reference key.
type IndexDocument struct {
	Index  int    `json:"index"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Album  string `json:"album"`
	Genre  string `json:"genre"`
}

// Fields returns the searchable text fields in declaration order.
func (d IndexDocument) Fields() []string {
	return []string{d.Title, d.Artist, d.Album, d.Genre}
}

// Text joins the searchable fields with single spaces.
func (d IndexDocument) Text() string {
	return strings.Join(d.Fields(), " ")
}
