package search

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/desertthunder/player/internal/models"
	"github.com/desertthunder/player/internal/shared"
)

// Statement templates; %[1]s is the engine's table name.
const (
	createSongSearch = `CREATE VIRTUAL TABLE %[1]s USING fts4(title, artist, album, genre, tokenize=unicode61)`
	dropSongSearch   = `DROP TABLE IF EXISTS %[1]s`
	insertSongSearch = `INSERT INTO %[1]s (docid, title, artist, album, genre) VALUES (?, ?, ?, ?, ?)`
	querySongSearch  = `SELECT docid, matchinfo(%[1]s, 'pcx') FROM %[1]s WHERE %[1]s MATCH ?`
	countSongSearch  = `SELECT COUNT(*) FROM %[1]s`
)

// SQLiteEngine stores documents in an FTS4 virtual table keyed by docid = ordinal.
//
// Each engine owns a uniquely named table, so engines sharing a database file never see
// each other's documents. The table is dropped on Close.
type SQLiteEngine struct {
	mu     sync.RWMutex
	db     *sql.DB
	table  string
	insert *sql.Stmt
}

// tableName returns a fresh table name, e.g. "song_search_3f2a...".
func tableName() string {
	return "song_search_" + strings.ReplaceAll(shared.GenerateID(), "-", "")
}

func (e *SQLiteEngine) stmt(tmpl string) string {
	return fmt.Sprintf(tmpl, e.table)
}

// NewSQLiteEngine opens (or creates) the database at path and prepares an empty table.
func NewSQLiteEngine(path string) (*SQLiteEngine, error) {
	if path == "" {
		path = ":memory:"
	}

	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, err
	}

	e := &SQLiteEngine{db: db, table: tableName()}
	if _, err := db.Exec(e.stmt(createSongSearch)); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare search table: %w", err)
	}

	insert, err := db.Prepare(e.stmt(insertSongSearch))
	if err != nil {
		db.Exec(e.stmt(dropSongSearch))
		db.Close()
		return nil, fmt.Errorf("failed to prepare insert: %w", err)
	}
	e.insert = insert

	return e, nil
}

// Add inserts doc with its ordinal as docid.
func (e *SQLiteEngine) Add(doc models.IndexDocument) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.db == nil {
		return shared.ErrIndexClosed
	}
	_, err := e.insert.Exec(doc.Index, doc.Title, doc.Artist, doc.Album, doc.Genre)
	return err
}

// Query runs a prefix match for every word of text and ranks hits by [matchScore].
func (e *SQLiteEngine) Query(text string) ([]Result, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.db == nil {
		return nil, shared.ErrIndexClosed
	}

	match := ftsQuery(text)
	if match == "" {
		return nil, nil
	}

	rows, err := e.db.Query(e.stmt(querySongSearch), match)
	if err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var (
			ref  int
			info []byte
		)
		if err := rows.Scan(&ref, &info); err != nil {
			return nil, err
		}
		results = append(results, Result{Ref: ref, Score: matchScore(info)})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rank(results)
	return results, nil
}

// Len returns the number of rows in the table, or 0 after Close.
func (e *SQLiteEngine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.db == nil {
		return 0
	}
	var n int
	if err := e.db.QueryRow(e.stmt(countSongSearch)).Scan(&n); err != nil {
		return 0
	}
	return n
}

// Table returns the name of the engine's FTS table.
func (e *SQLiteEngine) Table() string {
	return e.table
}

// Close drops the engine's table and releases the database once in-flight calls finish.
func (e *SQLiteEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.db == nil {
		return nil
	}
	e.insert.Close()
	_, dropErr := e.db.Exec(e.stmt(dropSongSearch))
	err := e.db.Close()
	e.db = nil
	if dropErr != nil {
		return fmt.Errorf("failed to drop search table: %w", dropErr)
	}
	return err
}

// ftsQuery turns free text into an FTS4 expression: each letter/digit run becomes a
// lower-cased prefix term, implicitly ANDed. Lower-casing keeps words like "or" from
// being read as operators.
func ftsQuery(text string) string {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	terms := make([]string, 0, len(words))
	for _, w := range words {
		terms = append(terms, strings.ToLower(w)+"*")
	}
	return strings.Join(terms, " ")
}

// matchScore sums, over every phrase and column, the row's hit count divided by the hit
// count across all rows, decoded from a matchinfo 'pcx' blob. Rare terms weigh more.
func matchScore(info []byte) float64 {
	if len(info) < 8 {
		return 0
	}

	values := make([]uint32, len(info)/4)
	for i := range values {
		values[i] = binary.NativeEndian.Uint32(info[i*4:])
	}

	phrases, cols := int(values[0]), int(values[1])
	score := 0.0
	for p := 0; p < phrases; p++ {
		for c := 0; c < cols; c++ {
			base := 2 + 3*(c+p*cols)
			if base+1 >= len(values) {
				return score
			}
			hitsRow, hitsAll := values[base], values[base+1]
			if hitsAll > 0 {
				score += float64(hitsRow) / float64(hitsAll)
			}
		}
	}
	return score
}
