// Package knowledge is a full-text index over agronomy reference passages.
package knowledge

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/guttosm/fertilizer-service/internal/domain/model"
	"github.com/guttosm/fertilizer-service/internal/metrics"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

//go:embed data/documents.json
var defaultDocuments []byte

// MemoryPath keeps the index in process memory.
const MemoryPath = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS passages (
    id      TEXT PRIMARY KEY,
    source  TEXT NOT NULL,
    page    INTEGER NOT NULL DEFAULT 0,
    content TEXT NOT NULL
);

CREATE VIRTUAL TABLE IF NOT EXISTS passages_fts USING fts5(
    content,
    content='passages',
    content_rowid='rowid'
);
`

// triggers run separately; the driver does not split statements inside BEGIN...END
const triggers = `
CREATE TRIGGER IF NOT EXISTS passages_ai AFTER INSERT ON passages BEGIN
    INSERT INTO passages_fts(rowid, content) VALUES (new.rowid, new.content);
END;
CREATE TRIGGER IF NOT EXISTS passages_ad AFTER DELETE ON passages BEGIN
    INSERT INTO passages_fts(passages_fts, rowid, content) VALUES('delete', old.rowid, old.content);
END;
`

var tokenPattern = regexp.MustCompile(`[가-힣]+|[a-zA-Z0-9]+`)

// Document is a passage to index.
type Document struct {
	Source  string `json:"source"`
	Page    int    `json:"page"`
	Content string `json:"content"`
}

// Searcher finds passages relevant to a question.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]model.Passage, error)
}

// Index is a SQLite FTS5 index of passages ranked with bm25.
type Index struct {
	db *sql.DB
}

// Open opens or creates the index at path. MemoryPath keeps it in memory.
func Open(path string) (*Index, error) {
	dsn := "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	if path == "" || path == MemoryPath {
		dsn = MemoryPath
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open knowledge db: %w", err)
	}
	if dsn == MemoryPath {
		// every connection would get its own empty database
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping knowledge db: %w", err)
	}
	for _, stmt := range []string{schema, triggers} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate knowledge db: %w", err)
		}
	}
	return &Index{db: db}, nil
}

// OpenDefault opens the index at path and seeds it with the embedded
// documents when it is empty.
func OpenDefault(ctx context.Context, path string) (*Index, error) {
	idx, err := Open(path)
	if err != nil {
		return nil, err
	}
	n, err := idx.Count(ctx)
	if err != nil {
		idx.Close()
		return nil, err
	}
	if n > 0 {
		return idx, nil
	}

	docs, err := ParseDocuments(defaultDocuments)
	if err != nil {
		idx.Close()
		return nil, err
	}
	if err := idx.Add(ctx, docs); err != nil {
		idx.Close()
		return nil, err
	}
	return idx, nil
}

// ParseDocuments decodes a JSON array of documents.
func ParseDocuments(data []byte) ([]Document, error) {
	var docs []Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}
	return docs, nil
}

// Close closes the database.
func (i *Index) Close() error {
	return i.db.Close()
}

// Add indexes docs in one transaction. Blank documents are skipped.
func (i *Index) Add(ctx context.Context, docs []Document) error {
	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, d := range docs {
		if strings.TrimSpace(d.Content) == "" {
			continue
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO passages (id, source, page, content) VALUES (?, ?, ?, ?)`,
			uuid.New().String(), d.Source, d.Page, d.Content,
		)
		if err != nil {
			return fmt.Errorf("insert passage from %q: %w", d.Source, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Count returns the number of indexed passages.
func (i *Index) Count(ctx context.Context) (int, error) {
	var n int
	if err := i.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM passages`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count passages: %w", err)
	}
	return n, nil
}

// Search returns up to limit passages matching any token of query, best
// first. A query without searchable tokens matches nothing.
func (i *Index) Search(ctx context.Context, query string, limit int) ([]model.Passage, error) {
	match := MatchExpression(query)
	if match == "" {
		metrics.RecordKnowledgeSearch("empty")
		return []model.Passage{}, nil
	}
	if limit <= 0 {
		limit = 5
	}

	rows, err := i.db.QueryContext(ctx,
		`SELECT p.id, p.source, p.page, p.content, bm25(passages_fts) AS rank
		 FROM passages_fts
		 JOIN passages p ON p.rowid = passages_fts.rowid
		 WHERE passages_fts MATCH ?
		 ORDER BY rank
		 LIMIT ?`,
		match, limit,
	)
	if err != nil {
		metrics.RecordKnowledgeSearch("error")
		return nil, fmt.Errorf("search passages: %w", err)
	}
	defer rows.Close()

	passages := []model.Passage{}
	for rows.Next() {
		var p model.Passage
		if err := rows.Scan(&p.ID, &p.Source, &p.Page, &p.Content, &p.Rank); err != nil {
			metrics.RecordKnowledgeSearch("error")
			return nil, fmt.Errorf("scan passage: %w", err)
		}
		passages = append(passages, p)
	}
	if err := rows.Err(); err != nil {
		metrics.RecordKnowledgeSearch("error")
		return nil, fmt.Errorf("iterate passages: %w", err)
	}

	if len(passages) == 0 {
		metrics.RecordKnowledgeSearch("miss")
	} else {
		metrics.RecordKnowledgeSearch("hit")
	}
	return passages, nil
}

// Tokenize splits text into Hangul runs and ASCII alphanumeric runs.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(text, -1)
}

// MatchExpression builds an FTS5 query that matches any token as a prefix,
// so "노린재" also finds "노린재류는".
func MatchExpression(query string) string {
	tokens := Tokenize(query)
	seen := make(map[string]bool, len(tokens))
	terms := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.ToLower(tok)
		if seen[tok] {
			continue
		}
		seen[tok] = true
		terms = append(terms, `"`+tok+`"*`)
	}
	return strings.Join(terms, " OR ")
}
