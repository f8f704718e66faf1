// CLAUDE:SUMMARY Complete digest SQL schema: urls, summaries, FTS5 indexes with sync triggers, fetch and search logs.
package store

import "database/sql"

// ApplySchema applies the digest schema. Idempotent.
func ApplySchema(db *sql.DB) error {
	_, err := db.Exec(Schema)
	return err
}

// Schema is the complete digest schema. All timestamps are Unix
// milliseconds. The FTS5 tables are external-content indexes kept in
// sync by triggers, so index updates ride in the same transaction as
// the row write.
const Schema = `
-- Ingested URLs, one row per canonical URL
CREATE TABLE IF NOT EXISTS urls (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    url         TEXT NOT NULL UNIQUE,
    title       TEXT,
    description TEXT,
    image       TEXT,
    site_name   TEXT,
    og_type     TEXT,
    created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_urls_created ON urls(created_at DESC);

-- Summaries: append-only, many per URL
CREATE TABLE IF NOT EXISTS summaries (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    url_id        INTEGER NOT NULL REFERENCES urls(id) ON DELETE CASCADE,
    content       TEXT NOT NULL,
    model_used    TEXT NOT NULL,
    format_type   TEXT NOT NULL,
    fragment_used TEXT,
    created_at    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_summaries_url ON summaries(url_id, created_at DESC);

-- FTS5 on urls (url + metadata text fields)
CREATE VIRTUAL TABLE IF NOT EXISTS urls_fts USING fts5(
    url, title, description, site_name,
    content='urls', content_rowid='id',
    tokenize='unicode61 remove_diacritics 2'
);

-- Triggers to keep urls_fts in sync
CREATE TRIGGER IF NOT EXISTS urls_ai AFTER INSERT ON urls BEGIN
    INSERT INTO urls_fts(rowid, url, title, description, site_name)
    VALUES (new.id, new.url, new.title, new.description, new.site_name);
END;
CREATE TRIGGER IF NOT EXISTS urls_ad AFTER DELETE ON urls BEGIN
    INSERT INTO urls_fts(urls_fts, rowid, url, title, description, site_name)
    VALUES ('delete', old.id, old.url, old.title, old.description, old.site_name);
END;
CREATE TRIGGER IF NOT EXISTS urls_au AFTER UPDATE ON urls BEGIN
    INSERT INTO urls_fts(urls_fts, rowid, url, title, description, site_name)
    VALUES ('delete', old.id, old.url, old.title, old.description, old.site_name);
    INSERT INTO urls_fts(rowid, url, title, description, site_name)
    VALUES (new.id, new.url, new.title, new.description, new.site_name);
END;

-- FTS5 on summaries (content only)
CREATE VIRTUAL TABLE IF NOT EXISTS summaries_fts USING fts5(
    content,
    content='summaries', content_rowid='id',
    tokenize='unicode61 remove_diacritics 2'
);

CREATE TRIGGER IF NOT EXISTS summaries_ai AFTER INSERT ON summaries BEGIN
    INSERT INTO summaries_fts(rowid, content) VALUES (new.id, new.content);
END;
CREATE TRIGGER IF NOT EXISTS summaries_ad AFTER DELETE ON summaries BEGIN
    INSERT INTO summaries_fts(summaries_fts, rowid, content) VALUES ('delete', old.id, old.content);
END;
CREATE TRIGGER IF NOT EXISTS summaries_au AFTER UPDATE ON summaries BEGIN
    INSERT INTO summaries_fts(summaries_fts, rowid, content) VALUES ('delete', old.id, old.content);
    INSERT INTO summaries_fts(rowid, content) VALUES (new.id, new.content);
END;

-- Fetch log (observability)
CREATE TABLE IF NOT EXISTS fetch_log (
    id            TEXT PRIMARY KEY,
    url           TEXT NOT NULL,
    status        TEXT NOT NULL,
    status_code   INTEGER NOT NULL DEFAULT 0,
    error_message TEXT NOT NULL DEFAULT '',
    duration_ms   INTEGER NOT NULL DEFAULT 0,
    fetched_at    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_fetch_log_url ON fetch_log(url, fetched_at DESC);

-- Search log (user search history)
CREATE TABLE IF NOT EXISTS search_log (
    id           TEXT PRIMARY KEY,
    query        TEXT NOT NULL,
    result_count INTEGER NOT NULL DEFAULT 0,
    searched_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_search_log_time ON search_log(searched_at DESC);
`
