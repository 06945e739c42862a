package storage

// schemaVersion is recorded in crawl_meta so future releases can detect and
// migrate databases created by older builds.
const schemaVersion = "1"

const schemaSQL = `
-- Genre taxonomy, loaded once per crawl epoch from the catalog and immutable
-- afterward. name is stored lowercased and is the reconciliation match key.
CREATE TABLE IF NOT EXISTS genres (
    genre_id TEXT PRIMARY KEY,
    parent_genre_id TEXT,
    name TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_genres_name ON genres(name);

-- Accepted items. Exactly one row per discovered video id, enforced by the
-- primary key plus INSERT OR IGNORE at every insert site. download_status is
-- the only column mutated after creation.
CREATE TABLE IF NOT EXISTS songs (
    video_id TEXT PRIMARY KEY,
    label TEXT NOT NULL,
    song_id TEXT,
    genre_id TEXT NOT NULL REFERENCES genres(genre_id),
    download_status INTEGER NOT NULL DEFAULT 0
        CHECK (download_status IN (0, 1, 2))
);

CREATE INDEX IF NOT EXISTS idx_songs_download_status ON songs(download_status);
CREATE INDEX IF NOT EXISTS idx_songs_genre ON songs(genre_id);

-- The frontier: candidates awaiting evaluation. A row is deleted the moment
-- it is popped, before any evaluation logic runs.
CREATE TABLE IF NOT EXISTS frontier (
    video_id TEXT PRIMARY KEY,
    label TEXT NOT NULL
);

-- Crawl metadata as key-value pairs (schema version, crawl id, seed time).
CREATE TABLE IF NOT EXISTS crawl_meta (
    key TEXT PRIMARY KEY NOT NULL,
    value TEXT NOT NULL
);
`
