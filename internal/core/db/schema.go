package db

func (db *DB) initSchema() error {
	schema := `
	-- Staging table: raw imported readings, valid or not. Append-only
	-- within a run; a new import run starts from an empty table.
	CREATE TABLE IF NOT EXISTS staged_readings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		observed_at DATETIME NOT NULL,
		value INTEGER NOT NULL,
		is_valid BOOLEAN NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_staged_readings_observed_at ON staged_readings(observed_at);
	CREATE INDEX IF NOT EXISTS idx_staged_readings_is_valid ON staged_readings(is_valid);

	-- Canonical measurement series. Uniqueness per (granularity,
	-- observed_at) is conceptual, not enforced: reprocessing without
	-- clearing duplicates rows.
	CREATE TABLE IF NOT EXISTS measurements (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		observed_at DATETIME NOT NULL,
		value REAL NOT NULL,
		source TEXT NOT NULL CHECK(source IN ('sensor', 'imputed', 'derived')),
		granularity TEXT NOT NULL CHECK(granularity IN ('hour', 'day'))
	);

	CREATE INDEX IF NOT EXISTS idx_measurements_observed_at ON measurements(granularity, observed_at);
	CREATE INDEX IF NOT EXISTS idx_measurements_source ON measurements(source);

	-- Remote analysis sessions, one row per submitted job.
	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT UNIQUE NOT NULL,
		name TEXT NOT NULL,
		requested_at DATETIME NOT NULL,
		metadata TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_session_id ON sessions(session_id);
	CREATE INDEX IF NOT EXISTS idx_sessions_requested_at ON sessions(requested_at);

	-- Result points for a fetched session. The whole set is rewritten
	-- on every fetch.
	CREATE TABLE IF NOT EXISTS session_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		observed_at DATETIME NOT NULL,
		value REAL NOT NULL,
		FOREIGN KEY (session_id) REFERENCES sessions(session_id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_session_results_session_id ON session_results(session_id);
	CREATE INDEX IF NOT EXISTS idx_session_results_observed_at ON session_results(observed_at);
	`

	_, err := db.conn.Exec(schema)
	return err
}
