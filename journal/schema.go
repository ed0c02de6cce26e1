package journal

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	started_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS records (
	run_id TEXT NOT NULL,
	tick INTEGER NOT NULL,
	name TEXT NOT NULL,
	value REAL,
	PRIMARY KEY (run_id, tick, name)
);

CREATE INDEX IF NOT EXISTS idx_records_run_name ON records(run_id, name, tick);
`
