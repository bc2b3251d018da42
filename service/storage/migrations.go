package storage

const schemaV1 = `
CREATE TABLE IF NOT EXISTS runs (
    run_id         INTEGER PRIMARY KEY AUTOINCREMENT,
    run_uuid       TEXT UNIQUE NOT NULL,
    pipeline       TEXT NOT NULL,
    event          TEXT NOT NULL,
    repository     TEXT,
    branch         TEXT,
    run_timestamp  DATETIME DEFAULT CURRENT_TIMESTAMP,
    duration_ms    INTEGER DEFAULT 0,
    status         TEXT NOT NULL,
    jobs_total     INTEGER DEFAULT 0,
    jobs_failed    INTEGER DEFAULT 0,
    cli_version    TEXT,
    run_flags      TEXT,
    created_at     DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_runs_pipeline_timestamp
    ON runs(pipeline, run_timestamp);
CREATE INDEX IF NOT EXISTS idx_runs_timestamp
    ON runs(run_timestamp DESC);

CREATE TABLE IF NOT EXISTS run_steps (
    step_id       INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id        INTEGER NOT NULL,
    matrix_key    TEXT NOT NULL,
    step_name     TEXT NOT NULL,
    status        TEXT NOT NULL,
    exit_code     INTEGER DEFAULT 0,
    duration_ms   INTEGER DEFAULT 0,
    error         TEXT,
    created_at    DATETIME DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_run_steps_run ON run_steps(run_id);
CREATE INDEX IF NOT EXISTS idx_run_steps_key ON run_steps(matrix_key, step_name);
`
