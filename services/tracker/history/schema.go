package history

const Schema = `
CREATE TABLE IF NOT EXISTS availability_check (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    chat_id INTEGER NOT NULL,
    drug TEXT NOT NULL,
    city TEXT NOT NULL,
    checked_at INTEGER NOT NULL,
    results INTEGER NOT NULL,
    top_price TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_availability_check_pair
ON availability_check (chat_id, drug, city, checked_at);
`
