package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS notes (
	noteid INTEGER PRIMARY KEY AUTOINCREMENT,
	date TEXT NOT NULL,
	text TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS tags (
	tagid INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS notetags (
	noteid INTEGER NOT NULL REFERENCES notes(noteid),
	tagid INTEGER NOT NULL REFERENCES tags(tagid),
	PRIMARY KEY(noteid, tagid)
);

CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`
