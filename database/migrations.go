package database

// migration holds a single schema migration with its target version. Statements
// run one by one inside a transaction; {{serial}} and {{timestamp}} are filled per driver.
type migration struct {
	version    int
	statements []string
}

var migrations = []migration{
	{
		version: 1,
		statements: []string{
			`CREATE TABLE IF NOT EXISTS users (
	id           {{serial}},
	subject      TEXT NOT NULL UNIQUE,
	username     TEXT NOT NULL DEFAULT '',
	email        TEXT NOT NULL DEFAULT '',
	phone_number TEXT NOT NULL DEFAULT '',
	created_at   {{timestamp}} NOT NULL,
	updated_at   {{timestamp}} NOT NULL
)`,
			`CREATE TABLE IF NOT EXISTS tags (
	id         {{serial}},
	name       VARCHAR(50) NOT NULL UNIQUE,
	color      VARCHAR(7) NOT NULL DEFAULT '#FFFFFF',
	created_at {{timestamp}} NOT NULL
)`,
			`CREATE TABLE IF NOT EXISTS todos (
	id           {{serial}},
	title        VARCHAR(200) NOT NULL,
	description  TEXT,
	due_date     {{timestamp}},
	priority     INTEGER NOT NULL DEFAULT 2 CHECK (priority BETWEEN 1 AND 4),
	status       VARCHAR(20) NOT NULL DEFAULT 'pending'
		CHECK (status IN ('pending', 'in_progress', 'completed', 'archived')),
	created_at   {{timestamp}} NOT NULL,
	updated_at   {{timestamp}} NOT NULL,
	completed_at {{timestamp}},
	user_id      BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE
)`,
			`CREATE INDEX IF NOT EXISTS idx_todos_priority ON todos(priority)`,
			`CREATE INDEX IF NOT EXISTS idx_todos_status ON todos(status)`,
			`CREATE INDEX IF NOT EXISTS idx_todos_due_date ON todos(due_date)`,
			`CREATE INDEX IF NOT EXISTS idx_todos_user_id ON todos(user_id)`,
			`CREATE TABLE IF NOT EXISTS todo_tags (
	todo_id BIGINT NOT NULL REFERENCES todos(id) ON DELETE CASCADE,
	tag_id  BIGINT NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
	PRIMARY KEY (todo_id, tag_id)
)`,
			`CREATE INDEX IF NOT EXISTS idx_todo_tags_tag_id ON todo_tags(tag_id)`,
			`CREATE TABLE IF NOT EXISTS attachments (
	id           {{serial}},
	todo_id      BIGINT NOT NULL REFERENCES todos(id) ON DELETE CASCADE,
	file         TEXT NOT NULL,
	name         TEXT NOT NULL DEFAULT '',
	size         BIGINT NOT NULL DEFAULT 0,
	content_type TEXT NOT NULL DEFAULT '',
	uploaded_at  {{timestamp}} NOT NULL
)`,
			`CREATE INDEX IF NOT EXISTS idx_attachments_todo_id ON attachments(todo_id)`,
		},
	},
}
