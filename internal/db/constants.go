package db

// Keys of the persisted state record.
const (
	keyCumulativeMs     = "cumulativeMs"
	keyPerHostMs        = "perHostMs"
	keyCurrentSession   = "currentSession"
	keyLastTickAt       = "lastTickAt"
	keyReminderStepMs   = "reminderStepMs"
	keyLastReminderAtMs = "lastReminderAtMs"
)

// stateKeys lists every persisted field.
var stateKeys = []string{
	keyCumulativeMs,
	keyPerHostMs,
	keyCurrentSession,
	keyLastTickAt,
	keyReminderStepMs,
	keyLastReminderAtMs,
}

const sqlUpsertState = `
	INSERT INTO state (key, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
`
