package storage

// Persisted key names. These must stay stable across releases so upgrades
// keep reading existing data.
const (
	KeyCount          = "naamjap.count"
	KeyDefaultTarget  = "naamjap.target"
	KeySessionTarget  = "naamjap.sessionTarget"
	KeyActiveMantra   = "naamjap.activeMantra"
	KeySessionActive  = "naamjap.sessionActive"
	KeySessionDateKey = "naamjap.sessionDateKey"

	KeyDailyCounts    = "naamjap.dailyCounts"
	KeySessionHistory = "naamjap.sessionHistory"
	KeyMalaCount      = "naamjap.malaCount"
	KeyDailyGoals     = "naamjap.dailyGoals"
	KeyMantraList     = "naamjap.mantraList"

	KeyLastCompletedMantra = "naamjap.lastCompletedMantra"
	KeyLastCompletedAt     = "naamjap.lastCompletedAt"

	KeyCurrentMood = "naamjap.currentMood"
	KeyFocusTimer  = "naamjap.focusTimer"

	KeyReminderMode          = "naamjap.reminderMode"
	KeyReminderInterval      = "naamjap.reminderInterval"
	KeyReminderActiveWindows = "naamjap.reminderActiveWindows"
	KeyReminderCustomTimes   = "naamjap.reminderCustomTimes"
	KeyReminderSound         = "naamjap.reminderSoundEnabled"
	KeyReminderIDs           = "naamjap.reminderIds"
	KeyReminderCustomIDs     = "naamjap.reminderCustomIds"
	KeyReminderEnabled       = "naamjap.reminderEnabled"
)

// AllKeys lists every key owned by this package, for snapshots.
func AllKeys() []string {
	return []string{
		KeyCount,
		KeyDefaultTarget,
		KeySessionTarget,
		KeyActiveMantra,
		KeySessionActive,
		KeySessionDateKey,
		KeyDailyCounts,
		KeySessionHistory,
		KeyMalaCount,
		KeyDailyGoals,
		KeyMantraList,
		KeyLastCompletedMantra,
		KeyLastCompletedAt,
		KeyCurrentMood,
		KeyFocusTimer,
		KeyReminderMode,
		KeyReminderInterval,
		KeyReminderActiveWindows,
		KeyReminderCustomTimes,
		KeyReminderSound,
		KeyReminderIDs,
		KeyReminderCustomIDs,
		KeyReminderEnabled,
	}
}
