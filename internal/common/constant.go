package common

// Storage keys shared by the account and task repositories.
const (
	// AccountsKey holds the JSON array of registered accounts.
	AccountsKey = "tm_users_v2"

	// SessionKey holds the email of the currently authenticated account.
	SessionKey = "tm_current_user_v2"

	// TasksKeyPrefix is joined with an account email to build the key of
	// that account's task collection.
	TasksKeyPrefix = "tm_tasks_v2_"
)

// TasksKey returns the storage key of the task collection owned by email.
func TasksKey(email string) string {
	return TasksKeyPrefix + email
}
