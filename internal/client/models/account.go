// Package models defines the client-side data models of TaskKeeper:
// accounts, tasks, and the query/patch shapes used by the services.
package models

// Account is a registered user of this device. The plaintext password is
// never stored; Hash is the PBKDF2 digest of it under Salt and Iterations.
// All three derivation fields are fixed when the account is created.
type Account struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Hash       string `json:"hash"`
	Salt       string `json:"salt"`
	Iterations int    `json:"iterations"`
}
