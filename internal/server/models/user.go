// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a registered account. Snaps is the denormalized list of snap ids
// owned by the user; the authoritative ownership reference is Snap.Creator.
// Snaps is only ever mutated inside the snap create/delete transaction.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Motto        string    `json:"motto"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	ImagePath    string    `json:"image"`
	Snaps        []string  `json:"snaps"`
	CreatedAt    time.Time `json:"createdAt"`
}
