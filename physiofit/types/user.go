// physiofit/types/user.go
package types

import "time"

// User is the identity provider's view of the signed-in account.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
