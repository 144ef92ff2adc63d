package signup

import "github.com/nfrund/profiledesk/internal/pubsub"

// AccountCreatedPayload is published once a new account has its profile.
type AccountCreatedPayload struct {
	UID      string `json:"uid"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// AccountCreated is emitted after a successful signup.
var AccountCreated = pubsub.NewEvent[AccountCreatedPayload](
	"account.created",
	"A new account and its profile document were created",
)
