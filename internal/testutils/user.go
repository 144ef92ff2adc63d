package testutils

import (
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/nfrund/profiledesk/internal/validation"
)

// TestPassword satisfies the signup password rules.
const TestPassword = "s3cret@pass"

var emailSeq atomic.Int64

// UniqueEmail returns a Google address that has not been used by this
// process, so tests against a shared database do not collide.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s%d%d@gmail.com", prefix, time.Now().UnixNano(), emailSeq.Add(1))
}

// SignupForm returns a signup form that passes every rule.
func SignupForm() validation.SignupForm {
	return validation.SignupForm{
		Name:     "Asha Rao",
		Username: "asha.rao",
		Email:    "asha@gmail.com",
		Phone:    "9876543210",
		Password: TestPassword,
		Confirm:  TestPassword,
	}
}

// SignupValues encodes f the way the signup page posts it.
func SignupValues(f validation.SignupForm) url.Values {
	return url.Values{
		"name":     {f.Name},
		"username": {f.Username},
		"email":    {f.Email},
		"phone":    {f.Phone},
		"password": {f.Password},
		"confirm":  {f.Confirm},
	}
}
