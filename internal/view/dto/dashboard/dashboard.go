package dashboard

import "github.com/nfrund/profiledesk/internal/domain"

// Data is the View Model for the dashboard. Found is false when the signed
// in identity has no profile document.
type Data struct {
	Name     string
	Username string
	Email    string
	Phone    string
	Found    bool
}

// FromProfile builds the dashboard view of p. A nil profile yields the
// not-found state.
func FromProfile(p *domain.Profile) Data {
	if p == nil {
		return Data{}
	}
	return Data{
		Name:     p.Name,
		Username: p.Username,
		Email:    p.Email,
		Phone:    p.Phone,
		Found:    true,
	}
}
