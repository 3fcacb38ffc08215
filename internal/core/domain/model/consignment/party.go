package consignment

import (
	"errors"
	"strings"

	"freight/internal/pkg/errs"
)

// Party is a sender or receiver of a consignment.
type Party struct {
	name    string
	contact string
}

// NewParty requires a non-blank name and contact. role prefixes the field
// names in validation errors ("sender.name", "receiver.contact").
func NewParty(role, name, contact string) (Party, error) {
	name = strings.TrimSpace(name)
	contact = strings.TrimSpace(contact)

	var nameErr, contactErr error
	if name == "" {
		nameErr = errs.NewValueIsRequiredError(role + ".name")
	}
	if contact == "" {
		contactErr = errs.NewValueIsRequiredError(role + ".contact")
	}
	if err := errors.Join(nameErr, contactErr); err != nil {
		return Party{}, err
	}
	return Party{name: name, contact: contact}, nil
}

func (p Party) Name() string    { return p.name }
func (p Party) Contact() string { return p.contact }
