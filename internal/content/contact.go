package content

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	goerrors "github.com/goliatone/go-errors"

	"github.com/sinwaunyu/site/pkg/api"
)

// receivedAtLayout matches the millisecond UTC timestamps the inbox table
// already holds.
const receivedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// ContactInput is a contact form submission.
type ContactInput struct {
	Name        string `json:"name"`
	CompanyName string `json:"companyName"`
	Email       string `json:"email"`
	Tel         string `json:"tel"`
	Category    string `json:"category"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
}

// Normalize trims every field.
func (in ContactInput) Normalize() ContactInput {
	return ContactInput{
		Name:        strings.TrimSpace(in.Name),
		CompanyName: strings.TrimSpace(in.CompanyName),
		Email:       strings.TrimSpace(in.Email),
		Tel:         strings.TrimSpace(in.Tel),
		Category:    strings.TrimSpace(in.Category),
		Subject:     strings.TrimSpace(in.Subject),
		Message:     strings.TrimSpace(in.Message),
	}
}

// Validate requires name, email and message.
func (in ContactInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.RuneLength(1, 100)),
		validation.Field(&in.Email, validation.Required, is.EmailFormat),
		validation.Field(&in.Tel, validation.RuneLength(0, 30)),
		validation.Field(&in.Message, validation.Required, validation.RuneLength(1, 5000)),
	)
}

// ValidateContact normalizes in and validates it, returning a categorised
// validation error with per-field details.
func ValidateContact(in ContactInput) (ContactInput, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return in, goerrors.FromOzzoValidation(err, "contact validation failed").
			WithTextCode("CONTACT_VALIDATION_FAILED")
	}
	return in, nil
}

// SubmitContact validates in and appends it to the inbox table with status
// "new".
func (s *Service) SubmitContact(ctx context.Context, in ContactInput) (api.Contact, error) {
	in, err := ValidateContact(in)
	if err != nil {
		return api.Contact{}, err
	}

	c := api.Contact{
		Name:        in.Name,
		CompanyName: in.CompanyName,
		Email:       in.Email,
		Tel:         in.Tel,
		Category:    in.Category,
		Subject:     in.Subject,
		Message:     in.Message,
		ReceivedAt:  s.now().UTC().Format(receivedAtLayout),
		Status:      api.ContactStatusNew,
	}
	if c.Category == "" {
		c.Category = s.defaultCategory
	}

	rec, err := s.backend.Create(ctx, s.tables.Contact, c.Fields())
	if err != nil {
		s.log.Error("content.contact.create_failed", "error", err)
		return api.Contact{}, err
	}
	c.ID = rec.ID
	s.log.Info("content.contact.created", "id", c.ID, "category", c.Category)
	return c, nil
}
