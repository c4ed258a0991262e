package types

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// SocialLinks mirrors the social_links_t composite Postgres type attached to
// creator applications.
type SocialLinks struct {
	Twitter  *string `json:"twitter,omitempty"`
	LinkedIn *string `json:"linkedin,omitempty"`
	GitHub   *string `json:"github,omitempty"`
	Website  *string `json:"website,omitempty"`
}

func (s SocialLinks) Value() (driver.Value, error) {
	parts := []string{
		quoteCompositeNullable(s.Twitter),
		quoteCompositeNullable(s.LinkedIn),
		quoteCompositeNullable(s.GitHub),
		quoteCompositeNullable(s.Website),
	}
	return "(" + strings.Join(parts, ",") + ")", nil
}

func (s *SocialLinks) Scan(value interface{}) error {
	if value == nil {
		*s = SocialLinks{}
		return nil
	}

	raw, ok := toString(value)
	if !ok {
		return fmt.Errorf("social_links: unsupported scan type %T", value)
	}

	fields, err := parseComposite(raw, 4)
	if err != nil {
		return err
	}

	s.Twitter = newCompositeNullable(fields[0])
	s.LinkedIn = newCompositeNullable(fields[1])
	s.GitHub = newCompositeNullable(fields[2])
	s.Website = newCompositeNullable(fields[3])

	return nil
}

// IsZero reports whether no link is set.
func (s SocialLinks) IsZero() bool {
	return s.Twitter == nil && s.LinkedIn == nil && s.GitHub == nil && s.Website == nil
}
