package valueobject

import (
	"regexp"
	"strings"
)

// phonePattern matches North-American style phone numbers with optional
// country code, area code and extension, e.g. "+1 (415) 555-0134 x22".
var phonePattern = regexp.MustCompile(
	`^\s*(?:\+?(\d{1,3})[-. ]+)?(?:\((\d{3})\)[-. ]?|(\d{3})[-. ])(\d{3})[-. ]?(\d{4})(?:\s*(?:x|ext\.?|extension)\s*(\d{1,6}))?\s*$`)

// PhoneNumber is a value object for a telephone contact.
// A number that could not be decomposed keeps the raw input in ContactNumber
// with empty CountryCode/AreaCode; Parsed reports which case applies.
type PhoneNumber struct {
	CountryCode   string `json:"country_code,omitempty"`
	AreaCode      string `json:"area_code,omitempty"`
	ContactNumber string `json:"contact_number"`
	Extension     string `json:"extension,omitempty"`
	Parsed        bool   `json:"parsed"`
}

// ParsePhoneNumber decomposes a raw phone string into its component groups.
// Parsing is best-effort: when the input does not match the expected pattern
// the raw string is preserved verbatim as the contact number and the second
// return value is false. It never fails.
func ParsePhoneNumber(raw string) (PhoneNumber, bool) {
	trimmed := strings.TrimSpace(raw)
	groups := phonePattern.FindStringSubmatch(trimmed)
	if groups == nil {
		return PhoneNumber{ContactNumber: trimmed}, false
	}

	area := groups[2]
	if area == "" {
		area = groups[3]
	}
	return PhoneNumber{
		CountryCode:   groups[1],
		AreaCode:      area,
		ContactNumber: groups[4] + "-" + groups[5],
		Extension:     groups[6],
		Parsed:        true,
	}, true
}

// IsEmpty returns true if no number is present at all
func (p PhoneNumber) IsEmpty() bool {
	return p.ContactNumber == ""
}

// String returns a display representation of the phone number
func (p PhoneNumber) String() string {
	if !p.Parsed {
		return p.ContactNumber
	}
	var b strings.Builder
	if p.CountryCode != "" {
		b.WriteString("+")
		b.WriteString(p.CountryCode)
		b.WriteString(" ")
	}
	if p.AreaCode != "" {
		b.WriteString("(")
		b.WriteString(p.AreaCode)
		b.WriteString(") ")
	}
	b.WriteString(p.ContactNumber)
	if p.Extension != "" {
		b.WriteString(" x")
		b.WriteString(p.Extension)
	}
	return b.String()
}
