package catalog

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidUPCE indicates the input is not a well-formed 8-digit UPC-E
	ErrInvalidUPCE = errors.New("catalog: invalid UPC-E code")
)

// isDigits reports whether s is non-empty and all ASCII digits
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// upcaCheckDigit computes the check digit for the first 11 digits of a UPC-A
func upcaCheckDigit(body string) byte {
	sum := 0
	for i, r := range body {
		d := int(r - '0')
		if i%2 == 0 {
			sum += d * 3
		} else {
			sum += d
		}
	}
	return byte('0' + (10-sum%10)%10)
}

// IsValidUPCA reports whether the input is a 12-digit UPC-A with a correct
// check digit.
func IsValidUPCA(upc string) bool {
	if len(upc) != 12 || !isDigits(upc) {
		return false
	}
	return upcaCheckDigit(upc[:11]) == upc[11]
}

// ExpandUPCE expands an 8-digit UPC-E (zero-suppressed) code into its 12-digit
// UPC-A equivalent. The expansion pattern depends on the last data digit, per
// the standard zero-suppression rules. The check digit is carried over
// unchanged from the UPC-E code.
func ExpandUPCE(upce string) (string, error) {
	upce = strings.TrimSpace(upce)
	if len(upce) != 8 || !isDigits(upce) {
		return "", ErrInvalidUPCE
	}
	if upce[0] != '0' && upce[0] != '1' {
		return "", ErrInvalidUPCE
	}

	system := upce[:1]
	data := upce[1:7]
	check := upce[7:]

	var body string
	switch data[5] {
	case '0', '1', '2':
		body = system + data[:2] + data[5:6] + "0000" + data[2:5]
	case '3':
		body = system + data[:3] + "00000" + data[3:5]
	case '4':
		body = system + data[:4] + "00000" + data[4:5]
	default: // 5-9
		body = system + data[:5] + "0000" + data[5:6]
	}

	return body + check, nil
}
