package honeypot

import "strings"

// Kind selects the input type hinted to the presentation layer for the
// visible half of a honeypot. It has no effect on inspection.
type Kind string

const (
	KindText  Kind = "text"
	KindEmail Kind = "email"
)

// ParseKind normalises raw into a Kind. Matching is case-insensitive and the
// empty string defaults to KindText. Unknown values return an InvalidConfig
// error.
func ParseKind(raw string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(KindText):
		return KindText, nil
	case string(KindEmail):
		return KindEmail, nil
	default:
		return "", &ConfigError{Kind: Kind(raw), Reason: "kind must be 'text' or 'email'"}
	}
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	return k == KindText || k == KindEmail
}

func (k Kind) String() string {
	return string(k)
}
