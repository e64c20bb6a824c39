package links

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	longURLPattern   = regexp.MustCompile(`(?i)^(https?://)[\w.-]+\.[a-z]{2,}.*$`)
	shortcodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,10}$`)
)

func ValidateLongURL(s string) error {
	if !longURLPattern.MatchString(s) {
		return ErrInvalidURL
	}
	return nil
}

// ValidateValidity resolves a missing validity to DefaultValidityMinutes.
func ValidateValidity(v *int) (int, error) {
	if v == nil {
		return DefaultValidityMinutes, nil
	}
	if *v <= 0 || *v > MaxValidityMinutes {
		return 0, ErrInvalidValidity
	}
	return *v, nil
}

// ValidateShortcodeFormat accepts the empty string, which requests a generated code.
func ValidateShortcodeFormat(code string) error {
	if code == "" {
		return nil
	}
	if !shortcodePattern.MatchString(code) {
		return ErrInvalidShortcodeFormat
	}
	return nil
}

// NormalizeRequest checks one batch row. row is 1-based and ends up in the
// returned *ValidationError.
func NormalizeRequest(row int, req CreateRequest) (NormalizedRequest, error) {
	longURL := strings.TrimSpace(req.LongURL)
	if err := ValidateLongURL(longURL); err != nil {
		return NormalizedRequest{}, &ValidationError{Row: row, Field: "longUrl", Value: req.LongURL, Err: err}
	}

	validity, err := ValidateValidity(req.ValidityMinutes)
	if err != nil {
		value := ""
		if req.ValidityMinutes != nil {
			value = strconv.Itoa(*req.ValidityMinutes)
		}
		return NormalizedRequest{}, &ValidationError{Row: row, Field: "validityMinutes", Value: value, Err: err}
	}

	shortcode := strings.TrimSpace(req.Shortcode)
	if err := ValidateShortcodeFormat(shortcode); err != nil {
		return NormalizedRequest{}, &ValidationError{Row: row, Field: "shortcode", Value: req.Shortcode, Err: err}
	}

	return NormalizedRequest{
		LongURL:         longURL,
		ValidityMinutes: validity,
		Shortcode:       shortcode,
	}, nil
}
