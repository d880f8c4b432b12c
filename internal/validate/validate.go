// Package validate implements the field grammars that gate every write
// into the ledger: description, amount, date and category checks, plus
// whole-transaction and bulk-import payload validation.
//
// Expected failures are values, never errors: each check returns a
// Result carrying a machine-checkable reason code so callers can render
// field-specific messages without string matching.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Reason identifies why a value was rejected.
type Reason string

const (
	ReasonNone           Reason = ""
	ReasonEmpty          Reason = "empty"
	ReasonTooLong        Reason = "too_long"
	ReasonEdgeWhitespace Reason = "edge_whitespace"
	ReasonRepeatedWord   Reason = "repeated_word"
	ReasonNotNumeric     Reason = "not_numeric"
	ReasonTooSmall       Reason = "too_small"
	ReasonTooLarge       Reason = "too_large"
	ReasonTooPrecise     Reason = "too_precise"
	ReasonBadDateFormat  Reason = "bad_date_format"
	ReasonNotCalendarDay Reason = "not_calendar_day"
	ReasonFutureDate     Reason = "future_date"
	ReasonTooOld         Reason = "too_old"
	ReasonBadCategory    Reason = "bad_category"
	ReasonBadPayload     Reason = "bad_payload"
	ReasonInternal       Reason = "internal"
)

// Result is the outcome of a single field check.
type Result struct {
	OK     bool
	Reason Reason
	Detail string
}

func ok() Result                     { return Result{OK: true} }
func fail(r Reason, d string) Result { return Result{Reason: r, Detail: d} }

func failf(r Reason, f string, a ...any) Result {
	return Result{Reason: r, Detail: fmt.Sprintf(f, a...)}
}

const (
	descriptionMax = 200
	dateLayout     = "2006-01-02"
	maxAgeYears    = 10
)

var (
	// First and last characters must be non-space; everything between is free.
	descriptionEdgeRe = regexp.MustCompile(`^\S(?s:.*\S)?$`)
	wordRe            = regexp.MustCompile(`\w+`)
	whitespaceOnlyRe  = regexp.MustCompile(`^\s*$`)

	// Digits with an optional 1-2 digit fraction, or a bare fraction.
	// Shape-valid zeros ("0", "0.00") are rejected later as too small.
	amountRe = regexp.MustCompile(`^(?:\d+(?:\.\d{1,2})?|\.\d{1,2})$`)

	dateRe     = regexp.MustCompile(`^\d{4}-(?:0[1-9]|1[0-2])-(?:0[1-9]|[12]\d|3[01])$`)
	categoryRe = regexp.MustCompile(`^[A-Za-z]+(?:[ -][A-Za-z]+)*$`)

	amountUpper = decimal.NewFromInt(1_000_000)
)

// Description checks the description grammar: non-empty, at most 200
// characters, no leading or trailing whitespace, and no immediately
// repeated word (case-insensitive, separated only by whitespace).
func Description(text string) Result {
	if whitespaceOnlyRe.MatchString(text) {
		return fail(ReasonEmpty, "description is required")
	}
	if len([]rune(text)) > descriptionMax {
		return failf(ReasonTooLong, "description exceeds %d characters", descriptionMax)
	}
	if !descriptionEdgeRe.MatchString(text) {
		return fail(ReasonEdgeWhitespace, "description has leading or trailing whitespace")
	}
	if first, second, found := repeatedWord(text); found {
		return failf(ReasonRepeatedWord, "repeated word: %q %q", first, second)
	}
	return ok()
}

// repeatedWord reports the first pair of adjacent identical word tokens
// separated only by whitespace. Comparison is case-insensitive.
func repeatedWord(text string) (string, string, bool) {
	idx := wordRe.FindAllStringIndex(text, -1)
	for i := 1; i < len(idx); i++ {
		gap := text[idx[i-1][1]:idx[i][0]]
		if !whitespaceOnlyRe.MatchString(gap) || gap == "" {
			continue
		}
		a := text[idx[i-1][0]:idx[i-1][1]]
		b := text[idx[i][0]:idx[i][1]]
		if strings.EqualFold(a, b) {
			return a, b, true
		}
	}
	return "", "", false
}

// AmountResult extends Result with the parsed value on success.
type AmountResult struct {
	Result
	Value decimal.Decimal
}

// Amount checks the textual amount grammar and bounds. A shape-valid
// zero ("0", "0.00") fails with ReasonTooSmall, not ReasonNotNumeric.
func Amount(value string) AmountResult {
	v := strings.TrimSpace(value)
	if v == "" {
		return AmountResult{Result: fail(ReasonEmpty, "amount is required")}
	}
	if !amountRe.MatchString(v) {
		return AmountResult{Result: fail(ReasonNotNumeric, "amount must be a number with at most 2 decimal places")}
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		// The grammar admitted it, so this is an engine fault, not user error.
		return AmountResult{Result: fail(ReasonInternal, "amount could not be parsed")}
	}
	return amountBounds(d)
}

// AmountValue checks an already-numeric amount against the same bounds
// and precision rules as the textual grammar.
func AmountValue(d decimal.Decimal) AmountResult {
	if d.Exponent() < -2 {
		return AmountResult{Result: fail(ReasonTooPrecise, "amount has more than 2 decimal places"), Value: d}
	}
	return amountBounds(d)
}

func amountBounds(d decimal.Decimal) AmountResult {
	if !d.IsPositive() {
		return AmountResult{Result: fail(ReasonTooSmall, "amount must be greater than zero"), Value: d}
	}
	if d.GreaterThanOrEqual(amountUpper) {
		return AmountResult{Result: fail(ReasonTooLarge, "amount must be less than 1,000,000"), Value: d}
	}
	return AmountResult{Result: ok(), Value: d}
}

// DateFormat checks only that the value is a well-formed, real calendar
// date in YYYY-MM-DD form. Used for bulk-imported historical data,
// which bypasses the age and future policy.
func DateFormat(value string) Result {
	if strings.TrimSpace(value) == "" {
		return fail(ReasonEmpty, "date is required")
	}
	if !dateRe.MatchString(value) {
		return fail(ReasonBadDateFormat, "date must be YYYY-MM-DD")
	}
	if _, err := time.ParseInLocation(dateLayout, value, time.Local); err != nil {
		return fail(ReasonNotCalendarDay, "date is not a real calendar day")
	}
	return ok()
}

// Date checks format plus the user-entry policy: not in the future and
// not more than ten years in the past.
func Date(value string) Result {
	return DateAt(value, time.Now())
}

// DateAt is Date with an injectable clock.
func DateAt(value string, now time.Time) Result {
	if r := DateFormat(value); !r.OK {
		return r
	}
	d, err := time.ParseInLocation(dateLayout, value, time.Local)
	if err != nil {
		return fail(ReasonNotCalendarDay, "date is not a real calendar day")
	}
	if d.After(now) {
		return fail(ReasonFutureDate, "date is in the future")
	}
	if d.Before(now.AddDate(-maxAgeYears, 0, 0)) {
		return failf(ReasonTooOld, "date is more than %d years in the past", maxAgeYears)
	}
	return ok()
}

// Category checks the category grammar: letter runs joined by single
// space or hyphen separators, nothing else.
func Category(value string) Result {
	v := strings.TrimSpace(value)
	if v == "" {
		return fail(ReasonEmpty, "category is required")
	}
	if !categoryRe.MatchString(v) {
		return fail(ReasonBadCategory, "category may contain only letters with single space or hyphen separators")
	}
	return ok()
}
