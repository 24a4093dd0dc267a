package event

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar day without a clock or zone, encoded as YYYY-MM-DD.
// It is stored as midnight UTC.
type Date time.Time

func NewDate(year int, month time.Month, day int) Date {
	return Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date(t), nil
}

func (d Date) Time() time.Time {
	return time.Time(d)
}

func (d Date) IsZero() bool {
	return time.Time(d).IsZero()
}

func (d Date) Before(other Date) bool {
	return time.Time(d).Before(time.Time(other))
}

func (d Date) AddMonths(n int) Date {
	return Date(time.Time(d).AddDate(0, n, 0))
}

func (d Date) String() string {
	return time.Time(d).Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	// a type error lets encoding/json attach the field path
	typeErr := &json.UnmarshalTypeError{Value: string(b), Type: reflect.TypeOf(Date{})}
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return typeErr
	}
	parsed, err := ParseDate(string(b[1 : len(b)-1]))
	if err != nil {
		return typeErr
	}
	*d = parsed
	return nil
}
