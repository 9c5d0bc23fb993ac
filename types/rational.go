package types

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
)

// Rational is a fraction; as a time-base it is the duration of one tick in
// seconds.
type Rational struct {
	Num int
	Den int
}

func (r Rational) IsZero() bool {
	return r.Num == 0 || r.Den == 0
}

// Float64 returns Num/Den; a zero denominator yields 0.
func (r Rational) Float64() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// Seconds converts a timestamp expressed in ticks of this time-base to
// seconds.
func (r Rational) Seconds(ticks int64) float64 {
	return float64(ticks) * r.Float64()
}

// RationalFromString parses "N/D" (kept unreduced, e.g. "1/90000") or a
// decimal ("0.001", "48000").
func RationalFromString(s string) (*Rational, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("unable to parse a rational from an empty string")
	}
	var r Rational
	if num, den, ok := strings.Cut(s, "/"); ok {
		if _, err := fmt.Sscanf(num+" "+den, "%d %d", &r.Num, &r.Den); err != nil {
			return nil, fmt.Errorf("unable to parse a rational from %q: %w", s, err)
		}
	} else {
		rat, ok := new(big.Rat).SetString(s)
		if !ok {
			return nil, fmt.Errorf("unable to parse a rational from %q", s)
		}
		if !rat.Num().IsInt64() || !rat.Denom().IsInt64() {
			return nil, fmt.Errorf("the rational %q is out of range", s)
		}
		r.Num = int(rat.Num().Int64())
		r.Den = int(rat.Denom().Int64())
	}
	if r.Den == 0 {
		return nil, fmt.Errorf("the denominator of %q is zero", s)
	}
	return &r, nil
}

func (r Rational) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Rational) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("unable to unmarshal a rational from JSON '%s': %w", b, err)
	}
	v, err := RationalFromString(s)
	if err != nil {
		return err
	}
	*r = *v
	return nil
}

func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// Set implements pflag.Value.
func (r *Rational) Set(s string) error {
	v, err := RationalFromString(s)
	if err != nil {
		return err
	}
	*r = *v
	return nil
}

// Type implements pflag.Value.
func (r *Rational) Type() string {
	return "rational"
}
