package models

import (
	"database/sql/driver"
	"fmt"
	"math/big"
)

// Amount is an integer currency amount in the smallest unit. It is backed by
// math/big so balances are not capped at 64 bits and fee arithmetic never
// loses precision. Amounts are immutable: every operation returns a new value.
// Persisted as Postgres numeric.
type Amount struct {
	value *big.Int
}

func NewAmount(v int64) Amount {
	return Amount{value: big.NewInt(v)}
}

func AmountFromBig(v *big.Int) Amount {
	if v == nil {
		return Amount{}
	}
	return Amount{value: new(big.Int).Set(v)}
}

func AmountFromString(s string) (Amount, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Amount{}, fmt.Errorf("invalid amount %q", s)
	}
	return Amount{value: v}, nil
}

func ZeroAmount() Amount {
	return Amount{value: big.NewInt(0)}
}

func (a Amount) big() *big.Int {
	if a.value == nil {
		return big.NewInt(0)
	}
	return a.value
}

func (a Amount) Add(b Amount) Amount {
	return Amount{value: new(big.Int).Add(a.big(), b.big())}
}

func (a Amount) Sub(b Amount) Amount {
	return Amount{value: new(big.Int).Sub(a.big(), b.big())}
}

func (a Amount) Neg() Amount {
	return Amount{value: new(big.Int).Neg(a.big())}
}

func (a Amount) Cmp(b Amount) int {
	return a.big().Cmp(b.big())
}

func (a Amount) Sign() int {
	return a.big().Sign()
}

func (a Amount) IsZero() bool {
	return a.big().Sign() == 0
}

func (a Amount) IsPositive() bool {
	return a.big().Sign() > 0
}

// PermilleShare returns a*permille/1000 with integer division. Fee rates are
// stored in permille so a 1.2% fee on 1000 is exactly 12.
func (a Amount) PermilleShare(permille int64) Amount {
	v := new(big.Int).Mul(a.big(), big.NewInt(permille))
	return Amount{value: v.Quo(v, big.NewInt(1000))}
}

// ScaleBy multiplies the amount by a rate, rounding toward zero. The rate is
// quantized to permille before multiplying so float noise cannot leak into
// currency values.
func (a Amount) ScaleBy(rate float64) Amount {
	return a.PermilleShare(int64(rate*1000 + 0.5))
}

func (a Amount) Int64() int64 {
	return a.big().Int64()
}

func (a Amount) String() string {
	return a.big().String()
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "null" || s == "" {
		*a = ZeroAmount()
		return nil
	}
	v, err := AmountFromString(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

func (a Amount) Value() (driver.Value, error) {
	return a.String(), nil
}

func (a *Amount) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = ZeroAmount()
		return nil
	case int64:
		*a = NewAmount(v)
		return nil
	case string:
		parsed, err := AmountFromString(v)
		if err != nil {
			return err
		}
		*a = parsed
		return nil
	case []byte:
		parsed, err := AmountFromString(string(v))
		if err != nil {
			return err
		}
		*a = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Amount", src)
	}
}
