package ledger

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/tcfw/powledger/pkg/digest"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrTooFewUsers       = errors.New("at least two distinct users are required")
)

type User struct {
	Name      string `yaml:"name" msgpack:"n"`
	PublicKey string `yaml:"publicKey" msgpack:"k"`
	Balance   int64  `yaml:"balance" msgpack:"b"`
}

// NewUser derives the public key from the name.
func NewUser(name string, balance int64) User {
	return User{Name: name, PublicKey: digest.Sum(name), Balance: balance}
}

// AdjustBalance adds amount, refusing to go below zero.
func (u *User) AdjustBalance(amount int64) error {
	if u.Balance+amount < 0 {
		return errors.Wrapf(ErrInsufficientFunds, "balance %d, change %d", u.Balance, amount)
	}

	u.Balance += amount
	return nil
}

func (u User) String() string {
	return fmt.Sprintf("User(name=%q, pk=%s, balance=%d)", u.Name, u.PublicKey, u.Balance)
}
