package ledger

import (
	"github.com/pkg/errors"
	"github.com/tcfw/powledger/pkg/tx"
)

// Skipped is a transaction left out of a balance application.
type Skipped struct {
	Record tx.Record
	Err    error
}

type ApplyResult struct {
	Applied int
	Skipped []Skipped
}

// Book is an account book keyed by public key. Unknown keys are opened
// with a zero balance and no name.
type Book struct {
	users []*User
	idx   map[string]*User
}

func NewBook(users []User) *Book {
	b := &Book{idx: make(map[string]*User, len(users))}
	for i := range users {
		u := users[i]
		b.users = append(b.users, &u)
		b.idx[u.PublicKey] = &u
	}

	return b
}

func (b *Book) account(key string) *User {
	u, ok := b.idx[key]
	if !ok {
		u = &User{PublicKey: key}
		b.users = append(b.users, u)
		b.idx[key] = u
	}

	return u
}

func (b *Book) Balance(key string) (int64, bool) {
	u, ok := b.idx[key]
	if !ok {
		return 0, false
	}

	return u.Balance, true
}

// Users returns a copy of every account in insertion order.
func (b *Book) Users() []User {
	out := make([]User, len(b.users))
	for i, u := range b.users {
		out[i] = *u
	}

	return out
}

// Apply debits senders and credits receivers. A transaction that would take
// its sender negative is skipped unless allowNegative is set. The batch is
// not atomic.
func (b *Book) Apply(txs []tx.Record, allowNegative bool) ApplyResult {
	res := ApplyResult{}

	for _, t := range txs {
		if err := t.Validate(); err != nil {
			res.Skipped = append(res.Skipped, Skipped{Record: t, Err: err})
			continue
		}

		sender := b.account(t.Sender)
		if allowNegative {
			sender.Balance -= t.Amount
		} else if err := sender.AdjustBalance(-t.Amount); err != nil {
			res.Skipped = append(res.Skipped, Skipped{Record: t, Err: errors.Wrapf(err, "tx %s", t.ID)})
			continue
		}

		b.account(t.Receiver).Balance += t.Amount
		res.Applied++
	}

	return res
}
