package ledger

import (
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tcfw/powledger/internal/coinflip"
	"github.com/tcfw/powledger/internal/utils/logging"
	"github.com/tcfw/powledger/pkg/digest"
	"github.com/tcfw/powledger/pkg/tx"
)

const (
	largeSpendChance = 0.3
)

// Generator owns a live UTXO set and produces transactions that spend it.
type Generator struct {
	users []User
	utxos []tx.UTXO
	txs   []tx.Transaction

	r      *rand.Rand
	logger *logrus.Entry
}

func NewGenerator(users []User, r *rand.Rand) *Generator {
	return &Generator{
		users:  users,
		r:      r,
		logger: logging.Entry().WithField("component", "generator"),
	}
}

func (g *Generator) UTXOs() []tx.UTXO {
	return g.utxos
}

func (g *Generator) Transactions() []tx.Transaction {
	return g.txs
}

// Records flattens every generated transaction.
func (g *Generator) Records() []tx.Record {
	recs := make([]tx.Record, 0, len(g.txs))
	for i := range g.txs {
		recs = append(recs, g.txs[i].Record())
	}

	return recs
}

// CreateGenesisUTXOs replaces the live set with nPerUser pieces of every
// user's balance. Each piece but the last takes 10-30% of what remains;
// a non positive piece ends that user's split.
func (g *Generator) CreateGenesisUTXOs(nPerUser int) {
	g.utxos = g.utxos[:0]

	for _, u := range g.users {
		remaining := u.Balance

		for i := 0; i < nPerUser; i++ {
			var amount int64
			if i == nPerUser-1 {
				amount = remaining
			} else {
				amount = coinflip.Fraction(g.r, remaining, 0.1, 0.3)
				remaining -= amount
			}

			if amount <= 0 {
				break
			}

			g.utxos = append(g.utxos, tx.UTXO{
				TxID:   GenesisID(u.PublicKey, i),
				Index:  i,
				Owner:  u.PublicKey,
				Amount: amount,
			})
		}
	}
}

// GenesisID is the deterministic id of a user's i'th genesis output.
func GenesisID(publicKey string, i int) string {
	return digest.Sum("genesis-" + publicKey + "-" + strconv.Itoa(i))
}

// GenerateTransactions makes up to nTxs attempts at a transaction. An
// attempt is skipped when it cannot fund a positive amount.
func (g *Generator) GenerateTransactions(nTxs, maxInputs int) error {
	if !g.hasTwoOwners() {
		return ErrTooFewUsers
	}
	if maxInputs < 1 {
		return errors.Errorf("max inputs must be positive, got %d", maxInputs)
	}

	for n := 0; n < nTxs; n++ {
		if len(g.utxos) == 0 {
			break
		}

		t, ok := g.next(maxInputs)
		if !ok {
			continue
		}

		g.txs = append(g.txs, t)
		g.utxos = append(g.utxos, t.Outputs...)
	}

	return nil
}

func (g *Generator) next(maxInputs int) (tx.Transaction, bool) {
	sender := g.utxos[g.r.Intn(len(g.utxos))].Owner

	owned := make([]tx.UTXO, 0)
	var available int64
	for _, u := range g.utxos {
		if u.Owner == sender {
			owned = append(owned, u)
			available += u.Amount
		}
	}

	receiver := g.users[g.r.Intn(len(g.users))].PublicKey
	for receiver == sender {
		receiver = g.users[g.r.Intn(len(g.users))].PublicKey
	}

	sort.SliceStable(owned, func(i, j int) bool { return owned[i].Amount < owned[j].Amount })

	var target int64
	if coinflip.Flip(g.r, largeSpendChance) {
		target = coinflip.Fraction(g.r, available, 0.6, 0.9)
	} else {
		target = coinflip.Fraction(g.r, owned[0].Amount, 0.3, 0.9)
	}

	inputs := make([]tx.UTXO, 0, maxInputs)
	var total int64
	for _, u := range owned {
		if total >= target || len(inputs) >= maxInputs {
			break
		}
		inputs = append(inputs, u)
		total += u.Amount
	}

	if total < target {
		target = coinflip.Fraction(g.r, total, 0.5, 0.9)
	}

	if target < 1 || len(inputs) == 0 {
		g.logger.WithField("sender", sender).Debug("skipping unfundable transaction")
		return tx.Transaction{}, false
	}

	g.spend(inputs)

	refs := make([]string, 0, len(inputs)+3)
	refs = append(refs, sender, receiver, strconv.FormatInt(target, 10))
	for _, in := range inputs {
		refs = append(refs, in.Ref())
	}
	id := digest.Sum(strings.Join(refs, "|"))

	outputs := []tx.UTXO{{TxID: id, Index: 0, Owner: receiver, Amount: target}}
	if change := total - target; change > 0 {
		outputs = append(outputs, tx.UTXO{TxID: id, Index: 1, Owner: sender, Amount: change})
	}

	return tx.Transaction{ID: id, Inputs: inputs, Outputs: outputs}, true
}

// spend drops inputs from the live set, keeping the order of the rest.
func (g *Generator) spend(inputs []tx.UTXO) {
	used := make(map[string]struct{}, len(inputs))
	for _, in := range inputs {
		used[in.Ref()] = struct{}{}
	}

	live := g.utxos[:0]
	for _, u := range g.utxos {
		if _, ok := used[u.Ref()]; !ok {
			live = append(live, u)
		}
	}
	g.utxos = live
}

func (g *Generator) hasTwoOwners() bool {
	for _, u := range g.users {
		if len(g.users) > 0 && u.PublicKey != g.users[0].PublicKey {
			return true
		}
	}

	return false
}

// Balances sums the live set per owner.
func (g *Generator) Balances() map[string]int64 {
	b := make(map[string]int64, len(g.users))
	for _, u := range g.utxos {
		b[u.Owner] += u.Amount
	}

	return b
}

// FinalUsers returns the registry with balances replaced by live UTXO
// totals.
func (g *Generator) FinalUsers() []User {
	b := g.Balances()

	users := make([]User, len(g.users))
	for i, u := range g.users {
		u.Balance = b[u.PublicKey]
		users[i] = u
	}

	return users
}
