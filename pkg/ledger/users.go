package ledger

import (
	"fmt"
	"math/rand"
)

var (
	firstNames = []string{"Aistis", "Benas", "Domas", "Jokubas", "Fabrielius", "Algirdas", "Jonas", "Kęstutis", "Linas", "Mindaugas"}
	lastNames  = []string{"Kazlauskas", "Petraitis", "Jankauskas", "Stankevičius", "Paulauskas", "Vilkas", "Bublys", "Baronas"}
)

// UserGenerator makes a synthetic registry with uniformly drawn balances.
type UserGenerator struct {
	N          int
	MinBalance int64
	MaxBalance int64
}

func (g *UserGenerator) Generate(r *rand.Rand) []User {
	users := make([]User, 0, g.N)
	for i := 1; i <= g.N; i++ {
		name := fmt.Sprintf("#%d %s %s", i, firstNames[r.Intn(len(firstNames))], lastNames[r.Intn(len(lastNames))])
		users = append(users, NewUser(name, g.balance(r)))
	}

	return users
}

func (g *UserGenerator) balance(r *rand.Rand) int64 {
	if g.MaxBalance <= g.MinBalance {
		return g.MinBalance
	}

	return g.MinBalance + r.Int63n(g.MaxBalance-g.MinBalance+1)
}
