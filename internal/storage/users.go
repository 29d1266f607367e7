package storage

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/tcfw/powledger/pkg/digest"
	"github.com/tcfw/powledger/pkg/ledger"
	"github.com/tcfw/powledger/pkg/storage"
)

var (
	_ storage.BalanceStore = (*UsersFile)(nil)
)

type usersYAML struct {
	Users []ledger.User `yaml:"users"`
}

// UsersFile is the account registry. Paths ending in .yaml or .yml are kept
// as YAML, anything else uses the fixed width text table.
type UsersFile struct {
	mu   sync.Mutex
	path string
}

func NewUsersFile(path string) *UsersFile {
	return &UsersFile{path: path}
}

func (u *UsersFile) isYAML() bool {
	switch strings.ToLower(filepath.Ext(u.path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func (u *UsersFile) Load(_ context.Context) ([]ledger.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	f, err := os.Open(u.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(storage.ErrResourceUnavailable, "users file %s", u.path)
		}
		return nil, errors.Wrap(err, "opening users file")
	}
	defer f.Close()

	if u.isYAML() {
		d, err := ioutil.ReadAll(f)
		if err != nil {
			return nil, errors.Wrap(err, "reading users file")
		}

		users := usersYAML{}
		if err := yaml.Unmarshal(d, &users); err != nil {
			return nil, errors.Wrap(err, "unmarshalling users")
		}

		return users.Users, nil
	}

	return ReadUsersTable(f)
}

func (u *UsersFile) Save(_ context.Context, users []ledger.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	f, err := os.OpenFile(u.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrap(err, "opening users file for write")
	}
	defer f.Close()

	if u.isYAML() {
		d, err := yaml.Marshal(&usersYAML{Users: users})
		if err != nil {
			return errors.Wrap(err, "marshalling users")
		}

		_, err = f.Write(d)
		return err
	}

	return WriteUsersTable(f, users)
}

// WriteUsersTable writes the fixed width registry: a header, a dashed rule
// and one row per user with a thousands separated balance.
func WriteUsersTable(w io.Writer, users []ledger.User) error {
	header := fmt.Sprintf("%-30s %-10s %12s\n", "Name", "PublicKey", "Balance")
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}

	if _, err := io.WriteString(w, strings.Repeat("-", len(header))+"\n"); err != nil {
		return err
	}

	for _, user := range users {
		if _, err := fmt.Fprintf(w, "%-30s %-10s %12s\n", user.Name, user.PublicKey, humanize.Comma(user.Balance)); err != nil {
			return err
		}
	}

	return nil
}

// ReadUsersTable parses the fixed width registry. The first 8 hex character
// token on a row is the public key, everything before it the name and the
// token after it the balance.
func ReadUsersTable(r io.Reader) ([]ledger.User, error) {
	users := []ledger.User{}

	s := bufio.NewScanner(r)
	line := 0
	for s.Scan() {
		line++
		if line <= 2 {
			continue
		}

		parts := strings.Fields(s.Text())
		for i, part := range parts {
			part = strings.ToLower(part)
			if !digest.IsValid(part) || i+1 >= len(parts) {
				continue
			}

			balance, err := strconv.ParseInt(strings.ReplaceAll(parts[i+1], ",", ""), 10, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "parsing balance on line %d", line)
			}

			users = append(users, ledger.User{
				Name:      strings.Join(parts[:i], " "),
				PublicKey: part,
				Balance:   balance,
			})
			break
		}
	}

	if err := s.Err(); err != nil {
		return nil, errors.Wrap(err, "scanning users file")
	}

	return users, nil
}
