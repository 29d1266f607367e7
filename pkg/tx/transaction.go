package tx

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/tcfw/powledger/pkg/digest"
)

const (
	// InputSep joins input references in flat (CSV) records.
	InputSep = ";"
)

var (
	ErrInvalidRecord = errors.New("invalid transaction record")
)

// Record is the canonical transaction shape seen by the block builder and
// miner. Adapters loading foreign formats normalise into it.
type Record struct {
	ID       string   `msgpack:"i" json:"transaction_id,omitempty" yaml:"id,omitempty"`
	Sender   string   `msgpack:"s" json:"sender" yaml:"sender"`
	Receiver string   `msgpack:"r" json:"receiver" yaml:"receiver"`
	Amount   int64    `msgpack:"a" json:"amount" yaml:"amount"`
	Inputs   []string `msgpack:"n,omitempty" json:"inputs,omitempty" yaml:"inputs,omitempty"`
}

func (r *Record) Validate() error {
	if r.Sender == "" {
		return errors.Wrap(ErrInvalidRecord, "missing sender")
	}
	if r.Receiver == "" {
		return errors.Wrap(ErrInvalidRecord, "missing receiver")
	}
	if r.Amount < 0 {
		return errors.Wrapf(ErrInvalidRecord, "negative amount %d", r.Amount)
	}

	return nil
}

// InputRefs returns the non empty input references in order.
func (r *Record) InputRefs() []string {
	refs := make([]string, 0, len(r.Inputs))
	for _, in := range r.Inputs {
		if in != "" {
			refs = append(refs, in)
		}
	}

	return refs
}

// Canonical is the pipe joined string the record's leaf digest is taken over.
func (r *Record) Canonical() string {
	parts := append([]string{r.Sender, r.Receiver, strconv.FormatInt(r.Amount, 10)}, r.InputRefs()...)
	return strings.Join(parts, "|")
}

// EnsureID fills a missing id with the digest of the canonical form.
func (r *Record) EnsureID() {
	if r.ID == "" {
		r.ID = digest.Sum(r.Canonical())
	}
}

// ParseInputs splits a flat input field into references.
func ParseInputs(field string) []string {
	if field == "" {
		return nil
	}

	return strings.Split(field, InputSep)
}

// JoinInputs is the inverse of ParseInputs.
func JoinInputs(refs []string) string {
	return strings.Join(refs, InputSep)
}

func (r *Record) Marshal() ([]byte, error) {
	b, err := msgpack.Marshal(r)
	if err != nil {
		return nil, errors.Wrap(err, "mashaling tx record")
	}

	return b, nil
}

func (r *Record) Unmarshal(b []byte) error {
	if err := msgpack.Unmarshal(b, r); err != nil {
		return err
	}

	return r.Validate()
}

// IDs collects the non empty ids of records.
func IDs(records []Record) map[string]struct{} {
	ids := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r.ID != "" {
			ids[r.ID] = struct{}{}
		}
	}

	return ids
}
