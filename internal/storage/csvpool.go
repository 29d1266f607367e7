package storage

import (
	"context"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/tcfw/powledger/internal/coinflip"
	"github.com/tcfw/powledger/pkg/storage"
	"github.com/tcfw/powledger/pkg/tx"
)

var (
	_ storage.TxSource = (*CSVPool)(nil)

	idFields       = []string{"transaction_id", "id", "tx_id", "txid"}
	senderFields   = []string{"sender", "from", "sender_key"}
	receiverFields = []string{"receiver", "to", "receiver_key"}
	amountFields   = []string{"amount", "value"}
	inputsFields   = []string{"inputs", "input"}
)

// csvRow is the minimal transaction CSV layout.
type csvRow struct {
	ID       string `csv:"transaction_id"`
	Sender   string `csv:"sender"`
	Receiver string `csv:"receiver"`
	Amount   int64  `csv:"amount"`
	Inputs   string `csv:"inputs"`
}

func toRows(records []tx.Record) []*csvRow {
	rows := make([]*csvRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, &csvRow{
			ID:       r.ID,
			Sender:   r.Sender,
			Receiver: r.Receiver,
			Amount:   r.Amount,
			Inputs:   tx.JoinInputs(r.Inputs),
		})
	}

	return rows
}

// CSVPool is a transaction pool kept in a CSV file. Column names are
// matched loosely and normalised into tx.Record on load.
type CSVPool struct {
	mu   sync.Mutex
	path string
}

func NewCSVPool(path string) *CSVPool {
	return &CSVPool{path: path}
}

func (p *CSVPool) load() ([]tx.Record, error) {
	f, err := os.Open(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(storage.ErrResourceUnavailable, "pool %s", p.path)
		}
		return nil, errors.Wrap(err, "opening pool")
	}
	defer f.Close()

	rows, err := gocsv.CSVToMaps(f)
	if err != nil {
		return nil, errors.Wrap(err, "reading pool csv")
	}

	records := make([]tx.Record, 0, len(rows))
	for i, row := range rows {
		r, err := normalise(row)
		if err != nil {
			return nil, errors.Wrapf(err, "pool row %d", i+1)
		}
		records = append(records, r)
	}

	return records, nil
}

func normalise(row map[string]string) (tx.Record, error) {
	lower := make(map[string]string, len(row))
	for k, v := range row {
		lower[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}

	r := tx.Record{
		ID:       pick(lower, idFields),
		Sender:   pick(lower, senderFields),
		Receiver: pick(lower, receiverFields),
		Inputs:   tx.ParseInputs(pick(lower, inputsFields)),
	}

	if a := strings.ReplaceAll(pick(lower, amountFields), ",", ""); a != "" {
		amount, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return r, errors.Wrapf(tx.ErrInvalidRecord, "amount %q", a)
		}
		r.Amount = amount
	}

	r.EnsureID()

	return r, nil
}

func pick(row map[string]string, names []string) string {
	for _, n := range names {
		if v, ok := row[n]; ok && v != "" {
			return v
		}
	}

	return ""
}

func (p *CSVPool) DrawBatch(_ context.Context, n int, seed *int64) ([]tx.Record, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	rows, err := p.load()
	if err != nil {
		return nil, err
	}

	return storage.Draw(rows, n, coinflip.New(seed)), nil
}

// RemoveByID rewrites the pool without the given ids.
func (p *CSVPool) RemoveByID(_ context.Context, ids map[string]struct{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	rows, err := p.load()
	if err != nil {
		return err
	}

	return WriteRecords(p.path, storage.Without(rows, ids))
}

func (p *CSVPool) CountRemaining(_ context.Context) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	rows, err := p.load()
	if err != nil {
		return 0, err
	}

	return len(rows), nil
}

// All returns every pending record in file order.
func (p *CSVPool) All() ([]tx.Record, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.load()
}

// WriteRecords writes records in the minimal CSV layout, replacing path.
func WriteRecords(path string, records []tx.Record) error {
	rows := toRows(records)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrap(err, "opening pool for write")
	}
	defer f.Close()

	if len(rows) == 0 {
		_, err := f.WriteString(csvHeader)
		return errors.Wrap(err, "writing pool header")
	}

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return errors.Wrap(err, "writing pool csv")
	}

	return nil
}
