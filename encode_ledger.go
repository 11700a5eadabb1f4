package cartera

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// ErrUnknownCommand is returned when decoding a transaction with an unsupported command.
var ErrUnknownCommand = errors.New("unknown command")

// DecodeLedger decodes transactions from a stream of JSONL data, or from a single
// JSON array, and returns a sorted Ledger.
//
// Transactions without an id are given a random one.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	br := bufio.NewReader(r)
	if first, err := peekNonSpace(br); err == nil && first == '[' {
		var lines []json.RawMessage
		if err := json.NewDecoder(br).Decode(&lines); err != nil {
			return nil, fmt.Errorf("could not decode transaction array: %w", err)
		}
		ledger := NewLedger()
		for i, line := range lines {
			tx, err := decodeTransaction(line)
			if err != nil {
				return nil, fmt.Errorf("transaction #%d: %w", i, err)
			}
			ledger.Append(tx)
		}
		return ledger, nil
	}

	ledger := NewLedger()
	scanner := bufio.NewScanner(br)
	for lineno := 1; scanner.Scan(); lineno++ {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue // Skip empty lines
		}
		tx, err := decodeTransaction(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno, err)
		}
		ledger.Append(tx)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read ledger: %w", err)
	}
	return ledger, nil
}

// peekNonSpace returns the first non blank byte without consuming it.
func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.Peek(1)
		if err != nil {
			return 0, err
		}
		switch b[0] {
		case ' ', '\t', '\r', '\n':
			br.ReadByte()
		default:
			return b[0], nil
		}
	}
}

func decodeTransaction(line []byte) (Transaction, error) {
	var identifier struct {
		Command CommandType `json:"command"`
	}
	if err := json.Unmarshal(line, &identifier); err != nil {
		return nil, fmt.Errorf("could not identify command in %q: %w", string(line), err)
	}

	switch identifier.Command {
	case CmdDeposit:
		return decodeAs[Deposit](line, func(t *Deposit) *baseCmd { return &t.baseCmd })
	case CmdWithdraw:
		return decodeAs[Withdraw](line, func(t *Withdraw) *baseCmd { return &t.baseCmd })
	case CmdBuy:
		return decodeAs[Buy](line, func(t *Buy) *baseCmd { return &t.baseCmd })
	case CmdSell:
		return decodeAs[Sell](line, func(t *Sell) *baseCmd { return &t.baseCmd })
	case CmdCreate:
		return decodeAs[Create](line, func(t *Create) *baseCmd { return &t.baseCmd })
	case CmdAccredit:
		return decodeAs[Accredit](line, func(t *Accredit) *baseCmd { return &t.baseCmd })
	case CmdCoupon:
		return decodeAs[Coupon](line, func(t *Coupon) *baseCmd { return &t.baseCmd })
	case CmdAmortization:
		return decodeAs[Amortization](line, func(t *Amortization) *baseCmd { return &t.baseCmd })
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownCommand, identifier.Command)
	}
}

// decodeAs unmarshals line into a T and gives it an id if it has none.
func decodeAs[T Transaction](line []byte, base func(*T) *baseCmd) (Transaction, error) {
	var tx T
	if err := json.Unmarshal(line, &tx); err != nil {
		return nil, err
	}
	if b := base(&tx); b.ID == "" {
		b.ID = uuid.NewString()
	}
	return tx, nil
}

// EncodeLedger writes the ledger's transactions as JSONL, in chronological order.
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	for _, tx := range ledger.Transactions() {
		line, err := json.Marshal(tx)
		if err != nil {
			return fmt.Errorf("could not encode %s transaction %q: %w", tx.What(), tx.Ref(), err)
		}
		line = append(line, '\n')
		if _, err := w.Write(line); err != nil {
			return err
		}
	}
	return nil
}
