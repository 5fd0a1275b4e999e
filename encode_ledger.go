package tradebook

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// CommandType identifies an instruction of a replay stream.
type CommandType string

// Command types of a replay stream.
const (
	CmdOpen     CommandType = "open"
	CmdDeposit  CommandType = "deposit"
	CmdWithdraw CommandType = "withdraw"
	CmdBuy      CommandType = "buy"
	CmdSell     CommandType = "sell"
)

// Instruction is one line of a replay stream, e.g.
//
//	{"command":"buy","account":"a1","symbol":"eth","quantity":"0.1","price":100.005}
//
// Numbers may be written as JSON numbers or strings, both are kept exact.
// Amount is the initial balance of an "open" instruction.
type Instruction struct {
	Line     int         `json:"-"`
	Command  CommandType `json:"command"`
	Account  string      `json:"account"`
	Amount   Number      `json:"amount"`
	Symbol   string      `json:"symbol"`
	Quantity Number      `json:"quantity"`
	Price    Number      `json:"price"`
}

// DecodeInstructions reads a JSONL stream of instructions. Empty lines are
// skipped.
func DecodeInstructions(r io.Reader) ([]Instruction, error) {
	var instructions []Instruction
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		lineBytes := scanner.Bytes()
		if len(strings.TrimSpace(string(lineBytes))) == 0 {
			continue
		}
		var in Instruction
		if err := json.Unmarshal(lineBytes, &in); err != nil {
			return nil, fmt.Errorf("line %d: could not decode instruction %q: %w", line, string(lineBytes), err)
		}
		in.Line = line
		in.Command = CommandType(strings.ToLower(strings.TrimSpace(string(in.Command))))
		switch in.Command {
		case CmdOpen, CmdDeposit, CmdWithdraw, CmdBuy, CmdSell:
		default:
			return nil, fmt.Errorf("line %d: unknown command %q", line, in.Command)
		}
		instructions = append(instructions, in)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return instructions, nil
}

// Apply executes in against the ledger, opening accounts in dir. It returns
// the recorded transaction, or a zero record for "open".
func (in Instruction) Apply(dir *AccountDirectory, ledger *Ledger) (TransactionRecord, error) {
	switch in.Command {
	case CmdOpen:
		_, err := dir.Open(in.Account, in.Amount)
		return TransactionRecord{}, err
	case CmdDeposit:
		return ledger.RecordDeposit(in.Account, in.Amount)
	case CmdWithdraw:
		return ledger.RecordWithdrawal(in.Account, in.Amount)
	case CmdBuy:
		return ledger.RecordBuy(in.Account, in.Symbol, in.Quantity, in.Price)
	case CmdSell:
		return ledger.RecordSell(in.Account, in.Symbol, in.Quantity, in.Price)
	default:
		return TransactionRecord{}, fmt.Errorf("unknown command %q", in.Command)
	}
}

// EncodeRecords writes records as JSONL, one record per line.
func EncodeRecords(w io.Writer, records []TransactionRecord) error {
	for _, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("could not encode transaction %s: %w", r.id, err)
		}
		if _, err := fmt.Fprintln(w, string(data)); err != nil {
			return err
		}
	}
	return nil
}
