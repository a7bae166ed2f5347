package models

import (
	"encoding/json"
	"fmt"
)

// Operation is a closed union over the supported chain actions. Each variant
// carries its own typed argument payload and knows how to serialize it for
// the server_transactions arguments column.
//
// Most operations serialize positionally; MintUserToManyEventsOp uses keyed
// fields, matching the shape consumed by the bump path.
type Operation interface {
	Kind() OperationKind
	MarshalArgs() (string, error)
}

type MintTokenOp struct {
	EventID   uint64
	Recipient string
}

func (o MintTokenOp) Kind() OperationKind { return OpMintToken }

func (o MintTokenOp) MarshalArgs() (string, error) {
	return marshalArgs([]interface{}{o.EventID, o.Recipient})
}

type MintEventToManyUsersOp struct {
	EventID    uint64
	Recipients []string
}

func (o MintEventToManyUsersOp) Kind() OperationKind { return OpMintEventToManyUsers }

func (o MintEventToManyUsersOp) MarshalArgs() (string, error) {
	return marshalArgs([]interface{}{o.EventID, o.Recipients})
}

type MintUserToManyEventsOp struct {
	EventIDs  []uint64 `json:"eventIds"`
	Recipient string   `json:"address"`
}

func (o MintUserToManyEventsOp) Kind() OperationKind { return OpMintUserToManyEvents }

func (o MintUserToManyEventsOp) MarshalArgs() (string, error) {
	return marshalArgs(o)
}

type BurnTokenOp struct {
	TokenID uint64
}

func (o BurnTokenOp) Kind() OperationKind { return OpBurnToken }

func (o BurnTokenOp) MarshalArgs() (string, error) {
	return marshalArgs([]interface{}{o.TokenID})
}

type MintDelegatedOp struct {
	EventID   uint64
	TokenID   uint64
	Recipient string
	Signature string
}

func (o MintDelegatedOp) Kind() OperationKind { return OpMintDelegated }

func (o MintDelegatedOp) MarshalArgs() (string, error) {
	return marshalArgs([]interface{}{o.EventID, o.TokenID, o.Recipient, o.Signature})
}

type VoteOp struct {
	ProposalID uint64
}

func (o VoteOp) Kind() OperationKind { return OpVote }

func (o VoteOp) MarshalArgs() (string, error) {
	return marshalArgs([]interface{}{o.ProposalID})
}

func marshalArgs(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ParseOperation rebuilds a typed operation from a stored transaction row.
// An unknown kind or a malformed payload is a data-integrity error, not a
// transient condition.
func ParseOperation(kind OperationKind, args string) (Operation, error) {
	switch kind {
	case OpMintToken:
		var raw []json.RawMessage
		if err := unmarshalPositional(args, &raw, 2); err != nil {
			return nil, err
		}
		var op MintTokenOp
		if err := json.Unmarshal(raw[0], &op.EventID); err != nil {
			return nil, fmt.Errorf("operation %s: %w", kind, err)
		}
		if err := json.Unmarshal(raw[1], &op.Recipient); err != nil {
			return nil, fmt.Errorf("operation %s: %w", kind, err)
		}
		return op, nil
	case OpMintEventToManyUsers:
		var raw []json.RawMessage
		if err := unmarshalPositional(args, &raw, 2); err != nil {
			return nil, err
		}
		var op MintEventToManyUsersOp
		if err := json.Unmarshal(raw[0], &op.EventID); err != nil {
			return nil, fmt.Errorf("operation %s: %w", kind, err)
		}
		if err := json.Unmarshal(raw[1], &op.Recipients); err != nil {
			return nil, fmt.Errorf("operation %s: %w", kind, err)
		}
		return op, nil
	case OpMintUserToManyEvents:
		var op MintUserToManyEventsOp
		if err := json.Unmarshal([]byte(args), &op); err != nil {
			return nil, fmt.Errorf("operation %s: %w", kind, err)
		}
		return op, nil
	case OpBurnToken:
		var raw []json.RawMessage
		if err := unmarshalPositional(args, &raw, 1); err != nil {
			return nil, err
		}
		var op BurnTokenOp
		if err := json.Unmarshal(raw[0], &op.TokenID); err != nil {
			return nil, fmt.Errorf("operation %s: %w", kind, err)
		}
		return op, nil
	case OpMintDelegated:
		var raw []json.RawMessage
		if err := unmarshalPositional(args, &raw, 4); err != nil {
			return nil, err
		}
		var op MintDelegatedOp
		if err := json.Unmarshal(raw[0], &op.EventID); err != nil {
			return nil, fmt.Errorf("operation %s: %w", kind, err)
		}
		if err := json.Unmarshal(raw[1], &op.TokenID); err != nil {
			return nil, fmt.Errorf("operation %s: %w", kind, err)
		}
		if err := json.Unmarshal(raw[2], &op.Recipient); err != nil {
			return nil, fmt.Errorf("operation %s: %w", kind, err)
		}
		if err := json.Unmarshal(raw[3], &op.Signature); err != nil {
			return nil, fmt.Errorf("operation %s: %w", kind, err)
		}
		return op, nil
	case OpVote:
		var raw []json.RawMessage
		if err := unmarshalPositional(args, &raw, 1); err != nil {
			return nil, err
		}
		var op VoteOp
		if err := json.Unmarshal(raw[0], &op.ProposalID); err != nil {
			return nil, fmt.Errorf("operation %s: %w", kind, err)
		}
		return op, nil
	default:
		return nil, fmt.Errorf("unsupported operation kind %q", kind)
	}
}

func unmarshalPositional(args string, raw *[]json.RawMessage, want int) error {
	if err := json.Unmarshal([]byte(args), raw); err != nil {
		return fmt.Errorf("invalid operation arguments: %w", err)
	}
	if len(*raw) != want {
		return fmt.Errorf("invalid operation arguments: expected %d values, got %d", want, len(*raw))
	}
	return nil
}
