package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperationArgsRoundTrip(t *testing.T) {
	t.Run("Single mint is positional", func(t *testing.T) {
		op := MintTokenOp{EventID: 7, Recipient: "0xAAA0000000000000000000000000000000000001"}
		args, err := op.MarshalArgs()
		assert.NoError(t, err)
		assert.Equal(t, `[7,"0xAAA0000000000000000000000000000000000001"]`, args)

		parsed, err := ParseOperation(OpMintToken, args)
		assert.NoError(t, err)
		assert.Equal(t, op, parsed)
	})

	t.Run("Batch mint to users", func(t *testing.T) {
		op := MintEventToManyUsersOp{EventID: 7, Recipients: []string{"0xA", "0xB"}}
		args, err := op.MarshalArgs()
		assert.NoError(t, err)

		parsed, err := ParseOperation(OpMintEventToManyUsers, args)
		assert.NoError(t, err)
		assert.Equal(t, op, parsed)
	})

	t.Run("Mint user to many events is keyed", func(t *testing.T) {
		op := MintUserToManyEventsOp{EventIDs: []uint64{1, 2, 3}, Recipient: "0xA"}
		args, err := op.MarshalArgs()
		assert.NoError(t, err)
		assert.Equal(t, `{"eventIds":[1,2,3],"address":"0xA"}`, args)

		parsed, err := ParseOperation(OpMintUserToManyEvents, args)
		assert.NoError(t, err)
		assert.Equal(t, op, parsed)
	})

	t.Run("Delegated mint", func(t *testing.T) {
		op := MintDelegatedOp{EventID: 7, TokenID: 3, Recipient: "0xA", Signature: "0xsig"}
		args, err := op.MarshalArgs()
		assert.NoError(t, err)

		parsed, err := ParseOperation(OpMintDelegated, args)
		assert.NoError(t, err)
		assert.Equal(t, op, parsed)
	})

	t.Run("Burn and vote", func(t *testing.T) {
		burnArgs, err := BurnTokenOp{TokenID: 3}.MarshalArgs()
		assert.NoError(t, err)
		assert.Equal(t, `[3]`, burnArgs)

		parsedBurn, err := ParseOperation(OpBurnToken, burnArgs)
		assert.NoError(t, err)
		assert.Equal(t, BurnTokenOp{TokenID: 3}, parsedBurn)

		voteArgs, err := VoteOp{ProposalID: 11}.MarshalArgs()
		assert.NoError(t, err)

		parsedVote, err := ParseOperation(OpVote, voteArgs)
		assert.NoError(t, err)
		assert.Equal(t, VoteOp{ProposalID: 11}, parsedVote)
	})
}

func TestParseOperationRejectsUnknownKind(t *testing.T) {
	_, err := ParseOperation(OperationKind("teleport"), `[]`)
	assert.Error(t, err)
}

func TestParseOperationRejectsMalformedArguments(t *testing.T) {
	_, err := ParseOperation(OpMintToken, `not json`)
	assert.Error(t, err)

	_, err = ParseOperation(OpMintToken, `[7]`)
	assert.Error(t, err)

	_, err = ParseOperation(OpBurnToken, `["not-a-number"]`)
	assert.Error(t, err)
}
