package form

import (
	"errors"
	"strings"
	"testing"

	"github.com/blues/arbigrants/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validContracts = "0x077ab174ac10c904c5393f65fade8279dfbd3779, 0xA0B9EBD2CC138E0748C69BAF66DF2E01C57521EC"

func validInput() Input {
	return Input{
		Name:         "Foo",
		Description:  "x",
		Chain:        "Arbitrum One",
		Website:      "https://f.io",
		Twitter:      "@f",
		Category:     "DeFi",
		HasGithub:    No,
		HasDefiLlama: No,
		HasContracts: Yes,
		Contracts:    validContracts,
		HasDune:      No,
		Logo:         &model.Logo{Filename: "foo.png", Data: []byte("png")},
	}
}

func validationField(t *testing.T, err error) string {
	t.Helper()

	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected *ValidationError, got %v", err)
	return verr.Field
}

func TestMissingFields(t *testing.T) {
	t.Parallel()

	assert.Empty(t, MissingFields(validInput()))
	assert.True(t, Ready(validInput()))

	in := validInput()
	in.Twitter = "   "
	in.HasDune = ""
	in.Logo = nil
	assert.Equal(t, []string{"twitter", "has_dune", "logo"}, MissingFields(in))
	assert.False(t, Ready(in))

	in = validInput()
	in.Logo = &model.Logo{Filename: "empty.png"}
	assert.Equal(t, []string{"logo"}, MissingFields(in))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(in *Input)
		wantField string
	}{
		{name: "valid", mutate: func(*Input) {}},
		{name: "description at limit", mutate: func(in *Input) { in.Description = strings.Repeat("a", 250) }},
		{name: "multibyte description at limit", mutate: func(in *Input) { in.Description = strings.Repeat("ü", 250) }},
		{name: "description too long", mutate: func(in *Input) { in.Description = strings.Repeat("a", 251) }, wantField: "description"},
		{name: "missing name", mutate: func(in *Input) { in.Name = "" }, wantField: "name"},
		{name: "unknown chain", mutate: func(in *Input) { in.Chain = "Ethereum" }, wantField: "chain"},
		{name: "unknown category", mutate: func(in *Input) { in.Category = "Memes" }, wantField: "category"},
		{name: "bad selector", mutate: func(in *Input) { in.HasGithub = "maybe" }, wantField: "has_github"},
		{name: "invalid address", mutate: func(in *Input) { in.Contracts = validContracts + ", 0x1234" }, wantField: "contracts"},
		{name: "invalid address ignored when selector is no", mutate: func(in *Input) {
			in.HasContracts = No
			in.Contracts = "not-an-address"
		}},
		{name: "empty contracts with yes", mutate: func(in *Input) { in.Contracts = "  " }},
		{name: "gif logo", mutate: func(in *Input) { in.Logo.Filename = "foo.gif" }, wantField: "logo"},
		{name: "uppercase jpeg logo", mutate: func(in *Input) { in.Logo.Filename = "FOO.JPEG" }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			in := validInput()
			tt.mutate(&in)

			sub, err := Validate(in)
			if tt.wantField != "" {
				require.Nil(t, sub)
				assert.Equal(t, tt.wantField, validationField(t, err))
				return
			}
			require.NoError(t, err)
			require.NotNil(t, sub)
		})
	}
}

func TestValidate_ConditionalFields(t *testing.T) {
	t.Parallel()

	in := validInput()
	in.HasGithub = "YES"
	in.Github = " https://github.com/foo "
	in.HasDefiLlama = No
	in.DefiLlama = "https://defillama.com/protocol/foo"
	in.HasDune = Yes
	in.Dune = "https://dune.com/foo"

	sub, err := Validate(in)
	require.NoError(t, err)

	assert.Equal(t, "https://github.com/foo", sub.Github)
	assert.Empty(t, sub.DefiLlama)
	assert.Equal(t, "https://dune.com/foo", sub.Dune)
	assert.Equal(t, validContracts, sub.Contracts)
	assert.Equal(t, model.ChainArbitrumOne, sub.Chain)
	assert.Equal(t, model.CategoryDeFi, sub.Category)
	assert.Equal(t, "foo.png", sub.Logo.Filename)
}

func TestValidate_Messages(t *testing.T) {
	t.Parallel()

	in := validInput()
	in.Description = strings.Repeat("a", 251)
	_, err := Validate(in)
	assert.EqualError(t, err, "Description is too long. Please shorten it.")

	in = validInput()
	in.Contracts = "0xnothex"
	_, err = Validate(in)
	assert.EqualError(t, err, "Invalid contract address. Please check your contract addresses.")
}

func TestSession(t *testing.T) {
	t.Parallel()

	s := NewSession()
	assert.Equal(t, Collecting, s.State())

	sub, ok := s.Take()
	assert.False(t, ok)
	assert.Nil(t, sub)

	bad := validInput()
	bad.Description = strings.Repeat("a", 251)
	require.Error(t, s.Submit(bad))
	assert.Equal(t, Collecting, s.State())
	_, ok = s.Take()
	assert.False(t, ok, "rejected input leaves nothing pending")

	require.NoError(t, s.Submit(validInput()))
	assert.Equal(t, Submitted, s.State())
	assert.Equal(t, "submitted", s.State().String())

	require.ErrorIs(t, s.Submit(validInput()), ErrAlreadySubmitted)

	sub, ok = s.Take()
	require.True(t, ok)
	assert.Equal(t, "Foo", sub.Name)

	_, ok = s.Take()
	assert.False(t, ok, "record is handed out once")
	assert.Equal(t, Submitted, s.State())
}
