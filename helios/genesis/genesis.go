// Package genesis defines the genesis configuration of a cluster: the
// accounts seeded at slot zero, the bootstrap validator triple, and the
// scheduling and economic parameters every later node must agree on.
//
// A Config is constructed once, validated, canonically serialized and
// hashed. The hash is the cluster's root of trust: two nodes are on the
// same cluster exactly when their genesis hashes match.
package genesis

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/heliochain/go-helios/helios"
	"github.com/heliochain/go-helios/inter"
	"github.com/heliochain/go-helios/inter/accountpk"
)

var (
	ErrInvalidAccountDeclaration = errors.New("invalid account declaration")
	ErrBootstrapTripleMismatch   = errors.New("bootstrap validator triple mismatch")
	ErrSupplyOverflow            = errors.New("declared balances exceed the maximum supply")
)

// Role tags the purpose of a genesis account.
type Role uint8

const (
	RoleOther Role = iota
	RoleFaucet
	RoleBootstrapIdentity
	RoleBootstrapVote
	RoleBootstrapStake
)

func (r Role) String() string {
	switch r {
	case RoleFaucet:
		return "faucet"
	case RoleBootstrapIdentity:
		return "bootstrap-identity"
	case RoleBootstrapVote:
		return "bootstrap-vote"
	case RoleBootstrapStake:
		return "bootstrap-stake"
	default:
		return "other"
	}
}

// Well-known owning program identifiers. Derived from fixed labels so
// they are stable constants without a registry.
var (
	SystemProgramID = programID("system")
	VoteProgramID   = programID("vote")
	StakeProgramID  = programID("stake")
)

func programID(name string) accountpk.PubKey {
	h := sha256.Sum256([]byte("helios-program/" + name))
	return accountpk.PubKey(h)
}

// AccountDeclaration describes one account seeded at genesis. The
// reference fields are only meaningful for the bootstrap vote and stake
// roles and stay zero otherwise.
type AccountDeclaration struct {
	Pubkey   accountpk.PubKey
	Lamports inter.Lamports
	Owner    accountpk.PubKey
	Role     Role

	// NodeIdentity is the validator identity a vote account votes for.
	NodeIdentity accountpk.PubKey

	// Delegate is the vote account a stake account delegates to.
	Delegate accountpk.PubKey

	// Authorized may manage a stake account; defaults to the validator
	// identity.
	Authorized accountpk.PubKey
}

// BootstrapValidator is the identity/vote/stake triple seeded so a single
// validator can start the cluster before any other stake exists.
type BootstrapValidator struct {
	Identity AccountDeclaration
	Vote     AccountDeclaration
	Stake    AccountDeclaration
}

// NewBootstrapValidator wires a consistent triple: the vote account
// records the identity, the stake account delegates to the vote account.
// An empty authorized key defaults to the identity.
func NewBootstrapValidator(
	identity, vote, stake accountpk.PubKey,
	identityLamports, voteLamports, stakeLamports inter.Lamports,
	authorized accountpk.PubKey,
) BootstrapValidator {
	if authorized.Empty() {
		authorized = identity
	}
	return BootstrapValidator{
		Identity: AccountDeclaration{
			Pubkey:   identity,
			Lamports: identityLamports,
			Owner:    SystemProgramID,
			Role:     RoleBootstrapIdentity,
		},
		Vote: AccountDeclaration{
			Pubkey:       vote,
			Lamports:     voteLamports,
			Owner:        VoteProgramID,
			Role:         RoleBootstrapVote,
			NodeIdentity: identity,
		},
		Stake: AccountDeclaration{
			Pubkey:     stake,
			Lamports:   stakeLamports,
			Owner:      StakeProgramID,
			Role:       RoleBootstrapStake,
			Delegate:   vote,
			Authorized: authorized,
		},
	}
}

// FaucetAccount declares the faucet with the given balance.
func FaucetAccount(pubkey accountpk.PubKey, lamports inter.Lamports) AccountDeclaration {
	return AccountDeclaration{
		Pubkey:   pubkey,
		Lamports: lamports,
		Owner:    SystemProgramID,
		Role:     RoleFaucet,
	}
}

// Config is the complete genesis state of a cluster. Immutable once
// built; the canonical serialization of this struct is what gets hashed
// and archived.
type Config struct {
	// CreationTime is fixed by the builder, never sampled during
	// serialization.
	CreationTime inter.Timestamp

	ClusterType helios.ClusterType

	// Accounts are the extra seeded accounts, faucet included. Order is
	// irrelevant; the canonical encoding sorts by pubkey.
	Accounts []AccountDeclaration

	Bootstrap BootstrapValidator

	EpochSchedule helios.EpochSchedule

	// TicksPerSlot ticks form one slot; HashesPerTick is the chain
	// density (0 = low power); TargetTickDuration is the wall-clock
	// pacing goal, stored canonically as nanoseconds.
	TicksPerSlot       uint64
	HashesPerTick      uint64
	TargetTickDuration time.Duration

	Fee  helios.FeeParams
	Rent helios.RentParams
}

// allAccounts returns the triple plus the declared accounts, in
// declaration order.
func (c *Config) allAccounts() []AccountDeclaration {
	all := make([]AccountDeclaration, 0, len(c.Accounts)+3)
	all = append(all, c.Bootstrap.Identity, c.Bootstrap.Vote, c.Bootstrap.Stake)
	all = append(all, c.Accounts...)
	return all
}

// Validate runs the construction checks in a fixed order and reports the
// first violation:
//
//	1. pubkey uniqueness across the whole declaration set
//	2. bootstrap triple cross references
//	3. total declared supply within bounds
//	4. recognized cluster type
func (c *Config) Validate() error {
	seen := make(map[accountpk.PubKey]struct{})
	for _, acc := range c.allAccounts() {
		if acc.Pubkey.Empty() {
			return fmt.Errorf("%w: empty pubkey (%s)", ErrInvalidAccountDeclaration, acc.Role)
		}
		if _, ok := seen[acc.Pubkey]; ok {
			return fmt.Errorf("%w: duplicate pubkey %s", ErrInvalidAccountDeclaration, acc.Pubkey)
		}
		seen[acc.Pubkey] = struct{}{}
	}

	b := &c.Bootstrap
	if b.Identity.Role != RoleBootstrapIdentity ||
		b.Vote.Role != RoleBootstrapVote ||
		b.Stake.Role != RoleBootstrapStake {
		return fmt.Errorf("%w: wrong roles in triple", ErrBootstrapTripleMismatch)
	}
	if b.Vote.NodeIdentity != b.Identity.Pubkey {
		return fmt.Errorf("%w: vote account records identity %s, expected %s",
			ErrBootstrapTripleMismatch, b.Vote.NodeIdentity, b.Identity.Pubkey)
	}
	if b.Stake.Delegate != b.Vote.Pubkey {
		return fmt.Errorf("%w: stake account delegates to %s, expected %s",
			ErrBootstrapTripleMismatch, b.Stake.Delegate, b.Vote.Pubkey)
	}

	if _, err := c.TotalSupply(); err != nil {
		return err
	}

	if !c.ClusterType.Valid() {
		return fmt.Errorf("%w: %d", helios.ErrUnrecognizedClusterType, uint8(c.ClusterType))
	}

	if err := c.Fee.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAccountDeclaration, err)
	}
	if err := c.Rent.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAccountDeclaration, err)
	}
	return nil
}

// TotalSupply sums every declared balance with overflow checking against
// the supply cap.
func (c *Config) TotalSupply() (inter.Lamports, error) {
	var sum inter.Lamports
	for _, acc := range c.allAccounts() {
		next := sum + acc.Lamports
		if next < sum || next > helios.MaxGenesisSupply {
			return 0, fmt.Errorf("%w: cap %d", ErrSupplyOverflow, helios.MaxGenesisSupply)
		}
		sum = next
	}
	return sum, nil
}
