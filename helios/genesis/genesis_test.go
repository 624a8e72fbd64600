package genesis

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/heliochain/go-helios/helios"
	"github.com/heliochain/go-helios/inter"
	"github.com/heliochain/go-helios/inter/accountpk"
)

func testPubkey(b byte) accountpk.PubKey {
	var pk accountpk.PubKey
	pk[0] = b
	pk[31] = b ^ 0xff
	return pk
}

func testConfig() *Config {
	preset := helios.PresetFor(helios.Development)
	bootstrap := NewBootstrapValidator(
		testPubkey(1), testPubkey(2), testPubkey(3),
		inter.Lamports(preset.BootstrapValidatorLamports()),
		preset.Rent.MinimumBalance(helios.VoteAccountSize),
		inter.Lamports(preset.BootstrapValidatorStakeLamports()),
		accountpk.PubKey{},
	)
	return &Config{
		CreationTime:       inter.Timestamp(1700000000 * uint64(time.Second)),
		ClusterType:        helios.Development,
		Accounts:           []AccountDeclaration{FaucetAccount(testPubkey(4), 500_000_000_000_000_000)},
		Bootstrap:          bootstrap,
		EpochSchedule:      preset.EpochSchedule(),
		TicksPerSlot:       preset.TicksPerSlot,
		HashesPerTick:      helios.DefaultHashesPerTick,
		TargetTickDuration: preset.TargetTickDuration,
		Fee:                preset.Fee,
		Rent:               preset.Rent,
	}
}

func TestValidateOK(t *testing.T) {
	require := require.New(t)

	cfg := testConfig()
	require.NoError(cfg.Validate())

	supply, err := cfg.TotalSupply()
	require.NoError(err)
	require.True(supply > inter.Lamports(500_000_000_000_000_000))
}

func TestValidateDuplicatePubkey(t *testing.T) {
	require := require.New(t)

	cfg := testConfig()
	cfg.Accounts = append(cfg.Accounts, AccountDeclaration{
		Pubkey:   testPubkey(4), // same as the faucet
		Lamports: 1,
		Owner:    SystemProgramID,
		Role:     RoleOther,
	})
	err := cfg.Validate()
	require.True(errors.Is(err, ErrInvalidAccountDeclaration))
}

func TestValidateEmptyPubkey(t *testing.T) {
	require := require.New(t)

	cfg := testConfig()
	cfg.Accounts = append(cfg.Accounts, AccountDeclaration{Lamports: 1})
	err := cfg.Validate()
	require.True(errors.Is(err, ErrInvalidAccountDeclaration))
}

func TestValidateTripleMismatch(t *testing.T) {
	require := require.New(t)

	// vote account recording a foreign identity
	cfg := testConfig()
	cfg.Bootstrap.Vote.NodeIdentity = testPubkey(9)
	err := cfg.Validate()
	require.True(errors.Is(err, ErrBootstrapTripleMismatch))

	// stake delegating to a foreign vote account
	cfg = testConfig()
	cfg.Bootstrap.Stake.Delegate = testPubkey(9)
	err = cfg.Validate()
	require.True(errors.Is(err, ErrBootstrapTripleMismatch))

	// wrong role tag
	cfg = testConfig()
	cfg.Bootstrap.Stake.Role = RoleOther
	err = cfg.Validate()
	require.True(errors.Is(err, ErrBootstrapTripleMismatch))
}

func TestValidateSupplyOverflow(t *testing.T) {
	require := require.New(t)

	cfg := testConfig()
	cfg.Accounts = append(cfg.Accounts,
		AccountDeclaration{Pubkey: testPubkey(5), Lamports: inter.Lamports(helios.MaxGenesisSupply), Owner: SystemProgramID},
	)
	err := cfg.Validate()
	require.True(errors.Is(err, ErrSupplyOverflow))
}

func TestValidateClusterType(t *testing.T) {
	require := require.New(t)

	cfg := testConfig()
	cfg.ClusterType = helios.ClusterType(42)
	err := cfg.Validate()
	require.True(errors.Is(err, helios.ErrUnrecognizedClusterType))
}

func TestValidationOrder(t *testing.T) {
	require := require.New(t)

	// a config violating several rules reports the duplicate first
	cfg := testConfig()
	cfg.Accounts = append(cfg.Accounts, FaucetAccount(testPubkey(4), 1))
	cfg.Bootstrap.Vote.NodeIdentity = testPubkey(9)
	cfg.ClusterType = helios.ClusterType(42)

	err := cfg.Validate()
	require.True(errors.Is(err, ErrInvalidAccountDeclaration))
}

func TestNewBootstrapValidatorDefaults(t *testing.T) {
	require := require.New(t)

	b := NewBootstrapValidator(
		testPubkey(1), testPubkey(2), testPubkey(3),
		1, 2, 3,
		accountpk.PubKey{},
	)
	require.Equal(testPubkey(1), b.Vote.NodeIdentity)
	require.Equal(testPubkey(2), b.Stake.Delegate)
	// stake authority defaults to the identity
	require.Equal(testPubkey(1), b.Stake.Authorized)

	b = NewBootstrapValidator(
		testPubkey(1), testPubkey(2), testPubkey(3),
		1, 2, 3,
		testPubkey(7),
	)
	require.Equal(testPubkey(7), b.Stake.Authorized)
}
