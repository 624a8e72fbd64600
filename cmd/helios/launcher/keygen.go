package launcher

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh/terminal"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/heliochain/go-helios/flags"
	"github.com/heliochain/go-helios/keys"
)

// KeygenApp assembles the helios-keygen command and its subcommands.
func KeygenApp() *cli.App {
	app := flags.NewApp("helios-keygen", "Generate, recover and inspect keypair files")
	app.Flags = flags.LogFlags()
	app.Before = flags.SetupLogging
	app.Commands = []cli.Command{
		{
			Name:   "new",
			Usage:  "Generate a fresh keypair and seed phrase (-s -o PATH writes silently, add -f to overwrite)",
			Flags:  flags.KeygenWriteFlags(),
			Action: keygenNew,
		},
		{
			Name:      "pubkey",
			Usage:     "Print the public key of a keypair file",
			ArgsUsage: "<keypair-file>",
			Action:    keygenPubkey,
		},
		{
			Name:   "recover",
			Usage:  "Rebuild a keypair file from its seed phrase",
			Flags:  flags.KeygenWriteFlags(),
			Action: keygenRecover,
		},
		{
			Name:      "verify",
			Usage:     "Check that a keypair file controls the given public key",
			ArgsUsage: "<pubkey> <keypair-file>",
			Action:    keygenVerify,
		},
	}
	return app
}

// LaunchKeygen runs the keygen command with the given arguments.
func LaunchKeygen(args []string) error {
	return KeygenApp().Run(args)
}

func keygenNew(ctx *cli.Context) error {
	cfg, err := MakeKeygenConfig(ctx)
	if err != nil {
		return err
	}
	passphrase, err := resolvePassphrase(cfg)
	if err != nil {
		return err
	}

	km, mnemonic, err := keys.Generate(nil, passphrase)
	if err != nil {
		return err
	}
	if err := writeKeypair(km, cfg, passphrase); err != nil {
		return err
	}

	fmt.Fprintf(ctx.App.Writer, "Wrote new keypair to %s\n", cfg.Outfile)
	fmt.Fprintf(ctx.App.Writer, "pubkey: %s\n", km.PublicKey())
	if !cfg.Silent {
		fmt.Fprintf(ctx.App.Writer, "Save this seed phrase%s to recover your new keypair:\n%s\n",
			passphraseHint(passphrase), mnemonic)
	}
	return nil
}

func keygenPubkey(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("usage: pubkey <keypair-file>")
	}
	pk, err := keys.ReadPubkey(ctx.Args().First())
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, pk)
	return nil
}

func keygenRecover(ctx *cli.Context) error {
	cfg, err := MakeKeygenConfig(ctx)
	if err != nil {
		return err
	}
	mnemonic, err := promptLine("Enter the seed phrase: ")
	if err != nil {
		return err
	}
	passphrase, err := resolvePassphrase(cfg)
	if err != nil {
		return err
	}

	km, err := keys.Recover(mnemonic, passphrase)
	if err != nil {
		return err
	}
	if err := writeKeypair(km, cfg, passphrase); err != nil {
		return err
	}

	fmt.Fprintf(ctx.App.Writer, "Recovered keypair to %s\n", cfg.Outfile)
	fmt.Fprintf(ctx.App.Writer, "pubkey: %s\n", km.PublicKey())
	return nil
}

func keygenVerify(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return fmt.Errorf("usage: verify <pubkey> <keypair-file>")
	}
	claimed, err := readPubkeyArg(ctx.Args().Get(0))
	if err != nil {
		return err
	}

	path := ctx.Args().Get(1)
	km, err := keys.ReadFile(path, "")
	if errors.Is(err, keys.ErrDecryptionFailed) {
		passphrase, perr := promptPassword("Enter the keypair passphrase: ")
		if perr != nil {
			return perr
		}
		km, err = keys.ReadFile(path, passphrase)
	}
	if err != nil {
		return err
	}

	// prove possession, not just equality of the stored pubkey
	probe := []byte("helios-keygen verify")
	if km.PublicKey() != claimed || !km.Verify(probe, km.Sign(probe)) {
		return fmt.Errorf("verification failed: %s does not control %s", path, claimed)
	}
	fmt.Fprintln(ctx.App.Writer, "Verification success")
	return nil
}

func resolvePassphrase(cfg KeygenConfig) (string, error) {
	if cfg.NoPassphrase {
		return "", nil
	}
	first, err := promptPassword("Enter a passphrase (empty for none): ")
	if err != nil {
		return "", err
	}
	if first == "" {
		return "", nil
	}
	second, err := promptPassword("Repeat the passphrase: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", fmt.Errorf("passphrases do not match")
	}
	return first, nil
}

func writeKeypair(km *keys.KeyMaterial, cfg KeygenConfig, passphrase string) error {
	if err := os.MkdirAll(filepath.Dir(cfg.Outfile), 0700); err != nil {
		return err
	}
	return km.WriteFile(cfg.Outfile, passphrase, cfg.Force)
}

func passphraseHint(passphrase string) string {
	if passphrase == "" {
		return ""
	}
	return " and your passphrase"
}

func promptPassword(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	if terminal.IsTerminal(int(os.Stdin.Fd())) {
		raw, err := terminal.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	return readLine()
}

func promptLine(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	return readLine()
}

func readLine() (string, error) {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
