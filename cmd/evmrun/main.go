// Command evmrun loads a single JSON fixture describing genesis accounts,
// a block context, and one transaction message, runs it through the
// transaction driver, and prints the resulting ExecutionResult and state
// diff. It exists to exercise the engine end to end without a full node;
// production callers embed package txn directly.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/eth2030/evmcore/log"
	"github.com/eth2030/evmcore/params"
	"github.com/eth2030/evmcore/state"
	"github.com/eth2030/evmcore/txn"
	"github.com/eth2030/evmcore/types"
)

var logger = log.Default().Module("evmrun")

func main() {
	app := &cli.App{
		Name:      "evmrun",
		Usage:     "run one transaction fixture through the EVM execution core",
		UsageText: "evmrun [--fork NAME] <fixture.json>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "fork",
				Usage: "active hardfork: frontier|homestead|tangerinewhistle|spuriousdragon|byzantium|constantinople|istanbul|berlin|london|merge|shanghai|cancun",
				Value: "cancun",
			},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		logger.Error("evmrun failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	path := ctx.Args().First()
	if path == "" {
		return cli.Exit("missing fixture path", 1)
	}
	fork, err := parseFork(ctx.String("fork"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading fixture: %w", err)
	}

	var fx Fixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		return fmt.Errorf("decoding fixture: %w", err)
	}

	db := state.New(fx.toDatabase())
	for addr, acct := range fx.Alloc {
		for key, val := range acct.Storage {
			db.SetState(types.HexToAddress(addr), types.HexToHash(key), *types.HexToWord(val))
		}
	}

	driver := txn.NewDriver(fork)
	message, err := fx.toMessage()
	if err != nil {
		return fmt.Errorf("decoding message: %w", err)
	}

	logger.Info("executing transaction", "fork", fork, "from", message.From.Hex(), "to", toString(message.To))
	result, err := driver.Execute(db, fx.toBlockInfo(), message)
	if err != nil {
		return fmt.Errorf("transaction rejected: %w", err)
	}

	return printResult(result)
}

func toString(a *types.Address) string {
	if a == nil {
		return "<create>"
	}
	return a.Hex()
}

func printResult(result *txn.ExecutionResult) error {
	diff := make(map[string]any, len(result.StateDiff))
	for addr, delta := range result.StateDiff {
		entry := map[string]any{
			"nonce":       delta.Nonce,
			"balance":     delta.Balance.Hex(),
			"destroyed":   delta.IsDestroyed,
			"created":     delta.IsCreated,
			"storageKeys": len(delta.StorageChanges),
		}
		diff[addr.Hex()] = entry
	}
	out := map[string]any{
		"status":      statusString(result.Status),
		"gasUsed":     result.GasUsed,
		"gasRefunded": result.GasRefunded,
		"output":      fmt.Sprintf("0x%x", result.Output),
		"logCount":    len(result.Logs),
		"haltReason":  haltString(result.HaltReason),
		"stateDiff":   diff,
	}
	enc, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(enc))
	return nil
}

func statusString(s txn.Status) string {
	switch s {
	case txn.StatusSuccess:
		return "success"
	case txn.StatusRevert:
		return "revert"
	case txn.StatusHalt:
		return "halt"
	default:
		return "unknown"
	}
}

func haltString(r txn.HaltReason) string {
	switch r {
	case txn.HaltOutOfGas:
		return "OutOfGas"
	case txn.HaltStackOverflow:
		return "StackOverflow"
	case txn.HaltStackUnderflow:
		return "StackUnderflow"
	case txn.HaltInvalidJump:
		return "InvalidJump"
	case txn.HaltInvalidOpcode:
		return "InvalidOpcode"
	case txn.HaltCreateCollision:
		return "CreateCollision"
	case txn.HaltCreateContractSizeLimit:
		return "CreateContractSizeLimit"
	case txn.HaltInvalidContractPrefix:
		return "InvalidContractPrefix"
	case txn.HaltCallTooDeep:
		return "CallTooDeep"
	case txn.HaltWriteInStaticContext:
		return "WriteInStaticContext"
	case txn.HaltOutOfFund:
		return "OutOfFund"
	case txn.HaltNonceOverflow:
		return "NonceOverflow"
	default:
		return ""
	}
}

func parseFork(name string) (params.Fork, error) {
	switch name {
	case "frontier":
		return params.Frontier, nil
	case "homestead":
		return params.Homestead, nil
	case "tangerinewhistle":
		return params.TangerineWhistle, nil
	case "spuriousdragon":
		return params.SpuriousDragon, nil
	case "byzantium":
		return params.Byzantium, nil
	case "constantinople":
		return params.Constantinople, nil
	case "istanbul":
		return params.Istanbul, nil
	case "berlin":
		return params.Berlin, nil
	case "london":
		return params.London, nil
	case "merge":
		return params.Merge, nil
	case "shanghai":
		return params.Shanghai, nil
	case "cancun":
		return params.Cancun, nil
	default:
		return 0, fmt.Errorf("unknown fork %q", name)
	}
}
