package main

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"github.com/bidzyyys/stylus-uniswap-workshop/pkg/uniswapv2"
)

type quoteArgs struct {
	amount     *uint256.Int
	reserveIn  *uint256.Int
	reserveOut *uint256.Int
	fee        uniswapv2.Fee
}

func runAmountOut(cmd *cobra.Command, _ []string) error {
	args, err := parseQuoteArgs(cmd)
	if err != nil {
		return err
	}
	out, err := uniswapv2.GetAmountOut(args.amount, args.reserveIn, args.reserveOut, args.fee)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out.Dec())
	return err
}

func runAmountIn(cmd *cobra.Command, _ []string) error {
	args, err := parseQuoteArgs(cmd)
	if err != nil {
		return err
	}
	in, err := uniswapv2.GetAmountIn(args.amount, args.reserveIn, args.reserveOut, args.fee)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), in.Dec())
	return err
}

func parseQuoteArgs(cmd *cobra.Command) (quoteArgs, error) {
	var (
		args quoteArgs
		err  error
	)
	if args.amount, err = uintFlag(cmd, "amount"); err != nil {
		return args, err
	}
	if args.reserveIn, err = uintFlag(cmd, "reserve-in"); err != nil {
		return args, err
	}
	if args.reserveOut, err = uintFlag(cmd, "reserve-out"); err != nil {
		return args, err
	}
	rawFee, _ := cmd.Flags().GetString("fee")
	if args.fee, err = uniswapv2.ParseFee(rawFee); err != nil {
		return args, fmt.Errorf("--fee: %w", err)
	}
	return args, nil
}

func uintFlag(cmd *cobra.Command, name string) (*uint256.Int, error) {
	raw, _ := cmd.Flags().GetString(name)
	v, err := uint256.FromDecimal(raw)
	if err != nil {
		return nil, fmt.Errorf("--%s: %q is not an unsigned 256-bit integer", name, raw)
	}
	return v, nil
}
