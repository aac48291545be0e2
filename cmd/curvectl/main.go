package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "curvectl",
		Short:        "Offline constant-product swap quotes",
		SilenceUsage: true,
	}

	amountOutCmd := &cobra.Command{
		Use:   "amount-out",
		Short: "Output amount received for an exact input",
		RunE:  runAmountOut,
	}
	amountInCmd := &cobra.Command{
		Use:   "amount-in",
		Short: "Input amount required for an exact output",
		RunE:  runAmountIn,
	}

	for _, cmd := range []*cobra.Command{amountOutCmd, amountInCmd} {
		cmd.Flags().String("amount", "", "swap amount in base units")
		cmd.Flags().String("reserve-in", "", "reserve of the input token")
		cmd.Flags().String("reserve-out", "", "reserve of the output token")
		cmd.Flags().String("fee", "997/1000", "fee as numerator/denominator")
		for _, name := range []string{"amount", "reserve-in", "reserve-out"} {
			if err := cmd.MarkFlagRequired(name); err != nil {
				panic(fmt.Sprintf("mark %s required: %v", name, err))
			}
		}
		root.AddCommand(cmd)
	}

	return root
}
