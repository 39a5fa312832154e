package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"shader-studio/calc"
)

func newCalcCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "calc EXPRESSION...",
		Short: "Evaluate an arithmetic expression",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var e calc.Evaluator
			if err := e.Init(cmd.Context()); err != nil {
				return err
			}
			p := newPrinter(cmd.OutOrStdout())
			v, err := e.Evaluate(strings.Join(args, " "))
			if err != nil {
				p.Failure("Error")
				return err
			}
			p.Info("%s", strconv.FormatFloat(v, 'f', -1, 64))
			return nil
		},
	}
}
