/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suparena/asyncquery/config"
	"github.com/suparena/asyncquery/conformance"
)

var matrixFlags struct {
	operators []string
	kinds     []string
}

var matrixCmd = &cobra.Command{
	Use:   "matrix",
	Short: "List the conformance cases",
	Args:  cobra.NoArgs,
	RunE:  listMatrix,
}

func init() {
	matrixCmd.Flags().StringSliceVar(&matrixFlags.operators, "operator", nil, "Only list these operators")
	matrixCmd.Flags().StringSliceVar(&matrixFlags.kinds, "kind", nil, "Only list these element kinds")
}

func listMatrix(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	cfg.Operators = matrixFlags.operators
	cfg.Kinds = matrixFlags.kinds

	opts, err := cfg.RunOptions()
	if err != nil {
		return err
	}

	cases := conformance.Filter(conformance.Matrix(), opts.Operators, opts.Kinds)
	out := cmd.OutOrStdout()
	for _, c := range cases {
		fmt.Fprintln(out, c.ID())
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%d cases\n", len(cases))
	return nil
}
