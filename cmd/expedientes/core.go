package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/expedientes/internal/expediente"
	"github.com/joseph-ayodele/expedientes/internal/record"
	"github.com/joseph-ayodele/expedientes/internal/textprep"
)

func classifyCmd(a *app) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "classify [file|-]",
		Short: "Report whether a text looks like a judicial case file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			text := string(data)
			if !raw {
				text = textprep.Clean(text)
			}
			signals := expediente.Signals(text)
			return a.printJSON(map[string]any{
				"has_signal": len(signals) > 0,
				"signals":    signals,
			})
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Classify the text as is, without cleanup")
	return cmd
}

func normalizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <raw>",
		Short: "Print the canonical form of a case number",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.printJSON(map[string]any{
				"raw":        args[0],
				"normalized": expediente.Normalize(args[0]),
			})
		},
	}
}

func compareCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <a> <b>",
		Short: "Report whether two case numbers denote the same case file",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.printJSON(map[string]any{
				"equivalent":   expediente.Equivalent(args[0], args[1]),
				"a_normalized": expediente.Normalize(args[0]),
				"b_normalized": expediente.Normalize(args[1]),
			})
		},
	}
}

func validateCmd(a *app) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate [record.json|-]",
		Short: "Validate an extracted record",
		Long:  "Validate a JSON record with numero and fechaInicio and print {esValido, errores}.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			rec, err := record.Decode(data, a.logger)
			if err != nil {
				return err
			}
			res := expediente.Validate(rec)
			if err := a.printJSON(res); err != nil {
				return err
			}
			if strict && !res.Valid {
				return fmt.Errorf("record is invalid")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when the record is invalid")
	return cmd
}
