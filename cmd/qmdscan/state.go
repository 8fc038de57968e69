package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"qmdscan/internal/scanner"
)

func newStateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Encode and decode 4-byte scanner checkpoints",
	}

	decode := &cobra.Command{
		Use:   "decode HEX",
		Short: "Decode a hex checkpoint into scanner state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := hex.DecodeString(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("invalid hex checkpoint: %w", err)
			}
			st := scanner.Decode(raw)
			fmt.Fprintln(cmd.OutOrStdout(), st)
			if len(raw) < scanner.SerializedSize {
				fmt.Fprintf(cmd.ErrOrStderr(), "note: %d-byte checkpoint is shorter than %d bytes and decodes to the zero state\n", len(raw), scanner.SerializedSize)
			}
			if err := st.Validate(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			}
			return nil
		},
	}

	var (
		cell  bool
		start bool
		fence uint16
	)
	encode := &cobra.Command{
		Use:   "encode",
		Short: "Encode a scanner state as a hex checkpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := scanner.State{InExecutableCell: cell, AtCellStart: start, FenceLength: fence}
			if err := st.Validate(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(scanner.Encode(st)))
			return nil
		},
	}
	encode.Flags().BoolVar(&cell, "cell", false, "inside an executable cell")
	encode.Flags().BoolVar(&start, "start", false, "chunk options may still appear")
	encode.Flags().Uint16Var(&fence, "fence", 0, "backtick count of the opening fence")

	cmd.AddCommand(decode, encode)
	return cmd
}
