package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/chabad360/nebosc/osc"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <hex>",
	Short: "Decode a hex encoded OSC packet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := hex.DecodeString(strings.Join(strings.Fields(args[0]), ""))
		if err != nil {
			return err
		}

		p, err := osc.ParsePacket(data)
		if err != nil {
			for _, e := range multierr.Errors(err) {
				fmt.Fprintln(cmd.ErrOrStderr(), e)
			}
			return fmt.Errorf("%d byte packet did not decode", len(data))
		}

		printPacket(cmd.OutOrStdout(), p, 0)
		return nil
	},
}
