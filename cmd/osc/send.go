package main

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/chabad360/nebosc/osc"
	"github.com/spf13/cobra"
)

var (
	sendTypes  string
	sendBundle bool
)

var sendCmd = &cobra.Command{
	Use:   "send <host:port> <address> [args...]",
	Short: "Send one OSC message",
	Long: `Send one OSC message over UDP.

Arguments are typed by --types, one character per argument:
  i  int32
  f  float32
  s  string
  b  blob, given as hex
Without --types every argument is sent as a string.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		msg, err := buildMessage(args[1], sendTypes, args[2:])
		if err != nil {
			return err
		}

		var p osc.Packet = msg
		if sendBundle {
			p = osc.NewBundle(msg)
		}

		client, err := osc.Dial(args[0], osc.WithLogger(&logger))
		if err != nil {
			return err
		}
		defer client.Close()

		if err = client.Send(p); err != nil {
			return err
		}
		logger.Info().Str("to", args[0]).Stringer("message", msg).Msg("sent")
		return nil
	},
}

func init() {
	sendCmd.Flags().StringVarP(&sendTypes, "types", "t", "", "type tag per argument, e.g. ifsb")
	sendCmd.Flags().BoolVar(&sendBundle, "bundle", false, "wrap the message in an immediate bundle")
}

// buildMessage converts command line values to typed arguments.
func buildMessage(addr, types string, values []string) (*osc.Message, error) {
	if types == "" {
		for range values {
			types += string(osc.TypeString)
		}
	}
	if len(types) != len(values) {
		return nil, fmt.Errorf("--types has %d tags for %d arguments", len(types), len(values))
	}

	msg := osc.NewMessage(addr)
	for i, v := range values {
		switch osc.TypeTag(types[i]) {
		case osc.TypeInt32:
			n, err := strconv.ParseInt(v, 0, 32)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			osc.AppendArgs(msg, int32(n))
		case osc.TypeFloat32:
			f, err := strconv.ParseFloat(v, 32)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			osc.AppendArgs(msg, float32(f))
		case osc.TypeString:
			osc.AppendArgs(msg, v)
		case osc.TypeBlob:
			b, err := hex.DecodeString(v)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			osc.AppendArgs(msg, b)
		default:
			return nil, fmt.Errorf("argument %d: %w %q", i, osc.ErrUnsupportedTypeTag, types[i])
		}
	}
	return msg, nil
}
