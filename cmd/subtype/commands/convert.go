package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dantte-lp/gosubtype/internal/dotfmt"
	"github.com/dantte-lp/gosubtype/internal/localtype"
	"github.com/dantte-lp/gosubtype/internal/petrify"
)

var convertTo string

func convertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert LEFT",
		Short: "Re-emit a parsed CFSM in another format",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			f, err := loadFsm(args[0])
			if err != nil {
				return err
			}

			switch convertTo {
			case "petrify":
				fmt.Println(petrify.Print(f))
			case "local":
				fmt.Println(localtype.String[string, string](localtype.New(f)))
			case "dot":
				fmt.Print(dotfmt.Print(f))
			default:
				return fmt.Errorf("convert: unknown --to format %q (want petrify, local, or dot)", convertTo)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&convertTo, "to", "dot", "output format: petrify, local, dot")
	return cmd
}
