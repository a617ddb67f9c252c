package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opencip/cip/internal/corerr"
)

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Inspect or edit the parameter store",
}

var paramsGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Print one parameter's current value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadParams()
		if err != nil {
			return err
		}
		v, err := store.StringValue(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, v)
		return nil
	},
}

var paramsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every registered parameter, its kind, and current value",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadParams()
		if err != nil {
			return err
		}
		for _, name := range store.Names() {
			p, err := store.Get(name)
			if err != nil {
				return err
			}
			v, err := store.StringValue(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "%s (%s) = %s\n", name, p.Kind(), v)
		}
		return nil
	},
}

var paramsSetCmd = &cobra.Command{
	Use:   "set <name> <value>",
	Short: "Set one parameter's value and write it back to --params",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if paramsPath == "" {
			return corerr.New(corerr.ParameterWrongValue, "cip params set: --params is required")
		}
		store, err := loadParams()
		if err != nil {
			return err
		}
		if err := store.SetFromString(args[0], args[1]); err != nil {
			return err
		}
		return store.WriteFilePath(paramsPath)
	},
}

func init() {
	paramsCmd.AddCommand(paramsGetCmd)
	paramsCmd.AddCommand(paramsListCmd)
	paramsCmd.AddCommand(paramsSetCmd)
}
