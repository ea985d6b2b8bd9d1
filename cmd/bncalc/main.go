// Command bncalc evaluates fixed-width multi-precision operations from the
// command line. Arguments and results are hexadecimal.
package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "BNCALC"

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	root := &cobra.Command{
		Use:           "bncalc",
		Short:         "Fixed-width multi-precision calculator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(v)
		},
	}
	flags := root.PersistentFlags()
	flags.String("config", "", "config file (yaml, toml or json)")
	flags.String("division", "hac", "long division: hac or classic")
	flags.String("mulmod", "classic", "modular multiplication: classic or montgomery")
	flags.String("product", "wordwise", "Montgomery product: wordwise, bitwise or perstep")
	flags.String("exp", "kary", "exponentiation: kary, bitwise or montgomery")
	flags.String("log-level", "warn", "log level")
	flags.String("log-format", "console", "log encoding: console or json")
	for _, name := range []string{"config", "division", "mulmod", "product", "exp", "log-level", "log-format"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}

	root.AddCommand(
		expModCmd(v),
		mulModCmd(v),
		divCmd(v),
		invCmd(v),
		gcdCmd(v),
		gf2mMulCmd(v),
		gf2mInvCmd(v),
		primeCmd(v),
		selfTestCmd(v),
	)
	return root
}

func main() {
	// On failure Cobra leaves printing to us since errors are silenced.
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		root.PrintErrln("error:", err)
		os.Exit(1)
	}
}
