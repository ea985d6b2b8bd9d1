package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"bignum.mleku.dev"
	"bignum.mleku.dev/prime"
)

// opFunc runs on parsed hexadecimal arguments and prints its results.
type opFunc func(cmd *cobra.Command, e env, x []bignum.Int) error

func hexCmd(v *viper.Viper, use, short string, nargs int, run opFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(v)
			if err != nil {
				return err
			}
			defer func() { _ = e.log.Sync() }()
			x, err := parseInts(args)
			if err != nil {
				return err
			}
			if err = run(cmd, e, x); err != nil {
				e.log.Debug("operation failed", zap.String("op", cmd.Name()), zap.Error(err))
			}
			return err
		},
	}
}

func printLine(cmd *cobra.Command, a ...any) {
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), a...)
}

func expModCmd(v *viper.Viper) *cobra.Command {
	return hexCmd(v, "expmod X E N", "print X^E mod N", 3,
		func(cmd *cobra.Command, e env, x []bignum.Int) error {
			var z bignum.Int
			if err := e.arith.ExpMod(&z, &x[0], &x[1], &x[2]); err != nil {
				return err
			}
			printLine(cmd, z.Hex())
			return nil
		})
}

func mulModCmd(v *viper.Viper) *cobra.Command {
	return hexCmd(v, "mulmod X Y N", "print X*Y mod N", 3,
		func(cmd *cobra.Command, e env, x []bignum.Int) error {
			var z bignum.Int
			if err := e.arith.MulMod(&z, &x[0], &x[1], &x[2]); err != nil {
				return err
			}
			printLine(cmd, z.Hex())
			return nil
		})
}

func divCmd(v *viper.Viper) *cobra.Command {
	return hexCmd(v, "div X Y", "print X / Y and X mod Y", 2,
		func(cmd *cobra.Command, e env, x []bignum.Int) error {
			var q, r bignum.Int
			if err := e.arith.DivMod(&q, &r, &x[0], &x[1]); err != nil {
				return err
			}
			if err := bignum.CheckDivision(&q, &r, &x[0], &x[1]); err != nil {
				return errors.Wrap(err, "division self check")
			}
			printLine(cmd, q.Hex())
			printLine(cmd, r.Hex())
			return nil
		})
}

func invCmd(v *viper.Viper) *cobra.Command {
	return hexCmd(v, "inv X N", "print X^-1 mod N", 2,
		func(cmd *cobra.Command, e env, x []bignum.Int) error {
			var z bignum.Int
			if err := e.arith.InvMod(&z, &x[0], &x[1]); err != nil {
				return err
			}
			printLine(cmd, z.Hex())
			return nil
		})
}

func gcdCmd(v *viper.Viper) *cobra.Command {
	c := hexCmd(v, "gcd X Y", "print gcd(X, Y); with --extended also s and t with sX + tY = g", 2,
		func(cmd *cobra.Command, e env, x []bignum.Int) error {
			ext, _ := cmd.Flags().GetBool("extended")
			if !ext {
				g := bignum.BinaryGCD(&x[0], &x[1])
				printLine(cmd, g.Hex())
				return nil
			}
			g, s, t, err := e.arith.ExtendedGCD(&x[0], &x[1])
			if err != nil {
				return err
			}
			printLine(cmd, g.Hex())
			printLine(cmd, s.String())
			printLine(cmd, t.String())
			return nil
		})
	c.Flags().Bool("extended", false, "also print the Bezout coefficients")
	return c
}

func gf2mMulCmd(v *viper.Viper) *cobra.Command {
	return hexCmd(v, "gf2m-mul X Y P", "print X*Y mod P over GF(2)[x]", 3,
		func(cmd *cobra.Command, e env, x []bignum.Int) error {
			var z bignum.Int
			if err := z.MulModGF2m(&x[0], &x[1], &x[2]); err != nil {
				return err
			}
			printLine(cmd, z.Hex())
			return nil
		})
}

func gf2mInvCmd(v *viper.Viper) *cobra.Command {
	c := hexCmd(v, "gf2m-inv X P", "print X^-1 mod P over GF(2)[x]", 2,
		func(cmd *cobra.Command, e env, x []bignum.Int) error {
			var z bignum.Int
			var err error
			switch alg, _ := cmd.Flags().GetString("algorithm"); alg {
			case "euclid":
				err = z.InvModGF2m(&x[0], &x[1])
			case "shift":
				err = z.InvModGF2mShift(&x[0], &x[1])
			default:
				return errors.Errorf("unknown inversion algorithm %q", alg)
			}
			if err != nil {
				return err
			}
			printLine(cmd, z.Hex())
			return nil
		})
	c.Flags().String("algorithm", "euclid", "inversion: euclid or shift")
	return c
}

func primeCmd(v *viper.Viper) *cobra.Command {
	c := &cobra.Command{
		Use:   "prime [N]",
		Short: "test N for primality, or generate a prime with --bits",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(v)
			if err != nil {
				return err
			}
			defer func() { _ = e.log.Sync() }()
			bits, _ := cmd.Flags().GetInt("bits")
			safe, _ := cmd.Flags().GetBool("safe")
			rounds, _ := cmd.Flags().GetInt("rounds")
			t := prime.Tester{Arith: e.arith, Rounds: rounds}

			if len(args) == 1 {
				x, err := parseInts(args)
				if err != nil {
					return err
				}
				ok, err := t.IsProbablePrime(&x[0])
				if err != nil {
					return err
				}
				printLine(cmd, ok)
				return nil
			}
			if bits == 0 {
				return errors.New("need N or --bits")
			}
			if safe {
				p, q, err := t.GenerateSafe(bits)
				if err != nil {
					return err
				}
				e.log.Info("generated safe prime", zap.Int("bits", p.BitLen()), zap.String("q", q.Hex()))
				printLine(cmd, p.Hex())
				return nil
			}
			p, err := t.Generate(bits)
			if err != nil {
				return err
			}
			e.log.Info("generated prime", zap.Int("bits", p.BitLen()))
			printLine(cmd, p.Hex())
			return nil
		},
	}
	c.Flags().Int("bits", 0, "generate a prime of this many bits")
	c.Flags().Bool("safe", false, "generate a safe prime p = 2q + 1")
	c.Flags().Int("rounds", 0, "Miller-Rabin rounds, 0 for the default")
	return c
}
